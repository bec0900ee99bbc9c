package fluid

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum particle count to use parallel
// processing. Below this, single-threaded is faster due to goroutine
// overhead.
const parallelThreshold = 64

// phase identifies which per-particle pass a work chunk belongs to.
type phase uint8

const (
	phaseDensity phase = iota
	phaseForces
	phaseIntegrate
)

// workChunk represents a range of snapshot indices for a worker to
// process in one phase.
type workChunk struct {
	phase      phase
	start, end int
}

// workerScratch holds per-worker reusable buffers and counters.
// Workers read only the frozen tick snapshot and write only to their
// own chunk's output slots plus these private counters, so no locking
// is needed.
type workerScratch struct {
	neighbors []Neighbor
	bounces   int
	clamps    int
}

// parallelState holds resources for the phase worker pool.
type parallelState struct {
	scratches  []workerScratch
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
	sim      *Sim
}

func newParallelState(workers int) *parallelState {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	scratches := make([]workerScratch, workers)
	for i := range scratches {
		scratches[i].neighbors = make([]Neighbor, 0, 64)
	}
	return &parallelState{
		numWorkers: workers,
		scratches:  scratches,
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(s *Sim) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.sim = s
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(workerID int) {
	defer p.wg.Done()
	scratch := &p.scratches[workerID]

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.sim.computeChunk(chunk, scratch)
			p.doneChan <- struct{}{}
		}
	}
}

// run executes one phase over n particles, single-threaded below the
// parallel threshold. Chunking does not change results: each particle's
// inner summation order is identical either way.
func (p *parallelState) run(s *Sim, ph phase, n int) {
	if n < parallelThreshold || p.numWorkers == 1 {
		s.computeChunk(workChunk{phase: ph, start: 0, end: n}, &p.scratches[0])
		return
	}

	if !p.running {
		p.startWorkers(s)
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}

		p.workChan <- workChunk{phase: ph, start: start, end: end}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
}

// computeChunk dispatches a chunk to the pass it belongs to.
func (s *Sim) computeChunk(c workChunk, scratch *workerScratch) {
	switch c.phase {
	case phaseDensity:
		s.densityChunk(c.start, c.end, scratch)
	case phaseForces:
		s.forcesChunk(c.start, c.end, scratch)
	case phaseIntegrate:
		s.integrateChunk(c.start, c.end, scratch)
	}
}
