package game

import (
	"fmt"
	"io"
	"time"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// LogPerfStats writes a human-readable performance summary.
func (g *Game) LogPerfStats() {
	stats := g.perf.Stats()

	Logf("=== Perf @ Tick %d (speed %dx) ===", g.sim.Tick(), g.stepsPerFrame)
	Logf("Avg step time: %s (%d ticks/s)",
		stats.AvgTickDuration.Round(time.Microsecond), int(stats.TicksPerSecond))

	for phase, avg := range stats.PhaseAvg {
		Logf("  %-12s %10s  %5.1f%%", phase, avg.Round(time.Microsecond), stats.PhasePct[phase])
	}
	Logf("")
}
