package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// handleInput processes keyboard and mouse input for the frame.
func (g *Game) handleInput() {
	// Simulation control
	if rl.IsKeyPressed(rl.KeyR) {
		g.restart()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.showPanel = !g.showPanel
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.LogPerfStats()
	}

	// Speed multiplier (ticks per frame)
	if rl.IsKeyPressed(rl.KeyEqual) && g.stepsPerFrame < 16 {
		g.stepsPerFrame++
	}
	if rl.IsKeyPressed(rl.KeyMinus) && g.stepsPerFrame > 1 {
		g.stepsPerFrame--
	}

	// Particle selection
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		mouse := rl.GetMousePosition()
		wx, wy := g.cam.ScreenToWorld(mouse.X, mouse.Y)
		g.positions = g.sim.SnapshotInto(g.positions[:0])
		g.ins.HandleClick(int32(mouse.X), int32(mouse.Y), wx, wy, g.positions)
	}

	// Zoom at cursor
	wheel := rl.GetMouseWheelMove()
	if wheel != 0 {
		factor := float32(1.0) + wheel*0.1
		g.cam.ZoomBy(factor)
	}

	// Pan with right mouse drag
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		delta := rl.GetMouseDelta()
		g.cam.Pan(-delta.X, -delta.Y)
	}
}
