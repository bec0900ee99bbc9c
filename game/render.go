package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/brine/components"
)

// Draw renders the current frame: particles colored by local density,
// HUD text, and the parameter panel when visible.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(24, 26, 34, 255))

	g.drawParticles()
	g.drawInspector()
	g.drawHUD()
	if g.showPanel {
		g.drawPanel()
	}

	rl.EndDrawing()
}

// drawParticles draws every particle, shading from deep blue at rest
// density toward cyan in compressed regions.
func (g *Game) drawParticles() {
	g.positions = g.sim.SnapshotInto(g.positions[:0])
	g.fields = g.sim.FieldsInto(g.fields[:0])

	rest := g.sim.Params().RestDensity
	radius := clamp32(4*g.cam.Zoom, 1, 12)

	for i, pos := range g.positions {
		if !g.cam.IsVisible(pos.X, pos.Y, radius) {
			continue
		}

		var ratio float32
		if i < len(g.fields) && rest > 0 {
			ratio = clamp32(g.fields[i].Density/rest, 0, 2) / 2
		}

		sx, sy := g.cam.WorldToScreen(pos.X, pos.Y)
		color := rl.NewColor(uint8(40+120*ratio), uint8(120+100*ratio), 255, 255)
		rl.DrawCircle(int32(sx), int32(sy), radius, color)
	}
}

// drawInspector highlights the selected particle and renders its
// detail panel. drawParticles has already refreshed the position and
// field buffers for this frame.
func (g *Game) drawInspector() {
	idx, ok := g.ins.Selected()
	if !ok {
		return
	}
	if idx >= len(g.positions) {
		g.ins.Deselect()
		return
	}

	pos := g.positions[idx]
	sx, sy := g.cam.WorldToScreen(pos.X, pos.Y)
	g.ins.DrawMarker(sx, sy, clamp32(4*g.cam.Zoom, 1, 12))

	g.vels = g.sim.VelocitiesInto(g.vels[:0])
	var vel components.Velocity
	if idx < len(g.vels) {
		vel = g.vels[idx]
	}
	var field components.Field
	if idx < len(g.fields) {
		field = g.fields[idx]
	}
	g.ins.Draw(pos, vel, field, g.sim.Params().RestDensity)
}

// drawHUD draws the status line.
func (g *Game) drawHUD() {
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 10, 10, 20, rl.Yellow)
	rl.DrawText(fmt.Sprintf("%d particles", g.sim.Count()), 10, 34, 20, rl.Yellow)
	rl.DrawText(fmt.Sprintf("tick %d  speed %dx", g.sim.Tick(), g.stepsPerFrame), 10, 58, 20, rl.Yellow)

	if g.paused {
		rl.DrawText("PAUSED", 10, 82, 20, rl.Red)
	}

	rl.DrawText("R reset | Space pause | Tab panel | +/- speed | wheel zoom | RMB pan | LMB inspect",
		10, int32(g.config().Screen.Height)-26, 10, rl.LightGray)
}
