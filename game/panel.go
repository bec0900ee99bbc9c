package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// drawPanel renders the parameter panel. Slider values take effect on
// the next reset: the solver constants are fixed for a run.
func (g *Game) drawPanel() {
	const (
		panelX = 10
		panelW = 300
		rowH   = 28
	)
	panelY := int32(110)

	rl.DrawRectangle(panelX-4, panelY-4, panelW+8, rowH*5+8, rl.NewColor(0, 0, 0, 160))

	y := float32(panelY)

	g.panelGas = gui.SliderBar(
		rl.Rectangle{X: panelX + 90, Y: y, Width: panelW - 140, Height: 20},
		"stiffness", fmt.Sprintf("%.0f", g.panelGas),
		g.panelGas, 100, 8000,
	)
	y += rowH

	g.panelViscosity = gui.SliderBar(
		rl.Rectangle{X: panelX + 90, Y: y, Width: panelW - 140, Height: 20},
		"viscosity", fmt.Sprintf("%.0f", g.panelViscosity),
		g.panelViscosity, 0, 1000,
	)
	y += rowH

	g.panelGravityY = gui.SliderBar(
		rl.Rectangle{X: panelX + 90, Y: y, Width: panelW - 140, Height: 20},
		"gravity", fmt.Sprintf("%.1f", g.panelGravityY),
		g.panelGravityY, -50, 0,
	)
	y += rowH + 6

	if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 140, Height: 24}, "Apply & Reset") {
		g.restart()
	}
	if gui.Button(rl.Rectangle{X: panelX + 150, Y: y, Width: 140, Height: 24}, "Reset View") {
		g.cam.Reset()
	}
}
