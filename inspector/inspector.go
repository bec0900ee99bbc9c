// Package inspector renders a detail panel for a single selected
// particle: position, velocity, and the field values from the last
// completed tick.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/brine/components"
)

// Panel dimensions
const (
	PanelWidth   = 260
	PanelPadding = 10
	HeaderHeight = 26

	// World-space pick radius around the click point.
	pickRadius = 12.0
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorHighlight   = rl.Color{R: 255, G: 220, B: 100, A: 255}
)

// Inspector manages particle selection and panel rendering. Selection
// is by snapshot index, which stays stable until the population is
// rebuilt; the driver must call Deselect on reset.
type Inspector struct {
	selected int
	active   bool

	panelX int32
	panelY int32
}

// New creates an inspector whose panel docks to the top-right corner.
func New(screenWidth, screenHeight int32) *Inspector {
	return &Inspector{
		selected: -1,
		panelX:   screenWidth - PanelWidth - 10,
		panelY:   10,
	}
}

// Selected returns the selected snapshot index, if any.
func (ins *Inspector) Selected() (int, bool) {
	return ins.selected, ins.active
}

// Deselect clears the selection.
func (ins *Inspector) Deselect() {
	ins.selected = -1
	ins.active = false
}

// Resize repositions the panel after a window resize.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelY = 10
}

// HandleClick processes a left click. screenX/screenY are used for
// panel hit-testing, worldX/worldY for particle picking against the
// given positions. Returns true if the click was consumed.
func (ins *Inspector) HandleClick(screenX, screenY int32, worldX, worldY float32, positions []components.Position) bool {
	if ins.active {
		// Close button
		closeX := ins.panelX + PanelWidth - 22
		closeY := ins.panelY + 4
		if screenX >= closeX && screenX <= closeX+18 &&
			screenY >= closeY && screenY <= closeY+18 {
			ins.Deselect()
			return true
		}

		// Clicks inside the panel do nothing
		if screenX >= ins.panelX && screenX <= ins.panelX+PanelWidth &&
			screenY >= ins.panelY && screenY <= ins.panelY+ins.panelHeight() {
			return true
		}
	}

	// Pick the nearest particle within the pick radius
	best := -1
	bestDist := float32(pickRadius * pickRadius)
	for i := range positions {
		dx := positions[i].X - worldX
		dy := positions[i].Y - worldY
		d := dx*dx + dy*dy
		if d < bestDist {
			bestDist = d
			best = i
		}
	}

	if best < 0 {
		ins.Deselect()
		return false
	}

	ins.selected = best
	ins.active = true
	return true
}

// panelHeight returns the current panel height in pixels.
func (ins *Inspector) panelHeight() int32 {
	return HeaderHeight + 7*rowHeight + 2*PanelPadding
}

// Draw renders the panel for the selected particle. The caller passes
// the particle's current state; Draw does nothing without a selection.
func (ins *Inspector) Draw(pos components.Position, vel components.Velocity, field components.Field, restDensity float32) {
	if !ins.active {
		return
	}

	h := ins.panelHeight()
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, h, ColorPanelBg)
	rl.DrawRectangleLines(ins.panelX, ins.panelY, PanelWidth, h, ColorPanelBorder)

	// Header with close button
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(fmt.Sprintf("Particle %d", ins.selected),
		ins.panelX+PanelPadding, ins.panelY+5, 16, ColorHeaderText)
	rl.DrawRectangle(ins.panelX+PanelWidth-22, ins.panelY+4, 18, 18, ColorCloseBtn)
	rl.DrawText("x", ins.panelX+PanelWidth-17, ins.panelY+5, 16, ColorHeaderText)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding

	speed := sqrtf(vel.X*vel.X + vel.Y*vel.Y)

	y += DrawLabel(x, y, "position", fmt.Sprintf("%.1f, %.1f", pos.X, pos.Y))
	y += DrawLabel(x, y, "velocity", fmt.Sprintf("%.2f, %.2f", vel.X, vel.Y))
	y += DrawLabel(x, y, "speed", fmt.Sprintf("%.2f", speed))
	y += DrawLabel(x, y, "density", fmt.Sprintf("%.4f", field.Density))
	y += DrawLabel(x, y, "pressure", fmt.Sprintf("%.1f", field.Pressure))

	// Compression relative to rest density
	var ratio float32
	if restDensity > 0 {
		ratio = field.Density / restDensity
	}
	DrawBar(x, y, "compression", ratio, 2.0)
}

// DrawMarker highlights the selected particle in the world view.
func (ins *Inspector) DrawMarker(screenX, screenY, radius float32) {
	if !ins.active {
		return
	}
	rl.DrawCircleLines(int32(screenX), int32(screenY), radius+3, ColorHighlight)
}
