package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const rowHeight = 20

// Widget colors
var (
	ColorBarBg   = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill = rl.Color{R: 100, G: 160, B: 220, A: 255}
	ColorBarHigh = rl.Color{R: 220, G: 120, B: 80, A: 255}
	ColorText    = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim = rl.Color{R: 150, G: 150, B: 150, A: 255}
)

// DrawLabel renders a name/value row and returns its height.
func DrawLabel(x, y int32, name, value string) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)
	rl.DrawText(value, x+90, y, 14, ColorText)
	return rowHeight
}

// DrawBar renders a horizontal bar for value in [0, maxVal] and returns
// its height. Values past 1.0 of the scale midpoint shift the fill
// color to flag compression.
func DrawBar(x, y int32, name string, value, maxVal float32) int32 {
	ratio := value / maxVal
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}

	barWidth := int32(100)
	barHeight := int32(12)

	rl.DrawText(name, x, y, 14, ColorTextDim)

	barX := x + 90
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)

	fillColor := ColorBarFill
	if value > maxVal/2 {
		fillColor = ColorBarHigh
	}
	rl.DrawRectangle(barX, y, int32(float32(barWidth)*ratio), barHeight, fillColor)

	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barWidth+5, y, 14, ColorTextDim)

	return rowHeight
}

func sqrtf(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
