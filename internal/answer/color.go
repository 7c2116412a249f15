package answer

import (
	"fmt"
	"math"
)

// Color is an opaque RGB color.
type Color struct {
	R, G, B uint8
}

// Hex formats c as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var (
	// NotRatedColor is shown while nothing on the checklist is checked.
	NotRatedColor = Color{0x9e, 0x9e, 0x9e}

	// ratingStops are evenly spaced at 0, 0.25, 0.5, 0.75 and 1.0.
	ratingStops = [...]Color{
		{0xf4, 0x43, 0x36}, // quality zero (red)
		{0xff, 0x98, 0x00}, // orange
		{0xff, 0xc1, 0x07}, // amber
		{0x4c, 0xaf, 0x50}, // green
		{0x21, 0x96, 0xf3}, // blue
	}
)

// LiveColor maps the checklist completion ratio onto the rating gradient.
func LiveColor(items []ChecklistItem) Color {
	if !IsRated(items) {
		return NotRatedColor
	}
	return GradientColor(CompletionRatio(items))
}

// GradientColor interpolates the rating gradient at ratio, clamped to [0,1].
func GradientColor(ratio float64) Color {
	ratio = math.Max(0, math.Min(1, ratio))
	segments := float64(len(ratingStops) - 1)
	pos := ratio * segments
	i := int(math.Floor(pos))
	if i >= len(ratingStops)-1 {
		return ratingStops[len(ratingStops)-1]
	}
	return lerp(ratingStops[i], ratingStops[i+1], pos-float64(i))
}

func lerp(a, b Color, t float64) Color {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return Color{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B)}
}
