package render

import (
	"image/color"

	"github.com/lixenwraith/wa-tor/engine"
)

// Shade is the display class of a cell, shared by the terminal and GUI frontends
type Shade uint8

const (
	ShadeEmpty Shade = iota
	ShadeFish
	ShadeFishYoung
	ShadeShark
	ShadeSharkWeak
)

// Palette maps shades to RGB
var Palette = [...]color.RGBA{
	ShadeEmpty:     {26, 27, 38, 255},    // Tokyo Night background
	ShadeFish:      {100, 150, 255, 255}, // Normal Blue
	ShadeFishYoung: {140, 190, 255, 255}, // Bright Blue
	ShadeShark:     {255, 80, 80, 255},   // Normal Red
	ShadeSharkWeak: {180, 50, 50, 255},   // Dark Red
}

// ShadeOf classifies e; fish too young to breed and sharks below half their
// starting energy get the dimmer shade
func ShadeOf(e engine.Entity, initialEnergy int) Shade {
	switch e.Kind {
	case engine.KindFish:
		if !e.CanReproduce() {
			return ShadeFishYoung
		}
		return ShadeFish
	case engine.KindShark:
		if e.Energy < initialEnergy/2+1 {
			return ShadeSharkWeak
		}
		return ShadeShark
	default:
		return ShadeEmpty
	}
}

// PixelsInto writes one RGBA pixel per cell, reusing dst when large enough
func PixelsInto(dst []byte, cells []engine.Entity, initialEnergy int) []byte {
	n := len(cells) * 4
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i, e := range cells {
		c := Palette[ShadeOf(e, initialEnergy)]
		p := dst[i*4 : i*4+4]
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
	}
	return dst
}
