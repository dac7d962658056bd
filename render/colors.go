package render

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
)

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

var (
	RgbBackground = rgb(Palette[ShadeEmpty])
	RgbFish       = rgb(Palette[ShadeFish])
	RgbFishYoung  = rgb(Palette[ShadeFishYoung])
	RgbShark      = rgb(Palette[ShadeShark])
	RgbSharkWeak  = rgb(Palette[ShadeSharkWeak])
	RgbStatusBar  = tcell.NewRGBColor(255, 255, 255)
	RgbStatusBg   = tcell.NewRGBColor(40, 42, 54)
	RgbLooping    = tcell.NewRGBColor(0, 200, 0)
	RgbPaused     = tcell.NewRGBColor(255, 165, 0)
)

// Cell glyphs
const (
	GlyphFish  = '•'
	GlyphShark = '▲'
	GlyphEmpty = ' '
)

var shadeColors = [...]tcell.Color{
	ShadeEmpty:     RgbBackground,
	ShadeFish:      RgbFish,
	ShadeFishYoung: RgbFishYoung,
	ShadeShark:     RgbShark,
	ShadeSharkWeak: RgbSharkWeak,
}
