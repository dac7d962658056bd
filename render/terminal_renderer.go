package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/wa-tor/engine"
	"github.com/lixenwraith/wa-tor/status"
)

// statusBarHeight is the number of rows reserved below the grid
const statusBarHeight = 1

// TerminalRenderer draws the visible part of the grid and a status bar
type TerminalRenderer struct {
	screen tcell.Screen
	reg    *status.Registry

	// Cached styles
	bgStyle     tcell.Style
	statusStyle tcell.Style
}

// NewTerminalRenderer creates a renderer bound to screen; reg may be nil
func NewTerminalRenderer(screen tcell.Screen, reg *status.Registry) *TerminalRenderer {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &TerminalRenderer{
		screen:      screen,
		reg:         reg,
		bgStyle:     tcell.StyleDefault.Background(RgbBackground),
		statusStyle: tcell.StyleDefault.Foreground(RgbStatusBar).Background(RgbStatusBg),
	}
}

// Viewport returns how many columns and rows of the world fit on screen
func Viewport(screenW, screenH, worldW, worldH int) (int, int) {
	vw := min(screenW, worldW)
	vh := min(screenH-statusBarHeight, worldH)
	return max(vw, 0), max(vh, 0)
}

// RenderFrame draws one frame; the caller holds the world exclusively
func (r *TerminalRenderer) RenderFrame(w *engine.World) {
	r.screen.Clear()
	screenW, screenH := r.screen.Size()
	vw, vh := Viewport(screenW, screenH, w.Width(), w.Height())

	r.drawGrid(w, vw, vh)
	r.drawStatusBar(w, vw, vh, screenW, screenH)

	r.screen.Show()
}

func (r *TerminalRenderer) drawGrid(w *engine.World, vw, vh int) {
	cfg := w.Config()
	for y := 0; y < vh; y++ {
		for x := 0; x < vw; x++ {
			ch, style := r.cellStyle(w.At(x, y), cfg.SharkInitialEnergy)
			r.screen.SetContent(x, y, ch, nil, style)
		}
	}
}

func (r *TerminalRenderer) cellStyle(e engine.Entity, initialEnergy int) (rune, tcell.Style) {
	fg := shadeColors[ShadeOf(e, initialEnergy)]
	switch e.Kind {
	case engine.KindFish:
		return GlyphFish, r.bgStyle.Foreground(fg)
	case engine.KindShark:
		return GlyphShark, r.bgStyle.Foreground(fg).Bold(true)
	default:
		return GlyphEmpty, r.bgStyle
	}
}

// drawStatusBar reports the counts of the visible viewport
// The counts use the world's linear-prefix area query
func (r *TerminalRenderer) drawStatusBar(w *engine.World, vw, vh, screenW, screenH int) {
	row := screenH - statusBarHeight
	if row < 0 {
		return
	}

	for x := 0; x < screenW; x++ {
		r.screen.SetContent(x, row, ' ', nil, r.statusStyle)
	}

	state, stateColor := "paused", RgbPaused
	if w.IsLooping() {
		state, stateColor = "running", RgbLooping
	}

	x := r.drawText(0, row, fmt.Sprintf(" [%s] ", state), r.statusStyle.Foreground(stateColor).Bold(true))
	text := fmt.Sprintf("tick %d  chronon %dms  fish %d  sharks %d  %.0f t/s  |  space/l:loop n/s:step r:reseed q:quit",
		w.Tick(),
		w.Chronon().Milliseconds(),
		w.NumFishInArea(vw, vh),
		w.NumSharksInArea(vw, vh),
		r.reg.Float(status.KeyTickRate).Get(),
	)
	r.drawText(x, row, text, r.statusStyle)
}

func (r *TerminalRenderer) drawText(x, y int, text string, style tcell.Style) int {
	screenW, _ := r.screen.Size()
	for _, ch := range text {
		if x >= screenW {
			break
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}
