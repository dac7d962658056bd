package main

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/wa-tor/core"
	"github.com/lixenwraith/wa-tor/engine"
	"github.com/lixenwraith/wa-tor/parameter"
	"github.com/lixenwraith/wa-tor/render"
	"github.com/lixenwraith/wa-tor/scheduler"
)

// app owns the screen and translates keys into scheduler requests
type app struct {
	screen   tcell.Screen
	sched    *scheduler.Scheduler
	renderer *render.TerminalRenderer
	logger   *log.Logger
}

// action is the outcome of one input event
type action int

const (
	actionNone action = iota
	actionQuit
	actionRedraw
)

func (a *app) handleInput(ev tcell.Event) action {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return actionQuit
		case tcell.KeyRune:
		default:
			return actionNone
		}

		switch ev.Rune() {
		case 'q':
			return actionQuit
		case ' ', 'l':
			a.sched.ToggleLoop()
			return actionRedraw
		case 'n', '.', 's':
			if !a.sched.Step() {
				a.logger.Debug("step queue full")
			}
			return actionNone
		case 'r':
			a.sched.Reseed()
			return actionRedraw
		}

	case *tcell.EventResize:
		a.screen.Sync()
		return actionRedraw
	}
	return actionNone
}

func (a *app) draw() {
	a.sched.View(a.renderer.RenderFrame)
}

// run redraws on a fixed frame interval until quit or ctx is done
func (a *app) run(ctx context.Context) error {
	ticker := time.NewTicker(parameter.FrameUpdateInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	core.Go(func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				// Screen finalized
				return
			}
			select {
			case eventChan <- ev:
			case <-quit:
				return
			}
		}
	})

	a.draw()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-eventChan:
			switch a.handleInput(ev) {
			case actionQuit:
				return errQuit
			case actionRedraw:
				a.draw()
			}

		case <-ticker.C:
			a.draw()
		}
	}
}

// worldFor builds a seeded world from resolved options
func worldFor(opts options, logger *log.Logger) *engine.World {
	world := engine.NewWorld(opts.width, opts.height, opts.cfg, engine.NewRandomSource(opts.cfg.Seed))
	world.SetLogger(logger)
	world.Initialize()
	return world
}
