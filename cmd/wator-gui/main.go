// Command wator-gui shows the simulation in a window, one square per cell.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/lixenwraith/wa-tor/config"
	"github.com/lixenwraith/wa-tor/engine"
	"github.com/lixenwraith/wa-tor/render"
	"github.com/lixenwraith/wa-tor/scheduler"
	"github.com/lixenwraith/wa-tor/status"
)

// game adapts the scheduler to ebiten's Update/Draw/Layout cycle
type game struct {
	sched    *scheduler.Scheduler
	reg      *status.Registry
	width    int
	height   int
	cellSize int

	grid   *ebiten.Image
	pixels []byte
	cells  []engine.Entity
	energy int
}

func (g *game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace), inpututil.IsKeyJustPressed(ebiten.KeyL):
		g.sched.ToggleLoop()
	case inpututil.IsKeyJustPressed(ebiten.KeyN), inpututil.IsKeyJustPressed(ebiten.KeyPeriod),
		inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.sched.Step()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.sched.Reseed()
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	var tick uint64
	var census engine.Census
	var looping bool
	var chronon time.Duration
	g.sched.View(func(w *engine.World) {
		chronon = w.Chronon()
		g.cells = w.SnapshotInto(g.cells)
		tick = w.Tick()
		census = w.Census()
		looping = w.IsLooping()
	})

	g.pixels = render.PixelsInto(g.pixels, g.cells, g.energy)
	g.grid.WritePixels(g.pixels)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.cellSize), float64(g.cellSize))
	screen.DrawImage(g.grid, op)

	state := "paused"
	if looping {
		state = "running"
	}
	rate := g.reg.Float(status.KeyTickRate).Get()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("[%s] tick %d  chronon %dms  fish %d  sharks %d  %.1f t/s",
		state, tick, chronon.Milliseconds(), census.Fish, census.Sharks, rate))
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.width * g.cellSize, g.height * g.cellSize
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		width      = flag.Int("width", 160, "grid width")
		height     = flag.Int("height", 100, "grid height")
		cellSize   = flag.Int("cell", 6, "pixels per cell")
		seed       = flag.Uint64("seed", 0, "random seed (0 = clock)")
		debug      = flag.Bool("debug", false, "log to stderr")
	)
	flag.Parse()

	logger := log.New(io.Discard)
	if *debug {
		logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.DebugLevel, Prefix: "wator-gui"})
	}

	cfg, err := config.Load(*configPath)
	if err == nil && *seed != 0 {
		cfg.Seed = *seed
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err == nil && (*width <= 0 || *height <= 0 || *cellSize <= 0) {
		err = fmt.Errorf("%w: grid %dx%d cell %d", config.ErrInvalid, *width, *height, *cellSize)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "wator-gui: %v\n", err)
		os.Exit(2)
	}

	world := engine.NewWorld(*width, *height, cfg, engine.NewRandomSource(cfg.Seed))
	world.SetLogger(logger)
	world.Initialize()

	reg := status.NewRegistry()
	sched := scheduler.New(world, reg, logger)
	sched.Start()
	defer sched.Stop()

	g := &game{
		sched:    sched,
		reg:      reg,
		width:    *width,
		height:   *height,
		cellSize: *cellSize,
		grid:     ebiten.NewImage(*width, *height),
		energy:   cfg.SharkInitialEnergy,
	}

	ebiten.SetWindowSize(g.Layout(0, 0))
	ebiten.SetWindowTitle("Wa-Tor")
	if err := ebiten.RunGame(g); err != nil {
		logger.Error("window closed", "err", err)
		os.Exit(1)
	}
}
