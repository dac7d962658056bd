package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/wa-tor/audio"
	"github.com/lixenwraith/wa-tor/config"
	"github.com/lixenwraith/wa-tor/core"
	"github.com/lixenwraith/wa-tor/history"
	"github.com/lixenwraith/wa-tor/parameter"
	"github.com/lixenwraith/wa-tor/render"
	"github.com/lixenwraith/wa-tor/scheduler"
	"github.com/lixenwraith/wa-tor/status"
	"github.com/lixenwraith/wa-tor/stream"
)

// errQuit ends the errgroup when the user quits
var errQuit = errors.New("quit")

// options are the resolved command-line settings
type options struct {
	cfg         config.Config
	width       int
	height      int
	sound       bool
	history     string
	historyPath string
	listen      string
	debug       bool
}

func parseOptions(args []string) (options, error) {
	fs := flag.NewFlagSet("wator", flag.ContinueOnError)
	var (
		configPath  = fs.String("config", "", "YAML config file")
		width       = fs.Int("width", 0, "grid width (0 = fit terminal)")
		height      = fs.Int("height", 0, "grid height (0 = fit terminal)")
		seed        = fs.Uint64("seed", 0, "random seed (0 = clock)")
		strictEdges = fs.Bool("strict-edges", false, "reject neighbors that wrap into the adjacent row")
		chronon     = fs.Int("chronon", 0, "tick duration in ms")
		sound       = fs.Bool("sound", false, "play a tone per tick")
		hist        = fs.String("history", "", "population history backend: memory or sqlite")
		histPath    = fs.String("history-path", "wator-history.db", "sqlite history file")
		listen      = fs.String("listen", "", "serve the WebSocket stream on this address")
		debug       = fs.Bool("debug", false, "write debug log to logs/wator.log")
	)
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return options{}, err
	}

	// Flags override the file only when given
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = *seed
		case "strict-edges":
			cfg.StrictEdges = *strictEdges
		case "chronon":
			cfg.TickDurationMs = *chronon
		}
	})
	if err := cfg.Validate(); err != nil {
		return options{}, err
	}
	if *width < 0 || *height < 0 {
		return options{}, fmt.Errorf("%w: negative grid size %dx%d", config.ErrInvalid, *width, *height)
	}

	return options{
		cfg:         cfg,
		width:       *width,
		height:      *height,
		sound:       *sound,
		history:     *hist,
		historyPath: *histPath,
		listen:      *listen,
		debug:       *debug,
	}, nil
}

// fitScreen fills zero dimensions from the screen, leaving a status row
func fitScreen(opts options, screenW, screenH int) options {
	if opts.width == 0 {
		opts.width = max(screenW, 1)
	}
	if opts.height == 0 {
		opts.height = max(screenH-1, 1)
	}
	return opts
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "wator: %v\n", err)
		os.Exit(2)
	}

	logger, logFile := setupLogging(opts.debug)
	if logFile != nil {
		defer logFile.Close()
	}

	if err := run(opts, logger); err != nil {
		fmt.Fprintf(os.Stderr, "wator: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, logger *log.Logger) error {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	core.SetResetHook(screen.Fini)
	defer func() {
		core.SetResetHook(nil)
		screen.Fini()
	}()

	screenW, screenH := screen.Size()
	opts = fitScreen(opts, screenW, screenH)

	world := worldFor(opts, logger)
	reg := status.NewRegistry()
	sched := scheduler.New(world, reg, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if opts.sound {
		cue := audio.NewCue(0.3)
		if err := cue.Init(); err != nil {
			logger.Warn("audio unavailable, continuing without sound", "err", err)
		} else {
			defer cue.Close()
			sched.AddObserver(cue)
		}
	}

	if opts.history != "" {
		rec, closeStore, err := openHistory(ctx, opts, logger)
		if err != nil {
			logger.Error("history disabled", "err", err)
		} else {
			defer closeStore()
			defer rec.Flush()
			sched.AddObserver(rec)
		}
	}

	var hub *stream.Hub
	if opts.listen != "" {
		hub = stream.NewHub(logger)
		defer hub.Close()
		sched.AddObserver(hub)
	}

	sched.Start()
	defer sched.Stop()

	a := &app{
		screen:   screen,
		sched:    sched,
		renderer: render.NewTerminalRenderer(screen, reg),
		logger:   logger,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.run(gctx) })
	if hub != nil {
		srv := &http.Server{Addr: opts.listen, Handler: hub}
		g.Go(func() error {
			logger.Info("stream listening", "addr", opts.listen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				// The simulation keeps running without viewers
				logger.Error("stream server stopped", "err", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), parameter.StreamWriteTimeout)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	if errors.Is(err, errQuit) {
		err = nil
	}
	logger.Info("exiting", "ticks", reg.Int(status.KeyTicks).Load())
	return err
}

func openHistory(ctx context.Context, opts options, logger *log.Logger) (*history.Recorder, func(), error) {
	store, err := history.NewStore(opts.history, opts.historyPath)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, nil, fmt.Errorf("init %s history: %w", opts.history, err)
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			logger.Error("close history", "err", err)
		}
	}
	// Writes outlive the signal context so the final flush still lands
	return history.NewRecorder(context.WithoutCancel(ctx), store, opts.cfg, logger), closeStore, nil
}
