// Command wator-bench measures tick throughput for a set of grid sizes.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/wa-tor/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		sizesFlag  = flag.String("sizes", "80x24,160x100,320x200,640x400", "comma separated grid sizes")
		ticks      = flag.Int("ticks", 1000, "ticks per size")
		seed       = flag.Uint64("seed", 1, "random seed shared by every size")
		parallel   = flag.Int("parallel", 1, "sizes run at once; >1 skews per-run CPU figures")
		out        = flag.String("out", "", "append results to this CSV file (default stdout)")
	)
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "wator-bench"})

	if err := run(*configPath, *sizesFlag, *ticks, *seed, *parallel, *out, logger); err != nil {
		logger.Error("benchmark failed", "err", err)
		os.Exit(1)
	}
}

func run(configPath, sizesFlag string, ticks int, seed uint64, parallel int, out string, logger *log.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg.Seed = seed
	if err := cfg.Validate(); err != nil {
		return err
	}
	if ticks <= 0 || parallel <= 0 {
		return fmt.Errorf("%w: ticks and parallel must be positive", config.ErrInvalid)
	}

	sizes, err := parseSizes(sizesFlag)
	if err != nil {
		return err
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		logger.Warn("process stats unavailable", "err", err)
		proc = nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	results := make([]result, len(sizes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, size := range sizes {
		g.Go(func() error {
			logger.Info("running", "grid", size, "ticks", ticks)
			res, err := runBench(gctx, size, ticks, cfg, proc)
			if err != nil {
				return fmt.Errorf("grid %s: %w", size, err)
			}
			logger.Info("done", "grid", size, "ticks_per_sec", fmt.Sprintf("%.1f", res.ticksPerSecond()))
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if out == "" {
		return writeCSV(os.Stdout, results, true)
	}
	return appendCSV(out, results)
}
