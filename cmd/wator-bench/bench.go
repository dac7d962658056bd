package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/lixenwraith/wa-tor/config"
	"github.com/lixenwraith/wa-tor/engine"
)

type gridSize struct {
	width, height int
}

func (s gridSize) String() string { return fmt.Sprintf("%dx%d", s.width, s.height) }

// parseSizes reads a comma list such as "80x24,160x100"
func parseSizes(list string) ([]gridSize, error) {
	var sizes []gridSize
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		w, h, ok := strings.Cut(part, "x")
		if !ok {
			return nil, fmt.Errorf("size %q: want WIDTHxHEIGHT", part)
		}
		width, err := strconv.Atoi(w)
		if err != nil {
			return nil, fmt.Errorf("size %q: %w", part, err)
		}
		height, err := strconv.Atoi(h)
		if err != nil {
			return nil, fmt.Errorf("size %q: %w", part, err)
		}
		if width <= 0 || height <= 0 {
			return nil, fmt.Errorf("size %q: %w", part, config.ErrInvalid)
		}
		sizes = append(sizes, gridSize{width, height})
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no grid sizes given")
	}
	return sizes, nil
}

type result struct {
	size        gridSize
	ticks       int
	elapsed     time.Duration
	cpuSeconds  float64
	rssBytes    uint64
	finalFish   int
	finalSharks int
}

func (r result) ticksPerSecond() float64 {
	if r.elapsed <= 0 {
		return 0
	}
	return float64(r.ticks) / r.elapsed.Seconds()
}

// runBench seeds one grid and runs it for ticks chronons without a scheduler
// proc may be nil when process stats are unavailable
func runBench(ctx context.Context, size gridSize, ticks int, cfg config.Config, proc *process.Process) (result, error) {
	world := engine.NewWorld(size.width, size.height, cfg, engine.NewRandomSource(cfg.Seed))
	world.Initialize()

	cpuBefore := cpuTime(proc)
	start := time.Now()
	for i := 0; i < ticks; i++ {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return result{}, err
			}
		}
		world.Simulate()
	}
	elapsed := time.Since(start)

	res := result{
		size:       size,
		ticks:      ticks,
		elapsed:    elapsed,
		cpuSeconds: cpuTime(proc) - cpuBefore,
	}
	if proc != nil {
		if mem, err := proc.MemoryInfoWithContext(ctx); err == nil {
			res.rssBytes = mem.RSS
		}
	}
	c := world.Census()
	res.finalFish, res.finalSharks = c.Fish, c.Sharks
	return res, nil
}

func cpuTime(proc *process.Process) float64 {
	if proc == nil {
		return 0
	}
	t, err := proc.Times()
	if err != nil {
		return 0
	}
	return t.User + t.System
}

var csvHeader = []string{"grid", "cells", "ticks", "seconds", "ticks_per_sec", "cpu_seconds", "rss_bytes", "fish", "sharks"}

// writeCSV writes a header when header is set, then one row per result
func writeCSV(w io.Writer, results []result, header bool) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(csvHeader); err != nil {
			return err
		}
	}
	for _, r := range results {
		row := []string{
			r.size.String(),
			strconv.Itoa(r.size.width * r.size.height),
			strconv.Itoa(r.ticks),
			strconv.FormatFloat(r.elapsed.Seconds(), 'f', 4, 64),
			strconv.FormatFloat(r.ticksPerSecond(), 'f', 2, 64),
			strconv.FormatFloat(r.cpuSeconds, 'f', 4, 64),
			strconv.FormatUint(r.rssBytes, 10),
			strconv.Itoa(r.finalFish),
			strconv.Itoa(r.finalSharks),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// appendCSV appends to path, writing the header only into an empty file
func appendCSV(path string, results []result) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := writeCSV(f, results, info.Size() == 0); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
