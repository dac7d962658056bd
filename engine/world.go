package engine

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lixenwraith/wa-tor/config"
	"github.com/lixenwraith/wa-tor/parameter"
)

// Census is a population count over some set of cells
type Census struct {
	Fish   int
	Sharks int
	Empty  int
}

// Total returns the number of cells counted
func (c Census) Total() int {
	return c.Fish + c.Sharks + c.Empty
}

// World is a fixed-size row-major grid of entities, index i = x + width*y
// Not safe for concurrent use; the caller serializes access
type World struct {
	width, height int
	cells         []Entity

	cfg    config.Config
	rng    RandomSource
	logger *log.Logger

	seeded  bool
	looping bool
	tick    uint64
	initial Census

	// Scratch for neighbor partitioning, reused across cells
	empties []int
	prey    []int
}

// NewWorld creates an all-Empty grid; panics on a zero or negative area
func NewWorld(width, height int, cfg config.Config, rng RandomSource) *World {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("engine: invalid world size %dx%d", width, height))
	}
	if rng == nil {
		panic("engine: nil random source")
	}
	return &World{
		width:   width,
		height:  height,
		cells:   make([]Entity, width*height),
		cfg:     cfg,
		rng:     rng,
		logger:  log.New(io.Discard),
		empties: make([]int, 0, 4),
		prey:    make([]int, 0, 4),
	}
}

// SetLogger replaces the discard logger; nil restores discard
func (w *World) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	w.logger = l
}

// Initialize seeds every cell independently: shark with the first draw,
// otherwise fish with a second draw, otherwise empty
func (w *World) Initialize() {
	for i := range w.cells {
		switch {
		case w.rng.Float64() < parameter.SharkSeedChance:
			w.cells[i] = NewShark(0, w.cfg.SharkInitialEnergy)
		case w.rng.Float64() < parameter.FishSeedChance:
			w.cells[i] = NewFish(0)
		default:
			w.cells[i] = Empty
		}
	}
	w.markSeeded()
}

// Load installs an explicit grid in place of random seeding
// Panics when len(cells) does not match the world area
func (w *World) Load(cells []Entity) {
	if len(cells) != len(w.cells) {
		panic(fmt.Sprintf("engine: load of %d cells into %dx%d world", len(cells), w.width, w.height))
	}
	copy(w.cells, cells)
	w.markSeeded()
}

func (w *World) markSeeded() {
	w.seeded = true
	w.tick = 0
	w.initial = w.Census()
	w.logger.Debug("world seeded",
		"width", w.width, "height", w.height,
		"fish", w.initial.Fish, "sharks", w.initial.Sharks, "empty", w.initial.Empty)
}

// Simulate advances one chronon with a single in-place pass in ascending
// index order. An entity moved to a higher index is visited again later in
// the same pass and may act twice; one moved lower is not revisited.
func (w *World) Simulate() {
	if !w.seeded {
		panic("engine: Simulate called before Initialize")
	}

	for i := range w.cells {
		cell := &w.cells[i]
		if cell.IsEmpty() {
			continue
		}

		x, y := i%w.width, i/w.width

		cell.Deprive()
		if cell.IsDead(w.cfg) {
			*cell = Empty
			continue
		}

		w.partitionNeighbors(x, y)

		switch cell.Kind {
		case KindFish:
			if len(w.empties) > 0 {
				w.move(i, w.pick(w.empties), false)
			}
		case KindShark:
			switch {
			case len(w.prey) > 0:
				w.move(i, w.pick(w.prey), true)
			case len(w.empties) > 0:
				w.move(i, w.pick(w.empties), false)
			}
		}
	}

	w.tick++
}

// move copies the mover to dst, then leaves offspring or Empty at src
func (w *World) move(src, dst int, eat bool) {
	mover := w.cells[src]
	if eat {
		mover.GainEnergy()
	}
	w.cells[dst] = mover

	if mover.CanReproduce() {
		w.cells[src] = mover.SpawnNew(w.cfg)
	} else {
		w.cells[src] = Empty
	}
}

func (w *World) pick(candidates []int) int {
	return candidates[w.rng.IntN(len(candidates))]
}

// Cells returns a copy of the grid in row-major order
func (w *World) Cells() []Entity {
	return w.SnapshotInto(nil)
}

// SnapshotInto copies the grid into dst, growing it when short
func (w *World) SnapshotInto(dst []Entity) []Entity {
	if cap(dst) < len(w.cells) {
		dst = make([]Entity, len(w.cells))
	}
	dst = dst[:len(w.cells)]
	copy(dst, w.cells)
	return dst
}

// At returns the entity at (x, y); panics when out of range
func (w *World) At(x, y int) Entity {
	if x < 0 || x >= w.width || y < 0 || y >= w.height {
		panic(fmt.Sprintf("engine: cell (%d,%d) outside %dx%d world", x, y, w.width, w.height))
	}
	return w.cells[x+w.width*y]
}

// Census counts the whole grid
func (w *World) Census() Census {
	return w.censusPrefix(len(w.cells))
}

// SeededCensus returns the counts taken when the grid was last seeded
func (w *World) SeededCensus() Census {
	return w.initial
}

// NumFishInArea counts fish among the first maxW*maxH cells in linear
// order; this is a prefix of the grid, not a rectangle of it
func (w *World) NumFishInArea(maxW, maxH int) int {
	return w.censusPrefix(prefixLen(maxW, maxH, len(w.cells))).Fish
}

// NumSharksInArea counts sharks over the same linear prefix as NumFishInArea
func (w *World) NumSharksInArea(maxW, maxH int) int {
	return w.censusPrefix(prefixLen(maxW, maxH, len(w.cells))).Sharks
}

func prefixLen(maxW, maxH, n int) int {
	if maxW <= 0 || maxH <= 0 {
		return 0
	}
	if maxW*maxH > n {
		return n
	}
	return maxW * maxH
}

func (w *World) censusPrefix(n int) Census {
	var c Census
	for _, e := range w.cells[:n] {
		switch e.Kind {
		case KindFish:
			c.Fish++
		case KindShark:
			c.Sharks++
		default:
			c.Empty++
		}
	}
	return c
}

// ToggleLoop flips the flag telling the runner to keep simulating
func (w *World) ToggleLoop() {
	w.looping = !w.looping
}

// IsLooping reports whether the runner should simulate on a timer
func (w *World) IsLooping() bool {
	return w.looping
}

// Chronon returns the configured delay between ticks
func (w *World) Chronon() time.Duration {
	return time.Duration(w.cfg.TickDurationMs) * time.Millisecond
}

// Tick returns the number of completed Simulate calls since seeding
func (w *World) Tick() uint64 {
	return w.tick
}

// Seeded reports whether Initialize or Load has run
func (w *World) Seeded() bool {
	return w.seeded
}

func (w *World) Width() int  { return w.width }
func (w *World) Height() int { return w.height }

// Config returns the run configuration
func (w *World) Config() config.Config {
	return w.cfg
}
