// Package history records per-tick population counts for later analysis.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lixenwraith/wa-tor/config"
)

var (
	ErrUnknownBackend = errors.New("unknown history backend")
	ErrUnknownRun     = errors.New("unknown run")
	ErrNotInitialized = errors.New("history store is not initialized")
)

// RunInfo identifies one seeded trajectory
type RunInfo struct {
	ID        string
	StartedAt time.Time
	Width     int
	Height    int
	Config    config.Config
}

// Sample is the population after one tick
type Sample struct {
	Tick       uint64
	Fish       int
	Sharks     int
	SimulateNs int64
}

// Store persists runs and their samples
type Store interface {
	Init(ctx context.Context) error
	BeginRun(ctx context.Context, run RunInfo) error
	Record(ctx context.Context, runID string, samples []Sample) error
	Samples(ctx context.Context, runID string) ([]Sample, error)
	Runs(ctx context.Context) ([]RunInfo, error)
	Close() error
}

// NewStore returns an uninitialized store for kind: "memory" or "sqlite"
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		if sqlitePath == "" {
			return nil, errors.New("sqlite history needs a path")
		}
		return NewSQLiteStore(sqlitePath), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, kind)
	}
}
