package history

import (
	"context"
	"errors"
	"testing"

	"github.com/lixenwraith/wa-tor/config"
	"github.com/lixenwraith/wa-tor/engine"
	"github.com/lixenwraith/wa-tor/parameter"
	"github.com/lixenwraith/wa-tor/scheduler"
)

func tickInfo(tick uint64, fish, sharks int) scheduler.TickInfo {
	return scheduler.TickInfo{
		Tick:   tick,
		Width:  4,
		Height: 3,
		Census: engine.Census{Fish: fish, Sharks: sharks, Empty: 12 - fish - sharks},
	}
}

func newMemoryRecorder(t *testing.T) (*Recorder, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return NewRecorder(context.Background(), store, config.Default(), nil), store
}

func TestRecorderIgnoresTicksBeforeSeed(t *testing.T) {
	rec, store := newMemoryRecorder(t)
	rec.ObserveTick(tickInfo(5, 1, 1))
	rec.Flush()

	runs, _ := store.Runs(context.Background())
	if len(runs) != 0 {
		t.Errorf("runs = %d, want 0 before a tick-0 notification", len(runs))
	}
	if rec.RunID() != "" {
		t.Errorf("RunID = %q, want empty", rec.RunID())
	}
}

func TestRecorderBuffersUntilFlush(t *testing.T) {
	rec, store := newMemoryRecorder(t)
	ctx := context.Background()

	rec.ObserveTick(tickInfo(0, 3, 1))
	rec.ObserveTick(tickInfo(1, 4, 1))

	id := rec.RunID()
	if id == "" {
		t.Fatal("RunID empty after seed")
	}
	got, _ := store.Samples(ctx, id)
	if len(got) != 0 {
		t.Errorf("samples written before flush = %d", len(got))
	}

	rec.Flush()
	got, _ = store.Samples(ctx, id)
	if len(got) != 2 || got[0].Fish != 3 || got[1].Fish != 4 {
		t.Errorf("samples after flush = %+v", got)
	}
}

func TestRecorderFlushesAtBatchSize(t *testing.T) {
	rec, store := newMemoryRecorder(t)

	for i := 0; i < parameter.HistoryFlushSize; i++ {
		rec.ObserveTick(tickInfo(uint64(i), 2, 1))
	}
	got, _ := store.Samples(context.Background(), rec.RunID())
	if len(got) != parameter.HistoryFlushSize {
		t.Errorf("samples = %d, want %d without explicit flush", len(got), parameter.HistoryFlushSize)
	}
}

func TestRecorderReseedStartsNewRun(t *testing.T) {
	rec, store := newMemoryRecorder(t)
	ctx := context.Background()

	rec.ObserveTick(tickInfo(0, 3, 1))
	rec.ObserveTick(tickInfo(1, 3, 1))
	first := rec.RunID()

	rec.ObserveTick(tickInfo(0, 5, 2))
	second := rec.RunID()
	rec.Flush()

	if first == second {
		t.Fatal("reseed reused the run id")
	}
	a, _ := store.Samples(ctx, first)
	b, _ := store.Samples(ctx, second)
	if len(a) != 2 {
		t.Errorf("first run samples = %d, want 2 flushed on reseed", len(a))
	}
	if len(b) != 1 || b[0].Fish != 5 {
		t.Errorf("second run samples = %+v", b)
	}
}

type failingStore struct {
	*MemoryStore
	records int
}

func (f *failingStore) Record(context.Context, string, []Sample) error {
	f.records++
	return errors.New("disk full")
}

func TestRecorderStopsAfterWriteFailure(t *testing.T) {
	mem := NewMemoryStore()
	_ = mem.Init(context.Background())
	store := &failingStore{MemoryStore: mem}
	rec := NewRecorder(context.Background(), store, config.Default(), nil)

	rec.ObserveTick(tickInfo(0, 1, 1))
	rec.Flush()
	rec.ObserveTick(tickInfo(1, 1, 1))
	rec.Flush()

	if store.records != 1 {
		t.Errorf("Record calls = %d, want 1 after failure", store.records)
	}

	// A reseed re-arms the recorder
	rec.ObserveTick(tickInfo(0, 1, 1))
	rec.Flush()
	if store.records != 2 {
		t.Errorf("Record calls after reseed = %d, want 2", store.records)
	}
}
