package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lixenwraith/wa-tor/config"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	run := RunInfo{ID: "run-a", StartedAt: time.Unix(100, 0), Width: 4, Height: 3, Config: config.Default()}
	if err := store.BeginRun(ctx, run); err != nil {
		t.Fatalf("begin run: %v", err)
	}

	want := []Sample{{Tick: 0, Fish: 3, Sharks: 1}, {Tick: 1, Fish: 4, Sharks: 1, SimulateNs: 1200}}
	if err := store.Record(ctx, run.ID, want); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := store.Samples(ctx, run.ID)
	if err != nil {
		t.Fatalf("samples: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("samples length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	// Returned slice must not alias internal storage
	got[0].Fish = 99
	again, _ := store.Samples(ctx, run.ID)
	if again[0].Fish != 3 {
		t.Errorf("Samples aliased internal storage")
	}
}

func TestMemoryStoreRunsOrdered(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	_ = store.BeginRun(ctx, RunInfo{ID: "late", StartedAt: time.Unix(200, 0)})
	_ = store.BeginRun(ctx, RunInfo{ID: "early", StartedAt: time.Unix(100, 0)})

	runs, err := store.Runs(ctx)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "early" || runs[1].ID != "late" {
		t.Errorf("runs = %+v, want early then late", runs)
	}
}

func TestMemoryStoreErrors(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.BeginRun(ctx, RunInfo{ID: "x"}); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("BeginRun before Init err = %v, want ErrNotInitialized", err)
	}

	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := store.Record(ctx, "missing", []Sample{{Tick: 1}}); !errors.Is(err, ErrUnknownRun) {
		t.Errorf("Record unknown run err = %v, want ErrUnknownRun", err)
	}
	if _, err := store.Samples(ctx, "missing"); !errors.Is(err, ErrUnknownRun) {
		t.Errorf("Samples unknown run err = %v, want ErrUnknownRun", err)
	}
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		path    string
		wantErr error
		wantAny bool
	}{
		{name: "default", kind: "", wantAny: true},
		{name: "memory", kind: "memory", wantAny: true},
		{name: "sqlite", kind: "sqlite", path: "x.db", wantAny: true},
		{name: "sqlite without path", kind: "sqlite", wantAny: false},
		{name: "unknown", kind: "redis", wantErr: ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(tt.kind, tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if tt.wantAny && (err != nil || store == nil) {
				t.Fatalf("NewStore(%q) = %v, %v", tt.kind, store, err)
			}
			if !tt.wantAny && err == nil {
				t.Fatalf("NewStore(%q) expected error", tt.kind)
			}
		})
	}
}
