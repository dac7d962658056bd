package status

import (
	"sync"
	"testing"

	"github.com/lixenwraith/wa-tor/engine"
)

func TestIntCachesPointer(t *testing.T) {
	r := NewRegistry()
	a := r.Int("x")
	b := r.Int("x")
	if a != b {
		t.Fatal("Int returned different pointers for the same key")
	}
	a.Add(3)
	if b.Load() != 3 {
		t.Errorf("value = %d, want 3", b.Load())
	}
}

func TestFloatGetSet(t *testing.T) {
	r := NewRegistry()
	f := r.Float("share")
	if f.Get() != 0 {
		t.Errorf("zero value = %v", f.Get())
	}
	f.Set(0.25)
	if r.Float("share").Get() != 0.25 {
		t.Errorf("Get() = %v, want 0.25", f.Get())
	}
}

func TestSnapshotSorted(t *testing.T) {
	r := NewRegistry()
	r.Int("b").Store(2)
	r.Int("a").Store(1)
	r.Float("c").Set(1.5)

	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("len = %d, want 3", len(snap))
	}
	want := []Sample{{"a", 1}, {"b", 2}, {"c", 1.5}}
	for i := range want {
		if snap[i] != want[i] {
			t.Errorf("snap[%d] = %+v, want %+v", i, snap[i], want[i])
		}
	}
}

func TestPopulationRecord(t *testing.T) {
	r := NewRegistry()
	p := r.Population()

	p.Record(7, engine.Census{Fish: 3, Sharks: 1, Empty: 4}, 1200)
	p.SetLooping(true)

	if got := r.Int(KeyTicks).Load(); got != 7 {
		t.Errorf("ticks = %d", got)
	}
	if got := r.Int(KeyFish).Load(); got != 3 {
		t.Errorf("fish = %d", got)
	}
	if got := r.Int(KeySharks).Load(); got != 1 {
		t.Errorf("sharks = %d", got)
	}
	if got := r.Float(KeyFishShare).Get(); got != 0.375 {
		t.Errorf("fish share = %v, want 0.375", got)
	}
	if got := r.Int(KeyLooping).Load(); got != 1 {
		t.Errorf("looping = %d", got)
	}
}

func TestConcurrentRegistration(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Int("shared").Add(1)
		}()
	}
	wg.Wait()
	if got := r.Int("shared").Load(); got != 16 {
		t.Errorf("shared = %d, want 16", got)
	}
}
