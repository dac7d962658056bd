// Package status is the metrics facade shared by the scheduler, the
// renderer and the stream. Writers cache pointers once; updates are atomic.
package status

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/wa-tor/engine"
)

// Metric keys written by the scheduler
const (
	KeyTicks      = "engine.ticks"
	KeyLooping    = "engine.looping"
	KeySimulateNs = "engine.simulate_ns"
	KeyTickRate   = "engine.tick_rate"
	KeyFish       = "population.fish"
	KeySharks     = "population.sharks"
	KeyEmpty      = "population.empty"
	KeyFishShare  = "population.fish_share"
)

// Registry maps names to atomic values
// Registration takes the lock; reads and writes through cached pointers do not
type Registry struct {
	mu     sync.RWMutex
	ints   map[string]*atomic.Int64
	floats map[string]*Float
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		ints:   make(map[string]*atomic.Int64),
		floats: make(map[string]*Float),
	}
}

// Int returns the counter for key, creating it on first use
func (r *Registry) Int(key string) *atomic.Int64 {
	return lookup(r, r.ints, key)
}

// Float returns the gauge for key, creating it on first use
func (r *Registry) Float(key string) *Float {
	return lookup(r, r.floats, key)
}

func lookup[T any](r *Registry, m map[string]*T, key string) *T {
	r.mu.RLock()
	ptr, ok := m[key]
	r.mu.RUnlock()
	if ok {
		return ptr
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ptr, ok := m[key]; ok {
		return ptr
	}
	ptr = new(T)
	m[key] = ptr
	return ptr
}

// Sample is one metric value at snapshot time
type Sample struct {
	Key   string
	Value float64
}

// Snapshot returns every metric sorted by key
func (r *Registry) Snapshot() []Sample {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Sample, 0, len(r.ints)+len(r.floats))
	for k, v := range r.ints {
		out = append(out, Sample{Key: k, Value: float64(v.Load())})
	}
	for k, v := range r.floats {
		out = append(out, Sample{Key: k, Value: v.Get()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Population caches the pointers the scheduler updates every tick
type Population struct {
	ticks      *atomic.Int64
	looping    *atomic.Int64
	simulateNs *atomic.Int64
	fish       *atomic.Int64
	sharks     *atomic.Int64
	empty      *atomic.Int64
	fishShare  *Float
	tickRate   *Float
}

// Population returns the cached writer for population metrics
func (r *Registry) Population() *Population {
	return &Population{
		ticks:      r.Int(KeyTicks),
		looping:    r.Int(KeyLooping),
		simulateNs: r.Int(KeySimulateNs),
		fish:       r.Int(KeyFish),
		sharks:     r.Int(KeySharks),
		empty:      r.Int(KeyEmpty),
		fishShare:  r.Float(KeyFishShare),
		tickRate:   r.Float(KeyTickRate),
	}
}

// Record stores the outcome of one tick
func (p *Population) Record(tick uint64, c engine.Census, simulateNs int64) {
	p.ticks.Store(int64(tick))
	p.fish.Store(int64(c.Fish))
	p.sharks.Store(int64(c.Sharks))
	p.empty.Store(int64(c.Empty))
	p.simulateNs.Store(simulateNs)
	if total := c.Total(); total > 0 {
		p.fishShare.Set(float64(c.Fish) / float64(total))
	}
}

// SetLooping mirrors the world's loop flag
func (p *Population) SetLooping(on bool) {
	if on {
		p.looping.Store(1)
	} else {
		p.looping.Store(0)
	}
}

// SetTickRate stores the measured ticks per second
func (p *Population) SetTickRate(rate float64) {
	p.tickRate.Set(rate)
}
