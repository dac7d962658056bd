// Package scheduler drives a World on the configured chronon. It owns the
// lock that serializes the simulation against readers such as the renderer.
package scheduler

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lixenwraith/wa-tor/core"
	"github.com/lixenwraith/wa-tor/engine"
	"github.com/lixenwraith/wa-tor/parameter"
	"github.com/lixenwraith/wa-tor/status"
)

// TickInfo describes the grid right after a tick or a reseed
// Tick 0 marks a freshly seeded grid; Cells is a private copy
type TickInfo struct {
	Tick          uint64
	Width, Height int
	Census        engine.Census
	Cells         []engine.Entity
	Duration      time.Duration
}

// Observer is notified after every tick and reseed
// Notifications are serialized and arrive in the order the grid changed
type Observer interface {
	ObserveTick(TickInfo)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(TickInfo)

func (f ObserverFunc) ObserveTick(info TickInfo) { f(info) }

// Scheduler calls Simulate every chronon while the world is looping and on
// explicit step requests
type Scheduler struct {
	mu    sync.Mutex
	world *engine.World

	// notifyMu is taken before mu and held until observers return, so a
	// capture is never delivered after a later one
	notifyMu sync.Mutex

	pop       *status.Population
	logger    *log.Logger
	observers []Observer

	// Control channels
	stepChan chan struct{}
	wakeChan chan struct{}
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	// Tick rate window
	windowStart time.Time
	windowTicks int
}

// New creates a scheduler for a seeded world
func New(world *engine.World, reg *status.Registry, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Scheduler{
		world:    world,
		pop:      reg.Population(),
		logger:   logger,
		stepChan: make(chan struct{}, parameter.StepQueueSize),
		wakeChan: make(chan struct{}, 1),
		stopChan: make(chan struct{}),
	}
}

// AddObserver registers o; must be called before Start
func (s *Scheduler) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// Start announces the seeded grid to observers and begins the tick loop
func (s *Scheduler) Start() {
	if s.running.CompareAndSwap(false, true) {
		s.notifyMu.Lock()
		s.notify(s.capture(0))
		s.notifyMu.Unlock()
		s.wg.Add(1)
		core.Go(s.loop)
	}
}

// Stop halts the loop and waits for an in-flight tick to finish
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		if s.running.CompareAndSwap(true, false) {
			close(s.stopChan)
			s.wg.Wait()
		}
	})
}

// Step queues one tick; returns false when the queue is full
func (s *Scheduler) Step() bool {
	select {
	case s.stepChan <- struct{}{}:
		return true
	default:
		return false
	}
}

// ToggleLoop flips the world's loop flag and returns the new state
func (s *Scheduler) ToggleLoop() bool {
	s.mu.Lock()
	s.world.ToggleLoop()
	on := s.world.IsLooping()
	s.mu.Unlock()

	s.pop.SetLooping(on)
	s.logger.Debug("loop toggled", "looping", on)

	select {
	case s.wakeChan <- struct{}{}:
	default:
	}
	return on
}

// Reseed re-initializes the grid and announces it as tick 0
func (s *Scheduler) Reseed() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.world.Initialize()
	info := s.captureLocked(0)
	s.mu.Unlock()

	s.pop.Record(0, info.Census, 0)
	s.logger.Info("world reseeded", "fish", info.Census.Fish, "sharks", info.Census.Sharks)
	s.notify(info)
}

// View runs fn with exclusive access to the world
// fn must not retain the world or call back into the scheduler
func (s *Scheduler) View(fn func(w *engine.World)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.world)
}

// Advance runs one tick synchronously and notifies observers
func (s *Scheduler) Advance() TickInfo {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	start := time.Now()
	s.world.Simulate()
	elapsed := time.Since(start)
	info := s.captureLocked(s.world.Tick())
	s.measureRate(start)
	s.mu.Unlock()

	info.Duration = elapsed
	s.pop.Record(info.Tick, info.Census, elapsed.Nanoseconds())
	s.notify(info)
	return info
}

func (s *Scheduler) capture(tick uint64) TickInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captureLocked(tick)
}

func (s *Scheduler) captureLocked(tick uint64) TickInfo {
	return TickInfo{
		Tick:   tick,
		Width:  s.world.Width(),
		Height: s.world.Height(),
		Census: s.world.Census(),
		Cells:  s.world.Cells(),
	}
}

func (s *Scheduler) notify(info TickInfo) {
	for _, o := range s.observers {
		o.ObserveTick(info)
	}
}

// measureRate runs under s.mu
func (s *Scheduler) measureRate(now time.Time) {
	if s.windowStart.IsZero() {
		s.windowStart = now
	}
	s.windowTicks++
	if elapsed := now.Sub(s.windowStart); elapsed >= time.Second {
		s.pop.SetTickRate(float64(s.windowTicks) / elapsed.Seconds())
		s.windowStart = now
		s.windowTicks = 0
	}
}

func (s *Scheduler) looping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.IsLooping()
}

func (s *Scheduler) interval() time.Duration {
	s.mu.Lock()
	d := s.world.Chronon()
	s.mu.Unlock()
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return d
}

// loop ticks on a deadline so slow ticks do not accumulate drift
func (s *Scheduler) loop() {
	defer s.wg.Done()

	interval := s.interval()
	next := time.Now().Add(interval)
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-s.stopChan:
			return

		case <-s.stepChan:
			s.Advance()
			continue

		case <-s.wakeChan:
			next = time.Now()
			timer.Reset(0)
			continue

		case <-timer.C:
		}

		if !s.looping() {
			// Sleep longer while paused; step and wake requests still preempt
			next = time.Now().Add(interval)
			timer.Reset(parameter.PausedPollInterval)
			continue
		}

		s.Advance()

		now := time.Now()
		next = next.Add(interval)
		if now.Sub(next) > interval*2 {
			next = now.Add(interval)
		}
		timer.Reset(time.Until(next))
	}
}
