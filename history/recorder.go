package history

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lixenwraith/wa-tor/config"
	"github.com/lixenwraith/wa-tor/parameter"
	"github.com/lixenwraith/wa-tor/scheduler"
)

// Recorder buffers tick samples and writes them to a Store in batches
// Each tick-0 notification opens a new run
type Recorder struct {
	mu     sync.Mutex
	ctx    context.Context
	store  Store
	cfg    config.Config
	logger *log.Logger
	now    func() time.Time

	runID   string
	pending []Sample
	failed  bool
}

// NewRecorder returns a recorder writing to an initialized store
func NewRecorder(ctx context.Context, store Store, cfg config.Config, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Recorder{
		ctx:     ctx,
		store:   store,
		cfg:     cfg,
		logger:  logger.WithPrefix("history"),
		now:     time.Now,
		pending: make([]Sample, 0, parameter.HistoryFlushSize),
	}
}

var _ scheduler.Observer = (*Recorder)(nil)

// ObserveTick implements scheduler.Observer
func (r *Recorder) ObserveTick(info scheduler.TickInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if info.Tick == 0 {
		r.flushLocked()
		r.beginLocked(info)
	}
	if r.runID == "" || r.failed {
		return
	}

	r.pending = append(r.pending, Sample{
		Tick:       info.Tick,
		Fish:       info.Census.Fish,
		Sharks:     info.Census.Sharks,
		SimulateNs: info.Duration.Nanoseconds(),
	})
	if len(r.pending) >= parameter.HistoryFlushSize {
		r.flushLocked()
	}
}

// RunID returns the current run, empty before the first seed
func (r *Recorder) RunID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runID
}

// Flush writes buffered samples
func (r *Recorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushLocked()
}

func (r *Recorder) beginLocked(info scheduler.TickInfo) {
	run := RunInfo{
		ID:        uuid.NewString(),
		StartedAt: r.now(),
		Width:     info.Width,
		Height:    info.Height,
		Config:    r.cfg,
	}
	if err := r.store.BeginRun(r.ctx, run); err != nil {
		r.logger.Error("begin run failed", "err", err)
		r.runID = ""
		return
	}
	r.runID = run.ID
	r.failed = false
	r.logger.Debug("run started", "id", run.ID, "fish", info.Census.Fish, "sharks", info.Census.Sharks)
}

func (r *Recorder) flushLocked() {
	if r.runID == "" || len(r.pending) == 0 {
		r.pending = r.pending[:0]
		return
	}
	if err := r.store.Record(r.ctx, r.runID, r.pending); err != nil {
		// Stop recording this run rather than log an error every tick
		r.logger.Error("record failed", "run", r.runID, "err", err)
		r.failed = true
	}
	r.pending = r.pending[:0]
}
