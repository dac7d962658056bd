package parameter

import "time"

// Runner & Render Timing
const (
	// FrameUpdateInterval is the rendering frame rate interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// PausedPollInterval is the scheduler wake interval while the loop is off
	PausedPollInterval = 50 * time.Millisecond

	// StepQueueSize bounds pending single-step requests
	StepQueueSize = 8
)

// Default grid dimensions when neither flags nor terminal size provide one
const (
	DefaultGridWidth  = 80
	DefaultGridHeight = 24
)

// History
const (
	// HistoryFlushSize is the number of samples buffered before a store write
	HistoryFlushSize = 64
)

// Logging
const (
	LogDir      = "logs"
	LogFileName = "wator.log"

	// MaxLogSize triggers rotation of the previous log on startup (10 MiB)
	MaxLogSize = 10 * 1024 * 1024
)

// Stream
const (
	// StreamClientBuffer is the per-viewer frame queue; full queues drop frames
	StreamClientBuffer = 4

	// StreamWriteTimeout bounds a single frame write to a viewer
	StreamWriteTimeout = 2 * time.Second
)
