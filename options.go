package typebus

import (
	"github.com/rs/zerolog"

	"github.com/rc-rogers/typebus/dispatch"
)

// Option configures a Bus.
type Option func(*busConfig)

// busConfig contains configuration for the bus.
type busConfig struct {
	// mainLoop is the loop serving main-target handlers. When nil the bus
	// creates its own; see Bus.MainLoop.
	mainLoop *dispatch.Loop

	// mainQueueSize is the main loop submission queue size.
	mainQueueSize int

	// backgroundQueueSize is the per-priority-class pool queue size.
	backgroundQueueSize int

	// backgroundWorkers is the number of workers per priority class.
	backgroundWorkers int

	// panicHandler is called when a handler panics.
	panicHandler PanicHandler

	// errorHandler is called when a handler returns an error.
	errorHandler ErrorHandler

	// logger receives diagnostics for drops, errors, and panics.
	logger zerolog.Logger

	// metrics receives bus activity counters.
	metrics Recorder
}

// defaultBusConfig returns sensible default configuration.
func defaultBusConfig() busConfig {
	return busConfig{
		mainQueueSize:       1024,
		backgroundQueueSize: 4096,
		backgroundWorkers:   4,
		logger:              zerolog.Nop(),
		metrics:             nopRecorder{},
	}
}

// WithMainLoop uses an existing loop for main-target handlers instead of
// creating one. Useful when several buses share a single UI loop. Panic
// accounting for main-target handlers then follows the loop's own panic
// handler, not the bus's.
func WithMainLoop(loop *dispatch.Loop) Option {
	return func(c *busConfig) {
		c.mainLoop = loop
	}
}

// WithMainQueueSize sets the main loop submission queue size.
func WithMainQueueSize(size int) Option {
	return func(c *busConfig) {
		if size > 0 {
			c.mainQueueSize = size
		}
	}
}

// WithBackgroundQueueSize sets the per-priority-class pool queue size.
func WithBackgroundQueueSize(size int) Option {
	return func(c *busConfig) {
		if size > 0 {
			c.backgroundQueueSize = size
		}
	}
}

// WithBackgroundWorkers sets the number of pool workers per priority class.
func WithBackgroundWorkers(count int) Option {
	return func(c *busConfig) {
		if count > 0 {
			c.backgroundWorkers = count
		}
	}
}

// WithPanicHandler sets the hook called when a handler panics.
func WithPanicHandler(h PanicHandler) Option {
	return func(c *busConfig) {
		c.panicHandler = h
	}
}

// WithErrorHandler sets the hook called when a handler returns an error.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *busConfig) {
		c.errorHandler = h
	}
}

// WithLogger sets the diagnostic logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *busConfig) {
		c.logger = logger
	}
}

// WithMetricsRecorder sets the metrics recorder. The default discards
// everything.
func WithMetricsRecorder(r Recorder) Option {
	return func(c *busConfig) {
		if r != nil {
			c.metrics = r
		}
	}
}
