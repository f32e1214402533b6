// Package prom exposes typebus activity as Prometheus metrics.
//
// A Collector implements typebus.Recorder; wire it into a bus with
// typebus.WithMetricsRecorder:
//
//	reg := prometheus.NewRegistry()
//	bus := typebus.New(typebus.WithMetricsRecorder(prom.NewCollector(reg)))
package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rc-rogers/typebus"
)

// Collector records bus activity into Prometheus counters.
type Collector struct {
	posts     prometheus.Counter
	matched   prometheus.Counter
	delivered *prometheus.CounterVec
	dropped   *prometheus.CounterVec
	errors    *prometheus.CounterVec
	panics    *prometheus.CounterVec
}

var _ typebus.Recorder = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
// Pass prometheus.DefaultRegisterer to use the default registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		posts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "typebus_posts_total",
			Help: "Total number of events posted",
		}),
		matched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "typebus_matched_registrations_total",
			Help: "Total number of registrations matched across all posts",
		}),
		delivered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "typebus_deliveries_total",
				Help: "Total number of successful handler invocations",
			},
			[]string{"target"},
		),
		dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "typebus_drops_total",
				Help: "Total number of rejected handler submissions",
			},
			[]string{"target", "reason"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "typebus_handler_errors_total",
				Help: "Total number of handler invocations that returned errors",
			},
			[]string{"target"},
		),
		panics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "typebus_handler_panics_total",
				Help: "Total number of handler invocations that panicked",
			},
			[]string{"target"},
		),
	}

	reg.MustRegister(c.posts, c.matched, c.delivered, c.dropped, c.errors, c.panics)
	return c
}

// RecordPost counts one post and the registrations it matched.
func (c *Collector) RecordPost(matched int) {
	c.posts.Inc()
	c.matched.Add(float64(matched))
}

// RecordDelivery counts one successful handler invocation.
func (c *Collector) RecordDelivery(target string) {
	c.delivered.WithLabelValues(target).Inc()
}

// RecordDrop counts one rejected submission.
func (c *Collector) RecordDrop(target string, reason string) {
	c.dropped.WithLabelValues(target, reason).Inc()
}

// RecordHandlerError counts one handler error.
func (c *Collector) RecordHandlerError(target string) {
	c.errors.WithLabelValues(target).Inc()
}

// RecordHandlerPanic counts one handler panic.
func (c *Collector) RecordHandlerPanic(target string) {
	c.panics.WithLabelValues(target).Inc()
}
