package prom

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_RecordPost(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordPost(3)
	c.RecordPost(0)

	if got := testutil.ToFloat64(c.posts); got != 2 {
		t.Errorf("expected 2 posts, got %v", got)
	}
	if got := testutil.ToFloat64(c.matched); got != 3 {
		t.Errorf("expected 3 matched, got %v", got)
	}
}

func TestCollector_RecordDelivery(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordDelivery("current")
	c.RecordDelivery("current")
	c.RecordDelivery("main")

	if got := testutil.ToFloat64(c.delivered.WithLabelValues("current")); got != 2 {
		t.Errorf("expected 2 current deliveries, got %v", got)
	}
	if got := testutil.ToFloat64(c.delivered.WithLabelValues("main")); got != 1 {
		t.Errorf("expected 1 main delivery, got %v", got)
	}
}

func TestCollector_RecordDrop(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordDrop("background", "queue_full")

	if got := testutil.ToFloat64(c.dropped.WithLabelValues("background", "queue_full")); got != 1 {
		t.Errorf("expected 1 drop, got %v", got)
	}
}

func TestCollector_RecordHandlerFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHandlerError("main")
	c.RecordHandlerPanic("background")

	if got := testutil.ToFloat64(c.errors.WithLabelValues("main")); got != 1 {
		t.Errorf("expected 1 handler error, got %v", got)
	}
	if got := testutil.ToFloat64(c.panics.WithLabelValues("background")); got != 1 {
		t.Errorf("expected 1 handler panic, got %v", got)
	}
}

func TestCollector_RegistersAllMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordPost(1)
	c.RecordDelivery("current")
	c.RecordDrop("main", "queue_full")
	c.RecordHandlerError("current")
	c.RecordHandlerPanic("current")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	want := map[string]bool{
		"typebus_posts_total":                 false,
		"typebus_matched_registrations_total": false,
		"typebus_deliveries_total":            false,
		"typebus_drops_total":                 false,
		"typebus_handler_errors_total":        false,
		"typebus_handler_panics_total":        false,
	}
	for _, mf := range families {
		if _, ok := want[mf.GetName()]; ok {
			want[mf.GetName()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("metric %s not registered", name)
		}
	}
}

func TestNewCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	NewCollector(reg)
}
