package typebus

import (
	"reflect"
	"sync"
	"testing"
)

func TestRegistry_AddAndMatch(t *testing.T) {
	r := newRegistry()

	reg := newRegistration(nil, For[orderPlaced](), Current, nopHandler())
	r.add(reg)

	matches := r.match(reflect.TypeOf(orderPlaced{}))
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].ID() != reg.ID() {
		t.Error("matched wrong registration")
	}

	if got := r.match(reflect.TypeOf(orderShipped{})); got != nil {
		t.Errorf("expected no matches for orderShipped, got %d", len(got))
	}
}

func TestRegistry_MatchInterfaceAndAny(t *testing.T) {
	r := newRegistry()

	exact := newRegistration(nil, For[named](), Current, nopHandler())
	iface := newRegistration(nil, For[stringer](), Current, nopHandler())
	all := newRegistration(nil, AnyEvent, Current, nopHandler())
	r.add(exact)
	r.add(iface)
	r.add(all)

	// named implements stringer, so all three match.
	matches := r.match(reflect.TypeOf(named{}))
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches for named, got %d", len(matches))
	}

	// orderPlaced matches only the universal filter.
	matches = r.match(reflect.TypeOf(orderPlaced{}))
	if len(matches) != 1 {
		t.Fatalf("expected 1 match for orderPlaced, got %d", len(matches))
	}
	if matches[0].ID() != all.ID() {
		t.Error("expected the AnyEvent registration to match")
	}
}

func TestRegistry_MatchOrder(t *testing.T) {
	r := newRegistry()

	// Interleave concrete and broad filters; match must return them in
	// registration order regardless of which bucket they live in.
	first := newRegistration(nil, AnyEvent, Current, nopHandler())
	second := newRegistration(nil, For[named](), Current, nopHandler())
	third := newRegistration(nil, For[stringer](), Current, nopHandler())
	fourth := newRegistration(nil, For[named](), Current, nopHandler())
	r.add(first)
	r.add(second)
	r.add(third)
	r.add(fourth)

	matches := r.match(reflect.TypeOf(named{}))
	if len(matches) != 4 {
		t.Fatalf("expected 4 matches, got %d", len(matches))
	}

	want := []string{first.ID(), second.ID(), third.ID(), fourth.ID()}
	for i, reg := range matches {
		if reg.ID() != want[i] {
			t.Errorf("position %d: got registration %s, want %s", i, reg.ID(), want[i])
		}
	}
}

func TestRegistry_MatchNilType(t *testing.T) {
	r := newRegistry()

	r.add(newRegistration(nil, For[string](), Current, nopHandler()))
	all := newRegistration(nil, AnyEvent, Current, nopHandler())
	r.add(all)

	// An untyped nil event matches only the universal filter.
	matches := r.match(nil)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match for nil type, got %d", len(matches))
	}
	if matches[0].ID() != all.ID() {
		t.Error("expected the AnyEvent registration to match nil type")
	}
}

func TestRegistry_Remove(t *testing.T) {
	r := newRegistry()

	reg := newRegistration(nil, For[orderPlaced](), Current, nopHandler())
	r.add(reg)

	if !r.remove(reg.ID()) {
		t.Error("expected remove to report true")
	}
	if r.remove(reg.ID()) {
		t.Error("expected second remove to report false")
	}
	if got := r.match(reflect.TypeOf(orderPlaced{})); got != nil {
		t.Errorf("expected no matches after remove, got %d", len(got))
	}
	if r.count() != 0 {
		t.Errorf("expected count 0, got %d", r.count())
	}
}

func TestRegistry_RemoveOnlyTarget(t *testing.T) {
	r := newRegistry()

	// Two registrations share a filter; removing one must not touch the other.
	keep := newRegistration(nil, For[orderPlaced](), Current, nopHandler())
	drop := newRegistration(nil, For[orderPlaced](), Current, nopHandler())
	r.add(keep)
	r.add(drop)

	r.remove(drop.ID())

	matches := r.match(reflect.TypeOf(orderPlaced{}))
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].ID() != keep.ID() {
		t.Error("removed the wrong registration")
	}
}

func TestRegistry_Get(t *testing.T) {
	r := newRegistry()

	reg := newRegistration(nil, AnyEvent, Current, nopHandler())
	r.add(reg)

	got, ok := r.get(reg.ID())
	if !ok || got.ID() != reg.ID() {
		t.Error("expected to find registration by ID")
	}

	if _, ok := r.get("missing"); ok {
		t.Error("expected lookup miss for unknown ID")
	}
}

func TestRegistry_Counts(t *testing.T) {
	r := newRegistry()

	active := newRegistration(nil, AnyEvent, Current, nopHandler())
	paused := newRegistration(nil, AnyEvent, Current, nopHandler())
	r.add(active)
	r.add(paused)
	paused.Pause()

	if r.count() != 2 {
		t.Errorf("expected count 2, got %d", r.count())
	}
	if r.countActive() != 1 {
		t.Errorf("expected 1 active, got %d", r.countActive())
	}
}

func TestRegistry_Clear(t *testing.T) {
	r := newRegistry()

	r.add(newRegistration(nil, For[orderPlaced](), Current, nopHandler()))
	r.add(newRegistration(nil, AnyEvent, Current, nopHandler()))

	regs := r.clear()
	if len(regs) != 2 {
		t.Fatalf("expected 2 cleared registrations, got %d", len(regs))
	}
	if r.count() != 0 {
		t.Errorf("expected empty registry after clear, got %d", r.count())
	}
	if r.clear() != nil {
		t.Error("expected nil from clearing an empty registry")
	}
}

func TestRegistry_MatchSnapshot(t *testing.T) {
	r := newRegistry()

	reg := newRegistration(nil, For[orderPlaced](), Current, nopHandler())
	r.add(reg)

	matches := r.match(reflect.TypeOf(orderPlaced{}))

	// Mutating the registry must not affect the snapshot.
	r.remove(reg.ID())
	if len(matches) != 1 {
		t.Error("snapshot should be unaffected by concurrent removal")
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	r := newRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reg := newRegistration(nil, For[orderPlaced](), Current, nopHandler())
			r.add(reg)
			r.match(reflect.TypeOf(orderPlaced{}))
			r.remove(reg.ID())
		}()
	}
	wg.Wait()

	if r.count() != 0 {
		t.Errorf("expected empty registry, got %d", r.count())
	}
}
