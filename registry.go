package typebus

import (
	"reflect"
	"sort"
	"sync"
)

// registry holds the bus's registrations. It is thread-safe for concurrent
// access; match returns a consistent snapshot so no handler code ever runs
// while the lock is held.
//
// Concrete-type filters are indexed by exact type for fast lookup.
// Interface and match-all filters live in a separate list that is scanned
// on every match.
type registry struct {
	mu    sync.RWMutex
	seq   uint64
	exact map[reflect.Type][]*registration
	broad []*registration
	byID  map[string]*registration
}

// newRegistry creates an empty registration registry.
func newRegistry() *registry {
	return &registry{
		exact: make(map[reflect.Type][]*registration),
		byID:  make(map[string]*registration),
	}
}

// add inserts a registration atomically and stamps its sequence number,
// which fixes its position in registration order.
func (r *registry) add(reg *registration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	reg.seq = r.seq

	if reg.filter.concrete() {
		t := reg.filter.Type()
		r.exact[t] = append(r.exact[t], reg)
	} else {
		r.broad = append(r.broad, reg)
	}
	r.byID[reg.id] = reg
}

// remove deletes a registration by ID. Returns false if it was not present.
func (r *registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, exists := r.byID[id]
	if !exists {
		return false
	}
	delete(r.byID, id)

	if reg.filter.concrete() {
		t := reg.filter.Type()
		r.exact[t] = deleteReg(r.exact[t], reg)
		if len(r.exact[t]) == 0 {
			delete(r.exact, t)
		}
	} else {
		r.broad = deleteReg(r.broad, reg)
	}

	return true
}

// deleteReg removes reg from regs by identity, preserving order.
func deleteReg(regs []*registration, reg *registration) []*registration {
	for i, candidate := range regs {
		if candidate == reg {
			return append(regs[:i], regs[i+1:]...)
		}
	}
	return regs
}

// get returns a registration by ID.
func (r *registry) get(id string) (*registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, exists := r.byID[id]
	return reg, exists
}

// match returns all registrations whose filter accepts the given dynamic
// type, in registration order. The result is a copy; callers may iterate
// and dispatch without holding the registry lock.
func (r *registry) match(t reflect.Type) []*registration {
	r.mu.RLock()

	var exact []*registration
	if t != nil {
		exact = r.exact[t]
	}

	result := make([]*registration, 0, len(exact)+len(r.broad))
	result = append(result, exact...)
	for _, reg := range r.broad {
		if reg.filter.Matches(t) {
			result = append(result, reg)
		}
	}

	r.mu.RUnlock()

	if len(result) == 0 {
		return nil
	}

	// Merge the exact bucket and the broad list back into registration order.
	sort.Slice(result, func(i, j int) bool {
		return result[i].seq < result[j].seq
	})
	return result
}

// count returns the total number of registrations.
func (r *registry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID)
}

// countActive returns the number of active registrations.
func (r *registry) countActive() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, reg := range r.byID {
		if reg.IsActive() {
			count++
		}
	}
	return count
}

// clear removes every registration and returns them so the caller can
// finish cancelling them outside the lock.
func (r *registry) clear() []*registration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.byID) == 0 {
		return nil
	}

	regs := make([]*registration, 0, len(r.byID))
	for _, reg := range r.byID {
		regs = append(regs, reg)
	}

	r.exact = make(map[reflect.Type][]*registration)
	r.broad = nil
	r.byID = make(map[string]*registration)

	return regs
}
