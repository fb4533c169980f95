package processing

import "sync"

// InFlightRegistry tracks transaction ids currently being processed by this
// process instance. It is the fast, process-local duplicate tier; the durable
// store's unique constraint remains authoritative across instances. The
// registry keeps no memory of completed ids.
type InFlightRegistry struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// NewInFlightRegistry returns an empty registry.
func NewInFlightRegistry() *InFlightRegistry {
	return &InFlightRegistry{ids: make(map[string]struct{})}
}

// TryAcquire inserts id if it is absent. It returns true when this call
// performed the insertion, meaning the caller now owns processing for that id.
func (r *InFlightRegistry) TryAcquire(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, held := r.ids[id]; held {
		return false
	}
	r.ids[id] = struct{}{}
	return true
}

// Release removes id unconditionally. Must be called exactly once per
// successful TryAcquire, on every exit path.
func (r *InFlightRegistry) Release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.ids, id)
}
