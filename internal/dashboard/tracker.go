package dashboard

import "context"

// Tracker orders fetches by issue order. A response is applied only if no
// later request has been applied and no later request superseded it, so a
// slow reply can never overwrite a newer one.
//
// Tracker is not safe for concurrent use; it belongs to the goroutine that
// owns the dashboard state.
type Tracker struct {
	issued  uint64
	floor   uint64
	applied uint64
	cancels map[uint64]context.CancelFunc
}

// Begin issues a new request id with a context derived from parent. When
// supersede is set every request issued so far is cancelled and its response
// will be dropped.
func (t *Tracker) Begin(parent context.Context, supersede bool) (uint64, context.Context) {
	if t.cancels == nil {
		t.cancels = make(map[uint64]context.CancelFunc)
	}

	if supersede {
		t.floor = t.issued
		t.cancelThrough(t.issued)
	}

	t.issued++
	ctx, cancel := context.WithCancel(parent)
	t.cancels[t.issued] = cancel

	return t.issued, ctx
}

// Accept reports whether the response to id should be applied and records
// it as the latest applied one. Older requests still in flight are
// cancelled since their responses can no longer be applied.
func (t *Tracker) Accept(id uint64) bool {
	t.release(id)

	if id <= t.floor || id <= t.applied || id > t.issued {
		return false
	}

	t.applied = id
	t.cancelThrough(id)

	return true
}

// InFlight returns the number of requests not yet answered.
func (t *Tracker) InFlight() int {
	return len(t.cancels)
}

// Latest is the id of the most recently issued request.
func (t *Tracker) Latest() uint64 {
	return t.issued
}

// Stop cancels everything in flight.
func (t *Tracker) Stop() {
	t.floor = t.issued
	t.cancelThrough(t.issued)
}

func (t *Tracker) cancelThrough(id uint64) {
	for k, cancel := range t.cancels {
		if k <= id {
			cancel()
			delete(t.cancels, k)
		}
	}
}

func (t *Tracker) release(id uint64) {
	if cancel, ok := t.cancels[id]; ok {
		cancel()
		delete(t.cancels, id)
	}
}
