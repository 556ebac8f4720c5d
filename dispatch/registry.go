package dispatch

import (
	"sync"

	"github.com/google/uuid"
	"github.com/logfan/logfan/core"
	"go.uber.org/multierr"
)

// registry is the ordered set of bindings and the single global
// serialization point of the pipeline. Its mutex guards the sequence
// counter and the binding list; admission, add, and remove all pass
// through it, which is what makes their interleaving deterministic
// from any one binding's point of view.
//
// The active slice is copy-on-write: admission reads it under the
// lock but the slice itself is never mutated in place, so a fan-out
// snapshot stays valid after the lock is dropped.
type registry struct {
	mu       sync.Mutex
	seq      uint64
	active   []*binding
	draining map[uuid.UUID]*binding
	errf     ErrorFunc
}

func newRegistry(errf ErrorFunc) *registry {
	return &registry{draining: make(map[uuid.UUID]*binding), errf: errf}
}

// admit stamps the message with the next sequence number and fans it
// out to every active binding whose threshold matches. Submissions
// happen under the lock, which is exactly what gives each lane
// admission-order FIFO; each submission is a non-blocking append, so
// the critical section stays short no matter how slow a destination
// is. When wait is set, admit blocks until every eligible binding has
// finished this message.
func (r *registry) admit(m *core.Message, wait bool) {
	var wg *sync.WaitGroup
	if wait {
		wg = &sync.WaitGroup{}
	}

	r.mu.Lock()
	r.seq++
	m.Seq = r.seq
	for _, b := range r.active {
		if !b.threshold.Has(m.Flag) {
			continue
		}
		b := b
		var task func()
		if wg != nil {
			wg.Add(1)
			task = func() {
				b.process(m)
				wg.Done()
			}
		} else {
			task = func() { b.process(m) }
		}
		if !b.lane.Submit(task) {
			// Destination-provided executor closed under us.
			if wg != nil {
				wg.Done()
			}
			b.stats.failed.Add(1)
			b.report(m, ErrExecutorClosed)
		}
	}
	r.mu.Unlock()

	if wg != nil {
		wg.Wait()
	}
}

// add registers a binding. The add is ordered against the event
// stream by the same lock admission uses: the binding sees only
// messages admitted after this call returns the registry lock.
func (r *registry) add(d Destination, threshold core.Level, f Formatter) *binding {
	b := newBinding(d, threshold, f, r.errf)

	r.mu.Lock()
	next := make([]*binding, len(r.active), len(r.active)+1)
	copy(next, r.active)
	r.active = append(next, b)
	// Queued under the lock so the hooks run before any delivery.
	b.lane.Submit(b.attachHooks)
	r.mu.Unlock()
	return b
}

// remove marks the binding draining at its observed position in the
// admission order: no message admitted after this point reaches it,
// everything admitted before still does. The caller does not block;
// the lane drains in the background and the binding leaves the
// registry when its teardown task runs.
func (r *registry) remove(match func(*binding) bool) bool {
	r.mu.Lock()
	idx := -1
	for i, b := range r.active {
		if match(b) {
			idx = i
			break
		}
	}
	if idx < 0 {
		// Removing a destination that was never added is a no-op.
		r.mu.Unlock()
		return false
	}
	b := r.active[idx]
	next := make([]*binding, 0, len(r.active)-1)
	next = append(next, r.active[:idx]...)
	next = append(next, r.active[idx+1:]...)
	r.active = next
	b.state.Store(int32(StateDraining))
	r.draining[b.id] = b
	b.lane.Submit(func() { r.teardown(b) })
	r.mu.Unlock()
	return true
}

// teardown runs on the binding's lane after everything it was
// eligible for has been delivered.
func (r *registry) teardown(b *binding) {
	b.detachHooks()
	b.state.Store(int32(StateRemoved))

	r.mu.Lock()
	delete(r.draining, b.id)
	r.mu.Unlock()

	close(b.removed)
	if b.ownsLane {
		b.lane.Close()
	}
}

func (r *registry) removeAll() []*binding {
	r.mu.Lock()
	removed := r.active
	r.active = nil
	for _, b := range removed {
		b := b
		b.state.Store(int32(StateDraining))
		r.draining[b.id] = b
		b.lane.Submit(func() { r.teardown(b) })
	}
	r.mu.Unlock()
	return removed
}

// flush waits until the queue of every binding observed at the call,
// active or draining, has emptied, invoking each destination's own
// Flush capability along the way. Flush errors are aggregated, not
// fatal.
func (r *registry) flush() error {
	r.mu.Lock()
	targets := make([]*binding, 0, len(r.active)+len(r.draining))
	targets = append(targets, r.active...)
	for _, b := range r.draining {
		targets = append(targets, b)
	}
	r.mu.Unlock()

	var (
		wg   sync.WaitGroup
		errs struct {
			sync.Mutex
			err error
		}
	)
	for _, b := range targets {
		b := b
		wg.Add(1)
		ok := b.lane.Submit(func() {
			defer wg.Done()
			fl, ok := b.dest.(Flusher)
			if !ok {
				return
			}
			if err := fl.Flush(); err != nil {
				errs.Lock()
				errs.err = multierr.Append(errs.err, DeliveryError{Destination: b.dest, Err: err})
				errs.Unlock()
			}
		})
		if !ok {
			// Lane already drained and closed; nothing left to wait
			// for on this binding.
			wg.Done()
		}
	}
	wg.Wait()
	return errs.err
}

// snapshot returns all bindings currently active or draining, active
// ones first in insertion order.
func (r *registry) snapshot() []*binding {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*binding, 0, len(r.active)+len(r.draining))
	out = append(out, r.active...)
	for _, b := range r.draining {
		out = append(out, b)
	}
	return out
}
