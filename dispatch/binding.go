package dispatch

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/logfan/logfan/core"
)

// BindingState is the lifecycle of a destination binding.
type BindingState int32

const (
	// StateActive bindings receive newly admitted messages.
	StateActive BindingState = iota
	// StateDraining bindings receive no new messages but still
	// deliver what was admitted before their removal point.
	StateDraining
	// StateRemoved bindings have drained and left the registry.
	StateRemoved
)

func (s BindingState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateDraining:
		return "draining"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// binding ties one destination to its threshold, formatter, and lane.
// The registry owns the lifecycle; the lane's worker goroutine owns
// delivery.
type binding struct {
	id        uuid.UUID
	dest      Destination
	threshold core.Level
	formatter Formatter
	lane      *Executor
	ownsLane  bool
	state     atomic.Int32
	stats     Stats
	errf      ErrorFunc

	// removed is closed at the end of the teardown task, after the
	// WillRemove hooks have run. Close waits on it.
	removed chan struct{}
}

func newBinding(d Destination, threshold core.Level, f Formatter, errf ErrorFunc) *binding {
	b := &binding{
		id:        uuid.New(),
		dest:      d,
		threshold: threshold,
		formatter: f,
		errf:      errf,
		removed:   make(chan struct{}),
	}
	if p, ok := d.(ExecutorProvider); ok {
		if lane := p.Executor(); lane != nil {
			b.lane = lane
		}
	}
	if b.lane == nil {
		b.lane = NewExecutor()
		b.ownsLane = true
	}
	return b
}

// process runs on the lane: formatter veto, delivery, failure
// isolation. A panicking destination is recovered here so the lane
// and every other binding keep going.
func (b *binding) process(m *core.Message) {
	defer func() {
		if r := recover(); r != nil {
			b.stats.failed.Add(1)
			b.report(m, fmt.Errorf("panic: %v", r))
		}
	}()

	rendered := m.Msg
	if b.formatter != nil {
		s, ok := b.formatter.Format(m)
		if !ok {
			b.stats.suppressed.Add(1)
			return
		}
		rendered = s
	}

	if err := b.dest.Deliver(rendered, m); err != nil {
		b.stats.failed.Add(1)
		b.report(m, err)
		return
	}
	b.stats.delivered.Add(1)
}

func (b *binding) report(m *core.Message, err error) {
	if b.errf != nil {
		b.errf(DeliveryError{Destination: b.dest, Message: m, Err: err})
	}
}

// attachHooks runs on the lane right after registration, before the
// binding can see any message.
func (b *binding) attachHooks() {
	if o, ok := b.formatter.(AttachObserver); ok {
		o.DidAddToDestination(b.dest)
	}
	if o, ok := b.dest.(AddObserver); ok {
		o.DidAdd()
	}
}

// detachHooks runs on the lane after the last queued delivery.
func (b *binding) detachHooks() {
	if o, ok := b.formatter.(DetachObserver); ok {
		o.WillRemoveFromDestination(b.dest)
	}
	if o, ok := b.dest.(RemoveObserver); ok {
		o.WillRemove()
	}
}

func (b *binding) name() string {
	return DestinationName(b.dest)
}
