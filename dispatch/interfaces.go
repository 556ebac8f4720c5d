package dispatch

import "github.com/logfan/logfan/core"

// Destination is the one capability every output target must provide.
// Deliver receives the rendered text and the original message, for
// destinations that want the raw metadata as well. Deliver is always
// invoked on the binding's own lane, one message at a time, in
// admission order.
type Destination interface {
	Deliver(rendered string, m *core.Message) error
}

// Formatter renders a message to text. Returning ok=false vetoes
// delivery: nothing reaches the destination and the event counts as
// suppressed, not failed. A nil formatter on a binding means the
// destination receives the message text as-is.
type Formatter interface {
	Format(m *core.Message) (rendered string, ok bool)
}

// Optional destination capabilities. The dispatcher probes for these
// with type assertions; destinations implement only what they need.
type (
	// Flusher lets a buffering destination participate in Flush.
	Flusher interface {
		Flush() error
	}

	// NamedDestination destinations get a readable name in
	// introspection and error reports instead of their Go type.
	NamedDestination interface {
		Name() string
	}

	// AddObserver is notified on the binding's lane after the
	// destination is registered and before it receives any message.
	AddObserver interface {
		DidAdd()
	}

	// RemoveObserver is notified on the binding's lane after the last
	// queued message has been delivered.
	RemoveObserver interface {
		WillRemove()
	}

	// ExecutorProvider lets a destination supply its own delivery
	// lane instead of receiving an auto-created one. The provided
	// executor is not closed when the destination is removed; its
	// owner decides its lifetime. Two destinations sharing one
	// executor serialize against each other.
	ExecutorProvider interface {
		Executor() *Executor
	}
)

// Optional formatter hooks, for formatters that keep per-destination
// state or are not safe to share.
type (
	// AttachObserver is notified on the binding's lane when the
	// formatter is attached to a destination.
	AttachObserver interface {
		DidAddToDestination(d Destination)
	}

	// DetachObserver is notified on the binding's lane when the
	// destination is being removed.
	DetachObserver interface {
		WillRemoveFromDestination(d Destination)
	}
)
