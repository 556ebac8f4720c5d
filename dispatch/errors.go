package dispatch

import (
	"errors"
	"fmt"
	"os"

	"github.com/logfan/logfan/core"
)

// ErrExecutorClosed reports that a destination-provided executor was
// closed while its binding was still active, so a fanned-out message
// could not be queued.
var ErrExecutorClosed = errors.New("dispatch: executor closed")

// DeliveryError is the side channel for failures at the binding
// boundary: a Deliver error, a recovered panic, or a flush failure.
// It never propagates to the caller of Log; it is handed to the
// dispatcher's error function and the binding keeps processing.
type DeliveryError struct {
	Destination Destination
	Message     *core.Message // nil for flush failures
	Err         error
}

func (e DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed: %v", DestinationName(e.Destination), e.Err)
}

func (e DeliveryError) Unwrap() error {
	return e.Err
}

// ErrorFunc receives delivery failures. Implementations must not log
// back into the same dispatcher synchronously.
type ErrorFunc func(DeliveryError)

// DestinationName returns the destination's display name, falling
// back to its Go type.
func DestinationName(d Destination) string {
	if n, ok := d.(NamedDestination); ok {
		if name := n.Name(); name != "" {
			return name
		}
	}
	return fmt.Sprintf("%T", d)
}

// stderrErrorFunc is the log of last resort: one line per failure,
// straight to stderr, so a broken destination is never fully silent.
func stderrErrorFunc(e DeliveryError) {
	fmt.Fprintf(os.Stderr, "logfan: %v\n", e)
}
