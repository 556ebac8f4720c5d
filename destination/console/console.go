package console

import (
	"io"
	"os"
	"sync"

	"github.com/logfan/logfan/core"
)

// Destination writes rendered messages to an io.Writer, one line per
// message. The dispatcher already serializes deliveries on the
// binding's lane; the write lock exists for writers shared outside
// the pipeline, and is skipped for writers known to be safe for
// concurrent writes.
type Destination struct {
	w    io.Writer
	mu   sync.Mutex
	safe bool
	name string
}

// Config configures a console destination.
type Config struct {
	// Writer defaults to os.Stdout.
	Writer io.Writer
	// Name is the display name; defaults to "console".
	Name string
	// ConcurrentWriter marks the writer safe for concurrent Write
	// calls, skipping the internal lock.
	ConcurrentWriter bool
}

// New creates a console destination.
func New(cfg Config) *Destination {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	name := cfg.Name
	if name == "" {
		name = "console"
	}
	return &Destination{
		w:    w,
		safe: cfg.ConcurrentWriter || isConcurrentSafeWriter(w),
		name: name,
	}
}

// isConcurrentSafeWriter reports writers known to serialize their own
// Write calls, so the destination can skip locking.
func isConcurrentSafeWriter(w io.Writer) bool {
	if w == io.Discard {
		return true
	}
	_, ok := w.(*os.File)
	return ok
}

// Deliver writes the rendered text and a trailing newline as a single
// Write call.
func (d *Destination) Deliver(text string, _ *core.Message) error {
	line := make([]byte, 0, len(text)+1)
	line = append(line, text...)
	if len(text) == 0 || text[len(text)-1] != '\n' {
		line = append(line, '\n')
	}

	if d.safe {
		_, err := d.w.Write(line)
		return err
	}
	d.mu.Lock()
	_, err := d.w.Write(line)
	d.mu.Unlock()
	return err
}

// Name implements the optional naming capability.
func (d *Destination) Name() string { return d.name }
