package dispatch

import (
	"sync"
	"sync/atomic"
)

// Executor is a strictly ordered, unbounded task lane backed by a
// single worker goroutine. Each destination binding drains its queue
// through one, so a slow destination delays only its own lane.
//
// Submit never blocks: the queue grows instead. A destination that
// stops making progress is visible through Depth, not through stalled
// callers.
type Executor struct {
	mu      sync.Mutex
	cond    *sync.Cond
	tasks   []func()
	closed  bool
	pending atomic.Int64
	done    chan struct{}
}

// NewExecutor starts a lane and its worker goroutine.
func NewExecutor() *Executor {
	e := &Executor{done: make(chan struct{})}
	e.cond = sync.NewCond(&e.mu)
	go e.run()
	return e
}

// Submit appends a task to the lane. It reports false, without
// running the task, if the lane has already been closed.
func (e *Executor) Submit(fn func()) bool {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	e.tasks = append(e.tasks, fn)
	e.pending.Add(1)
	e.cond.Signal()
	e.mu.Unlock()
	return true
}

// Close stops accepting tasks. Tasks already submitted still run; the
// worker exits once the queue is empty, after which Done is closed.
// Safe to call from a task running on the lane itself.
func (e *Executor) Close() {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		e.cond.Signal()
	}
	e.mu.Unlock()
}

// Done is closed once the lane is closed and fully drained.
func (e *Executor) Done() <-chan struct{} {
	return e.done
}

// Depth returns the number of tasks submitted but not yet finished.
func (e *Executor) Depth() int {
	return int(e.pending.Load())
}

func (e *Executor) run() {
	for {
		e.mu.Lock()
		for len(e.tasks) == 0 && !e.closed {
			e.cond.Wait()
		}
		if len(e.tasks) == 0 {
			// closed and drained
			e.mu.Unlock()
			close(e.done)
			return
		}
		batch := e.tasks
		e.tasks = nil
		e.mu.Unlock()

		for _, fn := range batch {
			fn()
			e.pending.Add(-1)
		}
	}
}
