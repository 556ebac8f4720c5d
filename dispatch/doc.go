// Package dispatch is the core of logfan: admission, ordering, and
// fan-out of log messages to registered destinations.
//
// One global serialization point exists in the pipeline: admission,
// where a message gets its sequence number and is handed to every
// eligible destination's lane. The critical section is a counter
// increment plus one non-blocking queue append per destination;
// everything downstream runs concurrently. Each destination owns an
// unbounded FIFO lane with a dedicated worker goroutine, so a slow
// file never delays the console and neither ever delays the caller.
//
// Ordering guarantees:
//
//   - Sequence numbers are strictly increasing in admission order.
//   - Every binding delivers the messages it was eligible for in
//     admission order.
//   - A destination added after message N never sees N or anything
//     earlier; a destination removed after message M still delivers
//     everything through M before it is discarded.
//
// Synchronous calls (the default for errors) return only after every
// destination active at admission has finished the message; other
// severities return immediately after admission. Flush blocks until
// the queues observed at the call are empty. Shutdown is
// RemoveAllDestinations followed by Flush, or just Close.
//
// Failures at a destination are isolated: the error (or recovered
// panic) goes to the dispatcher's ErrorFunc and the lane moves on.
// Nothing in this package terminates the process; the worst case for
// a stuck destination is its own growing queue depth, visible via
// Destinations().
package dispatch
