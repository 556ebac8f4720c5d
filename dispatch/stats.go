package dispatch

import "sync/atomic"

// Stats tracks what happened to the messages fanned out to one
// binding. All counters are atomic; reads may be taken while the lane
// is running.
type Stats struct {
	delivered  atomic.Uint64
	suppressed atomic.Uint64
	failed     atomic.Uint64
}

// StatsSnapshot is a point-in-time copy of a binding's counters plus
// its current queue depth.
type StatsSnapshot struct {
	// Delivered counts messages the destination accepted.
	Delivered uint64
	// Suppressed counts messages the formatter vetoed.
	Suppressed uint64
	// Failed counts delivery errors and recovered panics.
	Failed uint64
	// QueueDepth is the number of messages waiting on the lane.
	QueueDepth int
}

func (s *Stats) snapshot(depth int) StatsSnapshot {
	return StatsSnapshot{
		Delivered:  s.delivered.Load(),
		Suppressed: s.suppressed.Load(),
		Failed:     s.failed.Load(),
		QueueDepth: depth,
	}
}
