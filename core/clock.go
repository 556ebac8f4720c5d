package core

import (
	"sync"
	"sync/atomic"
	"time"
	"unsafe"
)

var (
	coarseOnce sync.Once
	coarseNow  unsafe.Pointer // *time.Time, nil until the coarse clock starts
)

// Now is the timestamp source for NewMessage. It returns time.Now
// unless the coarse clock has been started, in which case it returns
// the cached tick, trading sub-resolution accuracy for a much cheaper
// read under very high log rates. Dispatch ordering never depends on
// timestamps, so the trade is safe.
func Now() time.Time {
	p := atomic.LoadPointer(&coarseNow)
	if p == nil {
		return time.Now()
	}
	return *(*time.Time)(p)
}

// StartCoarseClock switches Now to a cached time refreshed every
// resolution by a background goroutine. Safe to call more than once;
// only the first call's resolution takes effect. The goroutine runs
// for the rest of the process, which is intentional: logging spans the
// whole application lifetime.
func StartCoarseClock(resolution time.Duration) {
	coarseOnce.Do(func() {
		if resolution <= 0 {
			resolution = 500 * time.Microsecond
		}
		t := time.Now()
		atomic.StorePointer(&coarseNow, unsafe.Pointer(&t))
		go func() {
			ticker := time.NewTicker(resolution)
			for range ticker.C {
				t := time.Now()
				atomic.StorePointer(&coarseNow, unsafe.Pointer(&t))
			}
		}()
	})
}
