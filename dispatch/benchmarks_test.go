package dispatch

import (
	"testing"
	"time"

	"github.com/logfan/logfan/core"
)

// discardDest accepts everything and does nothing.
type discardDest struct{}

func (discardDest) Deliver(string, *core.Message) error { return nil }

// slowDest simulates slow sink I/O.
type slowDest struct{ delay time.Duration }

func (d slowDest) Deliver(string, *core.Message) error {
	time.Sleep(d.delay)
	return nil
}

func BenchmarkAsyncAdmission(b *testing.B) {
	d := New()
	d.AddDestination(discardDest{}, core.LevelAll, nil)
	defer d.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Info("benchmark message")
	}
}

func BenchmarkAsyncAdmissionParallel(b *testing.B) {
	d := New()
	d.AddDestination(discardDest{}, core.LevelAll, nil)
	defer d.Close()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			d.Info("benchmark message")
		}
	})
}

func BenchmarkSyncDelivery(b *testing.B) {
	d := New()
	d.AddDestination(discardDest{}, core.LevelAll, nil)
	defer d.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Error("benchmark error")
	}
}

// Admission must stay cheap even when one destination is slow; only
// that destination's queue grows.
func BenchmarkAdmissionWithSlowBinding(b *testing.B) {
	d := New()
	d.AddDestination(slowDest{delay: time.Millisecond}, core.LevelAll, nil)
	d.AddDestination(discardDest{}, core.LevelAll, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Info("benchmark message")
	}
	b.StopTimer()
	d.RemoveAllDestinations()
}

func BenchmarkFilteredCall(b *testing.B) {
	d := New()
	d.AddDestination(discardDest{}, core.LevelAll, nil)
	d.SetThreshold("muted", core.LevelOff)
	muted := d.Named("muted")
	defer d.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		muted.Verbosef("never built %d", i)
	}
}
