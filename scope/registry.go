package scope

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/logfan/logfan/core"
)

// Registry maps scope names to runtime-mutable severity thresholds.
// Call sites consult it before constructing a message, so disabled
// logging costs one map lookup and one atomic load. Reads are
// deliberately relaxed: a log call racing a threshold change may use
// either value, which at worst means one extra or one missing line.
type Registry struct {
	defaultLevel atomic.Uint32
	mu           sync.Mutex // serializes writers creating new scopes
	scopes       sync.Map   // string -> *atomic.Uint32
}

// NewRegistry returns a registry whose unset scopes log everything.
// An unregistered call site is never silently muted; processes that
// prefer opt-in call SetDefault(core.LevelOff).
func NewRegistry() *Registry {
	r := &Registry{}
	r.defaultLevel.Store(uint32(core.LevelAll))
	return r
}

// Threshold returns the scope's threshold, or the registry default if
// the scope was never set.
func (r *Registry) Threshold(name string) core.Level {
	if v, ok := r.scopes.Load(name); ok {
		return core.Level(v.(*atomic.Uint32).Load())
	}
	return core.Level(r.defaultLevel.Load())
}

// SetThreshold sets the scope's threshold, creating the scope if this
// is the first time it is named.
func (r *Registry) SetThreshold(name string, l core.Level) {
	if v, ok := r.scopes.Load(name); ok {
		v.(*atomic.Uint32).Store(uint32(l))
		return
	}
	r.mu.Lock()
	v, _ := r.scopes.LoadOrStore(name, new(atomic.Uint32))
	v.(*atomic.Uint32).Store(uint32(l))
	r.mu.Unlock()
}

// SetDefault changes the threshold used for scopes that were never
// explicitly set.
func (r *Registry) SetDefault(l core.Level) {
	r.defaultLevel.Store(uint32(l))
}

// Default returns the fallback threshold.
func (r *Registry) Default() core.Level {
	return core.Level(r.defaultLevel.Load())
}

// Enabled reports whether a message with the given flag would pass
// the scope's threshold. This is the guard call sites use to skip
// building messages that would be dropped anyway.
func (r *Registry) Enabled(f core.Flag, name string) bool {
	return r.Threshold(name).Has(f)
}

// Scopes lists every scope that has been explicitly set, sorted.
func (r *Registry) Scopes() []string {
	var names []string
	r.scopes.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	sort.Strings(names)
	return names
}
