package dispatch

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/logfan/logfan/core"
	"github.com/logfan/logfan/scope"
)

// Dispatcher is the single entry point of the pipeline. It admits
// messages (assigning each its global sequence number), decides
// synchronous versus asynchronous delivery, and fans each admitted
// message out to every registered destination.
//
// The default delivery policy follows the crash-resilience rule:
// errors are synchronous, so the call does not return until every
// destination has handled the message; everything else is
// asynchronous and returns right after the O(1) admission step. The
// Log primitive overrides the default per call.
//
// Destinations must not log back into the same Dispatcher
// synchronously from their own Deliver path; that waits on the lane
// currently executing them.
type Dispatcher struct {
	reg    *registry
	levels *scope.Registry
	errf   ErrorFunc
}

// Option configures a Dispatcher at construction.
type Option func(*Dispatcher)

// WithErrorFunc replaces the default stderr reporter for delivery
// failures.
func WithErrorFunc(fn ErrorFunc) Option {
	return func(d *Dispatcher) { d.errf = fn }
}

// WithScopeRegistry shares a level registry between dispatchers.
func WithScopeRegistry(r *scope.Registry) Option {
	return func(d *Dispatcher) { d.levels = r }
}

// WithCoarseClock stamps messages from the cached coarse clock
// instead of time.Now. Worth it only at very high log rates.
func WithCoarseClock(resolution time.Duration) Option {
	return func(*Dispatcher) { core.StartCoarseClock(resolution) }
}

// New builds a dispatcher with no destinations. Messages admitted
// before the first AddDestination go nowhere.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{errf: stderrErrorFunc}
	for _, opt := range opts {
		opt(d)
	}
	if d.levels == nil {
		d.levels = scope.NewRegistry()
	}
	d.reg = newRegistry(func(e DeliveryError) {
		if d.errf != nil {
			d.errf(e)
		}
	})
	return d
}

// Log is the logging primitive behind the convenience methods.
// calldepth selects the origin frame: 0 means the caller of Log.
// The scope threshold is consulted before the message is built, so a
// filtered call allocates nothing. When async is false, Log returns
// only after every destination active at admission has finished this
// message.
func (d *Dispatcher) Log(async bool, level core.Level, flag core.Flag, scopeName string, calldepth int, tag any, format string, args ...any) {
	if !d.levels.Enabled(flag, scopeName) {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	file, function, line := core.CallerOrigin(calldepth + 1)
	m := core.NewMessage(msg, level, flag, scopeName, file, function, line, tag, 0)
	d.reg.admit(m, !async)
}

// LogMessage admits a caller-prepared message. It runs through the
// exact same admission path as Log: same sequence stamping, same
// fan-out, same sync semantics. No threshold guard is applied here;
// the caller already paid for the message.
func (d *Dispatcher) LogMessage(async bool, m *core.Message) {
	d.reg.admit(m, !async)
}

// logf backs the per-severity conveniences; the origin is resolved
// two frames up (the convenience's caller).
func (d *Dispatcher) logf(async bool, flag core.Flag, scopeName string, format string, args []any) {
	if !d.levels.Enabled(flag, scopeName) {
		return
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	file, function, line := core.CallerOrigin(2)
	m := core.NewMessage(msg, d.levels.Threshold(scopeName), flag, scopeName, file, function, line, nil, 0)
	d.reg.admit(m, !async)
}

// Error logs synchronously: if the process dies right after this
// call, the message was already handed to every destination.
func (d *Dispatcher) Error(msg string) { d.logf(false, core.FlagError, "", msg, nil) }

// Errorf logs a formatted error, synchronously.
func (d *Dispatcher) Errorf(format string, args ...any) {
	d.logf(false, core.FlagError, "", format, args)
}

// Warning logs asynchronously.
func (d *Dispatcher) Warning(msg string) { d.logf(true, core.FlagWarning, "", msg, nil) }

// Warningf logs a formatted warning, asynchronously.
func (d *Dispatcher) Warningf(format string, args ...any) {
	d.logf(true, core.FlagWarning, "", format, args)
}

// Info logs asynchronously.
func (d *Dispatcher) Info(msg string) { d.logf(true, core.FlagInfo, "", msg, nil) }

// Infof logs a formatted info message, asynchronously.
func (d *Dispatcher) Infof(format string, args ...any) {
	d.logf(true, core.FlagInfo, "", format, args)
}

// Debug logs asynchronously.
func (d *Dispatcher) Debug(msg string) { d.logf(true, core.FlagDebug, "", msg, nil) }

// Debugf logs a formatted debug message, asynchronously.
func (d *Dispatcher) Debugf(format string, args ...any) {
	d.logf(true, core.FlagDebug, "", format, args)
}

// Verbose logs asynchronously.
func (d *Dispatcher) Verbose(msg string) { d.logf(true, core.FlagVerbose, "", msg, nil) }

// Verbosef logs a formatted verbose message, asynchronously.
func (d *Dispatcher) Verbosef(format string, args ...any) {
	d.logf(true, core.FlagVerbose, "", format, args)
}

// AddDestination registers a destination with a threshold mask and an
// optional formatter (nil means the destination receives the raw
// message text). The destination starts receiving with the next
// admitted message; it never sees anything admitted earlier. The
// returned id can be used with RemoveDestinationByID.
func (d *Dispatcher) AddDestination(dest Destination, threshold core.Level, f Formatter) uuid.UUID {
	return d.reg.add(dest, threshold, f).id
}

// RemoveDestination marks the destination draining: it receives
// nothing admitted after this call but still delivers everything
// admitted before it. The call does not wait for the drain; pair it
// with Flush when that matters. Removing a destination that was
// never added is a no-op and returns false.
func (d *Dispatcher) RemoveDestination(dest Destination) bool {
	return d.reg.remove(func(b *binding) bool { return b.dest == dest })
}

// RemoveDestinationByID removes by the id AddDestination returned.
func (d *Dispatcher) RemoveDestinationByID(id uuid.UUID) bool {
	return d.reg.remove(func(b *binding) bool { return b.id == id })
}

// RemoveAllDestinations marks every destination draining. Combined
// with Flush this is the shutdown sequence: every previously admitted
// message is delivered (or was dropped by threshold or formatter)
// before Flush returns.
func (d *Dispatcher) RemoveAllDestinations() {
	d.reg.removeAll()
}

// DestinationInfo describes one binding for introspection.
type DestinationInfo struct {
	ID        uuid.UUID
	Name      string
	Threshold core.Level
	State     BindingState
	Stats     StatsSnapshot
}

// Destinations lists the bindings currently active or draining,
// active ones first in insertion order. Insertion order has no
// delivery meaning; every active binding receives every admitted
// message independently.
func (d *Dispatcher) Destinations() []DestinationInfo {
	bs := d.reg.snapshot()
	out := make([]DestinationInfo, len(bs))
	for i, b := range bs {
		out[i] = DestinationInfo{
			ID:        b.id,
			Name:      b.name(),
			Threshold: b.threshold,
			State:     BindingState(b.state.Load()),
			Stats:     b.stats.snapshot(b.lane.Depth()),
		}
	}
	return out
}

// Flush blocks until the delivery queue of every destination observed
// at the call, active or draining, has emptied, and invokes each
// destination's own Flush capability. With no destinations registered
// it returns immediately.
func (d *Dispatcher) Flush() error {
	return d.reg.flush()
}

// Close shuts the pipeline down: it flushes every destination, then
// removes them all and waits for each to drain fully, including its
// WillRemove hook. Flush errors encountered on the way out are
// returned, aggregated.
func (d *Dispatcher) Close() error {
	err := d.reg.flush()
	removed := d.reg.removeAll()
	for _, b := range removed {
		<-b.removed
	}
	return err
}

// Threshold returns the dynamic threshold for a scope.
func (d *Dispatcher) Threshold(scopeName string) core.Level {
	return d.levels.Threshold(scopeName)
}

// SetThreshold adjusts a scope's threshold at runtime.
func (d *Dispatcher) SetThreshold(scopeName string, l core.Level) {
	d.levels.SetThreshold(scopeName, l)
}

// Scopes lists the scopes with explicitly set thresholds.
func (d *Dispatcher) Scopes() []string {
	return d.levels.Scopes()
}

// Levels exposes the underlying scope registry, for call sites that
// want to guard expensive message construction themselves.
func (d *Dispatcher) Levels() *scope.Registry {
	return d.levels
}

// Named returns a view of the dispatcher bound to one scope. Its
// convenience methods consult the scope's threshold before building
// a message.
func (d *Dispatcher) Named(scopeName string) *ScopedLogger {
	return &ScopedLogger{d: d, scope: scopeName}
}

// ScopedLogger is a Dispatcher view bound to a scope name.
type ScopedLogger struct {
	d     *Dispatcher
	scope string
}

// Scope returns the scope name this view is bound to.
func (s *ScopedLogger) Scope() string { return s.scope }

// Error logs synchronously under the scope's threshold.
func (s *ScopedLogger) Error(msg string) { s.d.logf(false, core.FlagError, s.scope, msg, nil) }

// Errorf logs a formatted error, synchronously.
func (s *ScopedLogger) Errorf(format string, args ...any) {
	s.d.logf(false, core.FlagError, s.scope, format, args)
}

// Warning logs asynchronously under the scope's threshold.
func (s *ScopedLogger) Warning(msg string) { s.d.logf(true, core.FlagWarning, s.scope, msg, nil) }

// Warningf logs a formatted warning, asynchronously.
func (s *ScopedLogger) Warningf(format string, args ...any) {
	s.d.logf(true, core.FlagWarning, s.scope, format, args)
}

// Info logs asynchronously under the scope's threshold.
func (s *ScopedLogger) Info(msg string) { s.d.logf(true, core.FlagInfo, s.scope, msg, nil) }

// Infof logs a formatted info message, asynchronously.
func (s *ScopedLogger) Infof(format string, args ...any) {
	s.d.logf(true, core.FlagInfo, s.scope, format, args)
}

// Debug logs asynchronously under the scope's threshold.
func (s *ScopedLogger) Debug(msg string) { s.d.logf(true, core.FlagDebug, s.scope, msg, nil) }

// Debugf logs a formatted debug message, asynchronously.
func (s *ScopedLogger) Debugf(format string, args ...any) {
	s.d.logf(true, core.FlagDebug, s.scope, format, args)
}

// Verbose logs asynchronously under the scope's threshold.
func (s *ScopedLogger) Verbose(msg string) { s.d.logf(true, core.FlagVerbose, s.scope, msg, nil) }

// Verbosef logs a formatted verbose message, asynchronously.
func (s *ScopedLogger) Verbosef(format string, args ...any) {
	s.d.logf(true, core.FlagVerbose, s.scope, format, args)
}
