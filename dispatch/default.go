package dispatch

import (
	"sync"

	"github.com/google/uuid"
	"github.com/logfan/logfan/core"
)

var (
	defaultDispatcher = New()
	defaultMu         sync.RWMutex
)

// Default returns the process-wide dispatcher. It starts with no
// destinations; add one before expecting output.
func Default() *Dispatcher {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultDispatcher
}

// SetDefault replaces the process-wide dispatcher. The previous one
// keeps draining; call Close on it if its destinations matter.
func SetDefault(d *Dispatcher) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultDispatcher = d
}

// Package-level convenience functions using the default dispatcher.

// AddDestination registers a destination on the default dispatcher.
func AddDestination(dest Destination, threshold core.Level, f Formatter) uuid.UUID {
	return Default().AddDestination(dest, threshold, f)
}

// RemoveDestination removes a destination from the default dispatcher.
func RemoveDestination(dest Destination) bool {
	return Default().RemoveDestination(dest)
}

// RemoveAllDestinations removes every destination from the default
// dispatcher.
func RemoveAllDestinations() {
	Default().RemoveAllDestinations()
}

// Destinations lists the default dispatcher's bindings.
func Destinations() []DestinationInfo {
	return Default().Destinations()
}

// Flush drains the default dispatcher's queues.
func Flush() error {
	return Default().Flush()
}

// SetThreshold adjusts a scope threshold on the default dispatcher.
func SetThreshold(scopeName string, l core.Level) {
	Default().SetThreshold(scopeName, l)
}

// Threshold reads a scope threshold from the default dispatcher.
func Threshold(scopeName string) core.Level {
	return Default().Threshold(scopeName)
}

// Scopes lists the default dispatcher's explicitly set scopes.
func Scopes() []string {
	return Default().Scopes()
}

// Named returns a scoped view of the default dispatcher.
func Named(scopeName string) *ScopedLogger {
	return Default().Named(scopeName)
}

// Error logs an error on the default dispatcher, synchronously.
func Error(msg string) { Default().logf(false, core.FlagError, "", msg, nil) }

// Errorf logs a formatted error on the default dispatcher,
// synchronously.
func Errorf(format string, args ...any) {
	Default().logf(false, core.FlagError, "", format, args)
}

// Warning logs a warning on the default dispatcher.
func Warning(msg string) { Default().logf(true, core.FlagWarning, "", msg, nil) }

// Warningf logs a formatted warning on the default dispatcher.
func Warningf(format string, args ...any) {
	Default().logf(true, core.FlagWarning, "", format, args)
}

// Info logs an info message on the default dispatcher.
func Info(msg string) { Default().logf(true, core.FlagInfo, "", msg, nil) }

// Infof logs a formatted info message on the default dispatcher.
func Infof(format string, args ...any) {
	Default().logf(true, core.FlagInfo, "", format, args)
}

// Debug logs a debug message on the default dispatcher.
func Debug(msg string) { Default().logf(true, core.FlagDebug, "", msg, nil) }

// Debugf logs a formatted debug message on the default dispatcher.
func Debugf(format string, args ...any) {
	Default().logf(true, core.FlagDebug, "", format, args)
}

// Verbose logs a verbose message on the default dispatcher.
func Verbose(msg string) { Default().logf(true, core.FlagVerbose, "", msg, nil) }

// Verbosef logs a formatted verbose message on the default
// dispatcher.
func Verbosef(format string, args ...any) {
	Default().logf(true, core.FlagVerbose, "", format, args)
}
