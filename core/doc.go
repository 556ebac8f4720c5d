// Package core defines the shared types used across the logfan
// pipeline.
//
// Severity has two faces. Flag is the single bit identifying one
// message's severity; Level is a mask of flags used as a threshold.
// The predefined levels are cumulative (LevelInfo includes warnings
// and errors), but any flag combination is a valid threshold, so a
// destination can ask for, say, errors and info without warnings.
//
// Message is the immutable log event: the rendered text, severity,
// origin (file, function, line, with opt-in copy semantics for call
// sites that pass transient strings), goroutine identity, an opaque
// Tag, and the admission sequence number the dispatcher stamps onto
// it. Two messages admitted by the same dispatcher always carry
// strictly increasing sequence numbers in admission order.
//
// Now is the package's timestamp source. StartCoarseClock replaces it
// with a cached tick for workloads where time.Now shows up in
// profiles.
package core
