// Package formatter provides the built-in text and JSON renderings of
// log messages.
//
// Both formatters implement the dispatch.Formatter capability and are
// safe to share between destinations: they keep no per-destination
// state and format into pooled buffers. A Suppress predicate in the
// Config turns either one into a content-based filter — returning
// true vetoes the message before it reaches the destination.
package formatter
