// Package scope holds runtime-adjustable severity thresholds keyed by
// scope name, where a scope is whatever granularity the application
// wants: a package, a subsystem, or an explicit string key.
//
// The registry exists so call sites can skip the cost of building log
// messages that would be filtered anyway. It makes no ordering
// promises relative to the event stream; a threshold change becomes
// visible to other goroutines eventually, and a call racing the
// change may observe either value.
package scope
