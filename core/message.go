package core

import (
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Options control how a Message treats the origin strings it is given.
// Call sites that pass compile-time constants (the common case) can
// skip the copy; call sites that build file or function names from
// transient buffers must request one so the message does not outlive
// its backing storage.
type Options uint8

const (
	// CopyFile makes the message own a copy of the file string.
	CopyFile Options = 1 << iota
	// CopyFunction makes the message own a copy of the function string.
	CopyFunction
)

// Message is one log event. It is constructed once at the call site,
// stamped by the dispatcher at admission, and treated as immutable by
// everything downstream. Fields are exported for direct access by
// formatters and destinations.
type Message struct {
	Msg   string
	Level Level
	Flag  Flag

	// Scope names the subsystem the call site belongs to; it keys the
	// dynamic level registry and is available to formatters.
	Scope string

	Time     time.Time
	File     string
	Function string
	Line     int

	// GID identifies the emitting goroutine. ThreadName and QueueLabel
	// are caller-provided; the runtime has no notion of either, so they
	// stay empty unless the call site (or a bridge) fills them in.
	GID        uint64
	ThreadName string
	QueueLabel string

	// Tag is an opaque slot for consumer-defined routing or metadata.
	// The pipeline never interprets it.
	Tag any

	// Seq is the global admission sequence number. Zero until the
	// dispatcher admits the message; the sole ordering key afterwards.
	Seq uint64
}

// NewMessage builds a Message with an explicit origin. The timestamp is
// captured here, not at admission, so queueing delay never skews it.
func NewMessage(msg string, level Level, flag Flag, scope, file, function string, line int, tag any, opts Options) *Message {
	if opts&CopyFile != 0 {
		file = strings.Clone(file)
	}
	if opts&CopyFunction != 0 {
		function = strings.Clone(function)
	}
	return &Message{
		Msg:      msg,
		Level:    level,
		Flag:     flag,
		Scope:    scope,
		Time:     Now(),
		File:     file,
		Function: function,
		Line:     line,
		GID:      GoroutineID(),
		Tag:      tag,
	}
}

// FileName returns the origin file without directory or extension,
// which is what formatters usually want.
func (m *Message) FileName() string {
	base := filepath.Base(m.File)
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}

// CallerOrigin resolves the origin of the frame skip levels above the
// caller. Strings returned by the runtime are immutable, so no copy
// options are needed on this path.
func CallerOrigin(skip int) (file, function string, line int) {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "", "", 0
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		function = fn.Name()
	}
	return file, function, line
}

// GoroutineID returns the numeric id of the calling goroutine, parsed
// from the runtime's stack header. It is intended for log correlation
// only, never for synchronization.
func GoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	// Header is "goroutine 123 [running]:".
	s := buf[len("goroutine "):n]
	var id uint64
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}
