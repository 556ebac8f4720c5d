package formatter

import (
	"bytes"
	"sync"

	"github.com/logfan/logfan/core"
)

// Config holds the options shared by the built-in formatters.
type Config struct {
	// TimestampFormat is a time layout string; empty means RFC3339
	// for text and RFC3339Nano for JSON.
	TimestampFormat string
	// ShowOrigin includes file:line (and function for JSON) in the
	// output.
	ShowOrigin bool
	// ShowGoroutine includes the emitting goroutine id.
	ShowGoroutine bool
	// Suppress, when set, vetoes any message it returns true for.
	// The destination never sees a suppressed message.
	Suppress func(*core.Message) bool
}

// bufferPool keeps formatting allocation-light; buffers above 64 KiB
// are not retained.
var bufferPool = &sync.Pool{
	New: func() any {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 {
		return
	}
	bufferPool.Put(buf)
}

func (c Config) timestampFormat(fallback string) string {
	if c.TimestampFormat == "" {
		return fallback
	}
	return c.TimestampFormat
}
