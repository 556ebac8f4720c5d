package formatter

import (
	"strconv"
	"time"

	"github.com/logfan/logfan/core"
)

// Text renders messages as one human-readable line:
//
//	2024-05-01T10:30:00Z [ERROR] (storage) [store.go:42] disk full
//
// The scope parenthetical appears only when the message has one, the
// origin bracket only when ShowOrigin is set.
type Text struct {
	Config
	layout string
}

// NewText creates a text formatter.
func NewText(cfg Config) *Text {
	return &Text{Config: cfg, layout: cfg.timestampFormat(time.RFC3339)}
}

// Format implements the formatter capability.
func (f *Text) Format(m *core.Message) (string, bool) {
	if f.Suppress != nil && f.Suppress(m) {
		return "", false
	}

	buf := getBuffer()
	defer putBuffer(buf)

	buf.Write(m.Time.AppendFormat(buf.AvailableBuffer(), f.layout))
	buf.WriteString(" [")
	buf.WriteString(m.Flag.Label())
	buf.WriteByte(']')

	if m.Scope != "" {
		buf.WriteString(" (")
		buf.WriteString(m.Scope)
		buf.WriteByte(')')
	}
	if f.ShowOrigin && m.File != "" {
		buf.WriteString(" [")
		buf.WriteString(m.FileName())
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(m.Line))
		buf.WriteByte(']')
	}
	if f.ShowGoroutine {
		buf.WriteString(" g=")
		buf.Write(strconv.AppendUint(buf.AvailableBuffer(), m.GID, 10))
	}

	buf.WriteByte(' ')
	buf.WriteString(m.Msg)
	return buf.String(), true
}
