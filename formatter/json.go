package formatter

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/logfan/logfan/core"
)

// JSON renders each message as a single JSON object. Encoding is
// built by hand into a pooled buffer; message text and origin strings
// are the only fields that need escaping.
type JSON struct {
	Config
	layout string
}

// NewJSON creates a JSON formatter.
func NewJSON(cfg Config) *JSON {
	return &JSON{Config: cfg, layout: cfg.timestampFormat(time.RFC3339Nano)}
}

// Format implements the formatter capability.
func (f *JSON) Format(m *core.Message) (string, bool) {
	if f.Suppress != nil && f.Suppress(m) {
		return "", false
	}

	buf := getBuffer()
	defer putBuffer(buf)

	buf.WriteString(`{"time":"`)
	buf.Write(m.Time.AppendFormat(buf.AvailableBuffer(), f.layout))
	buf.WriteByte('"')

	buf.WriteString(`,"level":"`)
	buf.WriteString(m.Flag.String())
	buf.WriteByte('"')

	buf.WriteString(`,"seq":`)
	buf.Write(strconv.AppendUint(buf.AvailableBuffer(), m.Seq, 10))

	if m.Scope != "" {
		buf.WriteString(`,"scope":"`)
		appendEscaped(buf, m.Scope)
		buf.WriteByte('"')
	}

	buf.WriteString(`,"message":"`)
	appendEscaped(buf, m.Msg)
	buf.WriteByte('"')

	if f.ShowOrigin && m.File != "" {
		buf.WriteString(`,"origin":{"file":"`)
		appendEscaped(buf, m.FileName())
		buf.WriteString(`","line":`)
		buf.WriteString(strconv.Itoa(m.Line))
		if m.Function != "" {
			buf.WriteString(`,"function":"`)
			appendEscaped(buf, m.Function)
			buf.WriteByte('"')
		}
		buf.WriteByte('}')
	}
	if f.ShowGoroutine {
		buf.WriteString(`,"goroutine":`)
		buf.Write(strconv.AppendUint(buf.AvailableBuffer(), m.GID, 10))
	}
	if m.Tag != nil {
		buf.WriteString(`,"tag":"`)
		appendEscaped(buf, fmt.Sprint(m.Tag))
		buf.WriteByte('"')
	}

	buf.WriteByte('}')
	return buf.String(), true
}

var hexChars = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}

// appendEscaped writes a JSON-escaped string, without surrounding
// quotes, to the buffer.
func appendEscaped(buf *bytes.Buffer, s string) {
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		if start < i {
			buf.WriteString(s[start:i])
		}
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteString(`\u00`)
			buf.WriteByte(hexChars[c>>4])
			buf.WriteByte(hexChars[c&0x0f])
		}
		start = i + 1
	}
	if start < len(s) {
		buf.WriteString(s[start:])
	}
}
