// Package slogbridge adapts a dispatcher to the standard log/slog API.
//
// Records flow through the dispatcher's admission path, so they are
// sequenced and fan out to destinations together with events logged
// directly. Attributes are rendered into the message text as key=value
// pairs since the pipeline carries plain messages.
package slogbridge

import (
	"context"
	"log/slog"
	"runtime"
	"strings"

	"github.com/logfan/logfan/core"
	"github.com/logfan/logfan/dispatch"
)

// Handler implements slog.Handler on top of a Dispatcher.
type Handler struct {
	disp      *dispatch.Dispatcher
	scopeName string
	min       slog.Level
	attrs     []slog.Attr
	group     string
}

// Option configures a Handler.
type Option func(*Handler)

// WithScope routes bridged records through the named scope, so its
// threshold applies.
func WithScope(name string) Option {
	return func(h *Handler) { h.scopeName = name }
}

// WithMinLevel drops records below min before they reach admission.
func WithMinLevel(min slog.Level) Option {
	return func(h *Handler) { h.min = min }
}

// New returns a slog.Handler feeding disp.
func New(disp *dispatch.Dispatcher, opts ...Option) *Handler {
	h := &Handler{disp: disp, min: slog.LevelDebug}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Enabled gates by the handler's minimum level and the scope threshold.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	if level < h.min {
		return false
	}
	return h.disp.Threshold(h.scopeName).Has(flagFor(level))
}

// Handle converts the record and admits it through the dispatcher.
// Error-level records are delivered synchronously, matching the
// dispatcher's own default.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	flag := flagFor(r.Level)

	var sb strings.Builder
	sb.WriteString(r.Message)
	for i := range h.attrs {
		appendAttr(&sb, h.group, h.attrs[i])
	}
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&sb, h.group, a)
		return true
	})

	file, function, line := originFromPC(r.PC)
	m := core.NewMessage(sb.String(), h.disp.Threshold(h.scopeName), flag, h.scopeName, file, function, line, nil, 0)
	if !r.Time.IsZero() {
		m.Time = r.Time
	}
	m.QueueLabel = "slog"

	h.disp.LogMessage(flag != core.FlagError, m)
	return nil
}

// WithAttrs returns a copy of the handler with additional base attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	nh := *h
	nh.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &nh
}

// WithGroup returns a copy of the handler that prefixes attribute keys
// with the group name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	if h.group != "" {
		nh.group = h.group + "." + name
	} else {
		nh.group = name
	}
	return &nh
}

func appendAttr(sb *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		prefix := a.Key
		if group != "" {
			prefix = group + "." + a.Key
		}
		for _, ga := range a.Value.Group() {
			appendAttr(sb, prefix, ga)
		}
		return
	}
	if a.Key == "" {
		return
	}
	sb.WriteByte(' ')
	if group != "" {
		sb.WriteString(group)
		sb.WriteByte('.')
	}
	sb.WriteString(a.Key)
	sb.WriteByte('=')
	sb.WriteString(a.Value.String())
}

func originFromPC(pc uintptr) (file, function string, line int) {
	if pc == 0 {
		return "", "", 0
	}
	frames := runtime.CallersFrames([]uintptr{pc})
	frame, _ := frames.Next()
	return frame.File, frame.Function, frame.Line
}

func flagFor(level slog.Level) core.Flag {
	switch {
	case level >= slog.LevelError:
		return core.FlagError
	case level >= slog.LevelWarn:
		return core.FlagWarning
	case level >= slog.LevelInfo:
		return core.FlagInfo
	default:
		return core.FlagDebug
	}
}
