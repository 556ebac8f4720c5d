// Package zapdest bridges a dispatcher into an existing zap logger.
//
// It is useful when an application already ships its output through zap
// and wants this pipeline's events to land in the same sinks.
package zapdest

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/logfan/logfan/core"
)

// Destination forwards delivered messages to a *zap.Logger.
type Destination struct {
	logger *zap.Logger
	name   string
}

// New wraps logger. Caller-site annotation is disabled on the wrapped
// logger since the origin fields already carry the real call site.
func New(logger *zap.Logger) *Destination {
	return &Destination{
		logger: logger.WithOptions(zap.WithCaller(false)),
		name:   "zap",
	}
}

// Deliver logs the rendered line at the zap level matching the message
// flag, with sequence, scope, and origin attached as fields.
func (d *Destination) Deliver(rendered string, m *core.Message) error {
	lvl := zapLevel(m.Flag)
	ce := d.logger.Check(lvl, rendered)
	if ce == nil {
		return nil
	}

	fields := make([]zapcore.Field, 0, 4)
	fields = append(fields, zap.Uint64("seq", m.Seq))
	if m.Scope != "" {
		fields = append(fields, zap.String("scope", m.Scope))
	}
	if m.File != "" {
		fields = append(fields, zap.String("file", m.File), zap.Int("line", m.Line))
	}
	ce.Write(fields...)
	return nil
}

// Flush syncs the underlying zap logger.
func (d *Destination) Flush() error {
	return d.logger.Sync()
}

// Name returns "zap".
func (d *Destination) Name() string {
	return d.name
}

func zapLevel(f core.Flag) zapcore.Level {
	switch f {
	case core.FlagError:
		return zapcore.ErrorLevel
	case core.FlagWarning:
		return zapcore.WarnLevel
	case core.FlagInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
