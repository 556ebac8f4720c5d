package core

import (
	"fmt"
	"strings"
)

// Flag identifies the single severity of one log message as an
// independent bit. Flags are also the building blocks of thresholds:
// a threshold is any combination of flags, not necessarily a
// contiguous range.
type Flag uint32

const (
	// FlagError marks error messages.
	FlagError Flag = 1 << iota
	// FlagWarning marks warning messages.
	FlagWarning
	// FlagInfo marks informational messages.
	FlagInfo
	// FlagDebug marks debugging messages.
	FlagDebug
	// FlagVerbose marks highly detailed trace messages.
	FlagVerbose
)

// Level is a severity mask. The predefined levels are cumulative
// (LevelWarning includes errors, LevelInfo includes warnings, and so
// on), but any flag combination is a valid Level, which allows
// fine-grained thresholds such as FlagError|FlagInfo without warnings.
type Level uint32

const (
	// LevelOff disables all logging.
	LevelOff Level = 0
	// LevelError enables error messages only.
	LevelError Level = Level(FlagError)
	// LevelWarning enables warnings and errors.
	LevelWarning Level = LevelError | Level(FlagWarning)
	// LevelInfo enables info, warnings, and errors (common default).
	LevelInfo Level = LevelWarning | Level(FlagInfo)
	// LevelDebug enables everything except verbose traces.
	LevelDebug Level = LevelInfo | Level(FlagDebug)
	// LevelVerbose enables the five standard severities.
	LevelVerbose Level = LevelDebug | Level(FlagVerbose)
	// LevelAll has every bit set, including bits reserved by
	// third-party extensions that define their own flags.
	LevelAll Level = ^Level(0)
)

// Has reports whether the level mask enables the given flag.
func (l Level) Has(f Flag) bool {
	return l&Level(f) != 0
}

// String returns the flag's lowercase name, or a hex literal for
// extension flags outside the standard five.
func (f Flag) String() string {
	switch f {
	case FlagError:
		return "error"
	case FlagWarning:
		return "warning"
	case FlagInfo:
		return "info"
	case FlagDebug:
		return "debug"
	case FlagVerbose:
		return "verbose"
	default:
		return fmt.Sprintf("0x%x", uint32(f))
	}
}

// Label returns the fixed-width uppercase tag used by formatters.
func (f Flag) Label() string {
	switch f {
	case FlagError:
		return "ERROR"
	case FlagWarning:
		return "WARN"
	case FlagInfo:
		return "INFO"
	case FlagDebug:
		return "DEBUG"
	case FlagVerbose:
		return "VERBOSE"
	default:
		return "CUSTOM"
	}
}

// String renders the level. Cumulative levels print their conventional
// name; arbitrary masks print as a | separated flag list.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelVerbose:
		return "verbose"
	case LevelAll:
		return "all"
	}
	var parts []string
	for _, f := range []Flag{FlagError, FlagWarning, FlagInfo, FlagDebug, FlagVerbose} {
		if l.Has(f) {
			parts = append(parts, f.String())
		}
	}
	if rest := l &^ LevelVerbose; rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	if len(parts) == 0 {
		return "off"
	}
	return strings.Join(parts, "|")
}

// ParseLevel parses a level from its textual form. It accepts the
// cumulative names ("off", "error", ..., "verbose", "all") and
// | separated flag lists ("error|info"). Parsing is case-insensitive.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "verbose", "trace":
		return LevelVerbose, nil
	case "all":
		return LevelAll, nil
	case "":
		return LevelOff, fmt.Errorf("parse level: empty string")
	}

	var l Level
	for _, part := range strings.Split(s, "|") {
		f, err := parseFlag(strings.TrimSpace(part))
		if err != nil {
			return LevelOff, fmt.Errorf("parse level %q: %w", s, err)
		}
		l |= Level(f)
	}
	return l, nil
}

func parseFlag(s string) (Flag, error) {
	switch strings.ToLower(s) {
	case "error":
		return FlagError, nil
	case "warning", "warn":
		return FlagWarning, nil
	case "info":
		return FlagInfo, nil
	case "debug":
		return FlagDebug, nil
	case "verbose", "trace":
		return FlagVerbose, nil
	default:
		return 0, fmt.Errorf("unknown severity flag %q", s)
	}
}
