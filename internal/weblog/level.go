// Package weblog normalizes raw browser log records into typed entries.
package weblog

import (
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/pagewrap/api/schemas"
)

// Level is the severity of a browser log entry.
type Level int

// LevelUnset marks a level string that is absent or not one of the recognized
// severities. The remaining values keep the ordering used by WebDriver.
const (
	LevelUnset Level = iota - 1
	LevelOff
	LevelSevere
	LevelWarning
	LevelInfo
	LevelDebug
	LevelAll
)

// ParseLevel maps the case-exact wire strings SEVERE, WARNING, INFO and DEBUG.
// Everything else, OFF and ALL included, yields LevelUnset.
func ParseLevel(s string) Level {
	switch s {
	case schemas.LevelSevere:
		return LevelSevere
	case schemas.LevelWarning:
		return LevelWarning
	case schemas.LevelInfo:
		return LevelInfo
	case schemas.LevelDebug:
		return LevelDebug
	default:
		return LevelUnset
	}
}

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "OFF"
	case LevelSevere:
		return schemas.LevelSevere
	case LevelWarning:
		return schemas.LevelWarning
	case LevelInfo:
		return schemas.LevelInfo
	case LevelDebug:
		return schemas.LevelDebug
	case LevelAll:
		return "ALL"
	default:
		return "UNSET"
	}
}

// IsSet reports whether the level was recognized.
func (l Level) IsSet() bool { return l != LevelUnset }

// ZapLevel maps the severity onto the structured logger's levels so browser output
// can be replayed through it. Unset and the bracketing levels log at info.
func (l Level) ZapLevel() zapcore.Level {
	switch l {
	case LevelSevere:
		return zapcore.ErrorLevel
	case LevelWarning:
		return zapcore.WarnLevel
	case LevelDebug:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}
