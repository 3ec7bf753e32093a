// Package logging implements the dialect's eight-level logging facade on top
// of fortio.org/log. The interpreter core only ever depends on the Level type
// and the package-level Debugf/Infof/Warnf/Errorf/Criticalf functions; wiring
// a different transport means swapping this file, not touching the
// evaluator.
package logging

import (
	"strings"

	flog "fortio.org/log"
)

// Level mirrors the eight named levels from the reference implementation's
// logging.h. fortio.org/log only has one debug tier, so DebugDeep and
// DebugMid are carried as a bracketed sub-tag on top of flog.Debug.
type Level int

const (
	NotSet Level = iota
	DebugDeep
	DebugMid
	Debug
	Info
	Warning
	Error
	Critical
)

var names = [...]string{
	NotSet:    "NOTSET",
	DebugDeep: "DEBUG_DEEP",
	DebugMid:  "DEBUG_MID",
	Debug:     "DEBUG",
	Info:      "INFO",
	Warning:   "WARNING",
	Error:     "ERROR",
	Critical:  "CRITICAL",
}

// NameForLevel returns the canonical name of level, or "NOTSET" if it is out
// of range.
func NameForLevel(l Level) string {
	if l < NotSet || l > Critical {
		return names[NotSet]
	}
	return names[l]
}

// LevelForName parses a level name such as "ERROR" or "debug_mid" (case
// insensitive). Unrecognized names fall back to the current level, matching
// log_level_for in the reference implementation, which never errors.
func LevelForName(name string, current Level) Level {
	u := strings.ToUpper(strings.TrimSpace(name))
	for l, n := range names {
		if n == u {
			return Level(l)
		}
	}
	return current
}

var level = Error

// SetLevel sets the process-wide logging threshold. Messages below this
// level are dropped.
func SetLevel(l Level) {
	level = l
	switch {
	case l <= Debug:
		flog.SetLogLevel(flog.Debug)
	case l == Info:
		flog.SetLogLevel(flog.Info)
	case l == Warning:
		flog.SetLogLevel(flog.Warning)
	case l == Error:
		flog.SetLogLevel(flog.Error)
	default:
		flog.SetLogLevel(flog.Critical)
	}
}

// CurrentLevel returns the level last set with SetLevel (Error by default).
func CurrentLevel() Level { return level }

func enabled(l Level) bool { return l >= level }

// DebugDeepf logs at the DEBUG_DEEP level.
func DebugDeepf(format string, args ...interface{}) {
	if enabled(DebugDeep) {
		flog.Debugf("[deep] "+format, args...)
	}
}

// DebugMidf logs at the DEBUG_MID level.
func DebugMidf(format string, args ...interface{}) {
	if enabled(DebugMid) {
		flog.Debugf("[mid] "+format, args...)
	}
}

// Debugf logs at the DEBUG level.
func Debugf(format string, args ...interface{}) {
	if enabled(Debug) {
		flog.Debugf(format, args...)
	}
}

// Infof logs at the INFO level.
func Infof(format string, args ...interface{}) {
	if enabled(Info) {
		flog.Infof(format, args...)
	}
}

// Warnf logs at the WARNING level.
func Warnf(format string, args ...interface{}) {
	if enabled(Warning) {
		flog.Warnf(format, args...)
	}
}

// Errorf logs at the ERROR level.
func Errorf(format string, args ...interface{}) {
	if enabled(Error) {
		flog.Errf(format, args...)
	}
}

// Criticalf logs at the CRITICAL level. Callers are expected to terminate the
// process shortly after, mirroring OutOfMemory handling in the driver.
func Criticalf(format string, args ...interface{}) {
	flog.Critf(format, args...)
}
