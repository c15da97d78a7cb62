// Package pbreport defines diagnostics and the report shape the validator
// produces: per-file errors/warnings keyed by diagnostic type, and a
// global summary across all files processed.
package pbreport

import "fmt"

// Level distinguishes a fatal violation from an advisory anomaly.
type Level int

const (
	LevelError Level = iota
	LevelWarning
)

// Diagnostic is one violation or anomaly found while checking a file.
type Diagnostic struct {
	Level   Level
	Type    string
	Message string
}

// Errorf builds an error-level diagnostic of the given type.
func Errorf(typ, format string, args ...any) Diagnostic {
	return Diagnostic{Level: LevelError, Type: typ, Message: fmt.Sprintf(format, args...)}
}

// Warnf builds a warning-level diagnostic of the given type.
func Warnf(typ, format string, args ...any) Diagnostic {
	return Diagnostic{Level: LevelWarning, Type: typ, Message: fmt.Sprintf(format, args...)}
}
