package model

import (
	"strings"
	"time"
)

// Level is the severity of a progress event.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Event is a single line of the progress stream a front end renders.
type Event struct {
	RunID   string    `json:"run_id"`
	Time    time.Time `json:"time"`
	Current int       `json:"current"`
	Total   int       `json:"total"`
	Message string    `json:"message"`
	Level   Level     `json:"level"`
	Cuenta  string    `json:"cuenta,omitempty"`
	Nombre  string    `json:"nombre,omitempty"`
}

// Warning is a per-client problem recorded in the run summary.
type Warning struct {
	Cuenta  string `json:"cuenta,omitempty"`
	Nombre  string `json:"nombre,omitempty"`
	Message string `json:"message"`
}

// Summary is the terminal tally of a run.
type Summary struct {
	RunID     string        `json:"run_id"`
	Total     int           `json:"total"`     // unique clients in the primary source
	Processed int           `json:"processed"` // clients visited before the run ended
	Succeeded int           `json:"succeeded"` // clients whose folder was produced
	Skipped   int           `json:"skipped"`   // clients without any channel
	Failed    int           `json:"failed"`
	Files     int           `json:"files"`
	Warnings  []Warning     `json:"warnings"`
	Duration  time.Duration `json:"duration"`
	Canceled  bool          `json:"canceled,omitempty"`
}

// ParseLevel converts a level name to a Level. ok is false for unknown names.
func ParseLevel(s string) (Level, bool) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return l, true
	case "warning":
		return LevelWarn, true
	default:
		return LevelInfo, false
	}
}
