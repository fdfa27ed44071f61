package evidencias

import "github.com/carlosaherrerap/Evidencias/internal/model"

// Inputs are the resolved paths of one run. SMS and Consolidated are
// optional; without them the SMS sheet and call recording are reported as
// warnings.
type Inputs = model.Inputs

// Event is one progress line: {current, total, message, level} plus the
// client it concerns, if any.
type Event = model.Event

// Level is the severity of an Event.
type Level = model.Level

const (
	LevelDebug = model.LevelDebug
	LevelInfo  = model.LevelInfo
	LevelWarn  = model.LevelWarn
	LevelError = model.LevelError
)

// Summary is the final tally of a run.
type Summary = model.Summary

// Warning is a per-client problem listed in the Summary.
type Warning = model.Warning

// SynonymGroup maps header spellings to a canonical field.
type SynonymGroup = model.SynonymGroup

// Errors returned by Run and LoadPrimary. Inspect with errors.As / errors.Is.
type (
	MissingFieldError  = model.MissingFieldError
	NoMatchError       = model.NoMatchError
	AudioNotFoundError = model.AudioNotFoundError
	WriteError         = model.WriteError
)

// ErrMissingInput is wrapped by errors for required inputs left empty.
var ErrMissingInput = model.ErrMissingInput
