// Package report turns the run loop's progress into events and a final tally.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/carlosaherrerap/Evidencias/internal/model"
	"github.com/carlosaherrerap/Evidencias/internal/output"
)

// Status is the outcome of one client.
type Status int

const (
	Succeeded Status = iota // folder produced, possibly with warnings
	Skipped                 // no channel, nothing to produce
	Failed                  // folder could not be produced
)

func (s Status) String() string {
	switch s {
	case Succeeded:
		return "ok"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Reporter owns the progress counter and warning list of a single run.
// It is not safe for concurrent use; the run loop is its only writer.
type Reporter struct {
	out   output.Output
	runID string
	now   func() time.Time

	start     time.Time
	total     int
	processed int
	succeeded int
	skipped   int
	failed    int
	files     int
	warnings  []model.Warning
}

// New creates a Reporter that emits to out with a fresh run id.
func New(out output.Output) *Reporter {
	return &Reporter{
		out:   out,
		runID: uuid.NewString(),
		now:   time.Now,
	}
}

// RunID returns the identifier stamped on every event of this run.
func (r *Reporter) RunID() string { return r.runID }

// Begin sets the client total and emits the opening event.
func (r *Reporter) Begin(ctx context.Context, total int) {
	r.start = r.now()
	r.total = total
	r.emit(ctx, model.LevelInfo, model.Client{}, fmt.Sprintf("processing %d clients", total))
}

// Info emits an informational event about c, or about the run when c is zero.
func (r *Reporter) Info(ctx context.Context, c model.Client, msg string) {
	r.emit(ctx, model.LevelInfo, c, msg)
}

// Warn records a warning for c and emits it.
func (r *Reporter) Warn(ctx context.Context, c model.Client, err error) {
	r.warnings = append(r.warnings, model.Warning{Cuenta: c.Cuenta, Nombre: c.Nombre, Message: err.Error()})
	r.emit(ctx, model.LevelWarn, c, err.Error())
}

// Error records a client-level failure and emits it. Errors are listed in
// the summary alongside warnings.
func (r *Reporter) Error(ctx context.Context, c model.Client, err error) {
	r.warnings = append(r.warnings, model.Warning{Cuenta: c.Cuenta, Nombre: c.Nombre, Message: err.Error()})
	r.emit(ctx, model.LevelError, c, err.Error())
}

// Advance counts one finished client and emits its progress event.
func (r *Reporter) Advance(ctx context.Context, c model.Client, st Status, files int) {
	r.processed++
	r.files += files
	switch st {
	case Succeeded:
		r.succeeded++
	case Skipped:
		r.skipped++
	case Failed:
		r.failed++
	}

	var msg string
	switch st {
	case Succeeded:
		msg = fmt.Sprintf("%d files", files)
	case Skipped:
		msg = "no channels, skipped"
	default:
		msg = st.String()
	}
	r.emit(ctx, model.LevelInfo, c, msg)
}

// Summary returns the tally so far. canceled marks a run stopped before
// every client was visited.
func (r *Reporter) Summary(canceled bool) model.Summary {
	var d time.Duration
	if !r.start.IsZero() {
		d = r.now().Sub(r.start)
	}
	warnings := make([]model.Warning, len(r.warnings))
	copy(warnings, r.warnings)
	return model.Summary{
		RunID:     r.runID,
		Total:     r.total,
		Processed: r.processed,
		Succeeded: r.succeeded,
		Skipped:   r.skipped,
		Failed:    r.failed,
		Files:     r.files,
		Warnings:  warnings,
		Duration:  d,
		Canceled:  canceled,
	}
}

// emit never fails the run: sink errors are logged and dropped.
func (r *Reporter) emit(ctx context.Context, level model.Level, c model.Client, msg string) {
	if r.out == nil {
		return
	}
	ev := model.Event{
		RunID:   r.runID,
		Time:    r.now(),
		Current: r.processed,
		Total:   r.total,
		Message: msg,
		Level:   level,
		Cuenta:  c.Cuenta,
		Nombre:  c.Nombre,
	}
	if err := r.out.Write(ctx, ev); err != nil {
		slog.Warn("progress output write failed", "error", err, "run_id", r.runID)
	}
}
