package evidencias

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/carlosaherrerap/Evidencias/internal/engine"
	"github.com/carlosaherrerap/Evidencias/internal/engine/classifier"
	"github.com/carlosaherrerap/Evidencias/internal/engine/schema"
	"github.com/carlosaherrerap/Evidencias/internal/evidence"
	"github.com/carlosaherrerap/Evidencias/internal/model"
	"github.com/carlosaherrerap/Evidencias/internal/output"
	"github.com/carlosaherrerap/Evidencias/internal/output/async"
	"github.com/carlosaherrerap/Evidencias/internal/output/file"
	"github.com/carlosaherrerap/Evidencias/internal/output/multi"
	"github.com/carlosaherrerap/Evidencias/internal/output/runlog"
	"github.com/carlosaherrerap/Evidencias/internal/output/stream"
	"github.com/carlosaherrerap/Evidencias/internal/pipeline"
	"github.com/carlosaherrerap/Evidencias/internal/source"

	// Register spreadsheet readers.
	_ "github.com/carlosaherrerap/Evidencias/internal/source/csv"
	_ "github.com/carlosaherrerap/Evidencias/internal/source/xlsx"
)

// Engine generates evidence packages. Runs on one Engine may be sequential
// or overlapping as long as they target different container folders.
type Engine struct {
	loader     *source.Loader
	engine     *engine.Engine
	out        *multi.Multi
	bufferSize int
}

// New creates an Engine. It fails when the schema file cannot be read or
// a progress or audit file cannot be opened.
func New(opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	norm := schema.Default()
	switch {
	case o.schemaFile != "":
		n, err := schema.LoadFile(o.schemaFile)
		if err != nil {
			return nil, fmt.Errorf("evidencias: %w", err)
		}
		norm = n
	case len(o.synonyms) > 0:
		norm = schema.New(o.synonyms)
	}

	var sinks []output.Output
	for _, fn := range o.progress {
		sinks = append(sinks, callback(fn))
	}
	if o.progressFile != "" {
		f, err := file.New(o.progressFile,
			file.WithMaxSize(o.progressMaxSize),
			file.WithBackups(o.progressBackups))
		if err != nil {
			closeAll(sinks)
			return nil, fmt.Errorf("evidencias: %w", err)
		}
		sinks = append(sinks, f)
	}
	if o.runLog != "" {
		rl, err := runlog.New(o.runLog, model.LevelDebug)
		if err != nil {
			closeAll(sinks)
			return nil, fmt.Errorf("evidencias: %w", err)
		}
		sinks = append(sinks, rl)
	}

	return &Engine{
		loader:     source.NewLoader(norm),
		engine:     engine.New(classifier.Default(), evidence.NewFiles(o.textColumns...)),
		out:        multi.New(sinks...),
		bufferSize: o.bufferSize,
	}, nil
}

// LoadPrimary validates the primary source and returns how many clients a
// run over it would visit.
func (e *Engine) LoadPrimary(ctx context.Context, path string) (int, error) {
	return e.pipeline(e.out).LoadPrimary(ctx, path)
}

// Run generates every client's package and blocks until done. Per-client
// problems are listed in the Summary; the error is non-nil only when the
// run could not start (missing inputs, schema errors) or ctx was canceled.
func (e *Engine) Run(ctx context.Context, in Inputs) (Summary, error) {
	return e.pipeline(e.out).Run(ctx, in)
}

// Start runs in the background. Read Job.Events to follow progress and call
// Wait for the result.
func (e *Engine) Start(ctx context.Context, in Inputs) *Job {
	ctx, cancel := context.WithCancel(ctx)
	st := stream.New(e.bufferSize)
	sink := async.New(st, async.WithBufferSize(e.bufferSize), async.WithDropOnFull())

	j := &Job{events: st.Events(), cancel: cancel}
	var g errgroup.Group
	g.Go(func() error {
		defer sink.Close()
		s, err := e.pipeline(multi.New(e.out, sink)).Run(ctx, in)
		j.summary = s
		return err
	})
	j.wait = g.Wait
	return j
}

// Close releases the progress and audit files.
func (e *Engine) Close() error {
	return e.out.Close()
}

func (e *Engine) pipeline(out output.Output) *pipeline.Pipeline {
	return pipeline.New(e.loader, e.engine, out)
}

// Job is a run executing in the background.
type Job struct {
	events  <-chan Event
	cancel  context.CancelFunc
	wait    func() error
	summary Summary
}

// Events streams the run's progress. The channel is closed when the run
// ends. Events are dropped, never blocking the run, if the subscriber falls
// more than the buffer size behind; the Summary is always complete.
func (j *Job) Events() <-chan Event {
	return j.events
}

// Cancel asks the run to stop after the current client.
func (j *Job) Cancel() {
	j.cancel()
}

// Wait blocks until the run ends and returns its summary.
func (j *Job) Wait() (Summary, error) {
	err := j.wait()
	j.cancel()
	return j.summary, err
}

// callback adapts a function to output.Output.
type callback func(Event)

func (c callback) Write(_ context.Context, ev model.Event) error {
	c(ev)
	return nil
}

func (c callback) Close() error { return nil }

func closeAll(outs []output.Output) {
	for _, o := range outs {
		o.Close()
	}
}
