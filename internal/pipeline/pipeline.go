package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/carlosaherrerap/Evidencias/internal/engine"
	"github.com/carlosaherrerap/Evidencias/internal/engine/audio"
	"github.com/carlosaherrerap/Evidencias/internal/engine/dedup"
	"github.com/carlosaherrerap/Evidencias/internal/model"
	"github.com/carlosaherrerap/Evidencias/internal/output"
	"github.com/carlosaherrerap/Evidencias/internal/report"
	"github.com/carlosaherrerap/Evidencias/internal/source"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithResolver replaces how the consolidated index is turned into an audio
// resolver. Default: audio.Default (dni, then telefono).
func WithResolver(f func([]model.AudioEntry) *audio.Resolver) Option {
	return func(p *Pipeline) { p.resolver = f }
}

// Pipeline connects the loader, the assembler and a progress output into
// one sequential run.
type Pipeline struct {
	loader   *source.Loader
	engine   *engine.Engine
	output   output.Output
	dedup    *dedup.Deduplicator
	resolver func([]model.AudioEntry) *audio.Resolver
}

// New creates a Pipeline from the given components.
func New(loader *source.Loader, eng *engine.Engine, out output.Output, opts ...Option) *Pipeline {
	p := &Pipeline{
		loader:   loader,
		engine:   eng,
		output:   out,
		dedup:    dedup.New(),
		resolver: audio.Default,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LoadPrimary loads and validates the primary source and returns the number
// of clients a run over it would visit.
func (p *Pipeline) LoadPrimary(ctx context.Context, path string) (int, error) {
	if path == "" {
		return 0, fmt.Errorf("%w: %s", model.ErrMissingInput, source.Primary.Name)
	}
	t, err := p.loader.Load(ctx, path, source.Primary)
	if err != nil {
		return 0, err
	}
	clients, _ := p.dedup.Clients(p.clients(t))
	return len(clients), nil
}

// Run produces the evidence packages for every client of in.Primary.
//
// Missing inputs and schema errors in any source are returned before any
// folder is created. After that the run always completes: per-client
// problems become warnings in the summary. If ctx is canceled the loop stops
// between clients and the partial summary is returned with ctx's error.
func (p *Pipeline) Run(ctx context.Context, in model.Inputs) (model.Summary, error) {
	rep := report.New(p.output)

	if err := validate(in); err != nil {
		return rep.Summary(false), err
	}
	src, clients, dups, err := p.load(ctx, in)
	if err != nil {
		return rep.Summary(false), err
	}

	root := filepath.Join(in.OutputDir, in.Container)
	if err := os.MkdirAll(root, 0755); err != nil {
		return rep.Summary(false), &model.WriteError{Path: root, Err: err}
	}

	log := slog.With("run_id", rep.RunID())
	log.Info("run started", "clients", len(clients), "container", root)

	rep.Begin(ctx, len(clients))
	for _, d := range dups {
		rep.Warn(ctx, d.Client, errors.New(d.String()))
	}

	canceled := false
	for _, c := range clients {
		if ctx.Err() != nil {
			canceled = true
			break
		}
		p.client(ctx, rep, c, src, root)
	}

	summary := rep.Summary(canceled)
	rep.Info(context.WithoutCancel(ctx), model.Client{}, fmt.Sprintf(
		"done: %d/%d processed, %d succeeded, %d warnings",
		summary.Processed, summary.Total, summary.Succeeded, len(summary.Warnings)))
	log.Info("run finished",
		"processed", summary.Processed,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"warnings", len(summary.Warnings),
		"duration", summary.Duration)

	if canceled {
		return summary, ctx.Err()
	}
	return summary, nil
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	if p.output == nil {
		return nil
	}
	return p.output.Close()
}

func (p *Pipeline) client(ctx context.Context, rep *report.Reporter, c model.Client, src engine.Sources, root string) {
	if c.Channels.Empty() {
		rep.Advance(ctx, c, report.Skipped, 0)
		return
	}
	if c.Cuenta == "" || c.Nombre == "" {
		rep.Advance(ctx, c, report.Failed, 0)
		rep.Error(ctx, c, fmt.Errorf("line %d: cuenta and nombre are required to name the folder", c.Line))
		return
	}

	pkg, err := p.engine.Assemble(ctx, c, src, root)
	if err != nil {
		rep.Advance(ctx, c, report.Failed, len(pkg.Artifacts))
		rep.Error(ctx, c, err)
		return
	}
	rep.Advance(ctx, c, report.Succeeded, len(pkg.Artifacts))
	for _, w := range pkg.Warnings {
		rep.Warn(ctx, c, w)
	}
	slog.Debug("client assembled", "cuenta", c.Cuenta, "dir", pkg.Dir,
		"files", len(pkg.Artifacts), "warnings", len(pkg.Warnings))
}

// load reads every source, collecting all schema errors before giving up.
func (p *Pipeline) load(ctx context.Context, in model.Inputs) (engine.Sources, []model.Client, []dedup.Duplicate, error) {
	var errs []error
	get := func(path string, layout source.Layout) *model.Table {
		if path == "" {
			return nil
		}
		t, err := p.loader.Load(ctx, path, layout)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		return t
	}

	primary := get(in.Primary, source.Primary)
	management := get(in.Management, source.Management)
	sms := get(in.SMS, source.SMS)
	consolidated := get(in.Consolidated, source.Consolidated)
	if len(errs) > 0 {
		return engine.Sources{}, nil, nil, errors.Join(errs...)
	}

	src := engine.Sources{
		Management: management,
		SMS:        sms,
		IVRAudio:   in.IVRAudio,
	}
	if consolidated != nil {
		src.Audio = p.resolver(source.AudioEntries(consolidated))
	}
	clients, dups := p.dedup.Clients(p.clients(primary))
	return src, clients, dups, nil
}

func (p *Pipeline) clients(t *model.Table) []model.Client {
	clients := make([]model.Client, 0, len(t.Rows))
	for i, row := range t.Rows {
		clients = append(clients, p.engine.Client(row, i+1))
	}
	return clients
}

// validate reports every missing required input at once.
func validate(in model.Inputs) error {
	var errs []error
	required := []struct {
		name, value string
	}{
		{"datos_fuente", in.Primary},
		{"nuevos_datos", in.Management},
		{"ivr audio", in.IVRAudio},
		{"output directory", in.OutputDir},
		{"container", in.Container},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%w: %s", model.ErrMissingInput, r.name))
		}
	}
	if in.Container != "" && filepath.Base(in.Container) != in.Container {
		errs = append(errs, fmt.Errorf("container %q must be a folder name, not a path", in.Container))
	}
	if in.IVRAudio != "" {
		if info, err := os.Stat(in.IVRAudio); err != nil {
			errs = append(errs, fmt.Errorf("ivr audio: %w", err))
		} else if info.IsDir() {
			errs = append(errs, fmt.Errorf("ivr audio: %s is a directory", in.IVRAudio))
		}
	}
	return errors.Join(errs...)
}
