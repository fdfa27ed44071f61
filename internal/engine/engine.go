package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/carlosaherrerap/Evidencias/internal/engine/audio"
	"github.com/carlosaherrerap/Evidencias/internal/engine/classifier"
	"github.com/carlosaherrerap/Evidencias/internal/evidence"
	"github.com/carlosaherrerap/Evidencias/internal/model"
)

// tipoGestion is the column added to management evidence naming the channel.
var tipoGestion = model.Header{Name: "TIPO DE GESTION", Key: model.FieldTipoGestion}

var baseHeaders = []model.Header{
	{Name: model.FieldCuenta, Key: model.FieldCuenta},
	{Name: model.FieldNombre, Key: model.FieldNombre},
	{Name: model.FieldDNI, Key: model.FieldDNI},
	{Name: model.FieldTelefono, Key: model.FieldTelefono},
}

// Sources are the secondary inputs joined against each client.
type Sources struct {
	Management *model.Table
	SMS        *model.Table    // nil when no sms source was given
	Audio      *audio.Resolver // nil when no consolidated index was given
	IVRAudio   string
}

// Engine assembles the evidence package of one client at a time.
type Engine struct {
	classifier *classifier.Classifier
	writer     evidence.Writer
}

// New creates an Engine with the provided components.
func New(cls *classifier.Classifier, w evidence.Writer) *Engine {
	return &Engine{classifier: cls, writer: w}
}

// Client builds a client from a primary-source row.
func (e *Engine) Client(row model.Row, line int) model.Client {
	return model.Client{
		Cuenta:   row.Get(model.FieldCuenta),
		Nombre:   row.Get(model.FieldNombre),
		DNI:      row.Get(model.FieldDNI),
		Telefono: row.Get(model.FieldTelefono),
		Channels: e.classifier.Classify(row.Get(model.FieldGestionEfectiva)),
		Row:      row,
		Line:     line,
	}
}

// Assemble writes the evidence package for c under root. Only failing to
// create the client folder (or cancellation) is returned as an error; every
// per-artifact failure is recorded in Package.Warnings and the remaining
// artifacts are still produced.
func (e *Engine) Assemble(ctx context.Context, c model.Client, src Sources, root string) (model.Package, error) {
	pkg := model.Package{Client: c}
	if c.Channels.Empty() {
		return pkg, nil
	}

	pkg.Dir = filepath.Join(root, FolderName(c))
	if err := os.MkdirAll(pkg.Dir, 0755); err != nil {
		return pkg, &model.WriteError{Path: pkg.Dir, Err: err}
	}

	steps := []struct {
		ch  model.Channel
		run func(context.Context, model.Client, Sources, *model.Package)
	}{
		{model.IVR, e.ivr},
		{model.SMS, e.sms},
		{model.CALL, e.call},
	}
	for _, s := range steps {
		if !c.Channels.Has(s.ch) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return pkg, err
		}
		s.run(ctx, c, src, &pkg)
	}
	return pkg, nil
}

func (e *Engine) ivr(ctx context.Context, c model.Client, src Sources, pkg *model.Package) {
	name := safe(c.Nombre)

	rows := e.management(c, src.Management, model.IVR)
	if len(rows) == 0 {
		warn(pkg, model.IVR, &model.NoMatchError{Source: sourceName(src.Management, "nuevos_datos"), Key: model.FieldCuenta, Value: c.Cuenta})
	} else {
		e.sheet(ctx, pkg, model.IVR, model.ArtifactIVRSheet, name+"_ivr.xlsx", managementHeaders(src.Management), rows)
	}

	if src.IVRAudio == "" {
		warn(pkg, model.IVR, errors.New("no IVR audio configured"))
		return
	}
	e.copy(ctx, pkg, model.IVR, model.ArtifactIVRAudio, src.IVRAudio, "ivr_"+name+".mp3")
}

func (e *Engine) sms(ctx context.Context, c model.Client, src Sources, pkg *model.Package) {
	var rows []model.Row
	if src.SMS != nil {
		rows = src.SMS.Where(model.FieldNumeroCredito, c.Cuenta)
	}
	if len(rows) == 0 {
		warn(pkg, model.SMS, &model.NoMatchError{Source: sourceName(src.SMS, "sms"), Key: model.FieldNumeroCredito, Value: c.Cuenta})
		return
	}
	e.sheet(ctx, pkg, model.SMS, model.ArtifactSMSSheet, "SMS_"+safe(c.Nombre)+".xlsx", src.SMS.Headers, rows)
}

func (e *Engine) call(ctx context.Context, c model.Client, src Sources, pkg *model.Package) {
	name := safe(c.Nombre)

	rows := e.management(c, src.Management, model.CALL)
	if len(rows) == 0 {
		warn(pkg, model.CALL, &model.NoMatchError{Source: sourceName(src.Management, "nuevos_datos"), Key: model.FieldCuenta, Value: c.Cuenta})
	} else {
		e.sheet(ctx, pkg, model.CALL, model.ArtifactCallSheet, name+"_gestiones.xlsx", managementHeaders(src.Management), rows)
	}

	if src.Audio == nil {
		warn(pkg, model.CALL, fmt.Errorf("no consolidated index loaded: %w", &model.AudioNotFoundError{DNI: c.DNI, Telefono: c.Telefono}))
		return
	}
	res, err := src.Audio.Resolve(c)
	if err != nil {
		warn(pkg, model.CALL, err)
		return
	}
	if info, err := os.Stat(res.Path); err != nil || info.IsDir() {
		warn(pkg, model.CALL, &model.AudioNotFoundError{DNI: c.DNI, Telefono: c.Telefono, Path: res.Path})
		return
	}
	e.copy(ctx, pkg, model.CALL, model.ArtifactCallAudio, res.Path, name+"_"+safe(c.Cuenta)+".mp3")
}

// management returns the records for c's account whose own gestion_efectiva
// confirms ch, each prefixed with the client's base fields.
func (e *Engine) management(c model.Client, t *model.Table, ch model.Channel) []model.Row {
	if t == nil {
		return nil
	}
	var out []model.Row
	for _, r := range t.Where(model.FieldCuenta, c.Cuenta) {
		if !e.classifier.Confirms(r.Get(model.FieldGestionEfectiva), ch) {
			continue
		}
		row := make(model.Row, len(r)+len(baseHeaders)+1)
		for k, v := range r {
			row[k] = v
		}
		for k, v := range c.BaseFields() {
			row[k] = v
		}
		row[tipoGestion.Key] = ch.String()
		out = append(out, row)
	}
	return out
}

// managementHeaders lists base fields first, then pass-through columns, then
// the channel column.
func managementHeaders(t *model.Table) []model.Header {
	skip := map[string]bool{tipoGestion.Key: true}
	headers := append([]model.Header(nil), baseHeaders...)
	for _, h := range baseHeaders {
		skip[h.Key] = true
	}
	for _, h := range t.Headers {
		if !skip[h.Key] {
			headers = append(headers, h)
		}
	}
	return append(headers, tipoGestion)
}

func (e *Engine) sheet(ctx context.Context, pkg *model.Package, ch model.Channel, kind model.ArtifactKind, name string, headers []model.Header, rows []model.Row) {
	if err := e.writer.WriteSheet(ctx, filepath.Join(pkg.Dir, name), headers, rows); err != nil {
		warn(pkg, ch, err)
		return
	}
	pkg.Artifacts = append(pkg.Artifacts, model.Artifact{Kind: kind, Name: name})
}

func (e *Engine) copy(ctx context.Context, pkg *model.Package, ch model.Channel, kind model.ArtifactKind, src, name string) {
	if err := e.writer.Copy(ctx, src, filepath.Join(pkg.Dir, name)); err != nil {
		warn(pkg, ch, err)
		return
	}
	pkg.Artifacts = append(pkg.Artifacts, model.Artifact{Kind: kind, Name: name})
}

func warn(pkg *model.Package, ch model.Channel, err error) {
	pkg.Warnings = append(pkg.Warnings, fmt.Errorf("%s: %w", ch, err))
}

func sourceName(t *model.Table, fallback string) string {
	if t == nil || t.Source == "" {
		return fallback
	}
	return t.Source
}

// FolderName returns the deterministic folder name of a client.
func FolderName(c model.Client) string {
	return safe(c.Nombre) + "_" + safe(c.Cuenta)
}

// safe replaces characters that cannot appear in a file name on common
// filesystems and trims trailing dots and spaces.
func safe(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return '_'
		}
		return r
	}, s)
	return strings.TrimRight(s, ". ")
}
