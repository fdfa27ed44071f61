package source

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/carlosaherrerap/Evidencias/internal/engine/schema"
	"github.com/carlosaherrerap/Evidencias/internal/model"
)

// Loader turns tabular files into normalized tables.
type Loader struct {
	normalizer *schema.Normalizer
}

// NewLoader creates a Loader that normalizes headers with n.
func NewLoader(n *schema.Normalizer) *Loader {
	return &Loader{normalizer: n}
}

// Load reads path with the reader registered for its extension and builds a
// table according to layout. It fails with *model.MissingFieldError when any
// required field is absent.
func (l *Loader) Load(ctx context.Context, path string, layout Layout) (*model.Table, error) {
	ctor, err := Get(path)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", layout.Name, err)
	}
	cells, err := ctor().Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", layout.Name, err)
	}
	return l.Build(layout, path, cells)
}

// Build creates a table from raw cells, header row first.
func (l *Loader) Build(layout Layout, path string, cells [][]string) (*model.Table, error) {
	t := &model.Table{Source: layout.Name, Path: path}
	if len(cells) > 0 {
		if layout.Raw {
			t.Headers = rawHeaders(cells[0], layout.Variants)
		} else {
			t.Headers = l.headers(cells[0])
		}
	}

	var missing []string
	for _, f := range layout.Required {
		if !t.Has(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &model.MissingFieldError{Source: layout.Name, Fields: missing}
	}

	for _, line := range cells[min(1, len(cells)):] {
		if blank(line) {
			continue
		}
		row := make(model.Row, len(t.Headers))
		for i, h := range t.Headers {
			var v string
			if i < len(line) {
				v = line[i]
			}
			if !layout.Raw {
				v = coerce(strings.TrimSpace(v))
			}
			row[h.Key] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// headers normalizes a header row. A canonical key already claimed by an
// earlier column falls back to the lowercased raw header.
func (l *Loader) headers(raw []string) []model.Header {
	out := make([]model.Header, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, name := range raw {
		key, matched := l.normalizer.Lookup(name)
		display := key
		if !matched {
			display = strings.TrimSpace(name)
		}
		if seen[key] {
			key = strings.ToLower(strings.TrimSpace(name))
			display = strings.TrimSpace(name)
		}
		if key == "" || seen[key] {
			key = fmt.Sprintf("column_%d", i+1)
		}
		seen[key] = true
		out = append(out, model.Header{Name: display, Key: key})
	}
	return out
}

// rawHeaders keeps header text as is. Columns named by a variant get the
// variant's canonical key; all others keep their exact text as key.
func rawHeaders(raw []string, variants map[string][]string) []model.Header {
	byName := make(map[string]string)
	for key, names := range variants {
		for _, n := range names {
			byName[n] = key
		}
	}
	out := make([]model.Header, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, name := range raw {
		key := name
		if k, ok := byName[name]; ok && !seen[k] {
			key = k
		}
		if seen[key] {
			key = fmt.Sprintf("%s#%d", name, i+1)
		}
		seen[key] = true
		out = append(out, model.Header{Name: name, Key: key})
	}
	return out
}

func blank(line []string) bool {
	for _, c := range line {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// coerce renders integral numbers stored as floats ("1.07069101002289E+17",
// "987654321.0") as plain digits so identifiers compare equal across sources.
// Anything else is returned unchanged.
func coerce(v string) string {
	if v == "" || !strings.ContainsAny(v, ".eE") {
		return v
	}
	if strings.ContainsAny(v, ",/: ") {
		return v
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return v
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// AudioEntries converts a consolidated table into audio index entries.
func AudioEntries(t *model.Table) []model.AudioEntry {
	out := make([]model.AudioEntry, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, model.AudioEntry{
			DNI:            r[model.FieldDNI],
			Telefono:       r[model.FieldTelefono],
			Ruta:           r[model.FieldRuta],
			NombreCompleto: r[model.FieldNombreCompleto],
		})
	}
	return out
}
