package audio

import (
	"strings"

	"github.com/carlosaherrerap/Evidencias/internal/model"
)

// Extension is appended to the file stem of every resolved recording.
const Extension = ".mp3"

// Strategy is one lookup step: it decides whether an index entry belongs to
// a client.
type Strategy struct {
	Name  string
	Match func(c model.Client, e model.AudioEntry) bool
}

// ByDNI matches on national id. Tried first since ids rarely change.
var ByDNI = Strategy{
	Name: "dni",
	Match: func(c model.Client, e model.AudioEntry) bool {
		return c.DNI != "" && e.DNI == c.DNI
	},
}

// ByTelefono matches on phone number.
var ByTelefono = Strategy{
	Name: "telefono",
	Match: func(c model.Client, e model.AudioEntry) bool {
		return c.Telefono != "" && e.Telefono == c.Telefono
	},
}

// Resolution is a successful lookup.
type Resolution struct {
	Path     string
	Entry    model.AudioEntry
	Strategy string
}

// Resolver finds the call recording for a client in the consolidated index.
type Resolver struct {
	entries    []model.AudioEntry
	strategies []Strategy
}

// New creates a Resolver trying strategies in order.
func New(entries []model.AudioEntry, strategies ...Strategy) *Resolver {
	return &Resolver{entries: entries, strategies: strategies}
}

// Default creates a Resolver that tries ByDNI, then ByTelefono.
func Default(entries []model.AudioEntry) *Resolver {
	return New(entries, ByDNI, ByTelefono)
}

// Len returns the number of index entries.
func (r *Resolver) Len() int {
	return len(r.entries)
}

// Resolve returns the recording path for c. The first strategy with any hit
// wins; within a strategy the first entry in index order wins. The file
// itself is not checked.
func (r *Resolver) Resolve(c model.Client) (Resolution, error) {
	for _, s := range r.strategies {
		for _, e := range r.entries {
			if s.Match(c, e) {
				return Resolution{Path: Path(e), Entry: e, Strategy: s.Name}, nil
			}
		}
	}
	return Resolution{}, &model.AudioNotFoundError{DNI: c.DNI, Telefono: c.Telefono}
}

// Path joins an entry's base path and file stem into a recording path.
func Path(e model.AudioEntry) string {
	if e.Ruta == "" || strings.HasSuffix(e.Ruta, "/") || strings.HasSuffix(e.Ruta, `\`) {
		return e.Ruta + e.NombreCompleto + Extension
	}
	return e.Ruta + "/" + e.NombreCompleto + Extension
}
