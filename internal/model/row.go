package model

// Header is a single column of a loaded table.
type Header struct {
	Name string // display name used when the column is written back out
	Key  string // canonical key rows are indexed by
}

// Row is one spreadsheet line keyed by canonical field name.
// Rows are produced by the loader and never mutated afterwards.
type Row map[string]string

// Get returns the value stored under key, or "" when absent.
func (r Row) Get(key string) string {
	return r[key]
}

// Table is the intermediate type produced by source loaders and consumed by the engine.
type Table struct {
	Source  string // logical source name (e.g. "datos_fuente", "sms")
	Path    string
	Headers []Header
	Rows    []Row
}

// Has reports whether the table carries a column with the given canonical key.
func (t *Table) Has(key string) bool {
	for _, h := range t.Headers {
		if h.Key == key {
			return true
		}
	}
	return false
}

// Where returns the rows whose value under key equals value.
// Empty values never match.
func (t *Table) Where(key, value string) []Row {
	if value == "" {
		return nil
	}
	var out []Row
	for _, r := range t.Rows {
		if r[key] == value {
			out = append(out, r)
		}
	}
	return out
}
