package schema

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/carlosaherrerap/Evidencias/internal/model"
)

// Normalizer maps variant column names to canonical field keys.
// Safe for concurrent use once constructed.
type Normalizer struct {
	groups []model.SynonymGroup
	index  map[string]string // folded synonym -> canonical key
}

// New builds a Normalizer from the given synonym groups. Each group's key is
// implicitly one of its own synonyms. When two groups claim the same spelling
// the earlier group wins.
func New(groups []model.SynonymGroup) *Normalizer {
	n := &Normalizer{
		groups: groups,
		index:  make(map[string]string),
	}
	for _, g := range groups {
		n.add(g.Key, g.Key)
		for _, s := range g.Synonyms {
			n.add(s, g.Key)
		}
	}
	return n
}

// Default returns a Normalizer over DefaultGroups.
func Default() *Normalizer {
	return New(DefaultGroups())
}

func (n *Normalizer) add(spelling, key string) {
	f := fold(spelling)
	if f == "" {
		return
	}
	if _, taken := n.index[f]; !taken {
		n.index[f] = key
	}
}

// Normalize returns the canonical key for raw, or raw lowercased and trimmed
// when it belongs to no group.
func (n *Normalizer) Normalize(raw string) string {
	key, _ := n.Lookup(raw)
	return key
}

// Lookup is like Normalize but also reports whether a synonym group matched.
func (n *Normalizer) Lookup(raw string) (string, bool) {
	if key, ok := n.index[fold(raw)]; ok {
		return key, true
	}
	return strings.ToLower(strings.TrimSpace(raw)), false
}

// Groups returns the synonym groups the normalizer was built from.
func (n *Normalizer) Groups() []model.SynonymGroup {
	return n.groups
}

// fold lowercases, trims, and strips combining accents so that
// "GESTIÓN EFECTIVA" and "gestion efectiva" compare equal.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// file is the on-disk shape of a synonym table.
type file struct {
	// Replace discards the built-in groups instead of extending them.
	Replace bool                 `yaml:"replace"`
	Groups  []model.SynonymGroup `yaml:"groups"`
}

// LoadFile reads a YAML synonym table. Unless the file sets replace: true,
// its groups are merged into DefaultGroups: synonyms for an existing key are
// appended, new keys are added at the end.
func LoadFile(path string) (*Normalizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("schema: parse %s: %w", path, err)
	}
	for i, g := range f.Groups {
		if strings.TrimSpace(g.Key) == "" {
			return nil, fmt.Errorf("schema: %s: group %d has no key", path, i)
		}
	}
	if f.Replace {
		return New(f.Groups), nil
	}
	return New(merge(DefaultGroups(), f.Groups)), nil
}

func merge(base, extra []model.SynonymGroup) []model.SynonymGroup {
	out := make([]model.SynonymGroup, len(base))
	pos := make(map[string]int, len(base))
	for i, g := range base {
		out[i] = model.SynonymGroup{Key: g.Key, Synonyms: append([]string(nil), g.Synonyms...)}
		pos[g.Key] = i
	}
	for _, g := range extra {
		if i, ok := pos[g.Key]; ok {
			out[i].Synonyms = append(out[i].Synonyms, g.Synonyms...)
			continue
		}
		pos[g.Key] = len(out)
		out = append(out, g)
	}
	return out
}
