package dedup

import (
	"fmt"

	"github.com/carlosaherrerap/Evidencias/internal/model"
)

// Duplicate is a primary-source line folded into an earlier line with the
// same account.
type Duplicate struct {
	Client    model.Client
	FirstLine int // line of the client that was kept
}

func (d Duplicate) String() string {
	return fmt.Sprintf("line %d repeats cuenta %s from line %d", d.Client.Line, d.Client.Cuenta, d.FirstLine)
}

// Deduplicator collapses clients that share an account id so each account
// gets exactly one folder.
type Deduplicator struct{}

// New creates a Deduplicator.
func New() *Deduplicator {
	return &Deduplicator{}
}

// Clients returns clients in first-occurrence order, one per account. The
// first line keeps its identity fields and row; the channels of later lines
// are added to it. Clients without an account id are never collapsed.
func (d *Deduplicator) Clients(clients []model.Client) ([]model.Client, []Duplicate) {
	if len(clients) == 0 {
		return nil, nil
	}
	index := make(map[string]int, len(clients))
	unique := make([]model.Client, 0, len(clients))
	var dups []Duplicate
	for _, c := range clients {
		if c.Cuenta == "" {
			unique = append(unique, c)
			continue
		}
		if i, seen := index[c.Cuenta]; seen {
			unique[i].Channels = unique[i].Channels.Union(c.Channels)
			dups = append(dups, Duplicate{Client: c, FirstLine: unique[i].Line})
			continue
		}
		index[c.Cuenta] = len(unique)
		unique = append(unique, c)
	}
	return unique, dups
}
