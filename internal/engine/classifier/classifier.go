package classifier

import (
	"strings"

	"github.com/carlosaherrerap/Evidencias/internal/model"
)

// Keyword ties a channel to the uppercase fragments that signal it.
type Keyword struct {
	Channel model.Channel
	Terms   []string
}

// DefaultKeywords is the built-in keyword table. "GRABACION CALL" is listed
// for readability; it already contains "CALL".
func DefaultKeywords() []Keyword {
	return []Keyword{
		{Channel: model.IVR, Terms: []string{"IVR"}},
		{Channel: model.SMS, Terms: []string{"SMS"}},
		{Channel: model.CALL, Terms: []string{"CALL", "GRABACION CALL"}},
	}
}

// Classifier parses a free-text channel list into a set of channels.
type Classifier struct {
	keywords []Keyword
}

// New creates a Classifier over the given keyword table.
// Terms are compared uppercased.
func New(keywords []Keyword) *Classifier {
	kws := make([]Keyword, len(keywords))
	for i, kw := range keywords {
		terms := make([]string, 0, len(kw.Terms))
		for _, t := range kw.Terms {
			if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
				terms = append(terms, t)
			}
		}
		kws[i] = Keyword{Channel: kw.Channel, Terms: terms}
	}
	return &Classifier{keywords: kws}
}

// Default creates a Classifier over DefaultKeywords.
func Default() *Classifier {
	return New(DefaultKeywords())
}

// Classify splits text on commas and returns every channel whose keyword is
// contained in at least one token. Unrecognized tokens are ignored; empty
// text yields an empty set.
func (c *Classifier) Classify(text string) model.ChannelSet {
	var set model.ChannelSet
	for _, tok := range strings.Split(text, ",") {
		tok = strings.ToUpper(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		for _, kw := range c.keywords {
			if set.Has(kw.Channel) {
				continue
			}
			for _, term := range kw.Terms {
				if strings.Contains(tok, term) {
					set = set.Add(kw.Channel)
					break
				}
			}
		}
	}
	return set
}

// Confirms reports whether text signals channel ch.
func (c *Classifier) Confirms(text string, ch model.Channel) bool {
	return c.Classify(text).Has(ch)
}
