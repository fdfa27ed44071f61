package output

import (
	"fmt"
	"strings"

	"github.com/carlosaherrerap/Evidencias/internal/model"
)

var levelRank = map[model.Level]int{
	model.LevelDebug: 0,
	model.LevelInfo:  1,
	model.LevelWarn:  2,
	model.LevelError: 3,
}

// Visible reports whether an event at level passes threshold.
// Unknown levels are treated as info.
func Visible(level, threshold model.Level) bool {
	return rank(level) >= rank(threshold)
}

func rank(l model.Level) int {
	if r, ok := levelRank[l]; ok {
		return r
	}
	return levelRank[model.LevelInfo]
}

// FormatText renders an event as a single human-readable line:
//
//	[3/120] WARN  GABANCHO CACERES, BANZER (107069101002288680): SMS: no sms rows with numero_credito=...
func FormatText(e model.Event) string {
	var b strings.Builder
	if e.Total > 0 {
		fmt.Fprintf(&b, "[%d/%d] ", e.Current, e.Total)
	}
	fmt.Fprintf(&b, "%-5s ", strings.ToUpper(string(e.Level)))
	if e.Cuenta != "" || e.Nombre != "" {
		fmt.Fprintf(&b, "%s (%s): ", e.Nombre, e.Cuenta)
	}
	b.WriteString(e.Message)
	return b.String()
}
