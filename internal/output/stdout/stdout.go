package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/carlosaherrerap/Evidencias/internal/model"
	"github.com/carlosaherrerap/Evidencias/internal/output"
)

// Output writes progress events to stdout, either as text lines or as JSON.
type Output struct {
	w        io.Writer
	enc      *json.Encoder // nil in text mode
	minLevel model.Level
}

// New creates a new stdout Output. With asJSON each event is encoded as one
// JSON object (indented when pretty); otherwise events are printed with
// output.FormatText. Events below minLevel are dropped.
func New(asJSON, pretty bool, minLevel model.Level) *Output {
	o := &Output{w: os.Stdout, minLevel: minLevel}
	if asJSON {
		o.enc = json.NewEncoder(os.Stdout)
		if pretty {
			o.enc.SetIndent("", "  ")
		}
	}
	return o
}

func (o *Output) Write(_ context.Context, event model.Event) error {
	if !output.Visible(event.Level, o.minLevel) {
		return nil
	}
	if o.enc != nil {
		if err := o.enc.Encode(event); err != nil {
			return fmt.Errorf("stdout output: %w", err)
		}
		return nil
	}
	if _, err := fmt.Fprintln(o.w, output.FormatText(event)); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
