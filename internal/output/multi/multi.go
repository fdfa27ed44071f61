package multi

import (
	"context"
	"errors"

	"github.com/carlosaherrerap/Evidencias/internal/model"
	"github.com/carlosaherrerap/Evidencias/internal/output"
)

// Multi fans out events to several outputs. A failing output does not stop
// delivery to the ones after it.
type Multi struct {
	outputs []output.Output
}

// New creates a Multi over outputs. Nil entries are skipped.
func New(outputs ...output.Output) *Multi {
	m := &Multi{}
	for _, o := range outputs {
		if o != nil {
			m.outputs = append(m.outputs, o)
		}
	}
	return m
}

// Len reports how many outputs are wrapped.
func (m *Multi) Len() int {
	return len(m.outputs)
}

func (m *Multi) Write(ctx context.Context, event model.Event) error {
	var errs []error
	for _, o := range m.outputs {
		if err := o.Write(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Multi) Close() error {
	var errs []error
	for _, o := range m.outputs {
		if err := o.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
