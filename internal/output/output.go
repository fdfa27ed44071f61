package output

import (
	"context"

	"github.com/carlosaherrerap/Evidencias/internal/model"
)

// Output defines the interface for progress event destinations.
type Output interface {
	Write(ctx context.Context, event model.Event) error
	Close() error
}
