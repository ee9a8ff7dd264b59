package ports

import (
	"context"

	"propscope/domain/core"
	"propscope/domain/run"
)

// RunRepository defines the interface for run record storage.
type RunRepository interface {
	Create(ctx context.Context, rec *run.Record) error
	GetByID(ctx context.Context, id core.ID) (*run.Record, error)
	ListRecent(ctx context.Context, limit int) ([]*run.Record, error)
}
