package mirror

import (
	"context"

	"github.com/budgetbuddy/ledger/internal/client/models"
)

// Disabled is the mirror of a local-only ledger. Every call fails with
// ErrDisabled so callers can tell the remote step did not happen.
type Disabled struct{}

func (Disabled) Upsert(context.Context, string, models.Kind, models.Record) error {
	return ErrDisabled
}

func (Disabled) FetchAll(context.Context, string, models.Kind) ([]models.Record, error) {
	return nil, ErrDisabled
}

func (Disabled) DeleteByID(context.Context, string, models.Kind, int64) error {
	return ErrDisabled
}
