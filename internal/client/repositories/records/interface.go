// Package records is the local, authoritative store of expense and income
// records. It assigns record ids and serves live, owner-scoped result sets.
package records

import (
	"context"

	"github.com/budgetbuddy/ledger/internal/client/models"
	"github.com/shopspring/decimal"
)

// Filter narrows a one-shot query. OwnerID is mandatory: records without an
// owner never match. Empty Category or Date means "any".
type Filter struct {
	OwnerID  string
	Category string
	Date     string
}

type Repository interface {
	// Insert stores rec and returns its id. A zero rec.ID gets a fresh id;
	// a non-zero one replaces whatever row holds that id.
	Insert(ctx context.Context, kind models.Kind, rec *models.Record) (int64, error)
	// DeleteByID is a no-op when the id is absent.
	DeleteByID(ctx context.Context, kind models.Kind, id int64) error
	// ClearAll removes every record of the kind, whatever its owner.
	ClearAll(ctx context.Context, kind models.Kind) error
	QueryOnce(ctx context.Context, kind models.Kind, f Filter) ([]models.Record, error)
	SumWhere(ctx context.Context, kind models.Kind, date, ownerID string) (decimal.Decimal, error)
	Subscribe(ctx context.Context, kind models.Kind, ownerID string) *Subscription
}
