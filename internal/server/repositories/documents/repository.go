package documents

import (
	"context"

	"github.com/budgetbuddy/ledger/internal/server/models"
)

type Repository interface {
	Upsert(ctx context.Context, doc *models.Document) error
	List(ctx context.Context, ownerID, collection string) ([]models.Document, error)
	Delete(ctx context.Context, ownerID, collection, docID string) error
}
