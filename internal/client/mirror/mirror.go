// Package mirror keeps a per-owner remote copy of the ledger. A mirror is a
// best-effort follower of the local store: every call is a single attempt,
// nothing is retried and nothing is transactional with the local write.
package mirror

//go:generate mockgen -source=mirror.go -destination=mock_mirror.go -package=mirror

import (
	"context"
	"errors"
	"strconv"

	"github.com/budgetbuddy/ledger/internal/client/models"
)

var (
	// ErrUnauthenticated means there is no owner (or no valid token) to scope
	// the remote call to.
	ErrUnauthenticated = errors.New("mirror: not authenticated")
	ErrUnavailable     = errors.New("mirror: remote unavailable")
	ErrDisabled        = errors.New("mirror: disabled")
)

type Mirror interface {
	// Upsert creates or overwrites the owner's document keyed by rec.ID.
	Upsert(ctx context.Context, ownerID string, kind models.Kind, rec models.Record) error
	// FetchAll returns every well-formed document of the owner's collection.
	FetchAll(ctx context.Context, ownerID string, kind models.Kind) ([]models.Record, error)
	// DeleteByID is a no-op when the document does not exist.
	DeleteByID(ctx context.Context, ownerID string, kind models.Kind, id int64) error
}

// DocKey renders a local id as the remote document key.
func DocKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

func checkScope(ownerID string, kind models.Kind) error {
	if ownerID == "" {
		return ErrUnauthenticated
	}
	if !kind.Valid() {
		return models.ErrUnknownKind
	}
	return nil
}
