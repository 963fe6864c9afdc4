// Package services contains the application services of the ledger client:
// the Ledger façade that keeps the local store and the remote mirror in step,
// and the session/authentication service that supplies the current owner.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/budgetbuddy/ledger/internal/client/mirror"
	"github.com/budgetbuddy/ledger/internal/client/models"
	"github.com/budgetbuddy/ledger/internal/client/repositories/records"
	"github.com/budgetbuddy/ledger/internal/dbx"
	"github.com/budgetbuddy/ledger/internal/logging"
	"github.com/shopspring/decimal"
)

// OwnerSource supplies the id of the owner the ledger currently acts for.
type OwnerSource interface {
	CurrentOwner() (string, bool)
}

// MirrorError reports that the local step of an operation committed but the
// remote step did not.
type MirrorError struct {
	Op   string
	Kind models.Kind
	ID   int64
	Err  error
}

func (e *MirrorError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("mirror %s %s[%d]: %v", e.Op, e.Kind, e.ID, e.Err)
	}
	return fmt.Sprintf("mirror %s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *MirrorError) Unwrap() error { return e.Err }

// IsMirrorError reports whether err only concerns the remote copy.
func IsMirrorError(err error) bool {
	var me *MirrorError
	return errors.As(err, &me)
}

type LedgerService interface {
	CurrentOwner() (string, bool)
	Insert(ctx context.Context, kind models.Kind, rec models.Record) (models.Record, error)
	Delete(ctx context.Context, kind models.Kind, rec models.Record) error
	ClearAll(ctx context.Context, kind models.Kind) error
	SyncFromRemote(ctx context.Context, kind models.Kind) (int, error)
	SyncAll(ctx context.Context) error
	Observe(ctx context.Context, kind models.Kind, ownerID string) *records.Subscription
	Snapshot(ctx context.Context, kind models.Kind, ownerID string) ([]models.Record, error)
	Find(ctx context.Context, kind models.Kind, f records.Filter) ([]models.Record, error)
	TotalFor(ctx context.Context, kind models.Kind, date, ownerID string) (decimal.Decimal, error)
}

// Ledger writes locally first, then mirrors the committed record. The local
// store is authoritative for ids; the mirror is a best-effort follower.
type Ledger struct {
	store  *records.SQLiteRepository
	db     dbx.Beginner
	mirror mirror.Mirror
	owners OwnerSource
	log    logging.Logger

	// mu keeps inserts and deletes out of a destructive sync
	mu sync.RWMutex
}

func NewLedger(store *records.SQLiteRepository, db dbx.Beginner, m mirror.Mirror, owners OwnerSource, log logging.Logger) *Ledger {
	if log == nil {
		log = logging.Nop{}
	}
	return &Ledger{store: store, db: db, mirror: m, owners: owners, log: log}
}

func (l *Ledger) CurrentOwner() (string, bool) {
	return l.owners.CurrentOwner()
}

func (l *Ledger) owner() string {
	id, _ := l.owners.CurrentOwner()
	return id
}

// Insert stamps the current owner, stores rec locally and mirrors it under the
// id the store assigned. The returned record is the committed one even when
// the error is a *MirrorError.
func (l *Ledger) Insert(ctx context.Context, kind models.Kind, rec models.Record) (models.Record, error) {
	rec.OwnerID = l.owner()

	l.mu.RLock()
	_, err := l.store.Insert(ctx, kind, &rec)
	l.mu.RUnlock()
	if err != nil {
		return models.Record{}, fmt.Errorf("failed to save %s: %w", kind, err)
	}

	if err := l.mirror.Upsert(ctx, rec.OwnerID, kind, rec); err != nil {
		l.log.Warn(ctx, "record not mirrored", "kind", kind, "id", rec.ID, "error", err)
		return rec, &MirrorError{Op: "upsert", Kind: kind, ID: rec.ID, Err: err}
	}

	l.log.Debug(ctx, "record saved", "kind", kind, "id", rec.ID)
	return rec, nil
}

func (l *Ledger) Delete(ctx context.Context, kind models.Kind, rec models.Record) error {
	if rec.ID == 0 {
		return models.ErrRecordNotStored
	}

	l.mu.RLock()
	err := l.store.DeleteByID(ctx, kind, rec.ID)
	l.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}

	if err := l.mirror.DeleteByID(ctx, l.owner(), kind, rec.ID); err != nil {
		l.log.Warn(ctx, "remote delete failed", "kind", kind, "id", rec.ID, "error", err)
		return &MirrorError{Op: "delete", Kind: kind, ID: rec.ID, Err: err}
	}
	return nil
}

// ClearAll wipes the local records of kind. The mirror is left untouched.
func (l *Ledger) ClearAll(ctx context.Context, kind models.Kind) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.ClearAll(ctx, kind); err != nil {
		return fmt.Errorf("failed to clear %s: %w", kind, err)
	}
	return nil
}

// SyncFromRemote replaces every local record of kind with the owner's remote
// set, preserving the remote ids. A record whose id is not positive or repeats
// an id earlier in the batch gets a fresh local id, so the local collection
// always holds as many records as were fetched. Nothing local changes when
// the fetch fails. It returns the number of records pulled.
func (l *Ledger) SyncFromRemote(ctx context.Context, kind models.Kind) (int, error) {
	owner := l.owner()

	remote, err := l.mirror.FetchAll(ctx, owner, kind)
	if err != nil {
		return 0, &MirrorError{Op: "fetch", Kind: kind, Err: err}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var renumbered []int
	err = dbx.WithTx(ctx, l.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		store := l.store.WithTx(tx)

		if err := store.ClearAll(ctx, kind); err != nil {
			return err
		}

		seen := make(map[int64]struct{}, len(remote))
		for i := range remote {
			remote[i].OwnerID = owner
			if _, dup := seen[remote[i].ID]; dup || remote[i].ID <= 0 {
				renumbered = append(renumbered, i)
				continue
			}
			seen[remote[i].ID] = struct{}{}
			if _, err := store.Insert(ctx, kind, &remote[i]); err != nil {
				return err
			}
		}

		// fresh ids come after every kept remote id
		for _, i := range renumbered {
			remote[i].ID = 0
			if _, err := store.Insert(ctx, kind, &remote[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to replace local %s: %w", kind, err)
	}

	l.store.Publish(kind)
	if len(renumbered) > 0 {
		l.log.Warn(ctx, "remote ids reassigned", "kind", kind, "count", len(renumbered))
	}
	l.log.Info(ctx, "synced from remote", "kind", kind, "count", len(remote))
	return len(remote), nil
}

// SyncAll pulls both kinds. It stops at the first failure.
func (l *Ledger) SyncAll(ctx context.Context) error {
	for _, k := range models.Kinds {
		if _, err := l.SyncFromRemote(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) Observe(ctx context.Context, kind models.Kind, ownerID string) *records.Subscription {
	return l.store.Subscribe(ctx, kind, ownerID)
}

// Snapshot is the one-shot read used by background jobs.
func (l *Ledger) Snapshot(ctx context.Context, kind models.Kind, ownerID string) ([]models.Record, error) {
	return l.Find(ctx, kind, records.Filter{OwnerID: ownerID})
}

func (l *Ledger) Find(ctx context.Context, kind models.Kind, f records.Filter) ([]models.Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.QueryOnce(ctx, kind, f)
}

func (l *Ledger) TotalFor(ctx context.Context, kind models.Kind, date, ownerID string) (decimal.Decimal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.SumWhere(ctx, kind, date, ownerID)
}
