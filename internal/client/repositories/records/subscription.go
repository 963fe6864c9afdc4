package records

import (
	"context"
	"sync"

	"github.com/budgetbuddy/ledger/internal/client/models"
)

// Subscription is a live query. C yields the full, date-descending result set
// once on start and again after every mutation of the kind. Snapshots are not
// queued: a slow reader only ever sees the newest one. C is closed when the
// subscribing context ends or a query fails; Err tells the two apart.
type Subscription struct {
	C <-chan []models.Record

	mu  sync.Mutex
	err error
}

func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Subscription) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Subscribe must be called on the root repository, not on one bound with WithTx.
func (r *SQLiteRepository) Subscribe(ctx context.Context, kind models.Kind, ownerID string) *Subscription {
	out := make(chan []models.Record)
	sub := &Subscription{C: out}

	// register before the first query so no mutation slips in between
	wake, unregister := r.hub.register(kind)

	go func() {
		defer close(out)
		defer unregister()

		query := func() ([]models.Record, bool) {
			recs, err := r.QueryOnce(ctx, kind, Filter{OwnerID: ownerID})
			if err != nil {
				if ctx.Err() == nil {
					sub.fail(err)
				}
				return nil, false
			}
			return recs, true
		}

		recs, ok := query()
		if !ok {
			return
		}

		for {
			select {
			case out <- recs:
				select {
				case <-wake:
				case <-ctx.Done():
					return
				}
			case <-wake:
			case <-ctx.Done():
				return
			}

			if recs, ok = query(); !ok {
				return
			}
		}
	}()

	return sub
}
