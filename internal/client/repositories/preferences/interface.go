// Package preferences persists small key/value settings of the local ledger:
// display currency, daily spending limit, notification switch and the cached
// session.
package preferences

import "context"

type Repository interface {
	// Get returns ok=false when the key was never set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
