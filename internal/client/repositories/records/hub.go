package records

import (
	"sync"

	"github.com/budgetbuddy/ledger/internal/client/models"
)

// hub fans change notifications out to live queries. Each subscriber owns a
// wake channel of capacity one, so bursts of writes collapse into one requery.
type hub struct {
	mu   sync.Mutex
	subs map[models.Kind]map[chan struct{}]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[models.Kind]map[chan struct{}]struct{})}
}

func (h *hub) register(kind models.Kind) (<-chan struct{}, func()) {
	wake := make(chan struct{}, 1)

	h.mu.Lock()
	if h.subs[kind] == nil {
		h.subs[kind] = make(map[chan struct{}]struct{})
	}
	h.subs[kind][wake] = struct{}{}
	h.mu.Unlock()

	return wake, func() {
		h.mu.Lock()
		delete(h.subs[kind], wake)
		h.mu.Unlock()
	}
}

func (h *hub) notify(kind models.Kind) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for wake := range h.subs[kind] {
		select {
		case wake <- struct{}{}:
		default:
		}
	}
}
