package records

import "github.com/budgetbuddy/ledger/internal/client/models"

func (h *hub) count(kind models.Kind) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[kind])
}
