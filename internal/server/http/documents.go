package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/budgetbuddy/ledger/internal/common"
	"github.com/budgetbuddy/ledger/internal/logging"
	"github.com/budgetbuddy/ledger/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type documentLister interface {
	List(ctx context.Context, ownerID, collection string) ([]models.Document, error)
}

type tokenAuthenticator interface {
	Authenticate(token string) (string, error)
}

type DocumentsHandler struct {
	docs   documentLister
	auth   tokenAuthenticator
	logger logging.Logger
}

func NewDocumentsHandler(docs documentLister, auth tokenAuthenticator, logger logging.Logger) *DocumentsHandler {
	return &DocumentsHandler{docs: docs, auth: auth, logger: logger.With("module", "http_documents")}
}

type documentResponse struct {
	DocID     string          `json:"doc_id"`
	UpdatedAt time.Time       `json:"updated_at"`
	Document  json.RawMessage `json:"document"`
}

// requireOwner accepts only a Bearer token whose user is the {owner} of the
// path.
func (h *DocumentsHandler) requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		userID, err := h.auth.Authenticate(token)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		if userID != chi.URLParam(r, "owner") {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *DocumentsHandler) list(w http.ResponseWriter, r *http.Request) {
	owner, collection := chi.URLParam(r, "owner"), chi.URLParam(r, "collection")

	docs, err := h.docs.List(r.Context(), owner, collection)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCollection) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error(r.Context(), "list documents", "request_id", middleware.GetReqID(r.Context()), "error", err.Error())
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		resp = append(resp, documentResponse{DocID: d.DocID, UpdatedAt: d.UpdatedAt, Document: d.Body})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error(r.Context(), "failed to encode response", "error", err.Error())
	}
}
