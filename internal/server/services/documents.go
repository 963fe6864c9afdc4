package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/budgetbuddy/ledger/internal/common"
	"github.com/budgetbuddy/ledger/internal/server/models"
	"github.com/budgetbuddy/ledger/internal/server/repositories/repomanager"
)

// DocumentService stores the mirrored ledger documents of each owner.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager) *DocumentService {
	return &DocumentService{db: db, repomanager: m}
}

func checkCollection(collection string) error {
	if !common.ValidCollection(collection) {
		return fmt.Errorf("%w: %q", common.ErrInvalidCollection, collection)
	}
	return nil
}

// Upsert stores body as document docID of the owner's collection. The body
// must be a JSON object, and an "id" field in it must name docID.
func (s *DocumentService) Upsert(ctx context.Context, ownerID, collection, docID string, body []byte) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if docID == "" {
		return fmt.Errorf("%w: empty document id", common.ErrInvalidDocument)
	}
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) || len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: body is not a JSON object", common.ErrInvalidDocument)
	}
	if id, ok := bodyID(trimmed); ok && id != docID {
		return fmt.Errorf("%w: body id %q does not match document id %q", common.ErrInvalidDocument, id, docID)
	}

	doc := &models.Document{OwnerID: ownerID, Collection: collection, DocID: docID, Body: json.RawMessage(trimmed)}
	if err := s.repomanager.Documents(s.db).Upsert(ctx, doc); err != nil {
		return fmt.Errorf("error storing document: %w", err)
	}
	return nil
}

func (s *DocumentService) List(ctx context.Context, ownerID, collection string) ([]models.Document, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	docs, err := s.repomanager.Documents(s.db).List(ctx, ownerID, collection)
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	return docs, nil
}

func (s *DocumentService) Delete(ctx context.Context, ownerID, collection, docID string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if err := s.repomanager.Documents(s.db).Delete(ctx, ownerID, collection, docID); err != nil {
		return fmt.Errorf("error deleting document: %w", err)
	}
	return nil
}

// bodyID renders the "id" field of a JSON object body, if it has one.
func bodyID(body []byte) (string, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", false
	}
	raw, ok := fields["id"]
	if !ok {
		return "", false
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str, true
	}
	return string(bytes.TrimSpace(raw)), true
}
