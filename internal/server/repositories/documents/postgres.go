package documents

import (
	"context"
	"fmt"

	"github.com/budgetbuddy/ledger/internal/dbx"
	"github.com/budgetbuddy/ledger/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert stores doc under its key, replacing the body of an existing one.
func (r *PostgresRepository) Upsert(ctx context.Context, doc *models.Document) error {
	query :=
		`INSERT INTO documents (owner_id, collection, doc_id, body, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (owner_id, collection, doc_id)
		 DO UPDATE SET body = EXCLUDED.body, updated_at = now()
		 `

	_, err := r.db.ExecContext(ctx, query, doc.OwnerID, doc.Collection, doc.DocID, []byte(doc.Body))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, ownerID, collection string) ([]models.Document, error) {
	query :=
		`SELECT owner_id, collection, doc_id, body, updated_at FROM documents
		 WHERE owner_id = $1 AND collection = $2
		 ORDER BY doc_id
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID, collection)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Document, 0)
	for rows.Next() {
		var d models.Document
		var body []byte
		if err := rows.Scan(&d.OwnerID, &d.Collection, &d.DocID, &body, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		d.Body = body
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Delete removes one document. Deleting a missing document is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, ownerID, collection, docID string) error {
	query :=
		`DELETE FROM documents
		 WHERE owner_id = $1 AND collection = $2 AND doc_id = $3
		 `

	if _, err := r.db.ExecContext(ctx, query, ownerID, collection, docID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
