package records

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/budgetbuddy/ledger/internal/client/models"
	"github.com/budgetbuddy/ledger/internal/dbx"
	"github.com/shopspring/decimal"
)

type SQLiteRepository struct {
	db  dbx.DBTX
	hub *hub
	// inTx suppresses notifications until the owner of the transaction
	// calls Publish after commit.
	inTx bool
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, hub: newHub()}
}

// WithTx returns a repository running on tx that shares this repository's
// subscribers. Its writes are not announced; call Publish once tx commits.
func (r *SQLiteRepository) WithTx(tx dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: tx, hub: r.hub, inTx: true}
}

// Publish wakes every live query of the given kinds.
func (r *SQLiteRepository) Publish(kinds ...models.Kind) {
	for _, k := range kinds {
		r.hub.notify(k)
	}
}

func (r *SQLiteRepository) changed(kind models.Kind) {
	if !r.inTx {
		r.hub.notify(kind)
	}
}

// table maps a kind to its table name. Only these two names ever reach SQL.
func table(kind models.Kind) (string, error) {
	switch kind {
	case models.KindExpense:
		return "expenses", nil
	case models.KindIncome:
		return "incomes", nil
	default:
		return "", fmt.Errorf("%w: %q", models.ErrUnknownKind, string(kind))
	}
}

func nullableOwner(owner string) sql.NullString {
	return sql.NullString{String: owner, Valid: owner != ""}
}

func (r *SQLiteRepository) Insert(ctx context.Context, kind models.Kind, rec *models.Record) (int64, error) {
	t, err := table(kind)
	if err != nil {
		return 0, err
	}

	args := []any{
		nullableOwner(rec.OwnerID),
		rec.Amount.String(),
		rec.Category,
		rec.Description,
		rec.Date,
		models.DateKey(rec.Date),
	}

	if rec.ID == 0 {
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO `+t+` (owner_id, amount, category, description, date, date_key)
			 VALUES (?, ?, ?, ?, ?, ?)`, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert into %s: %w", t, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read %s id: %w", t, err)
		}
		rec.ID = id
	} else {
		_, err := r.db.ExecContext(ctx,
			`INSERT OR REPLACE INTO `+t+` (id, owner_id, amount, category, description, date, date_key)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`, append([]any{rec.ID}, args...)...)
		if err != nil {
			return 0, fmt.Errorf("failed to replace %s[%d]: %w", t, rec.ID, err)
		}
	}

	r.changed(kind)
	return rec.ID, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, kind models.Kind, id int64) error {
	t, err := table(kind)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM `+t+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s[%d]: %w", t, id, err)
	}

	if n, err := res.RowsAffected(); err == nil && n > 0 {
		r.changed(kind)
	}
	return nil
}

func (r *SQLiteRepository) ClearAll(ctx context.Context, kind models.Kind) error {
	t, err := table(kind)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM `+t); err != nil {
		return fmt.Errorf("failed to clear %s: %w", t, err)
	}

	r.changed(kind)
	return nil
}

func (r *SQLiteRepository) QueryOnce(ctx context.Context, kind models.Kind, f Filter) ([]models.Record, error) {
	t, err := table(kind)
	if err != nil {
		return nil, err
	}

	var q strings.Builder
	q.WriteString(`SELECT id, owner_id, amount, category, description, date FROM ` + t + ` WHERE owner_id = ?`)
	args := []any{f.OwnerID}

	if f.Category != "" {
		q.WriteString(` AND category = ?`)
		args = append(args, f.Category)
	}
	if f.Date != "" {
		q.WriteString(` AND date = ?`)
		args = append(args, f.Date)
	}
	q.WriteString(` ORDER BY date_key DESC, id DESC`)

	rows, err := r.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", t, err)
	}
	defer rows.Close()

	result := make([]models.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", t, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", t, err)
	}

	return result, nil
}

// SumWhere totals the amounts of one owner's records on one date. The sum is
// taken in Go so the decimal amounts never pass through a float.
func (r *SQLiteRepository) SumWhere(ctx context.Context, kind models.Kind, date, ownerID string) (decimal.Decimal, error) {
	t, err := table(kind)
	if err != nil {
		return decimal.Zero, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT amount FROM `+t+` WHERE date = ? AND owner_id = ?`, date, ownerID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum %s: %w", t, err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan %s amount: %w", t, err)
		}
		a, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("corrupt amount %q in %s: %w", raw, t, err)
		}
		total = total.Add(a)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to iterate %s amounts: %w", t, err)
	}

	return total, nil
}

func scanRecord(rows *sql.Rows) (models.Record, error) {
	var (
		rec    models.Record
		owner  sql.NullString
		amount string
	)
	if err := rows.Scan(&rec.ID, &owner, &amount, &rec.Category, &rec.Description, &rec.Date); err != nil {
		return models.Record{}, err
	}

	a, err := decimal.NewFromString(amount)
	if err != nil {
		return models.Record{}, fmt.Errorf("corrupt amount %q: %w", amount, err)
	}
	rec.Amount = a
	rec.OwnerID = owner.String

	return rec, nil
}
