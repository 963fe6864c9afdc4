package repomanager

import (
	"context"
	"database/sql"

	"github.com/budgetbuddy/ledger/internal/dbx"
	"github.com/budgetbuddy/ledger/internal/server/repositories/documents"
	"github.com/budgetbuddy/ledger/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Documents(db dbx.DBTX) documents.Repository
}
