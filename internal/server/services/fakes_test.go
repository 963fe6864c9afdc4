package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/budgetbuddy/ledger/internal/common"
	"github.com/budgetbuddy/ledger/internal/dbx"
	"github.com/budgetbuddy/ledger/internal/server/models"
	documentsrepo "github.com/budgetbuddy/ledger/internal/server/repositories/documents"
	usersrepo "github.com/budgetbuddy/ledger/internal/server/repositories/users"
)

type fakeUsersRepo struct {
	mu     sync.Mutex
	byName map[string]*models.User
	err    error
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.byName == nil {
		f.byName = map[string]*models.User{}
	}
	if _, ok := f.byName[u.UserName]; ok {
		return nil, common.ErrAlreadyExists
	}
	cp := *u
	f.byName[u.UserName] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(_ context.Context, name string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byName[name]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type docKey struct{ owner, collection, id string }

type fakeDocsRepo struct {
	mu   sync.Mutex
	docs map[docKey]models.Document
	err  error
}

func (f *fakeDocsRepo) Upsert(_ context.Context, d *models.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.docs == nil {
		f.docs = map[docKey]models.Document{}
	}
	f.docs[docKey{d.OwnerID, d.Collection, d.DocID}] = *d
	return nil
}

func (f *fakeDocsRepo) List(_ context.Context, owner, collection string) ([]models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Document, 0)
	for k, d := range f.docs {
		if k.owner == owner && k.collection == collection {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocID < out[j].DocID })
	return out, nil
}

func (f *fakeDocsRepo) Delete(_ context.Context, owner, collection, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.docs, docKey{owner, collection, id})
	return nil
}

type fakeRepoManager struct {
	users *fakeUsersRepo
	docs  *fakeDocsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{users: &fakeUsersRepo{}, docs: &fakeDocsRepo{}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return m.users }
func (m *fakeRepoManager) Documents(dbx.DBTX) documentsrepo.Repository  { return m.docs }
