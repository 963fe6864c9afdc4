package grpc

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/budgetbuddy/ledger/internal/common"
	"github.com/budgetbuddy/ledger/internal/logging"
	"github.com/budgetbuddy/ledger/internal/server/auth"
	"github.com/budgetbuddy/ledger/internal/server/models"
	"github.com/budgetbuddy/ledger/internal/server/services"
)

const testSecret = "secret"

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// fakeUsers accepts password "secret1" for every registered name.
type fakeUsers struct {
	mu    sync.Mutex
	names map[string]string
	err   error
}

func (f *fakeUsers) Register(_ context.Context, username string, password []byte) (*services.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if len(password) < 6 {
		return nil, services.ErrShortPassword
	}
	if f.names == nil {
		f.names = map[string]string{}
	}
	if _, ok := f.names[username]; ok {
		return nil, common.ErrAlreadyExists
	}
	id := "id-" + username
	f.names[username] = id
	return issue(id)
}

func (f *fakeUsers) Login(_ context.Context, username string, password []byte) (*services.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	id, ok := f.names[username]
	if !ok || string(password) != "secret1" {
		return nil, common.ErrUnauthorized
	}
	return issue(id)
}

func issue(id string) (*services.Credentials, error) {
	tok, err := auth.GenerateToken(id, []byte(testSecret), time.Hour)
	if err != nil {
		return nil, err
	}
	return &services.Credentials{UserID: id, AccessToken: tok}, nil
}

type fakeDocs struct {
	mu   sync.Mutex
	docs map[string]map[string][]byte
	err  error
}

func (f *fakeDocs) key(owner, collection string) string { return owner + "/" + collection }

func (f *fakeDocs) Upsert(_ context.Context, owner, collection, docID string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if !common.ValidCollection(collection) {
		return common.ErrInvalidCollection
	}
	if f.docs == nil {
		f.docs = map[string]map[string][]byte{}
	}
	k := f.key(owner, collection)
	if f.docs[k] == nil {
		f.docs[k] = map[string][]byte{}
	}
	f.docs[k][docID] = append([]byte(nil), body...)
	return nil
}

func (f *fakeDocs) List(_ context.Context, owner, collection string) ([]models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if !common.ValidCollection(collection) {
		return nil, common.ErrInvalidCollection
	}
	out := make([]models.Document, 0)
	for id, body := range f.docs[f.key(owner, collection)] {
		out = append(out, models.Document{OwnerID: owner, Collection: collection, DocID: id, Body: body})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocID < out[j].DocID })
	return out, nil
}

func (f *fakeDocs) Delete(_ context.Context, owner, collection, docID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if !common.ValidCollection(collection) {
		return common.ErrInvalidCollection
	}
	delete(f.docs[f.key(owner, collection)], docID)
	return nil
}

func newTestServer() (*GRPCServer, *fakeUsers, *fakeDocs) {
	us, ds := &fakeUsers{}, &fakeDocs{}
	return NewGRPCServer("127.0.0.1:0", nopLogger{}, us, ds, testSecret), us, ds
}
