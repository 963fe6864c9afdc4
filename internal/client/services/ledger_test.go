package services

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/budgetbuddy/ledger/internal/client/mirror"
	"github.com/budgetbuddy/ledger/internal/client/models"
	"github.com/budgetbuddy/ledger/internal/client/repositories"
	"github.com/budgetbuddy/ledger/internal/client/repositories/records"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type staticOwner string

func (o staticOwner) CurrentOwner() (string, bool) { return string(o), o != "" }

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := repositories.Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestLedger(t *testing.T, owner string) (*Ledger, *mirror.MockMirror) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := mirror.NewMockMirror(ctrl)
	db := setupDB(t)
	return NewLedger(records.NewSQLiteRepository(db), db, m, staticOwner(owner), nil), m
}

func record(amount, category, date string) models.Record {
	return models.Record{Amount: decimal.RequireFromString(amount), Category: category, Date: date}
}

func recv(t *testing.T, sub *records.Subscription) []models.Record {
	t.Helper()
	select {
	case recs, ok := <-sub.C:
		require.True(t, ok, "subscription closed: %v", sub.Err())
		return recs
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot delivered")
		return nil
	}
}

func TestInsert_MirrorsUnderStoreID(t *testing.T) {
	l, m := newTestLedger(t, "u-1")
	ctx := context.Background()

	var mirrored models.Record
	m.EXPECT().Upsert(gomock.Any(), "u-1", models.KindExpense, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ models.Kind, r models.Record) error {
			mirrored = r
			return nil
		})

	saved, err := l.Insert(ctx, models.KindExpense, record("150.0", "Food", "01.06.2024"))
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	assert.Equal(t, saved.ID, mirrored.ID)
	assert.Equal(t, mirror.DocKey(saved.ID), mirror.DocKey(mirrored.ID))
	assert.Equal(t, "u-1", saved.OwnerID)
}

func TestFood150_InsertObserveDelete(t *testing.T) {
	l, m := newTestLedger(t, "u-1")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.EXPECT().Upsert(gomock.Any(), "u-1", models.KindExpense, gomock.Any()).Return(nil)

	sub := l.Observe(ctx, models.KindExpense, "u-1")
	assert.Empty(t, recv(t, sub))

	saved, err := l.Insert(ctx, models.KindExpense, record("150.0", "Food", "01.06.2024"))
	require.NoError(t, err)

	got := recv(t, sub)
	require.Len(t, got, 1)
	assert.Equal(t, saved.ID, got[0].ID)
	assert.True(t, got[0].Amount.Equal(decimal.NewFromInt(150)))

	m.EXPECT().DeleteByID(gomock.Any(), "u-1", models.KindExpense, saved.ID).Return(nil)
	require.NoError(t, l.Delete(ctx, models.KindExpense, saved))

	assert.Empty(t, recv(t, sub))

	snap, err := l.Snapshot(ctx, models.KindExpense, "u-1")
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestInsert_RemoteFailureKeepsLocalRecord(t *testing.T) {
	l, m := newTestLedger(t, "u-1")
	ctx := context.Background()

	m.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(mirror.ErrUnavailable)

	saved, err := l.Insert(ctx, models.KindIncome, record("5000", "Salary", "01.06.2024"))
	require.Error(t, err)
	assert.ErrorIs(t, err, mirror.ErrUnavailable)
	assert.True(t, IsMirrorError(err))
	require.NotZero(t, saved.ID)

	snap, err := l.Snapshot(ctx, models.KindIncome, "u-1")
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.Equal(t, saved.ID, snap[0].ID)
}

func TestInsert_WithoutOwnerStaysLocalAndInvisible(t *testing.T) {
	l, m := newTestLedger(t, "")
	ctx := context.Background()

	m.EXPECT().Upsert(gomock.Any(), "", models.KindExpense, gomock.Any()).Return(mirror.ErrUnauthenticated)

	saved, err := l.Insert(ctx, models.KindExpense, record("10", "Food", "01.06.2024"))
	assert.ErrorIs(t, err, mirror.ErrUnauthenticated)
	assert.NotZero(t, saved.ID)

	snap, err := l.Snapshot(ctx, models.KindExpense, "")
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestInsert_LocalFailureSkipsMirror(t *testing.T) {
	l, _ := newTestLedger(t, "u-1")

	_, err := l.Insert(context.Background(), models.Kind("loan"), record("1", "x", "01.06.2024"))
	require.Error(t, err)
	assert.False(t, IsMirrorError(err))
}

func TestDelete_UnsavedRecord(t *testing.T) {
	l, _ := newTestLedger(t, "u-1")
	err := l.Delete(context.Background(), models.KindExpense, record("1", "x", "01.06.2024"))
	assert.ErrorIs(t, err, models.ErrRecordNotStored)
}

func TestDelete_RemoteFailureStillDeletesLocally(t *testing.T) {
	l, m := newTestLedger(t, "u-1")
	ctx := context.Background()

	m.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	saved, err := l.Insert(ctx, models.KindExpense, record("3", "Coffee", "02.06.2024"))
	require.NoError(t, err)

	m.EXPECT().DeleteByID(gomock.Any(), "u-1", models.KindExpense, saved.ID).Return(errors.New("boom"))
	err = l.Delete(ctx, models.KindExpense, saved)
	assert.True(t, IsMirrorError(err))

	snap, err := l.Snapshot(ctx, models.KindExpense, "u-1")
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestSyncFromRemote_ReplacesLocalSet(t *testing.T) {
	l, m := newTestLedger(t, "u-1")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(3)
	for _, c := range []string{"Food", "Rent", "Fun"} {
		_, err := l.Insert(ctx, models.KindExpense, record("1", c, "01.05.2024"))
		require.NoError(t, err)
	}

	remote := []models.Record{
		{ID: 40, Amount: decimal.RequireFromString("12.5"), Category: "Food", Description: "", Date: "03.06.2024"},
		{ID: 41, Amount: decimal.RequireFromString("7"), Category: "Bus", Description: "ticket", Date: "01.06.2024"},
	}
	m.EXPECT().FetchAll(gomock.Any(), "u-1", models.KindExpense).Return(remote, nil)

	sub := l.Observe(ctx, models.KindExpense, "u-1")
	require.Len(t, recv(t, sub), 3)

	n, err := l.SyncFromRemote(ctx, models.KindExpense)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got := recv(t, sub)
	require.Len(t, got, 2)
	assert.Equal(t, int64(40), got[0].ID)
	assert.Equal(t, int64(41), got[1].ID)
	assert.Equal(t, "u-1", got[1].OwnerID)
	assert.Equal(t, "ticket", got[1].Description)
}

func TestSyncFromRemote_CollidingIDsGetFreshIDs(t *testing.T) {
	l, m := newTestLedger(t, "u-1")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	remote := []models.Record{
		{ID: 7, Amount: decimal.RequireFromString("1"), Category: "Food", Date: "01.06.2024"},
		{ID: 7, Amount: decimal.RequireFromString("2"), Category: "Rent", Date: "02.06.2024"},
		{ID: 0, Amount: decimal.RequireFromString("3"), Category: "Fun", Date: "03.06.2024"},
		{ID: 8, Amount: decimal.RequireFromString("4"), Category: "Bus", Date: "04.06.2024"},
	}
	m.EXPECT().FetchAll(gomock.Any(), "u-1", models.KindExpense).Return(remote, nil)

	n, err := l.SyncFromRemote(ctx, models.KindExpense)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	got := recv(t, l.Observe(ctx, models.KindExpense, "u-1"))
	require.Len(t, got, n)

	ids := make(map[int64]string, len(got))
	for _, r := range got {
		ids[r.ID] = r.Category
	}
	assert.Len(t, ids, 4, "every pulled record keeps its own id")
	assert.Equal(t, "Food", ids[7], "first holder of an id keeps it")
	assert.Equal(t, "Bus", ids[8])
	for id, category := range ids {
		if category == "Rent" || category == "Fun" {
			assert.Greater(t, id, int64(8))
		}
	}
}

func TestSyncFromRemote_FetchFailureLeavesLocalAlone(t *testing.T) {
	l, m := newTestLedger(t, "u-1")
	ctx := context.Background()

	m.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	_, err := l.Insert(ctx, models.KindIncome, record("100", "Salary", "01.06.2024"))
	require.NoError(t, err)

	m.EXPECT().FetchAll(gomock.Any(), "u-1", models.KindIncome).Return(nil, mirror.ErrUnavailable)

	_, err = l.SyncFromRemote(ctx, models.KindIncome)
	assert.ErrorIs(t, err, mirror.ErrUnavailable)
	assert.True(t, IsMirrorError(err))

	snap, err := l.Snapshot(ctx, models.KindIncome, "u-1")
	require.NoError(t, err)
	assert.Len(t, snap, 1)
}

func TestSyncAll_StopsAtFirstFailure(t *testing.T) {
	l, m := newTestLedger(t, "u-1")

	m.EXPECT().FetchAll(gomock.Any(), "u-1", models.KindExpense).Return(nil, nil)
	m.EXPECT().FetchAll(gomock.Any(), "u-1", models.KindIncome).Return(nil, mirror.ErrUnauthenticated)

	err := l.SyncAll(context.Background())
	assert.ErrorIs(t, err, mirror.ErrUnauthenticated)
}

func TestSyncFromRemote_ConcurrentInserts(t *testing.T) {
	l, m := newTestLedger(t, "u-1")
	ctx := context.Background()

	m.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.EXPECT().FetchAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]models.Record{
		{ID: 1000, Amount: decimal.NewFromInt(1), Category: "Remote", Date: "01.06.2024"},
	}, nil).AnyTimes()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := l.Insert(ctx, models.KindExpense, record("1", "Local", "01.06.2024"))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := l.SyncFromRemote(ctx, models.KindExpense)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap, err := l.Snapshot(ctx, models.KindExpense, "u-1")
	require.NoError(t, err)

	remote := 0
	for _, r := range snap {
		if r.ID == 1000 {
			remote++
		}
	}
	assert.Equal(t, 1, remote, "the remote record is present exactly once")
}

func TestClearAll_IsLocalOnly(t *testing.T) {
	l, m := newTestLedger(t, "u-1")
	ctx := context.Background()

	m.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	_, err := l.Insert(ctx, models.KindExpense, record("1", "Food", "01.06.2024"))
	require.NoError(t, err)

	require.NoError(t, l.ClearAll(ctx, models.KindExpense))

	snap, err := l.Snapshot(ctx, models.KindExpense, "u-1")
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestTotalFor_AndFind(t *testing.T) {
	l, m := newTestLedger(t, "u-1")
	ctx := context.Background()

	m.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(3)
	for _, r := range []models.Record{
		record("10.25", "Food", "01.06.2024"),
		record("4.75", "Bus", "01.06.2024"),
		record("100", "Food", "02.06.2024"),
	} {
		_, err := l.Insert(ctx, models.KindExpense, r)
		require.NoError(t, err)
	}

	total, err := l.TotalFor(ctx, models.KindExpense, "01.06.2024", "u-1")
	require.NoError(t, err)
	assert.Equal(t, "15", total.String())

	food, err := l.Find(ctx, models.KindExpense, records.Filter{OwnerID: "u-1", Category: "Food"})
	require.NoError(t, err)
	assert.Len(t, food, 2)
}
