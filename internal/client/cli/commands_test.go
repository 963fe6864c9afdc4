package cli

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/budgetbuddy/ledger/internal/client/mirror"
	"github.com/budgetbuddy/ledger/internal/client/models"
	"github.com/budgetbuddy/ledger/internal/geo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAddExpense_SavesAndChecksLimit(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.reader = readerFromLines("150", "Food", "lunch", "01.06.2024")
	ctx := context.Background()

	require.NoError(t, ta.AddExpense(ctx))
	assert.Contains(t, ta.out.String(), "Saved expense #1")
	assert.Equal(t, 1, ta.limits.calls)

	recs, err := ta.ledger.Snapshot(ctx, models.KindExpense, "u-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Food", recs[0].Category)
	assert.Equal(t, "lunch", recs[0].Description)
	assert.True(t, recs[0].Amount.Equal(decimal.NewFromInt(150)))
}

func TestAddIncome_DefaultsDateToToday(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.reader = readerFromLines("5000", "Salary", "", "")
	ctx := context.Background()

	require.NoError(t, ta.AddIncome(ctx))
	assert.Zero(t, ta.limits.calls, "incomes do not trigger the limit check")

	recs, err := ta.ledger.Snapshot(ctx, models.KindIncome, "u-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.FormatDate(time.Now()), recs[0].Date)
}

func TestAdd_InvalidInput(t *testing.T) {
	ta := newTestApp(t, nil)

	ta.reader = readerFromLines("abc", "Food", "", "01.06.2024")
	assert.ErrorIs(t, ta.AddExpense(context.Background()), models.ErrInvalidAmount)

	ta.reader = readerFromLines("10", "Food", "", "2024-06-01")
	assert.ErrorIs(t, ta.AddExpense(context.Background()), models.ErrInvalidDate)

	assert.Zero(t, ta.limits.calls)
}

func TestAdd_MirrorFailureKeepsLocalRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mirror.NewMockMirror(ctrl)
	m.EXPECT().Upsert(gomock.Any(), "u-1", models.KindExpense, gomock.Any()).Return(mirror.ErrUnavailable)

	ta := newTestApp(t, m)
	ta.reader = readerFromLines("20", "Transport", "", "02.06.2024")

	require.NoError(t, ta.AddExpense(context.Background()))
	out := ta.out.String()
	assert.Contains(t, out, "Saved locally; remote copy not updated")
	assert.Contains(t, out, "Saved expense #1")
}

func TestList_FiltersByKindAndCategory(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.insert(t, models.KindExpense, "150", "Food", "01.06.2024")
	ta.insert(t, models.KindExpense, "40", "Transport", "02.06.2024")
	ta.insert(t, models.KindIncome, "5000", "Salary", "01.06.2024")
	ctx := context.Background()

	require.NoError(t, ta.List(ctx, nil))
	out := ta.out.String()
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "Transport")
	assert.NotContains(t, out, "Salary")
	assert.Contains(t, out, "Total: 190.00 ₺")

	ta.out.Reset()
	require.NoError(t, ta.List(ctx, []string{"expenses", "Food"}))
	assert.NotContains(t, ta.out.String(), "Transport")
	assert.Contains(t, ta.out.String(), "Total: 150.00 ₺")

	ta.out.Reset()
	require.NoError(t, ta.List(ctx, []string{"incomes"}))
	assert.Contains(t, ta.out.String(), "Salary")

	assert.ErrorIs(t, ta.List(ctx, []string{"loans"}), models.ErrUnknownKind)
}

func TestList_NoOwner(t *testing.T) {
	ta := newOwnedTestApp(t, nil, "")
	assert.ErrorIs(t, ta.List(context.Background(), nil), errNoOwner)
	assert.ErrorIs(t, ta.Summary(context.Background()), errNoOwner)
}

func TestDelete(t *testing.T) {
	ta := newTestApp(t, nil)
	rec := ta.insert(t, models.KindExpense, "150", "Food", "01.06.2024")
	ctx := context.Background()

	require.NoError(t, ta.Delete(ctx, []string{"expenses", "1"}))
	assert.Contains(t, ta.out.String(), "Deleted expense #1")

	recs, err := ta.ledger.Snapshot(ctx, models.KindExpense, "u-1")
	require.NoError(t, err)
	for _, r := range recs {
		assert.NotEqual(t, rec.ID, r.ID)
	}

	assert.Error(t, ta.Delete(ctx, []string{"expenses"}))
	assert.Error(t, ta.Delete(ctx, []string{"expenses", "x"}))
	assert.Error(t, ta.Delete(ctx, []string{"expenses", "0"}))
	assert.ErrorIs(t, ta.Delete(ctx, []string{"loans", "1"}), models.ErrUnknownKind)
}

func TestClear_AsksFirst(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.insert(t, models.KindIncome, "10", "Gift", "01.06.2024")
	ctx := context.Background()

	ta.reader = readerFromLines("no")
	require.NoError(t, ta.Clear(ctx, []string{"incomes"}))
	assert.Contains(t, ta.out.String(), "Cancelled")
	recs, _ := ta.ledger.Snapshot(ctx, models.KindIncome, "u-1")
	assert.Len(t, recs, 1)

	ta.reader = readerFromLines("yes")
	require.NoError(t, ta.Clear(ctx, []string{"incomes"}))
	recs, _ = ta.ledger.Snapshot(ctx, models.KindIncome, "u-1")
	assert.Empty(t, recs)

	assert.Error(t, ta.Clear(ctx, nil))
}

func TestSync_ReplacesLocalRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mirror.NewMockMirror(ctrl)
	remote := []models.Record{{ID: 40, Amount: decimal.NewFromInt(12), Category: "Food", Date: "03.06.2024"}}
	m.EXPECT().FetchAll(gomock.Any(), "u-1", models.KindExpense).Return(remote, nil)
	m.EXPECT().FetchAll(gomock.Any(), "u-1", models.KindIncome).Return(nil, nil)

	ta := newTestApp(t, m)
	ctx := context.Background()

	require.NoError(t, ta.Sync(ctx))
	assert.Contains(t, ta.out.String(), "Pulled 1 expenses")
	assert.Contains(t, ta.out.String(), "Pulled 0 incomes")

	recs, err := ta.ledger.Snapshot(ctx, models.KindExpense, "u-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(40), recs[0].ID)
}

func TestSync_FetchFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mirror.NewMockMirror(ctrl)
	m.EXPECT().FetchAll(gomock.Any(), "u-1", models.KindExpense).Return(nil, mirror.ErrUnavailable)

	ta := newTestApp(t, m)
	assert.ErrorIs(t, ta.Sync(context.Background()), mirror.ErrUnavailable)
}

func TestWatch_PrintsChanges(t *testing.T) {
	ta := newTestApp(t, nil)
	ctx := context.Background()

	require.NoError(t, ta.Watch(ctx, []string{"expenses"}))
	require.Eventually(t, func() bool { return strings.Contains(ta.out.String(), "No records") }, time.Second, 5*time.Millisecond)

	ta.insert(t, models.KindExpense, "150", "Food", "01.06.2024")
	require.Eventually(t, func() bool { return strings.Contains(ta.out.String(), "Food") }, time.Second, 5*time.Millisecond)

	require.NoError(t, ta.Watch(ctx, []string{"off"}))
	ta.watchMu.Lock()
	assert.Nil(t, ta.watchCancel)
	ta.watchMu.Unlock()

	assert.ErrorIs(t, ta.Watch(ctx, []string{"loans"}), models.ErrUnknownKind)
}

func seedBalance(t *testing.T, ta *testApp) {
	t.Helper()
	ta.insert(t, models.KindIncome, "5000", "Salary", "01.06.2024")
	ta.insert(t, models.KindExpense, "2000", "Rent", "02.06.2024")
	ta.insert(t, models.KindExpense, "750", "Food", "03.06.2024")
}

func TestSummary(t *testing.T) {
	ta := newTestApp(t, nil)
	seedBalance(t, ta)

	require.NoError(t, ta.Summary(context.Background()))
	out := ta.out.String()
	assert.Contains(t, out, "Income:      5000.00 ₺")
	assert.Contains(t, out, "Expense:     2750.00 ₺")
	assert.Contains(t, out, "Balance:     2250.00 ₺")
	assert.Contains(t, out, "Top spend:   Rent (2000.00 ₺)")
	assert.Contains(t, out, "Costliest:   02.06.2024")
}

func TestSuggest(t *testing.T) {
	ta := newTestApp(t, nil)
	ctx := context.Background()

	require.NoError(t, ta.Suggest(ctx))
	assert.Contains(t, ta.out.String(), "Not enough data yet")

	ta.out.Reset()
	ta.insert(t, models.KindIncome, "1000", "Salary", "01.06.2024")
	ta.insert(t, models.KindExpense, "950", "Rent", "02.06.2024")
	require.NoError(t, ta.Suggest(ctx))
	assert.Contains(t, ta.out.String(), `more than 90% of your income. Keep a close eye on "Rent"`)
}

func TestTrends_Quiet(t *testing.T) {
	ta := newTestApp(t, nil)
	require.NoError(t, ta.Trends(context.Background()))
	assert.Contains(t, ta.out.String(), "Nothing unusual")
}

func TestChart(t *testing.T) {
	ta := newTestApp(t, nil)
	ctx := context.Background()

	require.NoError(t, ta.Chart(ctx))
	assert.Contains(t, ta.out.String(), "No expenses to chart")

	ta.out.Reset()
	ta.insert(t, models.KindExpense, "50", "Rent", "01.06.2024")
	ta.insert(t, models.KindExpense, "150", "Food", "02.06.2024")
	require.NoError(t, ta.Chart(ctx))

	lines := strings.Split(strings.TrimSpace(ta.out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Food"), lines[0])
	assert.Contains(t, lines[0], strings.Repeat("#", 22)+" ")
	assert.Contains(t, lines[0], "75.0%")
	assert.Contains(t, lines[1], "25.0%")
}

func TestAsk(t *testing.T) {
	ta := newTestApp(t, nil)
	seedBalance(t, ta)

	require.NoError(t, ta.Ask(context.Background(), "give me a summary"))
	assert.Contains(t, ta.out.String(), "Here is your financial summary")
}

func TestLimit(t *testing.T) {
	ta := newTestApp(t, nil)
	ctx := context.Background()

	require.NoError(t, ta.Limit(ctx, nil))
	assert.Contains(t, ta.out.String(), "No daily limit set")

	require.NoError(t, ta.Limit(ctx, []string{"100,5"}))
	assert.Contains(t, ta.out.String(), "Daily limit set to 100.50 ₺")

	ta.out.Reset()
	require.NoError(t, ta.Limit(ctx, nil))
	assert.Contains(t, ta.out.String(), "Daily limit: 100.50 ₺")

	require.NoError(t, ta.Limit(ctx, []string{"0"}))
	assert.Contains(t, ta.out.String(), "Daily limit disabled")

	assert.ErrorIs(t, ta.Limit(ctx, []string{"lots"}), models.ErrInvalidAmount)
}

func TestCurrency(t *testing.T) {
	ta := newTestApp(t, nil)
	ctx := context.Background()

	require.NoError(t, ta.Currency(ctx, []string{"$"}))
	ta.out.Reset()
	require.NoError(t, ta.Currency(ctx, nil))
	assert.Equal(t, "Currency: $\n", ta.out.String())
}

func TestNotifications(t *testing.T) {
	ta := newTestApp(t, nil)
	ctx := context.Background()

	require.NoError(t, ta.Notifications(ctx, nil))
	assert.Contains(t, ta.out.String(), "Notifications: on")

	require.NoError(t, ta.Notifications(ctx, []string{"off"}))
	on, err := ta.settings.NotificationsEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, on)

	assert.Error(t, ta.Notifications(ctx, []string{"maybe"}))
}

func TestHere(t *testing.T) {
	ta := newTestApp(t, nil)
	ctx := context.Background()

	require.NoError(t, ta.Here(ctx, []string{"40.9771", "28.8720"}))
	require.Len(t, ta.zone.got, 1)
	assert.Equal(t, geo.Point{Lat: 40.9771, Lon: 28.8720}, ta.zone.got[0])
	assert.Contains(t, ta.out.String(), "Position noted")

	ta.out.Reset()
	ta.zone.fired = true
	require.NoError(t, ta.Here(ctx, []string{"40.9771", "28.8720"}))
	assert.Empty(t, ta.out.String())

	ta.zone.err = errors.New("zone-alert: failed to notify")
	assert.ErrorContains(t, ta.Here(ctx, []string{"1", "2"}), "zone-alert")

	assert.Error(t, ta.Here(ctx, []string{"north", "2"}))
	assert.Error(t, ta.Here(ctx, []string{"1", "east"}))
	assert.Error(t, ta.Here(ctx, []string{"1"}))
}
