package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/budgetbuddy/ledger/internal/analyzer"
	"github.com/budgetbuddy/ledger/internal/client/models"
	"github.com/budgetbuddy/ledger/internal/client/repositories/records"
)

var errNoOwner = errors.New("nobody is logged in")

func (a *App) owner() (string, error) {
	owner, ok := a.ledger.CurrentOwner()
	if !ok {
		return "", errNoOwner
	}
	return owner, nil
}

// kindArg reads an optional kind from args[i], expenses by default.
func kindArg(args []string, i int) (models.Kind, error) {
	if len(args) <= i {
		return models.KindExpense, nil
	}
	return models.ParseKind(args[i])
}

func (a *App) currency(ctx context.Context) string {
	c, err := a.settings.Currency(ctx)
	if err != nil {
		a.log.Warn(ctx, "failed to read currency", "error", err)
	}
	return c
}

func (a *App) AddExpense(ctx context.Context) error {
	if err := a.add(ctx, models.KindExpense); err != nil {
		return err
	}
	if err := a.limits.LimitCheck(ctx); err != nil {
		a.log.Error(ctx, "limit check failed", "error", err)
	}
	return nil
}

func (a *App) AddIncome(ctx context.Context) error {
	return a.add(ctx, models.KindIncome)
}

func (a *App) add(ctx context.Context, kind models.Kind) error {
	amount, err := getSimpleText(a.reader, "Amount", a.term())
	if err != nil {
		return err
	}
	category, err := getSimpleText(a.reader, "Category", a.term())
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Description", a.term())
	if err != nil {
		return err
	}
	date, err := GetDefaultText(a.reader, "Date (dd.MM.yyyy)", models.FormatDate(time.Now()), a.term())
	if err != nil {
		return err
	}

	rec, err := models.NewRecord(amount, category, description, date)
	if err != nil {
		return err
	}

	saved, err := a.ledger.Insert(ctx, kind, rec)
	if err := a.report(err); err != nil {
		return err
	}
	a.printf("Saved %s #%d\n", kind, saved.ID)
	return nil
}

// List prints the records of a kind, optionally of one category.
func (a *App) List(ctx context.Context, args []string) error {
	kind, err := kindArg(args, 0)
	if err != nil {
		return err
	}
	owner, err := a.owner()
	if err != nil {
		return err
	}

	f := records.Filter{OwnerID: owner}
	if len(args) > 1 {
		f.Category = args[1]
	}

	recs, err := a.ledger.Find(ctx, kind, f)
	if err != nil {
		return err
	}
	a.printRecords(recs, a.currency(ctx))
	return nil
}

func (a *App) printRecords(recs []models.Record, currency string) {
	a.printf("%s", formatRecords(recs, currency))
}

func formatRecords(recs []models.Record, currency string) string {
	if len(recs) == 0 {
		return "No records\n"
	}
	var b strings.Builder
	for _, r := range recs {
		fmt.Fprintf(&b, "#%-4d %s  %-14s %12s  %s\n", r.ID, r.Date, r.Category, analyzer.Money(r.Amount, currency), r.Description)
	}
	fmt.Fprintf(&b, "Total: %s\n", analyzer.Money(analyzer.Total(recs), currency))
	return b.String()
}

// Delete removes one record by kind and id.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: delete <expenses|incomes> <id>")
	}
	kind, err := models.ParseKind(args[0])
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid id %q", args[1])
	}

	if err := a.report(a.ledger.Delete(ctx, kind, models.Record{ID: id})); err != nil {
		return err
	}
	a.printf("Deleted %s #%d\n", kind, id)
	return nil
}

// Clear wipes the local records of a kind after a confirmation.
func (a *App) Clear(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: clear <expenses|incomes>")
	}
	kind, err := models.ParseKind(args[0])
	if err != nil {
		return err
	}

	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete every local %s? (yes/no)", kind), a.term())
	if err != nil {
		return err
	}
	if answer != "yes" {
		a.println("Cancelled")
		return nil
	}

	if err := a.ledger.ClearAll(ctx, kind); err != nil {
		return err
	}
	a.println("Cleared")
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	for _, k := range models.Kinds {
		n, err := a.ledger.SyncFromRemote(ctx, k)
		if err != nil {
			return err
		}
		a.printf("Pulled %d %s\n", n, k.Collection())
	}
	return nil
}

// Watch prints the records of a kind every time they change, until "watch
// off", another watch, logout or exit.
func (a *App) Watch(ctx context.Context, args []string) error {
	if len(args) == 1 && args[0] == "off" {
		a.stopWatch()
		return nil
	}

	kind, err := kindArg(args, 0)
	if err != nil {
		return err
	}
	owner, err := a.owner()
	if err != nil {
		return err
	}
	currency := a.currency(ctx)

	wctx, cancel := context.WithCancel(ctx)
	a.watchMu.Lock()
	if a.watchCancel != nil {
		a.watchCancel()
	}
	a.watchCancel = cancel
	a.watchMu.Unlock()

	sub := a.ledger.Observe(wctx, kind, owner)
	go func() {
		for recs := range sub.C {
			a.printf("\n[%s changed]\n%s", kind.Collection(), formatRecords(recs, currency))
		}
		if err := sub.Err(); err != nil {
			a.log.Error(ctx, "watch stopped", "kind", kind, "error", err)
		}
	}()
	return nil
}

func (a *App) stopWatch() {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()
	if a.watchCancel != nil {
		a.watchCancel()
		a.watchCancel = nil
	}
}
