package cli

import (
	"context"
	"strings"
	"time"

	"github.com/budgetbuddy/ledger/internal/analyzer"
	"github.com/budgetbuddy/ledger/internal/assistant"
	"github.com/budgetbuddy/ledger/internal/client/models"
	"github.com/shopspring/decimal"
)

const chartWidth = 30

var (
	barWidth = decimal.NewFromInt(chartWidth)
	hundred  = decimal.NewFromInt(100)
)

// snapshot reads both kinds for the current owner.
func (a *App) snapshot(ctx context.Context) (expenses, incomes []models.Record, err error) {
	owner, err := a.owner()
	if err != nil {
		return nil, nil, err
	}
	if expenses, err = a.ledger.Snapshot(ctx, models.KindExpense, owner); err != nil {
		return nil, nil, err
	}
	if incomes, err = a.ledger.Snapshot(ctx, models.KindIncome, owner); err != nil {
		return nil, nil, err
	}
	return expenses, incomes, nil
}

func (a *App) Summary(ctx context.Context) error {
	expenses, incomes, err := a.snapshot(ctx)
	if err != nil {
		return err
	}
	cur := a.currency(ctx)
	now := time.Now()

	a.printf("Income:      %s\n", analyzer.Money(analyzer.Total(incomes), cur))
	a.printf("Expense:     %s\n", analyzer.Money(analyzer.Total(expenses), cur))
	a.printf("Balance:     %s\n", analyzer.Money(analyzer.Balance(expenses, incomes), cur))
	a.printf("This month:  %s\n", analyzer.Money(analyzer.MonthTotal(expenses, now.Year(), now.Month()), cur))
	a.printf("Today:       %s\n", analyzer.Money(analyzer.DayTotal(expenses, models.FormatDate(now)), cur))
	a.printf("Daily avg:   %s\n", analyzer.Money(analyzer.DailyAverage(expenses), cur))

	if top, ok := analyzer.LargestCategory(expenses); ok {
		a.printf("Top spend:   %s (%s)\n", top.Category, analyzer.Money(top.Amount, cur))
	}
	if day, ok := analyzer.LargestDay(expenses); ok {
		a.printf("Costliest:   %s (%s)\n", day.Date, analyzer.Money(day.Amount, cur))
	}
	return nil
}

func (a *App) Suggest(ctx context.Context) error {
	expenses, incomes, err := a.snapshot(ctx)
	if err != nil {
		return err
	}
	a.println(analyzer.Suggestion(expenses, incomes))
	return nil
}

func (a *App) Trends(ctx context.Context) error {
	expenses, _, err := a.snapshot(ctx)
	if err != nil {
		return err
	}
	warnings := analyzer.TrendWarnings(expenses, time.Now())
	if len(warnings) == 0 {
		a.println("Nothing unusual in your spending")
		return nil
	}
	for _, w := range warnings {
		a.println("-", w)
	}
	return nil
}

// Chart draws the category shares of all expenses as horizontal bars.
func (a *App) Chart(ctx context.Context) error {
	expenses, _, err := a.snapshot(ctx)
	if err != nil {
		return err
	}
	shares := analyzer.CategoryShares(expenses)
	if len(shares) == 0 {
		a.println("No expenses to chart")
		return nil
	}

	cur := a.currency(ctx)
	for _, s := range shares {
		n := int(s.Percent.Mul(barWidth).Div(hundred).IntPart())
		a.printf("%-14s %-*s %5s%% %s\n", s.Category, chartWidth, strings.Repeat("#", n), s.Percent.StringFixed(1), analyzer.Money(s.Amount, cur))
	}
	return nil
}

func (a *App) Ask(ctx context.Context, question string) error {
	expenses, incomes, err := a.snapshot(ctx)
	if err != nil {
		return err
	}
	a.println(assistant.Respond(question, expenses, incomes, a.currency(ctx)))
	return nil
}
