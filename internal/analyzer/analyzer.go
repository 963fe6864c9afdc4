// Package analyzer holds the pure aggregation functions behind the summary,
// chart, suggestion and trend views. Nothing here touches storage: callers
// pass an in-memory snapshot of records.
package analyzer

import (
	"fmt"
	"sort"
	"time"

	"github.com/budgetbuddy/ledger/internal/client/models"
	"github.com/shopspring/decimal"
)

// AverageDays is the fixed month length DailyAverage divides by.
const AverageDays = 30

// BudgetShare is the part of income BudgetPlan hands out to spending.
var BudgetShare = decimal.RequireFromString("0.8")

var hundred = decimal.NewFromInt(100)

type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
}

type DayAmount struct {
	Date   string
	Amount decimal.Decimal
}

// Share is one slice of the category chart.
type Share struct {
	Category string
	Amount   decimal.Decimal
	// Percent of the total, rounded to one decimal place.
	Percent decimal.Decimal
}

func Total(recs []models.Record) decimal.Decimal {
	total := decimal.Zero
	for _, r := range recs {
		total = total.Add(r.Amount)
	}
	return total
}

// CategoryTotals sums amounts per category. It never returns nil.
func CategoryTotals(recs []models.Record) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, r := range recs {
		out[r.Category] = out[r.Category].Add(r.Amount)
	}
	return out
}

// orderedTotals is CategoryTotals in order of first appearance, so ties are
// broken the same way on every run.
func orderedTotals(recs []models.Record) []CategoryAmount {
	idx := make(map[string]int)
	out := make([]CategoryAmount, 0)
	for _, r := range recs {
		i, ok := idx[r.Category]
		if !ok {
			i = len(out)
			idx[r.Category] = i
			out = append(out, CategoryAmount{Category: r.Category})
		}
		out[i].Amount = out[i].Amount.Add(r.Amount)
	}
	return out
}

// Balance is total income minus total expense.
func Balance(expenses, incomes []models.Record) decimal.Decimal {
	return Total(incomes).Sub(Total(expenses))
}

// Ratio is total expense over total income; ok is false when there is no
// income to divide by.
func Ratio(expenses, incomes []models.Record) (ratio decimal.Decimal, ok bool) {
	income := Total(incomes)
	if income.IsZero() {
		return decimal.Zero, false
	}
	return Total(expenses).Div(income), true
}

func LargestCategory(recs []models.Record) (CategoryAmount, bool) {
	return pickCategory(recs, func(a, b decimal.Decimal) bool { return a.GreaterThan(b) })
}

func SmallestCategory(recs []models.Record) (CategoryAmount, bool) {
	return pickCategory(recs, func(a, b decimal.Decimal) bool { return a.LessThan(b) })
}

func pickCategory(recs []models.Record, better func(a, b decimal.Decimal) bool) (CategoryAmount, bool) {
	totals := orderedTotals(recs)
	if len(totals) == 0 {
		return CategoryAmount{}, false
	}
	best := totals[0]
	for _, c := range totals[1:] {
		if better(c.Amount, best.Amount) {
			best = c
		}
	}
	return best, true
}

// LargestDay is the date with the highest summed amount.
func LargestDay(recs []models.Record) (DayAmount, bool) {
	days := dayTotals(recs)
	if len(days) == 0 {
		return DayAmount{}, false
	}
	best := days[0]
	for _, d := range days[1:] {
		if d.Amount.GreaterThan(best.Amount) {
			best = d
		}
	}
	return best, true
}

func dayTotals(recs []models.Record) []DayAmount {
	idx := make(map[string]int)
	out := make([]DayAmount, 0)
	for _, r := range recs {
		i, ok := idx[r.Date]
		if !ok {
			i = len(out)
			idx[r.Date] = i
			out = append(out, DayAmount{Date: r.Date})
		}
		out[i].Amount = out[i].Amount.Add(r.Amount)
	}
	return out
}

// DailyAverage assumes a 30-day month whatever the records span.
func DailyAverage(recs []models.Record) decimal.Decimal {
	return Total(recs).Div(decimal.NewFromInt(AverageDays))
}

// MonthTotal sums the records dated in the given calendar month. Records with
// unparseable dates are skipped.
func MonthTotal(recs []models.Record, year int, month time.Month) decimal.Decimal {
	total := decimal.Zero
	for _, r := range recs {
		t, ok := r.Time()
		if ok && t.Year() == year && t.Month() == month {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// DayTotal sums the records of one day. date may be in any form ParseDate
// accepts.
func DayTotal(recs []models.Record, date string) decimal.Decimal {
	want := models.DateKey(date)
	if want == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, r := range recs {
		if models.DateKey(r.Date) == want {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// CategoryShares is the chart data, largest amount first.
func CategoryShares(recs []models.Record) []Share {
	totals := orderedTotals(recs)
	total := Total(recs)

	out := make([]Share, 0, len(totals))
	for _, c := range totals {
		s := Share{Category: c.Category, Amount: c.Amount, Percent: decimal.Zero}
		if !total.IsZero() {
			s.Percent = c.Amount.Mul(hundred).Div(total).Round(1)
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}

// BudgetPlan spreads 80% of income over the spending categories in proportion
// to what was spent on each, in order of first appearance.
func BudgetPlan(expenses []models.Record, income decimal.Decimal) []CategoryAmount {
	totals := orderedTotals(expenses)
	spent := Total(expenses)
	pool := income.Mul(BudgetShare)

	out := make([]CategoryAmount, 0, len(totals))
	for _, c := range totals {
		amount := decimal.Zero
		if !spent.IsZero() {
			amount = pool.Mul(c.Amount).Div(spent).Round(2)
		}
		out = append(out, CategoryAmount{Category: c.Category, Amount: amount})
	}
	return out
}

// Money renders an amount with two decimals and the currency symbol.
func Money(d decimal.Decimal, symbol string) string {
	return fmt.Sprintf("%s %s", d.StringFixed(2), symbol)
}
