package analyzer

import (
	"fmt"
	"time"

	"github.com/budgetbuddy/ledger/internal/client/models"
	"github.com/shopspring/decimal"
)

var (
	trendThreshold = decimal.RequireFromString("1.2")
	dominantShare  = decimal.NewFromInt(50)
	spikeFactor    = decimal.NewFromInt(2)
)

type monthKey struct {
	year  int
	month time.Month
}

// TrendWarnings compares each category's spend in the month of now against
// its average over the other months in expenses and warns about increases of
// more than 20%.
//
// When none of this month's categories has spend in any other month it looks
// inside the current month instead: a category taking more than half of the
// month, a day costing more than twice the month's daily average, or failing
// both, the most frugal category. Records with unparseable dates are ignored.
func TrendWarnings(expenses []models.Record, now time.Time) []string {
	warnings := make([]string, 0)
	if len(expenses) == 0 {
		return warnings
	}

	current := monthKey{now.Year(), now.Month()}

	var (
		order   []string
		monthly = make(map[string]map[monthKey]decimal.Decimal)
		thisMon = make([]models.Record, 0)
	)
	for _, r := range expenses {
		t, ok := r.Time()
		if !ok {
			continue
		}
		k := monthKey{t.Year(), t.Month()}
		if k == current {
			thisMon = append(thisMon, r)
		}
		m, ok := monthly[r.Category]
		if !ok {
			m = make(map[monthKey]decimal.Decimal)
			monthly[r.Category] = m
			order = append(order, r.Category)
		}
		m[k] = m[k].Add(r.Amount)
	}

	history := false
	for _, cat := range order {
		months := monthly[cat]
		cur, ok := months[current]
		if !ok || len(months) < 2 {
			continue
		}
		history = true

		past := decimal.Zero
		for k, v := range months {
			if k != current {
				past = past.Add(v)
			}
		}
		avg := past.Div(decimal.NewFromInt(int64(len(months) - 1)))
		if avg.IsZero() {
			continue
		}

		if cur.GreaterThan(avg.Mul(trendThreshold)) {
			pct := cur.Sub(avg).Div(avg).Mul(hundred).Floor()
			warnings = append(warnings, fmt.Sprintf("Spending on %q is up %s%% on its monthly average. Be careful!", cat, pct.String()))
		}
	}

	if history || len(thisMon) == 0 {
		return warnings
	}
	return currentMonthObservations(thisMon)
}

func currentMonthObservations(recs []models.Record) []string {
	out := make([]string, 0)
	total := Total(recs)

	if top, ok := LargestCategory(recs); ok && !total.IsZero() {
		pct := top.Amount.Div(total).Mul(hundred).Floor()
		if pct.GreaterThan(dominantShare) {
			out = append(out, fmt.Sprintf("%q takes %s%% of this month's spending. Consider spreading your spending more evenly.", top.Category, pct.String()))
		}
	}

	days := dayTotals(recs)
	if len(days) > 1 {
		avg := total.Div(decimal.NewFromInt(int64(len(days))))
		if peak, _ := LargestDay(recs); peak.Amount.GreaterThan(avg.Mul(spikeFactor)) {
			out = append(out, fmt.Sprintf("You spent far more than usual on %s. Planning big purchases helps keep the budget in check.", peak.Date))
		}
	}

	if len(out) == 0 && len(orderedTotals(recs)) > 1 {
		low, _ := SmallestCategory(recs)
		out = append(out, fmt.Sprintf("You are frugal with %q. Try building the same habits in your other categories.", low.Category))
	}
	return out
}
