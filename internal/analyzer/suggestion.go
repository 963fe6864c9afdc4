package analyzer

import (
	"fmt"

	"github.com/budgetbuddy/ledger/internal/client/models"
	"github.com/shopspring/decimal"
)

const InsufficientData = "Not enough data yet. Add a few expenses and incomes and I can give you tailored suggestions."

var (
	highRatio = decimal.RequireFromString("0.9")
	warnRatio = decimal.RequireFromString("0.7")
)

// Suggestion picks one of three canned messages by the expense/income ratio
// and names the category with the highest spend.
func Suggestion(expenses, incomes []models.Record) string {
	if len(expenses) == 0 || len(incomes) == 0 {
		return InsufficientData
	}

	ratio, ok := Ratio(expenses, incomes)
	if !ok {
		return InsufficientData
	}

	top, _ := LargestCategory(expenses)

	switch {
	case ratio.GreaterThan(highRatio):
		return fmt.Sprintf("You spent more than 90%% of your income. Keep a close eye on %q in particular!", top.Category)
	case ratio.GreaterThan(warnRatio):
		return fmt.Sprintf("Your spending passed 70%% of your income. Cutting back on %q would put you back in control.", top.Category)
	default:
		return fmt.Sprintf("Your spending is well balanced. Keep it up! Trimming %q a little could grow your savings.", top.Category)
	}
}
