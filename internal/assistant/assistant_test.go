package assistant

import (
	"testing"

	"github.com/budgetbuddy/ledger/internal/client/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func rec(amount, category string) models.Record {
	return models.Record{Amount: decimal.RequireFromString(amount), Category: category, Date: "01.06.2024"}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		msg  string
		want Intent
	}{
		{"Give me a summary", IntentSummary},
		{"how am I doing?", IntentSummary},
		{"Durum nedir", IntentSummary},
		{"How can I save more?", IntentSavings},
		{"tasarruf önerisi", IntentSavings},
		{"help me with a budget", IntentBudget},
		{"analyse my spending", IntentAnalysis},
		{"where does my money go", IntentAnalysis},
		{"should I invest", IntentInvestment},
		{"which categories should I use", IntentCategories},
		{"how to earn more", IntentIncome},
		{"my credit card debt", IntentDebt},
		{"Borç yönetimi", IntentDebt},
		{"hello there", IntentUnknown},
		{"", IntentUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.msg))
		})
	}
}

func TestClassify_FirstRuleWins(t *testing.T) {
	// mentions both savings and a budget
	assert.Equal(t, IntentSavings, Classify("save money on my budget"))
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "debt", IntentDebt.String())
	assert.Equal(t, "unknown", Intent(99).String())
}

func TestRespond_Summary(t *testing.T) {
	incomes := []models.Record{rec("5000", "Salary")}
	expenses := []models.Record{rec("2750", "Rent")}

	got := Respond("summary please", expenses, incomes, "₺")
	assert.Contains(t, got, "5000.00 ₺")
	assert.Contains(t, got, "2750.00 ₺")
	assert.Contains(t, got, "2250.00 ₺")
	assert.Contains(t, got, "positive")
}

func TestRespond_SummaryNegative(t *testing.T) {
	got := Respond("status", []models.Record{rec("10", "Food")}, nil, "$")
	assert.Contains(t, got, "negative")
}

func TestRespond_SavingsUsesCategoryTip(t *testing.T) {
	got := Respond("how do I save", []models.Record{rec("10", "Bus"), rec("300", "Rent")}, nil, "$")
	assert.Contains(t, got, "Rent (300.00 $)")
	assert.Contains(t, got, "flatmate")

	got = Respond("how do I save", []models.Record{rec("10", "Gadgets")}, nil, "$")
	assert.Contains(t, got, "Review your Gadgets spending")
}

func TestRespond_BudgetPlan(t *testing.T) {
	got := Respond("budget", []models.Record{rec("300", "Rent"), rec("100", "Food")}, []models.Record{rec("1000", "Salary")}, "$")
	assert.Contains(t, got, "40.0%")
	assert.Contains(t, got, "- Rent: 600.00 $")
	assert.Contains(t, got, "- Food: 200.00 $")
}

func TestRespond_Analysis(t *testing.T) {
	assert.Contains(t, Respond("analysis", nil, nil, "$"), "no expenses yet")

	got := Respond("analysis", []models.Record{rec("95", "Rent"), rec("5", "Food")}, []models.Record{rec("100", "Salary")}, "$")
	assert.Contains(t, got, "- Rent: 95.00 $ (95.0%)")
	assert.Contains(t, got, "Smallest category: Food")
	assert.Contains(t, got, "Warning")
}

func TestRespond_Unknown(t *testing.T) {
	assert.Contains(t, Respond("what is the weather", nil, nil, "$"), "did not quite get that")
}

func TestEveryIntentHasBuilder(t *testing.T) {
	for i := range intentNames {
		_, ok := builders[i]
		assert.True(t, ok, i.String())
	}
}
