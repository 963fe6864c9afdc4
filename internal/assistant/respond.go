package assistant

import (
	"fmt"
	"strings"

	"github.com/budgetbuddy/ledger/internal/analyzer"
	"github.com/budgetbuddy/ledger/internal/client/models"
	"github.com/shopspring/decimal"
)

// facts is what every builder gets to work with.
type facts struct {
	expenses []models.Record
	incomes  []models.Record
	currency string

	income  decimal.Decimal
	expense decimal.Decimal
	balance decimal.Decimal
}

func (f facts) money(d decimal.Decimal) string { return analyzer.Money(d, f.currency) }

type builder func(f facts) string

var builders = map[Intent]builder{
	IntentSummary:    summary,
	IntentSavings:    savings,
	IntentBudget:     budget,
	IntentAnalysis:   analysis,
	IntentInvestment: investment,
	IntentCategories: categories,
	IntentIncome:     income,
	IntentDebt:       debt,
	IntentUnknown:    unknown,
}

// Respond answers message from the given records.
func Respond(message string, expenses, incomes []models.Record, currency string) string {
	f := facts{
		expenses: expenses,
		incomes:  incomes,
		currency: currency,
		income:   analyzer.Total(incomes),
		expense:  analyzer.Total(expenses),
		balance:  analyzer.Balance(expenses, incomes),
	}

	b, ok := builders[Classify(message)]
	if !ok {
		b = unknown
	}
	return b(f)
}

var (
	fifth   = decimal.RequireFromString("0.2")
	riskyAt = decimal.RequireFromString("0.9")
	hundred = decimal.NewFromInt(100)
)

func summary(f facts) string {
	var b strings.Builder
	b.WriteString("Here is your financial summary:\n\n")
	fmt.Fprintf(&b, "Total income:  %s\n", f.money(f.income))
	fmt.Fprintf(&b, "Total expense: %s\n", f.money(f.expense))
	fmt.Fprintf(&b, "Balance:       %s\n\n", f.money(f.balance))

	switch {
	case f.balance.IsPositive():
		b.WriteString("Well done, your balance is positive. ")
		if f.balance.LessThan(f.income.Mul(fifth)) {
			b.WriteString("It is under 20% of your income though, so a little more saving would help.")
		} else {
			b.WriteString("It is in good shape; consider putting some of it to work.")
		}
	case f.balance.IsNegative():
		b.WriteString("Careful! Your balance is negative. Cut spending or find extra income.")
	default:
		b.WriteString("Income and expense are equal. Trimming spending is the way to start saving.")
	}
	return b.String()
}

var categoryTips = map[string]string{
	"food":          "Cook at home more, shop in bulk and prefer discounted products.",
	"groceries":     "Make a shopping list, follow discount days and loosen brand loyalty.",
	"transport":     "Try public transport, cycling or car sharing.",
	"entertainment": "Look for free events and review your subscriptions.",
	"bills":         "Save energy, unplug idle devices and compare tariffs.",
	"rent":          "Rent is a big slice of your budget. A cheaper place or a flatmate would make a difference.",
	"clothing":      "Wait for end-of-season sales, buy second hand or build a capsule wardrobe.",
	"health":        "Preventive care and regular check-ups keep health costs down.",
	"education":     "Free online courses, libraries and scholarships can replace paid material.",
}

func savings(f facts) string {
	var b strings.Builder
	b.WriteString("Savings ideas for you:\n\n")

	if top, ok := analyzer.LargestCategory(f.expenses); ok {
		fmt.Fprintf(&b, "Your largest spending category is %s (%s).\n", top.Category, f.money(top.Amount))
		if tip, ok := categoryTips[strings.ToLower(top.Category)]; ok {
			b.WriteString(tip + "\n")
		} else {
			fmt.Fprintf(&b, "Review your %s spending and drop what you do not need.\n", top.Category)
		}
	}

	b.WriteString("\nGeneral tips:\n")
	b.WriteString("1. Follow the 50/30/20 rule: needs, wants, savings.\n")
	b.WriteString("2. Move a fixed amount to savings on payday.\n")
	b.WriteString("3. Cancel subscriptions you do not use.\n")
	b.WriteString("4. Wait 24 hours before any big purchase.\n")
	b.WriteString("5. Review bills regularly and look for cheaper plans.")
	return b.String()
}

func budget(f facts) string {
	var b strings.Builder
	b.WriteString("Budget planning:\n\n")

	ratio, _ := analyzer.Ratio(f.expenses, f.incomes)
	fmt.Fprintf(&b, "Your spending is %s%% of your income.\n\n", ratio.Mul(hundred).StringFixed(1))

	b.WriteString("A healthy split:\n")
	b.WriteString("- Essentials (rent, bills, food): 50-60% of income\n")
	b.WriteString("- Personal (fun, shopping): 20-30% of income\n")
	b.WriteString("- Savings and investment: 20% of income\n")

	if plan := analyzer.BudgetPlan(f.expenses, f.income); len(plan) > 0 {
		b.WriteString("\nMonthly budget per category, from your spending:\n")
		for _, line := range plan {
			fmt.Fprintf(&b, "- %s: %s\n", line.Category, f.money(line.Amount))
		}
	}

	b.WriteString("\nRecord everything, set a monthly limit per category and keep an emergency fund of 3-6 months of expenses.")
	return b.String()
}

func analysis(f facts) string {
	if len(f.expenses) == 0 {
		return "You have no expenses yet. Add some and I can analyse them."
	}

	var b strings.Builder
	b.WriteString("Your spending analysis:\n\n")
	for _, s := range analyzer.CategoryShares(f.expenses) {
		fmt.Fprintf(&b, "- %s: %s (%s%%)\n", s.Category, f.money(s.Amount), s.Percent.StringFixed(1))
	}

	top, _ := analyzer.LargestCategory(f.expenses)
	low, _ := analyzer.SmallestCategory(f.expenses)
	fmt.Fprintf(&b, "\nLargest category: %s (%s)\n", top.Category, f.money(top.Amount))
	fmt.Fprintf(&b, "Smallest category: %s (%s)\n", low.Category, f.money(low.Amount))
	fmt.Fprintf(&b, "Average daily spending: %s\n", f.money(analyzer.DailyAverage(f.expenses)))

	ratio, ok := analyzer.Ratio(f.expenses, f.incomes)
	fmt.Fprintf(&b, "Expense/income ratio: %s%%\n", ratio.Mul(hundred).StringFixed(2))
	if ok && ratio.GreaterThan(riskyAt) {
		b.WriteString("\nWarning: spending is above 90% of your income, which puts your finances at risk.")
	}
	return strings.TrimRight(b.String(), "\n")
}

func investment(f facts) string {
	var b strings.Builder
	b.WriteString("Investing and saving:\n\n")
	if f.balance.IsPositive() {
		fmt.Fprintf(&b, "You have a positive balance of %s. Some ways to use it:\n\n", f.money(f.balance))
	} else {
		b.WriteString("Your balance is zero or negative. Build an emergency fund before investing:\n\n")
	}
	b.WriteString("1. Emergency fund covering 3-6 months of expenses.\n")
	b.WriteString("2. Low-risk instruments: term deposits, government bonds, gold.\n")
	b.WriteString("3. A private pension plan for the long run.\n")
	b.WriteString("4. Stocks and funds for higher but riskier returns.\n")
	b.WriteString("5. Real estate as a long-term holding.\n\n")
	b.WriteString("Talk to a financial adviser before making investment decisions.")
	return b.String()
}

func categories(f facts) string {
	var b strings.Builder
	b.WriteString("Useful spending categories:\n")
	b.WriteString("Housing, Food, Transport, Bills, Health, Education, Entertainment, Clothing, Personal care, Savings\n\n")

	totals := analyzer.CategoryShares(f.expenses)
	if len(totals) == 0 {
		b.WriteString("You have no expenses yet.")
		return b.String()
	}
	b.WriteString("Categories you use:\n")
	for _, s := range totals {
		fmt.Fprintf(&b, "- %s\n", s.Category)
	}
	return strings.TrimRight(b.String(), "\n")
}

func income(facts) string {
	return "Ways to earn extra income:\n\n" +
		"1. Freelance work in software, design, translation or writing.\n" +
		"2. A part-time job on evenings or weekends.\n" +
		"3. Private tutoring in what you know well.\n" +
		"4. Selling things you no longer use.\n" +
		"5. Renting out a spare room.\n" +
		"6. Online courses in your field.\n" +
		"7. Investment income from your savings."
}

func debt(facts) string {
	return "Managing debt:\n\n" +
		"1. List every debt with amount, interest rate and due date.\n" +
		"2. Snowball: pay the smallest debt first to stay motivated.\n" +
		"3. Avalanche: pay the highest interest first to pay the least overall.\n" +
		"4. Keep at least one month of expenses as a buffer.\n" +
		"5. Consolidate high-interest debt into one cheaper loan.\n" +
		"6. Automate payments to avoid late fees."
}

func unknown(facts) string {
	return "I did not quite get that. Ask me about your summary, savings, budget, spending analysis, investing, categories, income or debt."
}
