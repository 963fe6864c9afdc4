// Package assistant is the rule-based finance chat. A message is classified
// into an intent by keyword rules, then answered by the builder registered
// for that intent from the analyzer's numbers.
package assistant

import "strings"

type Intent int

const (
	IntentUnknown Intent = iota
	IntentSummary
	IntentSavings
	IntentBudget
	IntentAnalysis
	IntentInvestment
	IntentCategories
	IntentIncome
	IntentDebt
)

var intentNames = map[Intent]string{
	IntentUnknown:    "unknown",
	IntentSummary:    "summary",
	IntentSavings:    "savings",
	IntentBudget:     "budget",
	IntentAnalysis:   "analysis",
	IntentInvestment: "investment",
	IntentCategories: "categories",
	IntentIncome:     "income",
	IntentDebt:       "debt",
}

func (i Intent) String() string {
	if n, ok := intentNames[i]; ok {
		return n
	}
	return "unknown"
}

type rule struct {
	intent   Intent
	keywords []string
	// all lists keyword pairs that only match together
	all [][2]string
}

func (r rule) match(msg string) bool {
	for _, k := range r.keywords {
		if strings.Contains(msg, k) {
			return true
		}
	}
	for _, pair := range r.all {
		if strings.Contains(msg, pair[0]) && strings.Contains(msg, pair[1]) {
			return true
		}
	}
	return false
}

// rules are tried in order; the first match wins. Turkish keywords are kept
// next to the English ones.
var rules = []rule{
	{intent: IntentSummary, keywords: []string{"summary", "status", "overview", "durum", "özet"},
		all: [][2]string{{"how", "doing"}, {"nasıl", "gidiyor"}}},
	{intent: IntentSavings, keywords: []string{"saving", "save", "tasarruf", "biriktirebilir"}},
	{intent: IntentBudget, keywords: []string{"budget", "plan", "bütçe"}},
	{intent: IntentAnalysis, keywords: []string{"analy", "spending", "analiz", "harcama"},
		all: [][2]string{{"where", "money"}}},
	{intent: IntentInvestment, keywords: []string{"invest", "yatırım", "biriktir"}},
	{intent: IntentCategories, keywords: []string{"categor", "classif", "kategori", "sınıflandır"}},
	{intent: IntentIncome, keywords: []string{"income", "earn", "gelir", "kazanç"}},
	{intent: IntentDebt, keywords: []string{"debt", "loan", "credit", "borç", "kredi"}},
}

// Classify maps a free-text message to an intent.
func Classify(message string) Intent {
	msg := strings.ToLower(message)
	for _, r := range rules {
		if r.match(msg) {
			return r.intent
		}
	}
	return IntentUnknown
}
