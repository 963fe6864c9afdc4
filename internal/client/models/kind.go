package models

import "strings"

// Kind selects which ledger a record belongs to.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// Kinds lists every kind in a stable order.
var Kinds = []Kind{KindExpense, KindIncome}

// Collection is the plural name used both as the local table and the remote
// collection.
func (k Kind) Collection() string {
	switch k {
	case KindExpense:
		return "expenses"
	case KindIncome:
		return "incomes"
	default:
		return ""
	}
}

func (k Kind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

func (k Kind) String() string { return string(k) }

// ParseKind accepts the singular or plural, any case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense", "expenses":
		return KindExpense, nil
	case "income", "incomes":
		return KindIncome, nil
	default:
		return "", ErrUnknownKind
	}
}
