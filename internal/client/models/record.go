// Package models holds the ledger's record types and the input parsing used
// before a record is built.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the only persisted date form: day.month.year, no time of day.
const DateLayout = "02.01.2006"

var (
	ErrEmptyAmount     = errors.New("amount is empty")
	ErrInvalidAmount   = errors.New("amount is not a number")
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrEmptyCategory   = errors.New("category is empty")
	ErrInvalidDate     = errors.New("date must be dd.MM.yyyy")
	ErrUnknownKind     = errors.New("unknown record kind")
	ErrRecordNotStored = errors.New("record has no id")
)

// Record is one logged income or expense. The kind is not part of the value;
// it is carried alongside by every store and mirror call.
type Record struct {
	// ID is assigned by the local store; zero means not yet inserted.
	ID int64
	// OwnerID is empty for records written while nobody was signed in.
	OwnerID     string
	Amount      decimal.Decimal
	Category    string
	Description string
	// Date is kept as entered, dd.MM.yyyy.
	Date string
}

// Time parses the record date. ok is false for malformed dates; such records
// are skipped by date-based aggregation.
func (r Record) Time() (t time.Time, ok bool) {
	t, err := ParseDate(r.Date)
	return t, err == nil
}

// NewRecord validates raw user input and builds an unsaved record.
func NewRecord(amount, category, description, date string) (Record, error) {
	a, err := ParseAmount(amount)
	if err != nil {
		return Record{}, err
	}

	category = strings.TrimSpace(category)
	if category == "" {
		return Record{}, ErrEmptyCategory
	}

	d, err := NormalizeDate(date)
	if err != nil {
		return Record{}, err
	}

	return Record{
		Amount:      a,
		Category:    category,
		Description: strings.TrimSpace(description),
		Date:        d,
	}, nil
}

// ParseAmount accepts "12.50" or "12,50".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return d, nil
}

// ParseDate accepts dd.MM.yyyy and the unpadded d.M.yyyy.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, "2.1.2006"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// NormalizeDate returns s re-rendered as dd.MM.yyyy.
func NormalizeDate(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return FormatDate(t), nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateKey turns a dd.MM.yyyy date into a sortable yyyymmdd integer.
// Malformed dates map to 0 and therefore sort last in descending order.
func DateKey(s string) int {
	t, err := ParseDate(s)
	if err != nil {
		return 0
	}
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
