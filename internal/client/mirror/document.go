package mirror

import (
	"encoding/json"
	"strconv"

	"github.com/budgetbuddy/ledger/internal/client/models"
	"github.com/shopspring/decimal"
)

// Document field names. A remote document lacking any of them is dropped.
const (
	fieldID          = "id"
	fieldAmount      = "amount"
	fieldCategory    = "category"
	fieldDescription = "description"
	fieldDate        = "date"
)

// EncodeDocument renders rec as a remote document. The amount travels as a
// decimal string; the owner is implied by the document path.
func EncodeDocument(rec models.Record) map[string]any {
	return map[string]any{
		fieldID:          rec.ID,
		fieldAmount:      rec.Amount.String(),
		fieldCategory:    rec.Category,
		fieldDescription: rec.Description,
		fieldDate:        rec.Date,
	}
}

// DecodeDocument is the inverse of EncodeDocument. Numbers may arrive as
// float64, json.Number or strings depending on the transport.
func DecodeDocument(doc map[string]any) (models.Record, bool) {
	for _, f := range []string{fieldID, fieldAmount, fieldCategory, fieldDescription, fieldDate} {
		if v, ok := doc[f]; !ok || v == nil {
			return models.Record{}, false
		}
	}

	id, ok := toInt64(doc[fieldID])
	if !ok {
		return models.Record{}, false
	}
	amount, ok := toDecimal(doc[fieldAmount])
	if !ok {
		return models.Record{}, false
	}
	category, ok1 := doc[fieldCategory].(string)
	description, ok2 := doc[fieldDescription].(string)
	date, ok3 := doc[fieldDate].(string)
	if !ok1 || !ok2 || !ok3 {
		return models.Record{}, false
	}

	return models.Record{
		ID:          id,
		Amount:      amount,
		Category:    category,
		Description: description,
		Date:        date,
	}, true
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		if x != float64(int64(x)) {
			return 0, false
		}
		return int64(x), true
	case json.Number:
		n, err := x.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

func toDecimal(v any) (decimal.Decimal, bool) {
	var (
		d   decimal.Decimal
		err error
	)
	switch x := v.(type) {
	case string:
		d, err = decimal.NewFromString(x)
	case json.Number:
		d, err = decimal.NewFromString(x.String())
	case float64:
		d = decimal.NewFromFloat(x)
	case int64:
		d = decimal.NewFromInt(x)
	case int:
		d = decimal.NewFromInt(int64(x))
	default:
		return decimal.Zero, false
	}
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
