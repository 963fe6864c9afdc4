package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "dot", in: "150.00", want: "150"},
		{name: "comma", in: "12,5", want: "12.5"},
		{name: "spaces", in: "  7 ", want: "7"},
		{name: "zero", in: "0", want: "0"},
		{name: "empty", in: "   ", wantErr: ErrEmptyAmount},
		{name: "letters", in: "abc", wantErr: ErrInvalidAmount},
		{name: "negative", in: "-3", wantErr: ErrNegativeAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("05.03.2024")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, 3, int(d.Month()))
	assert.Equal(t, 5, d.Day())

	d, err = ParseDate("5.3.2024")
	require.NoError(t, err)
	assert.Equal(t, 5, d.Day())

	for _, bad := range []string{"", "2024-03-05", "32.01.2024", "yesterday"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestNormalizeDate(t *testing.T) {
	got, err := NormalizeDate("1.2.2025")
	require.NoError(t, err)
	assert.Equal(t, "01.02.2025", got)
}

func TestDateKey_OrdersAcrossMonthsAndYears(t *testing.T) {
	assert.Equal(t, 20240305, DateKey("05.03.2024"))
	assert.Greater(t, DateKey("01.01.2025"), DateKey("31.12.2024"))
	assert.Greater(t, DateKey("01.02.2024"), DateKey("28.01.2024"))
	assert.Equal(t, 0, DateKey("garbage"))
}

func TestNewRecord(t *testing.T) {
	r, err := NewRecord("150,00", " Food ", " lunch ", "7.6.2024")
	require.NoError(t, err)
	assert.Equal(t, int64(0), r.ID)
	assert.Equal(t, "Food", r.Category)
	assert.Equal(t, "lunch", r.Description)
	assert.Equal(t, "07.06.2024", r.Date)
	assert.True(t, r.Amount.Equal(decimal.NewFromInt(150)))

	_, err = NewRecord("10", "  ", "", "07.06.2024")
	assert.ErrorIs(t, err, ErrEmptyCategory)

	_, err = NewRecord("10", "Food", "", "June 7th")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = NewRecord("", "Food", "", "07.06.2024")
	assert.ErrorIs(t, err, ErrEmptyAmount)
}

func TestRecordTime(t *testing.T) {
	_, ok := Record{Date: "07.06.2024"}.Time()
	assert.True(t, ok)
	_, ok = Record{Date: "2024/06/07"}.Time()
	assert.False(t, ok)
}

func TestKind(t *testing.T) {
	assert.Equal(t, "expenses", KindExpense.Collection())
	assert.Equal(t, "incomes", KindIncome.Collection())
	assert.Equal(t, "", Kind("loan").Collection())
	assert.False(t, Kind("loan").Valid())

	k, err := ParseKind("Expenses")
	require.NoError(t, err)
	assert.Equal(t, KindExpense, k)

	k, err = ParseKind("income")
	require.NoError(t, err)
	assert.Equal(t, KindIncome, k)

	_, err = ParseKind("savings")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
