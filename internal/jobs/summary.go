package jobs

import (
	"fmt"
	"time"

	"github.com/budgetbuddy/ledger/internal/analyzer"
	"github.com/budgetbuddy/ledger/internal/client/models"
	"github.com/budgetbuddy/ledger/internal/notify"
	"github.com/shopspring/decimal"
)

// DailySummary reports what was spent on day.
func DailySummary(expenses []models.Record, day time.Time, currency string) notify.Notification {
	return dailyNotification(analyzer.DayTotal(expenses, models.FormatDate(day)), day, currency)
}

func dailyNotification(total decimal.Decimal, day time.Time, currency string) notify.Notification {
	return notify.Notification{
		Kind:  notify.KindDailySummary,
		Title: "Daily spending summary",
		Body:  "Today you spent " + analyzer.Money(total, currency),
		At:    day,
	}
}

// MonthlySummary reports the total of the calendar month before now.
func MonthlySummary(expenses []models.Record, now time.Time, currency string) notify.Notification {
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	total := analyzer.MonthTotal(expenses, prev.Year(), prev.Month())
	return notify.Notification{
		Kind:  notify.KindMonthlySummary,
		Title: "Monthly spending summary",
		Body:  fmt.Sprintf("In %s %d you spent %s", prev.Month(), prev.Year(), analyzer.Money(total, currency)),
		At:    now,
	}
}

// LimitNotification returns ok=false when there is no limit or total is
// within it.
func LimitNotification(total, limit decimal.Decimal, currency string, at time.Time) (notify.Notification, bool) {
	if !limit.IsPositive() || !total.GreaterThan(limit) {
		return notify.Notification{}, false
	}
	return notify.Notification{
		Kind:  notify.KindLimitExceeded,
		Title: "Daily spending limit exceeded",
		Body:  fmt.Sprintf("Spent today: %s / limit: %s", analyzer.Money(total, currency), analyzer.Money(limit, currency)),
		At:    at,
	}, true
}

func zoneNotification(at time.Time) notify.Notification {
	return notify.Notification{
		Kind:  notify.KindZoneAlert,
		Title: "Spend carefully!",
		Body:  "You are in a shopping area. Keep an eye on your spending.",
		At:    at,
	}
}
