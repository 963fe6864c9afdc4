package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/budgetbuddy/ledger/internal/analyzer"
	"github.com/budgetbuddy/ledger/internal/client/models"
	"github.com/budgetbuddy/ledger/internal/geo"
)

// Limit shows the daily limit, or sets it when an amount is given.
func (a *App) Limit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		limit, err := a.settings.DailyLimit(ctx)
		if err != nil {
			return err
		}
		if limit.IsZero() {
			a.println("No daily limit set")
			return nil
		}
		a.printf("Daily limit: %s\n", analyzer.Money(limit, a.currency(ctx)))
		return nil
	}

	limit, err := models.ParseAmount(args[0])
	if err != nil {
		return err
	}
	if err := a.settings.SetDailyLimit(ctx, limit); err != nil {
		return err
	}
	if limit.IsZero() {
		a.println("Daily limit disabled")
		return nil
	}
	a.printf("Daily limit set to %s\n", analyzer.Money(limit, a.currency(ctx)))
	return nil
}

func (a *App) Currency(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Currency:", a.currency(ctx))
		return nil
	}
	if err := a.settings.SetCurrency(ctx, args[0]); err != nil {
		return err
	}
	a.println("Currency set to", args[0])
	return nil
}

func (a *App) Notifications(ctx context.Context, args []string) error {
	if len(args) == 0 {
		on, err := a.settings.NotificationsEnabled(ctx)
		if err != nil {
			return err
		}
		a.println("Notifications:", onOff(on))
		return nil
	}

	var on bool
	switch args[0] {
	case "on":
		on = true
	case "off":
	default:
		return errors.New("usage: notifications <on|off>")
	}
	if err := a.settings.SetNotificationsEnabled(ctx, on); err != nil {
		return err
	}
	a.println("Notifications", onOff(on))
	return nil
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// Here reports the current position to the shopping zone alert.
func (a *App) Here(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: here <lat> <lon>")
	}
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid latitude %q", args[0])
	}
	lon, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid longitude %q", args[1])
	}

	fired, err := a.zone.Report(ctx, geo.Point{Lat: lat, Lon: lon})
	if err != nil {
		return err
	}
	if !fired {
		a.println("Position noted")
	}
	return nil
}
