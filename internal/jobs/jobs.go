// Package jobs holds the background work of the ledger client: the daily and
// monthly spending summaries, the daily-limit check and the shopping-zone
// alert. Each job reads through the ledger, builds a notification with a pure
// summary function and hands it to a notifier. Failures are returned to the
// caller (the scheduler logs them); nothing is retried.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/budgetbuddy/ledger/internal/client/models"
	"github.com/budgetbuddy/ledger/internal/geo"
	"github.com/budgetbuddy/ledger/internal/logging"
	"github.com/budgetbuddy/ledger/internal/notify"
	"github.com/shopspring/decimal"
)

// Ledger is the read side of services.Ledger the jobs use.
type Ledger interface {
	CurrentOwner() (string, bool)
	Snapshot(ctx context.Context, kind models.Kind, ownerID string) ([]models.Record, error)
	TotalFor(ctx context.Context, kind models.Kind, date, ownerID string) (decimal.Decimal, error)
}

// Settings is the part of preferences.Settings the jobs read.
type Settings interface {
	Currency(ctx context.Context) (string, error)
	DailyLimit(ctx context.Context) (decimal.Decimal, error)
	NotificationsEnabled(ctx context.Context) (bool, error)
}

type Runner struct {
	ledger   Ledger
	settings Settings
	notifier notify.Notifier
	log      logging.Logger

	now func() time.Time
}

func NewRunner(ledger Ledger, settings Settings, notifier notify.Notifier, log logging.Logger) *Runner {
	if log == nil {
		log = logging.Nop{}
	}
	return &Runner{ledger: ledger, settings: settings, notifier: notifier, log: log, now: time.Now}
}

// prepare returns the owner and currency, or ok=false when the job has
// nothing to do: notifications are off or nobody is logged in.
func (r *Runner) prepare(ctx context.Context, job string) (owner, currency string, ok bool, err error) {
	on, err := r.settings.NotificationsEnabled(ctx)
	if err != nil {
		return "", "", false, fmt.Errorf("%s: failed to read preferences: %w", job, err)
	}
	if !on {
		r.log.Debug(ctx, "notifications disabled, skipping", "job", job)
		return "", "", false, nil
	}

	owner, ok = r.ledger.CurrentOwner()
	if !ok {
		r.log.Debug(ctx, "no owner, skipping", "job", job)
		return "", "", false, nil
	}

	currency, err = r.settings.Currency(ctx)
	if err != nil {
		return "", "", false, fmt.Errorf("%s: failed to read currency: %w", job, err)
	}
	return owner, currency, true, nil
}

func (r *Runner) deliver(ctx context.Context, job string, n notify.Notification) error {
	if err := r.notifier.Notify(ctx, n); err != nil {
		return fmt.Errorf("%s: failed to notify: %w", job, err)
	}
	r.log.Info(ctx, "notification sent", "job", job, "kind", string(n.Kind))
	return nil
}

// DailySummaryJob notifies today's expense total.
func (r *Runner) DailySummaryJob(ctx context.Context) error {
	const job = "daily-summary"

	owner, currency, ok, err := r.prepare(ctx, job)
	if err != nil || !ok {
		return err
	}

	now := r.now()
	total, err := r.ledger.TotalFor(ctx, models.KindExpense, models.FormatDate(now), owner)
	if err != nil {
		return fmt.Errorf("%s: %w", job, err)
	}

	return r.deliver(ctx, job, dailyNotification(total, now, currency))
}

// MonthlySummaryJob notifies the previous calendar month's expense total.
func (r *Runner) MonthlySummaryJob(ctx context.Context) error {
	const job = "monthly-summary"

	owner, currency, ok, err := r.prepare(ctx, job)
	if err != nil || !ok {
		return err
	}

	expenses, err := r.ledger.Snapshot(ctx, models.KindExpense, owner)
	if err != nil {
		return fmt.Errorf("%s: %w", job, err)
	}

	return r.deliver(ctx, job, MonthlySummary(expenses, r.now(), currency))
}

// LimitCheck notifies when today's expenses exceed the daily limit. It is run
// after every expense insert.
func (r *Runner) LimitCheck(ctx context.Context) error {
	const job = "limit-check"

	owner, currency, ok, err := r.prepare(ctx, job)
	if err != nil || !ok {
		return err
	}

	limit, err := r.settings.DailyLimit(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", job, err)
	}
	if !limit.IsPositive() {
		return nil
	}

	now := r.now()
	total, err := r.ledger.TotalFor(ctx, models.KindExpense, models.FormatDate(now), owner)
	if err != nil {
		return fmt.Errorf("%s: %w", job, err)
	}

	n, exceeded := LimitNotification(total, limit, currency, now)
	if !exceeded {
		return nil
	}
	return r.deliver(ctx, job, n)
}

// ZoneAlert fires once, the first time a reported position falls inside the
// shopping zone.
type ZoneAlert struct {
	center   geo.Point
	radius   float64
	notifier notify.Notifier
	settings Settings

	mu    sync.Mutex
	fired bool
	now   func() time.Time
}

// DefaultZoneRadius is the alert radius in metres.
const DefaultZoneRadius = 200.0

func NewZoneAlert(center geo.Point, radius float64, settings Settings, notifier notify.Notifier) *ZoneAlert {
	if radius <= 0 {
		radius = DefaultZoneRadius
	}
	return &ZoneAlert{center: center, radius: radius, settings: settings, notifier: notifier, now: time.Now}
}

// Report feeds a position. fired is true when this call raised the alert.
func (z *ZoneAlert) Report(ctx context.Context, p geo.Point) (fired bool, err error) {
	if !p.Valid() {
		return false, fmt.Errorf("invalid position %v", p)
	}

	z.mu.Lock()
	defer z.mu.Unlock()

	if z.fired || !geo.Within(p, z.center, z.radius) {
		return false, nil
	}

	on, err := z.settings.NotificationsEnabled(ctx)
	if err != nil {
		return false, fmt.Errorf("zone-alert: failed to read preferences: %w", err)
	}
	if !on {
		return false, nil
	}

	if err := z.notifier.Notify(ctx, zoneNotification(z.now())); err != nil {
		return false, fmt.Errorf("zone-alert: failed to notify: %w", err)
	}
	z.fired = true
	return true, nil
}
