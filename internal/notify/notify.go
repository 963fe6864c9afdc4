// Package notify delivers user-facing notifications raised by background jobs.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/budgetbuddy/ledger/internal/logging"
)

type Kind string

const (
	KindDailySummary   Kind = "daily_summary"
	KindMonthlySummary Kind = "monthly_summary"
	KindLimitExceeded  Kind = "limit_exceeded"
	KindZoneAlert      Kind = "zone_alert"
)

type Notification struct {
	Kind  Kind
	Title string
	Body  string
	At    time.Time
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notification) error {
	l.log.Info(ctx, n.Title, "kind", string(n.Kind), "body", n.Body)
	return nil
}

// WriterNotifier prints notifications as lines, e.g. to the REPL's stdout.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (w *WriterNotifier) Notify(_ context.Context, n Notification) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, err := fmt.Fprintf(w.w, "\n[%s] %s: %s\n", n.At.Format("15:04"), n.Title, n.Body)
	return err
}

// Multi fans a notification out to every notifier and returns the first error.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var first error
	for _, x := range m {
		if err := x.Notify(ctx, n); err != nil && first == nil {
			first = err
		}
	}
	return first
}
