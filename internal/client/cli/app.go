package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/budgetbuddy/ledger/internal/client/config"
	"github.com/budgetbuddy/ledger/internal/client/mirror"
	"github.com/budgetbuddy/ledger/internal/client/repositories"
	"github.com/budgetbuddy/ledger/internal/client/repositories/preferences"
	"github.com/budgetbuddy/ledger/internal/client/repositories/records"
	"github.com/budgetbuddy/ledger/internal/client/services"
	"github.com/budgetbuddy/ledger/internal/geo"
	"github.com/budgetbuddy/ledger/internal/jobs"
	"github.com/budgetbuddy/ledger/internal/logging"
	"github.com/budgetbuddy/ledger/internal/notify"
	"github.com/budgetbuddy/ledger/internal/scheduler"
	"github.com/shopspring/decimal"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
	// ModeLocal is the mode of a ledger without accounts (s3 or no mirror).
	ModeLocal Mode = "local"
)

// DefaultOfflineOwner scopes records of a ledger that has no accounts and no
// configured offline owner.
const DefaultOfflineOwner = "local"

// sessionInfo is the read side of services.Session the prompt needs.
type sessionInfo interface {
	LoggedIn() bool
	Username() string
}

// settingsStore is preferences.Settings as the commands use it.
type settingsStore interface {
	jobs.Settings
	SetCurrency(ctx context.Context, symbol string) error
	SetDailyLimit(ctx context.Context, limit decimal.Decimal) error
	SetNotificationsEnabled(ctx context.Context, on bool) error
}

type limitChecker interface {
	LimitCheck(ctx context.Context) error
}

type zoneReporter interface {
	Report(ctx context.Context, p geo.Point) (bool, error)
}

type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	ledger   services.LedgerService
	auth     services.AuthService
	session  sessionInfo
	settings settingsStore
	limits   limitChecker
	zone     zoneReporter
	sched    *scheduler.Scheduler

	modeMu sync.RWMutex
	Mode   Mode

	reader *bufio.Reader
	out    io.Writer
	outMu  sync.Mutex

	watchMu     sync.Mutex
	watchCancel context.CancelFunc
}

// newMirror builds the remote copy the config asks for. auth is nil for
// backends without accounts.
func newMirror(ctx context.Context, c *config.Config) (m mirror.Mirror, auth services.Authenticator, err error) {
	switch c.MirrorBackend {
	case config.MirrorGRPC:
		g, err := mirror.NewGRPCMirror(c.ServerEndpointAddr, c.RequestTimeout)
		if err != nil {
			return nil, nil, err
		}
		return g, g, nil
	case config.MirrorS3:
		s, err := mirror.NewS3Mirror(ctx, mirror.S3Config{
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	case config.MirrorNone:
		return mirror.Disabled{}, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown mirror backend %q", c.MirrorBackend)
	}
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := repositories.Open(ctx, c.DBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	m, authn, err := newMirror(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	offlineOwner := c.OfflineOwner
	if authn == nil && offlineOwner == "" {
		offlineOwner = DefaultOfflineOwner
	}

	session := services.NewSession(db, offlineOwner)
	auth := services.NewAuthService(authn, session)
	if err := auth.Restore(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	ledger := services.NewLedger(records.NewSQLiteRepository(db), db, m, session, log.With("component", "ledger"))
	settings := preferences.NewSettings(preferences.NewSQLiteRepository(db))

	notifier := notify.Multi{
		notify.NewWriterNotifier(os.Stdout),
		notify.NewLogNotifier(log.With("component", "notify")),
	}
	runner := jobs.NewRunner(ledger, settings, notifier, log.With("component", "jobs"))
	zone := jobs.NewZoneAlert(geo.Point{Lat: c.ZoneLat, Lon: c.ZoneLon}, c.ZoneRadius, settings, notifier)

	sched := scheduler.New(c.Location(), log.With("component", "scheduler"))
	if err := sched.Add("daily-summary", c.DailySummarySpec, runner.DailySummaryJob); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := sched.Add("monthly-summary", c.MonthlySummarySpec, runner.MonthlySummaryJob); err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &App{
		config:   c,
		log:      log,
		db:       db,
		ledger:   ledger,
		auth:     auth,
		session:  session,
		settings: settings,
		limits:   runner,
		zone:     zone,
		sched:    sched,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}
	if authn == nil {
		a.Mode = ModeLocal
	}
	return a, nil
}

func (a *App) mode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.Mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.modeMu.Unlock()

	if changed {
		a.printf("Switched to %s mode\n", mode)
	}
}

// Run blocks in the REPL and releases every resource afterwards.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)
	a.Root(ctx)
}

func (a *App) close(ctx context.Context) {
	a.stopWatch()
	if a.sched != nil {
		a.sched.Stop()
	}
	if err := a.auth.Close(ctx); err != nil {
		a.log.Warn(ctx, "failed to close mirror", "error", err)
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.session != nil && a.session.LoggedIn()
}

// termWriter serializes writes to the app's output. The watch goroutine
// shares it with the prompt loop.
type termWriter struct{ a *App }

func (w termWriter) Write(p []byte) (int, error) {
	w.a.outMu.Lock()
	defer w.a.outMu.Unlock()
	return w.a.out.Write(p)
}

func (a *App) term() io.Writer {
	return termWriter{a}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.term(), format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.term(), args...)
}

// report prints the outcome of a command that may have half-succeeded. A
// record that was stored locally but not mirrored is still a success; the
// mirror failure is mentioned unless the mirror is switched off on purpose.
func (a *App) report(err error) error {
	if err == nil {
		return nil
	}
	if services.IsMirrorError(err) {
		if !errors.Is(err, mirror.ErrDisabled) {
			a.println("Saved locally; remote copy not updated:", err)
		}
		return nil
	}
	return err
}

// StartOnlineStatusWatcher pings the mirror server every interval and flips
// the mode between online and offline. It returns when ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.auth.Ping(pctx)
			cancel()

			if err != nil {
				if a.mode() == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else if a.mode() != ModeOnline {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
