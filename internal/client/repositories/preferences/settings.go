package preferences

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	KeyCurrency             = "currency"
	KeyDailyLimit           = "daily_limit"
	KeyNotificationsEnabled = "notifications_enabled"
	KeySessionOwner         = "session_owner_id"
	KeySessionUser          = "session_username"
	KeySessionToken         = "session_access_token"
)

const DefaultCurrency = "₺"

// Settings gives typed access to the preference keys with their defaults.
type Settings struct {
	repo Repository
}

func NewSettings(repo Repository) *Settings {
	return &Settings{repo: repo}
}

func (s *Settings) Currency(ctx context.Context) (string, error) {
	v, ok, err := s.repo.Get(ctx, KeyCurrency)
	if err != nil {
		return DefaultCurrency, err
	}
	if !ok || v == "" {
		return DefaultCurrency, nil
	}
	return v, nil
}

func (s *Settings) SetCurrency(ctx context.Context, symbol string) error {
	return s.repo.Set(ctx, KeyCurrency, symbol)
}

// DailyLimit is zero when no limit is configured.
func (s *Settings) DailyLimit(ctx context.Context) (decimal.Decimal, error) {
	v, ok, err := s.repo.Get(ctx, KeyDailyLimit)
	if err != nil || !ok {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt daily limit %q: %w", v, err)
	}
	return d, nil
}

func (s *Settings) SetDailyLimit(ctx context.Context, limit decimal.Decimal) error {
	return s.repo.Set(ctx, KeyDailyLimit, limit.String())
}

// NotificationsEnabled defaults to true.
func (s *Settings) NotificationsEnabled(ctx context.Context) (bool, error) {
	return s.flag(ctx, KeyNotificationsEnabled, true)
}

func (s *Settings) SetNotificationsEnabled(ctx context.Context, on bool) error {
	return s.repo.Set(ctx, KeyNotificationsEnabled, strconv.FormatBool(on))
}

func (s *Settings) flag(ctx context.Context, key string, def bool) (bool, error) {
	v, ok, err := s.repo.Get(ctx, key)
	if err != nil || !ok {
		return def, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, nil
	}
	return b, nil
}
