package config

import (
	"time"
)

const (
	MirrorGRPC = "grpc"
	MirrorS3   = "s3"
	MirrorNone = "none"
)

// Config holds runtime settings for the BudgetBuddy ledger CLI.
//
// Units: the intervals and timeouts are time.Duration; ZoneRadius is metres.
type Config struct {
	DBPath string `envconfig:"DB_PATH"`

	// MirrorBackend selects the remote copy: grpc, s3 or none.
	MirrorBackend       string        `envconfig:"MIRROR"`
	ServerEndpointAddr  string        `envconfig:"SERVER_ADDR"`
	RequestTimeout      time.Duration `envconfig:"REQUEST_TIMEOUT"`
	OnlineCheckInterval time.Duration `envconfig:"ONLINE_CHECK_INTERVAL"`

	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Region    string `envconfig:"S3_REGION"`
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`

	// OfflineOwner scopes records when nobody is logged in.
	OfflineOwner string `envconfig:"OFFLINE_OWNER"`

	DailySummarySpec   string `envconfig:"DAILY_SUMMARY_SPEC"`
	MonthlySummarySpec string `envconfig:"MONTHLY_SUMMARY_SPEC"`
	Timezone           string `envconfig:"TIMEZONE"`

	ZoneLat    float64 `envconfig:"ZONE_LAT"`
	ZoneLon    float64 `envconfig:"ZONE_LON"`
	ZoneRadius float64 `envconfig:"ZONE_RADIUS"`

	LogLevel string `envconfig:"LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DBPath = "budgetbuddy.db"
	c.MirrorBackend = MirrorGRPC
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 5 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.S3Region = "us-east-1"
	c.DailySummarySpec = "0 21 * * *"
	c.MonthlySummarySpec = "0 9 1 * *"
	c.Timezone = "Local"
	// Capacity shopping mall, Istanbul
	c.ZoneLat = 40.9771
	c.ZoneLon = 28.8720
	c.ZoneRadius = 200
	c.LogLevel = "warn"
}

// Location resolves Timezone, falling back to the local zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
