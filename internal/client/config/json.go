package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/budgetbuddy/ledger/internal/flagx"
	"github.com/budgetbuddy/ledger/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds.
type JsonConfig struct {
	DBPath              string         `json:"db_path"`
	MirrorBackend       string         `json:"mirror"`
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`

	S3 struct {
		Bucket    string `json:"bucket"`
		Region    string `json:"region"`
		Endpoint  string `json:"endpoint"`
		AccessKey string `json:"access_key"`
		SecretKey string `json:"secret_key"`
	} `json:"s3"`

	OfflineOwner string `json:"offline_owner"`

	DailySummarySpec   string `json:"daily_summary_spec"`
	MonthlySummarySpec string `json:"monthly_summary_spec"`
	Timezone           string `json:"timezone"`

	Zone struct {
		Lat    *float64 `json:"lat"`
		Lon    *float64 `json:"lon"`
		Radius float64  `json:"radius"`
	} `json:"zone"`

	LogLevel string `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by -c
// or -config. Keys absent from the file keep their current value.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.MirrorBackend, jc.MirrorBackend)
	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)

	setString(&cfg.S3Bucket, jc.S3.Bucket)
	setString(&cfg.S3Region, jc.S3.Region)
	setString(&cfg.S3Endpoint, jc.S3.Endpoint)
	setString(&cfg.S3AccessKey, jc.S3.AccessKey)
	setString(&cfg.S3SecretKey, jc.S3.SecretKey)

	setString(&cfg.OfflineOwner, jc.OfflineOwner)
	setString(&cfg.DailySummarySpec, jc.DailySummarySpec)
	setString(&cfg.MonthlySummarySpec, jc.MonthlySummarySpec)
	setString(&cfg.Timezone, jc.Timezone)

	if jc.Zone.Lat != nil {
		cfg.ZoneLat = *jc.Zone.Lat
	}
	if jc.Zone.Lon != nil {
		cfg.ZoneLon = *jc.Zone.Lon
	}
	if jc.Zone.Radius > 0 {
		cfg.ZoneRadius = jc.Zone.Radius
	}

	setString(&cfg.LogLevel, jc.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
