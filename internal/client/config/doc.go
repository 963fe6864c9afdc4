// Package config loads runtime configuration for the BudgetBuddy ledger CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. LEDGER_* environment variables (see parseEnv); cmd/client loads a .env
//     file first if there is one.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
//	{
//	  "db_path": "budgetbuddy.db",
//	  "mirror": "grpc",
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "5s",
//	  "s3": {"bucket": "ledger", "endpoint": "http://localhost:9000"},
//	  "offline_owner": "",
//	  "daily_summary_spec": "0 21 * * *",
//	  "zone": {"lat": 40.9771, "lon": 28.8720, "radius": 200},
//	  "log_level": "warn"
//	}
package config
