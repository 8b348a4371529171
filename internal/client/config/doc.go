// Package config loads runtime configuration for the board client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. BOARD_* environment variables (see EnvConfig), read with cleanenv.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Only values actually present in a source override earlier ones.
//
// # JSON schema
//
//	{
//	  "remote_dsn": "postgres://board:board@db:5432/board",
//	  "cache_dsn": "board_cache.db",
//	  "post_ttl": "720h",
//	  "sweep_interval": "60s",
//	  "poll_interval": "30s",
//	  "probe_interval": "10s",
//	  "remote_timeout": "5s",
//	  "access_salt": "<hex>",
//	  "access_verifier": "<hex>",
//	  "token_validity": "24h",
//	  "log_level": "info"
//	}
//
// The salt and verifier are produced by "board -hash-passphrase".
package config
