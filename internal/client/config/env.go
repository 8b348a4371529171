package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvConfig lists the BOARD_* environment variables. Unset variables leave
// the current value alone.
type EnvConfig struct {
	RemoteDSN      string        `env:"BOARD_REMOTE_DSN" env-description:"PostgreSQL connection string"`
	CacheDSN       string        `env:"BOARD_CACHE_DSN" env-description:"path of the local SQLite cache"`
	PostTTL        time.Duration `env:"BOARD_POST_TTL" env-description:"lifetime of a post"`
	SweepInterval  time.Duration `env:"BOARD_SWEEP_INTERVAL" env-description:"local cache sweep period"`
	PollInterval   time.Duration `env:"BOARD_POLL_INTERVAL" env-description:"notification poll period"`
	ProbeInterval  time.Duration `env:"BOARD_PROBE_INTERVAL" env-description:"remote reachability probe period"`
	RemoteTimeout  time.Duration `env:"BOARD_REMOTE_TIMEOUT" env-description:"bound on every remote call"`
	AccessSalt     string        `env:"BOARD_ACCESS_SALT" env-description:"hex salt of the access passphrase"`
	AccessVerifier string        `env:"BOARD_ACCESS_VERIFIER" env-description:"hex verifier of the access passphrase"`
	TokenKey       string        `env:"BOARD_TOKEN_KEY" env-description:"access token signing key"`
	TokenValidity  time.Duration `env:"BOARD_TOKEN_VALIDITY" env-description:"access token lifetime"`
	LogLevel       string        `env:"BOARD_LOG_LEVEL" env-description:"debug, info, warn or error"`
}

// parseEnv overlays cfg with BOARD_* variables. Panics on malformed values
// and prints the variable reference with the error.
func parseEnv(cfg *Config) {
	var ec EnvConfig
	if err := cleanenv.ReadEnv(&ec); err != nil {
		help, _ := cleanenv.GetDescription(&ec, nil)
		panic(err.Error() + "\n" + help)
	}

	setString(&cfg.RemoteDSN, ec.RemoteDSN)
	setString(&cfg.CacheDSN, ec.CacheDSN)
	setDuration(&cfg.PostTTL, ec.PostTTL)
	setDuration(&cfg.SweepInterval, ec.SweepInterval)
	setDuration(&cfg.PollInterval, ec.PollInterval)
	setDuration(&cfg.ProbeInterval, ec.ProbeInterval)
	setDuration(&cfg.RemoteTimeout, ec.RemoteTimeout)
	setString(&cfg.AccessSalt, ec.AccessSalt)
	setString(&cfg.AccessVerifier, ec.AccessVerifier)
	setString(&cfg.TokenKey, ec.TokenKey)
	setDuration(&cfg.TokenValidity, ec.TokenValidity)
	setString(&cfg.LogLevel, ec.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
