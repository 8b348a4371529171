package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/bizboard/internal/flagx"
	"github.com/dmitrijs2005/bizboard/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Intervals use timex.Duration so they may be given as "30s" or as integer
// nanoseconds.
type JsonConfig struct {
	RemoteDSN      string         `json:"remote_dsn"`
	CacheDSN       string         `json:"cache_dsn"`
	PostTTL        timex.Duration `json:"post_ttl"`
	SweepInterval  timex.Duration `json:"sweep_interval"`
	PollInterval   timex.Duration `json:"poll_interval"`
	ProbeInterval  timex.Duration `json:"probe_interval"`
	RemoteTimeout  timex.Duration `json:"remote_timeout"`
	AccessSalt     string         `json:"access_salt"`
	AccessVerifier string         `json:"access_verifier"`
	TokenKey       string         `json:"token_key"`
	TokenValidity  timex.Duration `json:"token_validity"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c or -config. Keys missing
// from the file keep their current value. Panics on read or decode errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigFilePath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.RemoteDSN, jc.RemoteDSN)
	setString(&cfg.CacheDSN, jc.CacheDSN)
	setDuration(&cfg.PostTTL, jc.PostTTL.Duration)
	setDuration(&cfg.SweepInterval, jc.SweepInterval.Duration)
	setDuration(&cfg.PollInterval, jc.PollInterval.Duration)
	setDuration(&cfg.ProbeInterval, jc.ProbeInterval.Duration)
	setDuration(&cfg.RemoteTimeout, jc.RemoteTimeout.Duration)
	setString(&cfg.AccessSalt, jc.AccessSalt)
	setString(&cfg.AccessVerifier, jc.AccessVerifier)
	setString(&cfg.TokenKey, jc.TokenKey)
	setDuration(&cfg.TokenValidity, jc.TokenValidity.Duration)
	setString(&cfg.LogLevel, jc.LogLevel)
}
