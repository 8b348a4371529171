package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/bizboard/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-r string     remote PostgreSQL DSN
//	-d string     local cache path
//	-t duration   post TTL, e.g. 168h
//	-i int        remote probe interval (in seconds)
//	-p int        notification poll interval (in seconds)
//	-log string   log level
//
// os.Args is filtered with flagx.FilterArgs so flags owned by other stages
// do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-r", "-d", "-t", "-i", "-p", "-log"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.RemoteDSN, "r", cfg.RemoteDSN, "remote database DSN")
	fs.StringVar(&cfg.CacheDSN, "d", cfg.CacheDSN, "local cache file")
	fs.DurationVar(&cfg.PostTTL, "t", cfg.PostTTL, "post time to live")
	probe := fs.Int("i", int(cfg.ProbeInterval.Seconds()), "online check interval (in seconds)")
	poll := fs.Int("p", int(cfg.PollInterval.Seconds()), "notification poll interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// intervals from JSON or env may be sub-second; keep them unless the
	// flag was given
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.ProbeInterval = time.Duration(*probe) * time.Second
		case "p":
			cfg.PollInterval = time.Duration(*poll) * time.Second
		}
	})
}
