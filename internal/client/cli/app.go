package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/bizboard/internal/client/categories"
	"github.com/dmitrijs2005/bizboard/internal/client/config"
	"github.com/dmitrijs2005/bizboard/internal/client/identity"
	"github.com/dmitrijs2005/bizboard/internal/client/jobs"
	"github.com/dmitrijs2005/bizboard/internal/client/localdb"
	"github.com/dmitrijs2005/bizboard/internal/client/models"
	"github.com/dmitrijs2005/bizboard/internal/client/remote"
	"github.com/dmitrijs2005/bizboard/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/bizboard/internal/client/repositories/posts"
	"github.com/dmitrijs2005/bizboard/internal/client/services"
	"github.com/dmitrijs2005/bizboard/internal/logging"
)

type App struct {
	config *config.Config
	log    logging.Logger
	reader *bufio.Reader
	out    io.Writer

	posts     services.PostService
	registry  *categories.Registry
	access    services.AccessService
	confirmer services.Confirmer
	notes     services.NotificationSource

	// per session
	board  *services.Board
	poller *services.Poller
	actor  string

	dbs []*sql.DB
}

// NewApp opens the local cache and the remote store and wires the services.
// The remote database is not contacted here, so the app starts offline too.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewTextLogger(os.Stderr, c.LogLevel)

	salt, verifier, err := c.AccessSecrets()
	if err != nil {
		return nil, err
	}

	local, err := localdb.InitDatabase(ctx, c.CacheDSN)
	if err != nil {
		return nil, fmt.Errorf("error initializing local cache: %w", err)
	}
	remoteDB, err := remote.Open(c.RemoteDSN)
	if err != nil {
		_ = local.Close()
		return nil, err
	}

	store := remote.NewPostgresStore(remoteDB)
	meta := metadata.NewSQLiteRepository(local)
	confirmer := services.NewConfirmer(salt, verifier)
	registry := categories.NewRegistry()

	ps := services.NewPostService(
		store,
		posts.NewSQLiteRepository(local),
		registry,
		confirmer,
		services.PostServiceConfig{TTL: c.PostTTL, RemoteTimeout: c.RemoteTimeout},
		log,
	)
	as := services.NewAccessService(meta, identity.NewProvider(meta), services.AccessConfig{
		Salt:          salt,
		Verifier:      verifier,
		TokenKey:      []byte(c.TokenKey),
		TokenValidity: c.TokenValidity,
	}, log)

	return &App{
		config:    c,
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		posts:     ps,
		registry:  registry,
		access:    as,
		confirmer: confirmer,
		notes:     store,
		dbs:       []*sql.DB{local, remoteDB},
	}, nil
}

// Run passes the entry gate, starts the session jobs and blocks in the REPL
// until the user leaves or ctx ends.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	fmt.Fprintln(a.out, "Business board (type 'help' for commands)")
	if err := a.Enter(ctx); err != nil {
		return err
	}

	a.board = services.NewBoard(a.posts)
	defer a.board.Close()
	a.poller = services.NewPoller(a.notes, a.log, a.announce, services.WithPollTimeout(a.config.RemoteTimeout))

	scope, err := a.startJobs(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = scope.Stop() }()

	runREPL(scope.Context(), a, a.status, a.reader)
	return nil
}

// startJobs schedules the background work of one session: the local cache
// sweep, the notification poll and the remote reachability probe.
func (a *App) startJobs(ctx context.Context) (*jobs.Scope, error) {
	scope, err := jobs.NewScope(ctx, a.log)
	if err != nil {
		return nil, err
	}

	err = errors.Join(
		scope.Every("sweep", a.config.SweepInterval, false, func(ctx context.Context) {
			if _, err := a.posts.Sweep(ctx); err != nil {
				a.log.Error(ctx, "sweep failed", "err", err)
			}
		}),
		scope.Every("poll", a.config.PollInterval, true, func(ctx context.Context) {
			_, _ = a.poller.Check(ctx)
		}),
		scope.Every("probe", a.config.ProbeInterval, false, func(ctx context.Context) {
			_ = a.posts.Probe(ctx)
		}),
	)
	if err != nil {
		_ = scope.Stop()
		return nil, err
	}

	scope.Start()
	return scope, nil
}

func (a *App) announce(ns []models.Notification) {
	for _, n := range ns {
		fmt.Fprintf(a.out, "\n[new] %s\n", n.Message)
	}
}

func (a *App) status() string {
	s := string(a.posts.Mode())
	if a.poller != nil {
		if n := len(a.poller.Unread()); n > 0 {
			s = fmt.Sprintf("%s, %d unread", s, n)
		}
	}
	return s
}

func (a *App) Close() {
	for _, db := range a.dbs {
		if err := db.Close(); err != nil {
			a.log.Warn(context.Background(), "close database", "err", err)
		}
	}
	a.dbs = nil
}
