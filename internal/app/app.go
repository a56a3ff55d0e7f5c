// Package app wires configuration, credentials, the mailbox source, the
// extraction pipeline, and the record store into a runnable service.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/task-extractor/internal/clock"
	"github.com/nhle/task-extractor/internal/credential"
	"github.com/nhle/task-extractor/internal/model"
	"github.com/nhle/task-extractor/internal/pipeline"
	"github.com/nhle/task-extractor/internal/source/email"
	"github.com/nhle/task-extractor/internal/store"
	"github.com/nhle/task-extractor/internal/sync"
)

// App is the assembled extraction service.
type App struct {
	cfg    *model.AppConfig
	store  store.Store
	poller *sync.Poller
	log    *zap.Logger
}

// New assembles the service from configuration. The IMAP password is
// read from the system keyring under the configured username.
func New(cfg *model.AppConfig, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if cfg.IMAP.Host == "" || cfg.IMAP.Username == "" {
		return nil, fmt.Errorf("imap host and username must be configured")
	}

	password, err := credential.Get(cfg.IMAP.Username)
	if err != nil {
		return nil, fmt.Errorf("reading imap password: %w", err)
	}

	st, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening record store: %w", err)
	}

	clk, err := clock.NewZoneClock(cfg.Timezone)
	if err != nil {
		st.Close()
		return nil, err
	}

	src := email.NewAdapter(
		cfg.IMAP.Host, cfg.IMAP.Port,
		cfg.IMAP.Username, password,
		cfg.IMAP.Mailbox, cfg.IMAP.TLS,
	)

	pipe := pipeline.New(cfg.Extract, log)

	poller := sync.New(
		src, pipe, st, clk,
		time.Duration(cfg.PollIntervalSec)*time.Second,
		cfg.IMAP.BatchSize,
		log,
	)

	return &App{
		cfg:    cfg,
		store:  st,
		poller: poller,
		log:    log.Named("app"),
	}, nil
}

// Run starts the sync loop and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting",
		zap.String("host", a.cfg.IMAP.Host),
		zap.String("mailbox", a.cfg.IMAP.Mailbox),
		zap.Int("poll_interval_sec", a.cfg.PollIntervalSec))

	a.poller.Start(ctx)

	<-ctx.Done()

	a.poller.Stop()
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("closing record store: %w", err)
	}

	a.log.Info("stopped")
	return nil
}
