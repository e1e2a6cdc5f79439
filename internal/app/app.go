// Package app assembles the bot: configuration, logging, storage, the
// metadata client, the Telegram transport, the workflow, and the
// lifecycle sweeper.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"seriesbot/internal/audit"
	"seriesbot/internal/bot"
	"seriesbot/internal/config"
	"seriesbot/internal/metadata"
	"seriesbot/internal/session"
	"seriesbot/internal/storage"
	kit "seriesbot/internal/transport"
	"seriesbot/internal/transport/telegram"
	"seriesbot/pkg/logx"
)

const updateBuffer = 64

type App struct {
	cfgMgr  *config.Manager
	logSvc  *logx.Service
	log     logx.Logger
	store   *storage.Store
	adapter *telegram.Adapter
	bot     *bot.Bot
	sched   *cron.Cron
	updates chan kit.Update
}

// New loads the config and builds every component. Nothing is running
// yet; Run starts the lot.
func New(configPath string) (*App, error) {
	cfgMgr := config.NewManager(configPath)
	cfg, err := cfgMgr.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	cfgMgr.SetLogger(log.With(logx.String("comp", "config")))

	busy, _ := config.ParseDuration("storage.busy_timeout", cfg.Storage.BusyTimeout, 5*time.Second)
	store, err := storage.Open(storage.Config{
		Path:        cfg.Storage.Path,
		BusyTimeout: busy,
	}, log.With(logx.String("comp", "storage")))
	if err != nil {
		logSvc.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	tmdbTimeout, _ := config.ParseDuration("tmdb.timeout", cfg.TMDB.Timeout, 0)
	meta, err := metadata.NewClient(metadata.Config{
		APIKey:       cfg.TMDB.APIKey,
		BaseURL:      cfg.TMDB.BaseURL,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		Timeout:      tmdbTimeout,
	})
	if err != nil {
		store.Close()
		logSvc.Close()
		return nil, fmt.Errorf("metadata client: %w", err)
	}

	pollTimeout, _ := config.ParseDuration("telegram.poll_timeout", cfg.Telegram.PollTimeout, 0)
	adapter, err := telegram.New(telegram.Config{
		Token:          cfg.Telegram.Token,
		PollTimeout:    pollTimeout,
		SendRatePerSec: cfg.Telegram.SendRatePerSec,
	}, log.With(logx.String("comp", "telegram")))
	if err != nil {
		store.Close()
		logSvc.Close()
		return nil, fmt.Errorf("telegram adapter: %w", err)
	}

	cache := session.NewManager(lifecycleConfig(cfg), log.With(logx.String("comp", "session")))
	rec := audit.New(store, log.With(logx.String("comp", "audit")))
	b := bot.New(bot.Config{AdminIDs: cfg.Telegram.AdminIDs}, adapter, meta, store, rec, cache, log.With(logx.String("comp", "bot")))

	return &App{
		cfgMgr:  cfgMgr,
		logSvc:  logSvc,
		log:     log,
		store:   store,
		adapter: adapter,
		bot:     b,
		sched:   cron.New(),
		updates: make(chan kit.Update, updateBuffer),
	}, nil
}

// Logger exposes the root logger for the process entry point.
func (a *App) Logger() logx.Logger { return a.log }

// Run starts polling, the dispatch loop, the cache sweeper, and the
// config watcher, then blocks until ctx is cancelled and everything is
// torn down.
func (a *App) Run(ctx context.Context) error {
	cfg := a.cfgMgr.Get()

	sweepEvery, _ := config.ParseDuration("lifecycle.sweep_interval", cfg.Lifecycle.SweepInterval, time.Hour)
	if _, err := a.sched.AddFunc("@every "+sweepEvery.String(), func() {
		a.bot.Sweep(time.Now())
	}); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}
	a.sched.Start()

	go func() {
		if err := a.cfgMgr.Watch(ctx, a.applyReload); err != nil && ctx.Err() == nil {
			a.log.Warn("config watcher stopped", logx.Err(err))
		}
	}()

	if err := a.adapter.Start(ctx, a.updates); err != nil {
		return fmt.Errorf("start transport: %w", err)
	}
	a.log.Info("bot running",
		logx.Int("admins", len(cfg.Telegram.AdminIDs)),
		logx.Duration("sweep_every", sweepEvery),
	)

	dispatchDone := make(chan error, 1)
	go func() { dispatchDone <- a.bot.Dispatch(ctx, a.updates) }()

	<-ctx.Done()
	a.shutdown()
	<-dispatchDone
	return nil
}

// applyReload pushes a validated config change into the running
// components. Only logging and the admin allowlist take effect without
// a restart.
func (a *App) applyReload(cfg *config.Config) {
	a.logSvc.Apply(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	a.bot.SetAdmins(cfg.Telegram.AdminIDs)
	a.log.Info("reload applied", logx.Int("admins", len(cfg.Telegram.AdminIDs)))
}

func (a *App) shutdown() {
	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.adapter.Stop(stopCtx); err != nil {
		a.log.Warn("transport stop", logx.Err(err))
	}
	a.bot.Shutdown(stopCtx)
	<-a.sched.Stop().Done()
	if err := a.store.Close(); err != nil {
		a.log.Warn("storage close", logx.Err(err))
	}
	a.log.Info("bot stopped")
	a.logSvc.Close()
}

func lifecycleConfig(cfg *config.Config) session.Config {
	sessionTTL, _ := config.ParseDuration("lifecycle.session_ttl", cfg.Lifecycle.SessionTTL, 0)
	draftTTL, _ := config.ParseDuration("lifecycle.draft_ttl", cfg.Lifecycle.DraftTTL, 0)
	postTTL, _ := config.ParseDuration("lifecycle.post_ttl", cfg.Lifecycle.PostTTL, 0)
	promptTTL, _ := config.ParseDuration("lifecycle.prompt_ttl", cfg.Lifecycle.PromptTTL, 0)
	return session.Config{
		SessionTTL: sessionTTL,
		DraftTTL:   draftTTL,
		PostTTL:    postTTL,
		PromptTTL:  promptTTL,
	}
}
