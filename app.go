package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/itbasis/go-clock"
	"github.com/mww/washed_up/auth"
	"github.com/mww/washed_up/config"
	"github.com/mww/washed_up/controller"
	"github.com/mww/washed_up/db"
	"github.com/mww/washed_up/logger"
	"github.com/mww/washed_up/web"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// app holds the components shared by every command.
type app struct {
	cfg   *config.Config
	log   *zap.SugaredLogger
	store *db.Cache
	ctrl  controller.C
	gate  *auth.Gate
}

func newApp(ctx context.Context, storeDriver string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if storeDriver != "" {
		cfg.Store.Driver = storeDriver
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("error creating logger: %w", err)
	}

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	cache := db.NewCache(db.Instrument(store, prometheus.DefaultRegisterer))

	clock := clock.New()
	ctrl, err := controller.New(clock, cache, log.Named("controller"))
	if err != nil {
		cache.Close()
		return nil, fmt.Errorf("error creating a new controller: %w", err)
	}

	provider, err := identityProvider(cfg, cache)
	if err != nil {
		cache.Close()
		return nil, err
	}
	sessions, err := auth.NewSessions(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL, clock)
	if err != nil {
		cache.Close()
		return nil, fmt.Errorf("error creating sessions: %w", err)
	}

	return &app{
		cfg:   cfg,
		log:   log,
		store: cache,
		ctrl:  ctrl,
		gate:  auth.NewGate(provider, cache, sessions, log.Named("auth")),
	}, nil
}

func (a *app) Close() {
	a.store.Close()
	_ = a.log.Sync()
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (db.Store, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Warnw("using the in memory store, nothing will be persisted")
		return db.NewMemory(), nil
	}

	store, err := db.New(ctx, cfg.Postgres.ConnStr)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to DB: %w", err)
	}
	if err := db.Migrate(ctx, store); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func identityProvider(cfg *config.Config, store db.Store) (auth.Provider, error) {
	if cfg.Auth.Provider != config.AuthProviderOAuth {
		return auth.NewLocalProvider(store), nil
	}

	p, err := auth.NewOAuthProvider(&oauth2.Config{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: cfg.OAuth.TokenURL,
		},
		Scopes: cfg.OAuth.Scopes,
	}, cfg.OAuth.UserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("error creating the oauth provider: %w", err)
	}
	return p, nil
}

func serve(storeDriver string) error {
	a, err := newApp(context.Background(), storeDriver)
	if err != nil {
		return err
	}
	defer a.Close()

	server, err := web.NewServer(web.Options{
		Port:                a.cfg.Server.Port,
		RequestTimeout:      a.cfg.HTTP.RequestTimeout,
		AdminRequestTimeout: a.cfg.Admin.RequestTimeout,
		ShutdownTimeout:     a.cfg.Server.ShutdownTimeout,
	}, a.ctrl, a.gate, a.log.Named("web"))
	if err != nil {
		return fmt.Errorf("error creating new web server: %w", err)
	}

	shutdown := make(chan bool)
	wg := &sync.WaitGroup{}

	// Setup a handler to catch ctrl-c signals and properly shutdown everything.
	intChannel := make(chan os.Signal, 2)
	signal.Notify(intChannel, os.Interrupt)
	go func() {
		<-intChannel
		close(shutdown)

		if err := waitTimeout(wg, a.cfg.Server.ShutdownTimeout); err != nil {
			a.log.Errorw("timed out waiting for proper shutdown")
			os.Exit(255)
		}
	}()

	// Reload the cached collections so edits made by other writers show up.
	if a.cfg.Store.RefreshInterval > 0 {
		wg.Add(1)
		go a.ctrl.RunPeriodicRefresh(a.cfg.Store.RefreshInterval, shutdown, wg)
	}

	// Start the web server
	wg.Add(1)
	go server.ListenAndServe(shutdown, wg)

	// Wait for everything to stop.
	wg.Wait()
	a.log.Infow("server shutdown")
	return nil
}
