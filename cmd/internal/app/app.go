// Package app wires the sorthub server runtime: config, logging, storage
// selection, HTTP routes, and the live history feed.
package app

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"sorthub/cmd/identity"
	"sorthub/cmd/internal/api"
	"sorthub/cmd/internal/arrays"
	"sorthub/cmd/internal/auth"
	"sorthub/cmd/internal/history"
	"sorthub/cmd/security/password"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is a small app-level lifecycle abstraction.
// It exists to allow DB-backed resources to be closed gracefully.
type Store interface {
	Close(ctx context.Context) error
}

// nopStore is used for in-memory store mode.
type nopStore struct{}

func (nopStore) Close(_ context.Context) error { return nil }

// App is the sorthub server runtime: it owns HTTP wiring and the storage
// backends behind the auth and array services.
type App struct {
	cfg Config
	log Logger

	store Store

	dbPool    *pgxpool.Pool
	dbEnabled bool

	feed    *history.Feed
	handler *api.Handler
	metrics *Metrics
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel, cfg.LogFormat)
	}

	st, users, entries, dbPool, dbEnabled, err := newStore(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}

	pwCfg, err := password.FromEnv()
	if err != nil {
		return nil, err
	}
	apiCfg, err := api.FromEnv()
	if err != nil {
		return nil, err
	}

	feed := history.NewFeed(cfg.FeedBuffer)
	authSvc := auth.NewService(users, pwCfg)
	arraySvc := arrays.NewService(entries, feed)

	return &App{
		cfg:       cfg,
		log:       log,
		store:     st,
		dbPool:    dbPool,
		dbEnabled: dbEnabled,
		feed:      feed,
		handler:   api.NewHandler(log, apiCfg, authSvc, arraySvc, feed),
		metrics:   NewMetrics(),
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.dbEnabled, a.metrics, a.handler)

	var root http.Handler = mux
	root = a.metrics.WithMetrics(root)
	root = WithSecurityHeaders(root)
	root = WithCORS(root, a.cfg, a.log)
	root = WithRequestLogging(root, a.log)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           root,
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 15*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	base := runtimeBaseURL(a.cfg.HTTPAddr)
	a.log.Info("server.start",
		"addr", a.cfg.HTTPAddr,
		"base_url", base,
		"watch_url", wsBaseURL(base)+"/history/{login}/watch",
		"db_enabled", a.dbEnabled,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	if err := a.store.Close(shutdownCtx); err != nil {
		a.log.Error("store.close.fail", "err", err)
	}

	a.log.Info("server.stopped")
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// newStore selects the storage backend: Postgres when SORTHUB_DATABASE_URL
// is set, the SQLite file at SORTHUB_SQLITE_PATH otherwise, and pure
// in-memory stores when the path is explicitly emptied.
func newStore(ctx context.Context, cfg Config, log Logger) (Store, identity.Store, history.Store, *pgxpool.Pool, bool, error) {
	if cfg.DatabaseURL != "" {
		pool, err := NewDBPool(ctx, cfg)
		if err != nil {
			return nil, nil, nil, nil, false, err
		}

		users, err := identity.NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, nil, nil, false, err
		}
		entries, err := history.NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, nil, nil, false, err
		}

		log.Info("db.enabled.postgres_store")
		return dbStore{pool: pool}, users, entries, pool, true, nil
	}

	if cfg.SQLitePath != "" {
		db, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, nil, false, err
		}

		users, err := identity.NewSQLiteStore(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, nil, nil, false, err
		}
		entries, err := history.NewSQLiteStore(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, nil, nil, false, err
		}

		log.Info("db.enabled.sqlite_store", "path", cfg.SQLitePath)
		return sqliteStore{db: db}, users, entries, nil, false, nil
	}

	log.Info("db.disabled.inmemory_store")
	return nopStore{}, identity.NewMemoryStore(), history.NewMemoryStore(), nil, false, nil
}

type dbStore struct {
	pool *pgxpool.Pool
}

func (s dbStore) Close(_ context.Context) error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

type sqliteStore struct {
	db *sql.DB
}

func (s sqliteStore) Close(_ context.Context) error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// runtimeBaseURL turns a listen address into a dialable http base URL.
func runtimeBaseURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	return "http://" + host + ":" + port
}

// wsBaseURL maps an http(s) base URL onto its ws(s) counterpart.
func wsBaseURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return "ws://" + base
	}
}
