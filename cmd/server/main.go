package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"aviorie-web/internal/api"
	"aviorie-web/internal/auth"
	"aviorie-web/internal/authflow"
	"aviorie-web/internal/config"
	"aviorie-web/internal/dashboard"
	"aviorie-web/internal/db"
	"aviorie-web/internal/logger"
	"aviorie-web/internal/metrics"
	"aviorie-web/internal/middleware"
	"aviorie-web/internal/order"
	"aviorie-web/internal/product"
	"aviorie-web/internal/session"
	"aviorie-web/internal/user"
	"aviorie-web/internal/web"

	"go.uber.org/zap"
)

// Seams swapped out by tests.
var (
	initDBFunc    = db.NewDatabase
	initRedisFunc = func(ctx context.Context, cfg *config.Config) (session.Store, func() error, error) {
		client, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client, session.DefaultRedisTTL), client.Close, nil
	}
	startServerFunc = func(addr string, handler http.Handler) error {
		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		return srv.ListenAndServe()
	}
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.L().Warn("failed to close session store", zap.Error(err))
		}
	}()

	app, err := newServer(cfg, store)
	if err != nil {
		return err
	}
	go app.limiter.Run(ctx)
	go app.sweepPending(ctx, time.Minute)

	addr := ":" + cfg.AppPort
	logger.L().Info("server running",
		zap.String("addr", addr),
		zap.String("backend", cfg.APIBaseURL()),
		zap.String("session_store", cfg.SessionStore),
	)
	if err := startServerFunc(addr, app.handler); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newSessionStore opens the store SESSION_STORE names. The returned func
// releases its connection.
func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func() error, error) {
	switch cfg.SessionStore {
	case config.StorePostgres:
		conn, err := initDBFunc(cfg)
		if err != nil {
			return nil, nil, err
		}
		return session.NewPostgresStore(conn), conn.Close, nil
	case config.StoreRedis:
		return initRedisFunc(ctx, cfg)
	case config.StoreMemory, "":
		return session.NewMemoryStore(), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
}

type server struct {
	handler http.Handler
	limiter *middleware.Limiter
	pending *authflow.PendingRegistry
}

func (s *server) sweepPending(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.pending.Sweep(); n > 0 {
				logger.L().Debug("expired pending registrations", zap.Int("count", n))
			}
		}
	}
}

func newServer(cfg *config.Config, store session.Store) (*server, error) {
	m := metrics.New()
	client := api.New(cfg.APIBaseURL(), api.WithTransport(m.RoundTripper))

	users := user.NewService(client)
	orders := order.NewService(client)
	products := product.NewService(client)

	pending := authflow.NewPendingRegistry(authflow.PendingTTL)
	flow := authflow.New(users, store,
		authflow.WithRecorder(m),
		authflow.WithPendingRegistry(pending),
	)
	dash := dashboard.NewService(dashboard.NewFetcher(orders, users, products), orders, products)

	visitors, err := auth.NewVisitors(cfg.SessionSecret, cfg.CookieSecure)
	if err != nil {
		return nil, err
	}
	render, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	limiter := middleware.NewLimiter()
	h := web.NewHandler(flow, dash, store, render, cfg.CookieSecure)

	return &server{
		handler: web.NewRouter(h, visitors, store, limiter, m),
		limiter: limiter,
		pending: pending,
	}, nil
}
