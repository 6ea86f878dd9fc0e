package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"

	"github.com/jackielii/dashpages"
	"github.com/jackielii/dashpages/internal/config"
	"github.com/jackielii/dashpages/internal/gapminder"
	"github.com/jackielii/dashpages/internal/logging"
	"github.com/jackielii/dashpages/internal/metrics"
	"github.com/jackielii/dashpages/internal/pages"
	"github.com/jackielii/dashpages/internal/pages/deps"
	"github.com/jackielii/dashpages/internal/site"
	"github.com/jackielii/dashpages/redismemo"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// setupMemoStore returns the configured memo store, a health check for it and
// a cleanup function.
func setupMemoStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (dashpages.MemoStore, func(context.Context) error, func()) {
	if cfg.CacheType == config.CacheRedis {
		client, err := redismemo.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
		return redismemo.New(client), ping, func() { _ = client.Close() }
	}

	store := dashpages.NewMemoryStore(clockwork.NewRealClock(), dashpages.WithStoreLogger(logger))
	stop := store.StartEviction(cfg.CacheEvictionInterval)
	return store, func(context.Context) error { return nil }, stop
}

func healthz(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := check(ctx); err != nil {
			slog.WarnContext(ctx, "Health check failed", "error", err)
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}
}

func runGracefulShutdown(srv *http.Server, timeout time.Duration) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		close(done)
	}()

	return done
}

func main() {
	cfg := setupConfig()

	logger := logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "pages", cfg.Pages)

	reg := metrics.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(reg)
	memoMetrics := metrics.NewMemoMetrics(reg, cfg.CacheType)
	siteMetrics := metrics.NewSiteMetrics(reg)

	ctx := context.Background()
	store, check, closeStore := setupMemoStore(ctx, cfg, logger)
	defer closeStore()
	memo := dashpages.NewMemo(store, dashpages.WithMemoObserver(memoMetrics), dashpages.WithMemoLogger(logger))

	data := gapminder.NewLoader(cfg.GapminderURL, cfg.FetchTimeout, cfg.FetchAttempts)
	data.Logger = logger

	loadCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.FetchAttempts)*cfg.FetchTimeout)
	registry, err := dashpages.Load(loadCtx, pages.Catalog(), cfg.Pages,
		data, deps.Settings{MemoWindow: cfg.CacheDefaultTimeout})
	cancel()
	if err != nil {
		slog.Error("Failed to load pages", "error", err)
		os.Exit(1)
	}

	app, err := dashpages.NewApp(registry,
		dashpages.WithMemo(memo),
		dashpages.WithLogger(logger),
		dashpages.WithDispatcherOptions(dashpages.WithHomeLink("Back to home", "/")),
	)
	if err != nil {
		slog.Error("Failed to build dashboard", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(logging.Middleware(logger))
	router.Use(httpMetrics.Middleware)

	dash := dashpages.New(app,
		dashpages.WithTitle(site.Title),
		dashpages.WithServerLogger(logger),
	)
	if err := dash.Mount(dashpages.NewChiRouter(router)); err != nil {
		slog.Error("Failed to mount dashboard", "error", err)
		os.Exit(1)
	}

	var dashboards []string
	for _, p := range registry.Pages() {
		if !p.Shell {
			dashboards = append(dashboards, p.Name)
		}
	}
	web := &site.Site{Dashboards: dashboards, Page2Loads: siteMetrics.Page2Loads, Logger: logger}
	web.Mount(dashpages.NewChiRouter(router), dash.Middleware)

	router.Handle("/metrics", metrics.Handler(reg))
	router.Get("/healthz", healthz(check))

	slog.Debug("Dashboard routes\n" + dash.PrintRoutes())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	done := runGracefulShutdown(srv, cfg.ShutdownTimeout)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
