package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pysugar/zoho-dashboard/internal/analytics"
	"github.com/pysugar/zoho-dashboard/internal/auth/token"
	"github.com/pysugar/zoho-dashboard/internal/auth/users"
	"github.com/pysugar/zoho-dashboard/internal/auth/zoho"
	"github.com/pysugar/zoho-dashboard/internal/config"
	"github.com/pysugar/zoho-dashboard/internal/dashboard"
	"github.com/pysugar/zoho-dashboard/internal/db"
	"github.com/pysugar/zoho-dashboard/internal/logging"
	"github.com/pysugar/zoho-dashboard/internal/monitor"
	"github.com/pysugar/zoho-dashboard/internal/portfolio"
	"github.com/pysugar/zoho-dashboard/internal/upstream"
	"github.com/pysugar/zoho-dashboard/internal/version"
	"github.com/pysugar/zoho-dashboard/internal/zohoapi"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("dashboard: %v", err)
	}
}

// run owns every deferred close; main exits only after it returns.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		FilePath: cfg.Logging.FilePath,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Close()
	logging.SetDefaultLogger(logger)

	database, err := db.InitDB(cfg.Database.Path, db.Options{
		SeedDemoUsers: cfg.Session.SeedDemoUsers,
		LogSQL:        cfg.Logging.Level == "trace",
	})
	if err != nil {
		logging.Error("failed to initialize database", "path", cfg.Database.Path, "error", err)
		return err
	}

	if err := cfg.Zoho.Validate(); err != nil {
		logging.Warn("zoho connect is disabled until configuration is complete, see /api/setup", "error", err)
	}

	jwtSecret := cfg.Session.JWTSecret
	if jwtSecret == "" {
		if jwtSecret, err = db.EnsureSessionSecret(database); err != nil {
			logging.Error("failed to load session secret", "error", err)
			return err
		}
	}

	store := token.NewStore(database)
	session := token.NewSession(store, nil)
	exchanger := zoho.NewExchanger(cfg.Zoho, store, nil)
	session.SetRefresher(exchanger)

	callMonitor := monitor.New(database)
	defer callMonitor.Close()

	gateway := upstream.NewClient(session, upstream.Options{
		AuthScheme: cfg.Zoho.AuthScheme,
		Timeout:    cfg.Zoho.Timeout,
		Observer:   callMonitor,
	})
	service := zohoapi.NewService(gateway, cfg.Zoho)

	router := dashboard.NewRouter(dashboard.Deps{
		Zoho:       cfg.Zoho,
		Session:    session,
		Authorizer: zoho.NewAuthorizer(cfg.Zoho),
		Exchanger:  exchanger,
		Data:       service,
		Analytics:  analytics.NewService(service),
		Portfolio:  portfolio.NewRepository(database),
		Users:      users.NewService(database),
		Issuer:     users.NewIssuer(jwtSecret, cfg.Session.TTL),
		Monitor:    callMonitor,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if state, err := session.State(context.Background()); err == nil {
		logging.Info("zoho session", "state", state.String())
	}
	logging.Info("dashboard starting", "addr", "http://"+cfg.Server.Addr, "version", version.Version, "redirect_uri", cfg.Zoho.RedirectURI)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logging.Error("server failed", "error", err)
			return err
		}
	case <-ctx.Done():
		logging.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Warn("graceful shutdown failed", "error", err)
		}
	}
	return nil
}
