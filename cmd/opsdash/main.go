package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	adapthttp "opsdash/internal/adapter/http"
	"opsdash/internal/adapter/sqlite"
	"opsdash/internal/app"
	"opsdash/internal/config"
	"opsdash/internal/runner"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(log); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.UsesDefaultCredentials() {
		log.Warn("running with default credentials, set ADMIN_PASS and API_TOKEN")
	}

	db, err := sqlite.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	users := sqlite.NewUserRepo(db)
	sessions := sqlite.NewSessionStore(db)
	tokens := sqlite.NewTokenRepo(db)
	services := sqlite.NewServiceRepo(db)

	auth := app.NewAuthService(users, sessions, log)
	dir := app.NewServiceDirectory(services)

	// Seed the admin credential, the external token, and the two services
	// this process itself accounts for.
	if err := auth.ProvisionUser(ctx, cfg.AdminName, cfg.AdminPass); err != nil {
		return err
	}
	if err := tokens.Put(ctx, cfg.APIToken); err != nil {
		return err
	}
	if err := dir.SetStatus(ctx, "opsdash", "main", 1); err != nil {
		return err
	}
	if err := dir.SetStatus(ctx, "runner", "main", 1); err != nil {
		return err
	}

	if cfg.NATSURL != "" {
		conn, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			return err
		}
		defer conn.Close()
		consumer := runner.NewConsumer(conn, cfg.RunnerSubject, dir, log)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("runner consumer stopped", "error", err)
			}
		}()
	}

	cookies := adapthttp.NewCookieCodec(cfg.CookieName, cfg.SessionSecret)
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: adapthttp.New(auth, dir, sessions, tokens, cookies, log, cfg.WebDir).Handler(),
	}

	log.Info("listening", "addr", cfg.Addr)
	if err := serve(ctx, srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("shut down")
	return nil
}

// serve runs srv until ctx is cancelled, then drains in-flight requests
// before returning.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
