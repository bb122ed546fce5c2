// Command shdocs serves a calendar web app that mirrors reservations kept in
// Google Sheets.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/k-j-hyun/shdocs/internal/application"
	"github.com/k-j-hyun/shdocs/internal/config"
	"github.com/k-j-hyun/shdocs/internal/extract"
	httptransport "github.com/k-j-hyun/shdocs/internal/http"
	"github.com/k-j-hyun/shdocs/internal/logging"
	"github.com/k-j-hyun/shdocs/internal/persistence/sqlite"
	"github.com/k-j-hyun/shdocs/internal/sheets"
)

func main() {
	hashPassword := flag.String("hash-password", "", "print an argon2id hash for SHDOCS_ADMIN_PASSWORD_HASH and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := application.HashAdminPassword(*hashPassword)
		if err != nil {
			fmt.Fprintln(os.Stderr, "hash password:", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	// A missing .env file is fine; the environment may be set another way.
	_ = godotenv.Load()

	logger := logging.New(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	creds, err := config.LoadCredentials(cfg.CredentialsPath)
	if err != nil {
		logger.Error("failed to load Google credentials", "error", err)
		os.Exit(1)
	}

	rules, err := extract.LoadRules(cfg.RulesPath)
	if err != nil {
		logger.Error("failed to load extraction rules", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	oauthCfg := creds.OAuthConfig(cfg.BaseURL, sheets.ReadScope)
	authService := application.NewAuthService(storage, oauthCfg, cfg.AdminPasswordHash, cfg.SessionTTL, now, logger)
	fetcher := &application.GoogleRowFetcher{Auth: authService}
	eventService := application.NewEventService(storage, storage, fetcher, rules, idGenerator, now, logger)
	sheetService := application.NewSheetService(storage, fetcher, eventService, rules, idGenerator, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Sheets:   httptransport.NewSheetHandler(sheetService, logger),
		Events:   httptransport.NewEventHandler(eventService, logger),
		Auth:     httptransport.NewAuthHandler(authService, cfg.SessionTTL, logger),
		Sessions: authService,
		Static:   httptransport.StaticHandler(),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
		},
	})

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.RefreshSchedule, func() {
		refreshCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := eventService.RefreshAll(refreshCtx); err != nil {
			logger.Error("scheduled refresh failed", "error", err)
		}
	}); err != nil {
		logger.Error("invalid refresh schedule", "schedule", cfg.RefreshSchedule, "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("reservation mirror listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
