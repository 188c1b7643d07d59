package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"blogcms/internal/accounts"
	"blogcms/internal/config"
	"blogcms/internal/db"
	"blogcms/internal/http/handlers"
	"blogcms/internal/http/router"
	"blogcms/internal/logging"
	"blogcms/internal/security"
	"blogcms/internal/upload"
	"blogcms/web"
)

func main() {
	configPath := flag.String("config", "config/app.yaml", "path to the YAML config file")
	dotenv := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ApplyEnv(*dotenv); err != nil {
		log.Fatalf("Failed to apply environment: %v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Error("failed to initialize database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer database.Close()

	templates, err := handlers.LoadTemplates(web.Templates)
	if err != nil {
		logger.Error("failed to load templates", "error", err)
		os.Exit(1)
	}
	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		logger.Error("failed to open static assets", "error", err)
		os.Exit(1)
	}

	// Initialize session store
	if cfg.Secret == "" {
		logger.Warn("no session secret configured; sessions will not survive a restart")
	}
	sessionStore := security.NewSessionStore([]byte(cfg.Secret), cfg.SessionMaxAge, cfg.SecureCookies)

	uploads := upload.NewStore(cfg.UploadDir, cfg.AllowedImages)
	accountService := accounts.NewService(database, security.Hasher{Cost: cfg.BcryptCost}, uploads)

	// Setup router
	handler := router.Setup(router.Deps{
		DB:          database,
		Accounts:    accountService,
		Sessions:    sessionStore,
		Uploads:     uploads,
		View:        handlers.NewView(templates, sessionStore, logger),
		Static:      static,
		Logger:      logger,
		MaxFormSize: cfg.MaxUploadBytes(),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	idle := make(chan struct{})
	go func() {
		defer close(idle)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	// Start server
	logger.Info("starting server", "addr", srv.Addr, "db_driver", cfg.DBDriver, "upload_dir", cfg.UploadDir)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
	<-idle
	logger.Info("server stopped")
}
