package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go_corporate_auth/internal/config"
	"go_corporate_auth/internal/handlers"
	"go_corporate_auth/internal/repository"
	"go_corporate_auth/internal/service"
)

func main() {
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	flag.Parse()

	// 設定ファイル読み込み用の一時的なロガー設定
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	if err := config.LoadConfig(*configDir); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := &config.Cfg

	logger := newLogger(cfg, tempLogger)
	slog.SetDefault(logger)
	slog.Info("Application starting...", slog.String("version", config.AppVersion), slog.String("env", cfg.App.Env))

	ctx := context.Background()

	// 1. ストア
	store, err := repository.OpenStore(ctx, cfg, logger)
	if err != nil {
		slog.Error("Error initializing store", slog.Any("error", err), slog.String("backend", cfg.Store.Backend))
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Error closing store", slog.Any("error", err))
		} else {
			slog.Info("Store closed.")
		}
	}()

	// 2. JWT 署名鍵
	secrets, closeSecrets, err := service.NewSecretProvider(ctx, cfg)
	if err != nil {
		slog.Error("Error initializing secret provider", slog.Any("error", err), slog.String("provider", cfg.Secrets.Provider))
		os.Exit(1)
	}
	defer closeSecrets()
	// 起動時に一度取得して設定ミスを早めに検出する
	if _, err := secrets.Get(ctx); err != nil {
		slog.Error("JWT signing secret unavailable", slog.Any("error", err))
		os.Exit(1)
	}

	// 3. メトリクス
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := service.NewMetrics(registry)

	// 4. Dependency Injection
	mailer := service.NewMailer(cfg)
	sessionService := service.NewSessionService(store.Users, store.Accounts, secrets, cfg, metrics)
	tokenService := service.NewTokenService(store.Users, store.Accounts, store.Tokens, sessionService, mailer, cfg, metrics)
	passwordService := service.NewPasswordService(store.Users, store.Accounts, tokenService, sessionService, cfg, metrics)

	router := handlers.NewRouter(handlers.RouterDeps{
		Config:         cfg,
		Logger:         logger,
		Auth:           handlers.NewAuthHandler(tokenService, passwordService),
		Sessions:       sessionService,
		HealthCheck:    store.Ping,
		Metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		IPMaxPerMinute: cfg.RateLimit.IPMaxPerMinute,
	})

	// 5. Start Server
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	// 送信中のメールを待ってからストアを閉じる
	tokenService.Wait()
	log.Println("Server exiting")
}

// newLogger は config の log.level と APP_ENV から slog ロガーを作る
func newLogger(cfg *config.Config, tempLogger *slog.Logger) *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		tempLogger.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", cfg.Log.Level))
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.App.Env, "dev") {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
		tempLogger.Info("Using TINT log handler", slog.String("env", cfg.App.Env))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
		tempLogger.Info("Using JSON log handler", slog.String("env", cfg.App.Env))
	}
	return slog.New(handler)
}
