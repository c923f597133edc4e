package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go_corporate_auth/internal/config"
	"go_corporate_auth/internal/middleware"
	"go_corporate_auth/internal/model"
	"go_corporate_auth/internal/webutil"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// RouterDeps はルーターの組み立てに必要な依存です
type RouterDeps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Auth     *AuthHandler
	Sessions middleware.SessionVerifier
	// HealthCheck はストアへの疎通確認。nil なら常に OK。
	HealthCheck func(ctx context.Context) error
	// Metrics が nil でなければ cfg.Metrics.Path に公開する
	Metrics http.Handler
	// IPMaxPerMinute が 0 なら公開エンドポイントの IP 制限をかけない
	IPMaxPerMinute int
}

// NewRouter はミドルウェアとルーティングを設定した chi ルーターを返します
func NewRouter(d RouterDeps) http.Handler {
	cfg := d.Config
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(d.Logger))

	// CORS 設定と適用 (設定ファイルから読み込んだ値を使用)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		webutil.RespondWithJSON(w, http.StatusNotFound, model.APIErrorResponse{Error: "Not found", Code: model.CodeNotFound})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		webutil.RespondWithJSON(w, http.StatusMethodNotAllowed, model.APIErrorResponse{Error: "Method not allowed", Code: model.CodeMethodNotAllowed})
	})

	r.Route("/corporate/auth", func(r chi.Router) {
		r.Use(middleware.TenantContextMiddleware(cfg.Tenant.DefaultID))

		// --- Public routes ---
		r.Group(func(r chi.Router) {
			if d.IPMaxPerMinute > 0 {
				r.Use(middleware.RateLimitByIP(d.IPMaxPerMinute, time.Minute))
			}
			r.Post("/magic-link", d.Auth.RequestMagicLink)
			r.Post("/verify", d.Auth.Verify)
			r.Post("/login", d.Auth.Login)
			r.Post("/set-password", d.Auth.SetPassword)
			r.Post("/forgot-password", d.Auth.ForgotPassword)
		})

		// --- Protected routes ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireCorporateSession(d.Sessions))
			r.Get("/session", d.Auth.Session)
		})
	})

	r.Get("/health", healthHandler(d.HealthCheck))

	if cfg.Metrics.Enabled && d.Metrics != nil {
		r.Method(http.MethodGet, cfg.Metrics.Path, d.Metrics)
	}

	return r
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				middleware.GetLogger(r.Context()).Error("Health check failed", "error", err)
				webutil.RespondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		webutil.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
