package middleware

import (
	"net/http"
	"time"

	"go_corporate_auth/internal/model"
	"go_corporate_auth/internal/webutil"

	"github.com/go-chi/httprate"
)

// RateLimitByIP は IP ごとに window あたり limit 件までに制限するミドルウェアです。
// 超えたリクエストには Retry-After 付きの 429 を返す。chi の RealIP を前段に置く前提。
func RateLimitByIP(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())
			logger.Warn("IP rate limit exceeded", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
			webutil.HandleError(w, logger, model.NewAppError(model.CodeRateLimited, "Too many requests", "", model.ErrTooManyRequests))
		}),
	)
}
