package middleware

import (
	"context"
	"net/http"
	"regexp"

	"go_corporate_auth/internal/model"
	"go_corporate_auth/internal/webutil"
)

// TenantHeader はテナントを指定するリクエストヘッダー
const TenantHeader = "X-Tenant-ID"

var tenantIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// TenantContextMiddleware は X-Tenant-ID (なければ defaultTenantID) をコンテキストに設定します。
// どちらもない、または形式が不正な場合は 400。
func TenantContextMiddleware(defaultTenantID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			tenantID := r.Header.Get(TenantHeader)
			if tenantID == "" {
				tenantID = defaultTenantID
			}
			if !tenantIDPattern.MatchString(tenantID) {
				logger.Warn("Tenant resolution failed", "header_present", r.Header.Get(TenantHeader) != "")
				webutil.HandleError(w, logger, model.NewAppError(model.CodeInvalidTenant, "Missing or invalid tenant", "", model.ErrInvalidInput))
				return
			}

			ctx := context.WithValue(r.Context(), model.TenantIDKey, tenantID)
			ctx = context.WithValue(ctx, logCtxKey{}, logger.With("tenant_id", tenantID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetTenantID はコンテキストからテナントIDを取得します
func GetTenantID(ctx context.Context) (string, error) {
	value, ok := ctx.Value(model.TenantIDKey).(string)
	if !ok || value == "" {
		// ミドルウェアが正しく組まれていない
		return "", model.NewAppError(model.CodeInternal, "Internal server error", "", model.ErrInternalServer)
	}
	return value, nil
}
