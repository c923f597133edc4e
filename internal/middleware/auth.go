package middleware

import (
	"context"
	"net/http"

	"go_corporate_auth/internal/model"
	"go_corporate_auth/internal/webutil"
)

// SessionVerifier は Authorization ヘッダーを検証してクレームを返す
type SessionVerifier interface {
	Verify(ctx context.Context, tenantID, authorizationHeader string) (*model.SessionClaims, error)
}

// RequireCorporateSession は有効な法人ポータルのセッションを要求するミドルウェアです。
// 検証済みのクレームは GetSessionClaims で取り出せる。TenantContextMiddleware の後に置くこと。
func RequireCorporateSession(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			tenantID, err := GetTenantID(r.Context())
			if err != nil {
				webutil.HandleError(w, logger, err)
				return
			}

			claims, err := verifier.Verify(r.Context(), tenantID, r.Header.Get("Authorization"))
			if err != nil {
				webutil.HandleError(w, logger, err)
				return
			}

			ctx := context.WithValue(r.Context(), model.SessionClaimsKey, claims)
			ctx = context.WithValue(ctx, logCtxKey{}, logger.With("user_id", claims.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionClaims は RequireCorporateSession が設定したクレームを返す
func GetSessionClaims(ctx context.Context) (*model.SessionClaims, bool) {
	claims, ok := ctx.Value(model.SessionClaimsKey).(*model.SessionClaims)
	return claims, ok && claims != nil
}
