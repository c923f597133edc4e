//go:generate mockery --name SessionService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"go_corporate_auth/internal/config"
	"go_corporate_auth/internal/middleware"
	"go_corporate_auth/internal/model"
	"go_corporate_auth/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

// SessionResult はセッション発行の結果。login / verify / set-password で共通。
type SessionResult struct {
	Token     string
	ExpiresIn int64 // 秒
	User      model.UserResponse
}

// SessionService は法人ポータル用の JWT を発行・検証する。
// 検証時は毎回ユーザーと法人アカウントの現在の状態を読み直す。
type SessionService interface {
	Issue(ctx context.Context, user *model.CorporateUser, account *model.CorporateAccount) (*SessionResult, error)
	Verify(ctx context.Context, tenantID, authorizationHeader string) (*model.SessionClaims, error)
}

type sessionService struct {
	userRepo    repository.CorporateUserRepository
	accountRepo repository.CorporateAccountRepository
	secrets     SecretProvider
	cfg         *config.Config
	metrics     *Metrics
}

func NewSessionService(userRepo repository.CorporateUserRepository, accountRepo repository.CorporateAccountRepository, secrets SecretProvider, cfg *config.Config, metrics *Metrics) SessionService {
	return &sessionService{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		secrets:     secrets,
		cfg:         cfg,
		metrics:     metrics,
	}
}

func (s *sessionService) Issue(ctx context.Context, user *model.CorporateUser, account *model.CorporateAccount) (*SessionResult, error) {
	logger := middleware.GetLogger(ctx).With("tenant_id", user.TenantID, "user_id", user.UserID)

	secret, err := s.secrets.Get(ctx)
	if err != nil {
		logger.Error("Failed to get JWT signing secret", "error", err)
		return nil, errInternal(err)
	}

	now := time.Now()
	ttl := config.SessionTTL
	claims := &model.SessionClaims{
		Type:          model.SessionTypeCorporate,
		TenantID:      user.TenantID,
		CorpAccountID: user.CorpAccountID,
		UserID:        user.UserID,
		Email:         user.Email,
		Role:          user.Role,
		UserName:      user.Name,
		CompanyName:   account.CompanyName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.JWT.Issuer,
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err)
		return nil, errInternal(err)
	}

	return &SessionResult{
		Token:     signed,
		ExpiresIn: int64(ttl / time.Second),
		User:      model.NewUserResponse(user, account),
	}, nil
}

func (s *sessionService) Verify(ctx context.Context, tenantID, authorizationHeader string) (claims *model.SessionClaims, err error) {
	start := time.Now()
	defer func() { s.metrics.observe(OpVerifySession, outcomeOf(err), start) }()
	logger := middleware.GetLogger(ctx).With("tenant_id", tenantID)

	raw, ok := bearerToken(authorizationHeader)
	if !ok {
		logger.Warn("Session verify failed: missing or malformed Authorization header")
		return nil, model.NewAppError(model.CodeMissingToken, MsgMissingToken, "", model.ErrUnauthorized)
	}

	secret, err := s.secrets.Get(ctx)
	if err != nil {
		logger.Error("Failed to get JWT signing secret", "error", err)
		return nil, errInternal(err)
	}

	claims, err = s.parse(raw, secret)
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		// 鍵がローテーションされた可能性があるので一度だけ取り直して再検証する
		s.secrets.Invalidate()
		if fresh, ferr := s.secrets.Get(ctx); ferr == nil && !bytes.Equal(fresh, secret) {
			logger.Info("JWT signing secret changed, retrying verification")
			claims, err = s.parse(raw, fresh)
		}
	}
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Info("Session verify failed: token expired")
			return nil, model.NewAppError(model.CodeSessionExpired, MsgSessionExpired, "", model.ErrUnauthorized)
		}
		logger.Warn("Session verify failed: invalid token", "error", err)
		return nil, model.NewAppError(model.CodeSessionInvalid, MsgSessionInvalid, "", model.ErrUnauthorized)
	}

	if claims.Type != model.SessionTypeCorporate {
		logger.Warn("Session verify failed: unexpected token type", "type", claims.Type)
		return nil, model.NewAppError(model.CodeSessionInvalid, MsgSessionInvalid, "", model.ErrUnauthorized)
	}
	if claims.TenantID != tenantID {
		logger.Warn("Session verify failed: tenant mismatch", "token_tenant_id", claims.TenantID)
		return nil, model.NewAppError(model.CodeSessionInvalid, MsgSessionInvalid, "", model.ErrUnauthorized)
	}

	// 署名が正しくても、現在の状態が active でなければ拒否する
	user, err := s.userRepo.FindByID(ctx, claims.TenantID, claims.CorpAccountID, claims.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Session verify failed: user no longer exists", "user_id", claims.UserID)
			return nil, errAccountInactive()
		}
		return nil, errInternal(err)
	}
	account, err := s.accountRepo.FindByID(ctx, claims.TenantID, claims.CorpAccountID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Session verify failed: account no longer exists", "corp_account_id", claims.CorpAccountID)
			return nil, errAccountInactive()
		}
		return nil, errInternal(err)
	}
	if !user.IsActive() || !account.IsActive() {
		logger.Warn("Session verify failed: user or account not active",
			"user_id", user.UserID,
			"user_status", user.Status,
			"account_status", account.Status,
		)
		return nil, errAccountInactive()
	}

	// 表示用の項目は最新の値にしておく
	claims.Email = user.Email
	claims.Role = user.Role
	claims.UserName = user.Name
	claims.CompanyName = account.CompanyName
	return claims, nil
}

func (s *sessionService) parse(raw string, secret []byte) (*model.SessionClaims, error) {
	claims := &model.SessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.JWT.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// bearerToken は "Bearer <token>" からトークン部分を取り出す
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
