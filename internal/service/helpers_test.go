package service_test

import (
	"errors"
	"time"

	"go_corporate_auth/internal/config"
	"go_corporate_auth/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	testTenantID  = "tenant-acme"
	testAccountID = "acct-acme"
	testSecret    = "test-signing-secret"
	testIssuer    = "corporate-portal-auth-test"
)

func newTestConfig() *config.Config {
	cfg := &config.Config{
		App: config.AppConfig{
			Name:        "Corporate Portal",
			Env:         "test",
			FrontendURL: "https://portal.example.com/",
		},
		Auth: config.AuthConfig{
			MagicLinkTTL:         5 * 24 * time.Hour,
			MaxMagicLinksPerHour: 5,
			MagicLinkWindow:      time.Hour,
			BcryptCost:           bcrypt.MinCost,
			EmailDispatchTimeout: 5 * time.Second,
		},
		JWT: config.JWTConfig{
			Issuer:    testIssuer,
			SecretKey: testSecret,
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func hashOf(pw string) *string {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s := string(b)
	return &s
}

func newUser(email string, status model.UserStatus, passwordHash *string) *model.CorporateUser {
	return &model.CorporateUser{
		TenantID:      testTenantID,
		CorpAccountID: testAccountID,
		UserID:        "user-" + email,
		Email:         email,
		Name:          "Test User",
		Role:          model.RoleBooker,
		Status:        status,
		PasswordHash:  passwordHash,
	}
}

func newAccount(status model.AccountStatus) *model.CorporateAccount {
	return &model.CorporateAccount{
		TenantID:      testTenantID,
		CorpAccountID: testAccountID,
		CompanyName:   "Acme Co",
		Status:        status,
	}
}

func newTokenRecord(token string, user *model.CorporateUser, purpose model.TokenPurpose) *model.MagicLinkToken {
	now := time.Now()
	return &model.MagicLinkToken{
		Token:           token,
		TenantID:        user.TenantID,
		Email:           user.Email,
		CorpAccountID:   user.CorpAccountID,
		UserID:          user.UserID,
		UserRole:        user.Role,
		UserName:        user.Name,
		CompanyName:     "Acme Co",
		Purpose:         purpose,
		CreatedAt:       now,
		ExpiresAt:       now.Add(time.Hour),
		TTLEpochSeconds: now.Add(time.Hour).Unix(),
	}
}

// signClaims は任意のクレームで JWT を作る (改ざん・期限切れのテスト用)
func signClaims(claims *model.SessionClaims, secret string) string {
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}
	return s
}

func claimsFor(user *model.CorporateUser, issuedAt time.Time, ttl time.Duration) *model.SessionClaims {
	return &model.SessionClaims{
		Type:          model.SessionTypeCorporate,
		TenantID:      user.TenantID,
		CorpAccountID: user.CorpAccountID,
		UserID:        user.UserID,
		Email:         user.Email,
		Role:          user.Role,
		UserName:      user.Name,
		CompanyName:   "Acme Co",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}
}

// appErrorCode はエラーが AppError ならその Code を返す
func appErrorCode(err error) string {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
