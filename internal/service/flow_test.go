package service_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"testing"
	"time"

	"go_corporate_auth/internal/model"
	"go_corporate_auth/internal/repository"
	"go_corporate_auth/internal/service"
	servicemocks "go_corporate_auth/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type authStack struct {
	db        *gorm.DB
	mailer    *servicemocks.Mailer
	tokens    service.TokenService
	passwords service.PasswordService
	sessions  service.SessionService
}

// newAuthStack は SQLite 上の実リポジトリでサービス一式を組み立てる
func newAuthStack(t *testing.T) *authStack {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := repository.NewDB("sqlite", dsn, logger)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, repository.AutoMigrate(db))

	cfg := newTestConfig()
	cfg.App.ExposeMagicLink = true

	userRepo := repository.NewGormCorporateUserRepository(db)
	accountRepo := repository.NewGormCorporateAccountRepository(db)
	tokenRepo := repository.NewGormMagicLinkTokenRepository(db)
	secrets := service.NewCachedSecretProvider(service.StaticSecretSource(testSecret))
	mailer := servicemocks.NewMailer(t)

	sessions := service.NewSessionService(userRepo, accountRepo, secrets, cfg, nil)
	tokens := service.NewTokenService(userRepo, accountRepo, tokenRepo, sessions, mailer, cfg, nil)
	passwords := service.NewPasswordService(userRepo, accountRepo, tokens, sessions, cfg, nil)
	t.Cleanup(tokens.Wait)

	return &authStack{db: db, mailer: mailer, tokens: tokens, passwords: passwords, sessions: sessions}
}

func (a *authStack) seed(t *testing.T, account *model.CorporateAccount, user *model.CorporateUser) {
	t.Helper()
	now := time.Now().UTC()
	account.CreatedAt, account.UpdatedAt = now, now
	user.CreatedAt, user.UpdatedAt = now, now
	require.NoError(t, a.db.Create(account).Error)
	require.NoError(t, a.db.Create(user).Error)
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/corporate/verify", u.Path)
	return u.Query().Get("token")
}

func TestOnboardingFlow(t *testing.T) {
	ctx := context.Background()
	stack := newAuthStack(t)

	account := newAccount(model.AccountStatusActive)
	alice := newUser("alice@acme.co", model.UserStatusPending, nil)
	stack.seed(t, account, alice)

	stack.mailer.On("Send", mock.Anything, "alice@acme.co", "Your sign-in link", mock.Anything, mock.Anything).Return(nil).Once()

	// 1. リンク発行 (大文字・空白は正規化される)
	issued, err := stack.tokens.Issue(ctx, testTenantID, "  Alice@ACME.co ", model.PurposeLogin)
	require.NoError(t, err)
	require.NotEmpty(t, issued.MagicLink)
	tok := tokenFromLink(t, issued.MagicLink)
	require.Len(t, tok, 64)
	stack.tokens.Wait()

	// 2. パスワード未設定なので needsPassword。トークンは消費されない。
	verified, err := stack.tokens.Verify(ctx, testTenantID, tok)
	require.NoError(t, err)
	assert.True(t, verified.NeedsPassword)
	assert.Equal(t, tok, verified.Token)
	assert.Equal(t, "Acme Co", verified.User.CompanyName)

	var stored model.MagicLinkToken
	require.NoError(t, stack.db.Where("token = ?", tok).First(&stored).Error)
	assert.False(t, stored.Used)

	// 3. パスワード設定
	session, err := stack.passwords.SetPassword(ctx, testTenantID, tok, "Str0ng!1", "Str0ng!1")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, int64(8*60*60), session.ExpiresIn)

	var user model.CorporateUser
	require.NoError(t, stack.db.Where("tenant_id = ? AND email = ?", testTenantID, "alice@acme.co").First(&user).Error)
	assert.Equal(t, model.UserStatusActive, user.Status)
	require.True(t, user.HasPassword())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte("Str0ng!1")))
	assert.NotNil(t, user.LastLogin)

	require.NoError(t, stack.db.Where("token = ?", tok).First(&stored).Error)
	assert.True(t, stored.Used)
	assert.NotNil(t, stored.UsedAt)

	// 4. 発行されたセッションは検証できる
	claims, err := stack.sessions.Verify(ctx, testTenantID, "Bearer "+session.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, claims.UserID)
	assert.Equal(t, model.SessionTypeCorporate, claims.Type)

	// 5. 同じリンクは二度と使えない
	_, err = stack.tokens.Verify(ctx, testTenantID, tok)
	assert.Equal(t, model.CodeAlreadyUsed, appErrorCode(err))
	_, err = stack.passwords.SetPassword(ctx, testTenantID, tok, "An0ther!!", "An0ther!!")
	assert.Equal(t, model.CodeAlreadyUsed, appErrorCode(err))

	// 6. 以後はパスワードでログインできる
	login, err := stack.passwords.Login(ctx, testTenantID, "alice@acme.co", "Str0ng!1")
	require.NoError(t, err)
	assert.Equal(t, "alice@acme.co", login.User.Email)

	// 7. 別テナントからは同じトークンもセッションも見えない
	_, err = stack.tokens.Verify(ctx, "tenant-other", tok)
	assert.Equal(t, model.CodeInvalidOrExpired, appErrorCode(err))
	_, err = stack.sessions.Verify(ctx, "tenant-other", "Bearer "+session.Token)
	assert.Equal(t, model.CodeSessionInvalid, appErrorCode(err))
}

func TestLoginRejectedForSuspendedAccount(t *testing.T) {
	ctx := context.Background()
	stack := newAuthStack(t)

	account := newAccount(model.AccountStatusSuspended)
	bob := newUser("bob@acme.co", model.UserStatusActive, hashOf("correctPass1!"))
	stack.seed(t, account, bob)

	_, err := stack.passwords.Login(ctx, testTenantID, "bob@acme.co", "correctPass1!")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
	assert.Equal(t, model.CodeInvalidCredential, appErrorCode(err))

	// 停止中のアカウントにはリンクも送らないが、応答は変わらない
	issued, err := stack.tokens.Issue(ctx, testTenantID, "bob@acme.co", model.PurposeLogin)
	require.NoError(t, err)
	assert.Equal(t, "If an account exists for this email, a login link has been sent.", issued.Message)
	assert.Empty(t, issued.MagicLink)

	var count int64
	require.NoError(t, stack.db.Model(&model.MagicLinkToken{}).Count(&count).Error)
	assert.Zero(t, count)
	stack.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSetPasswordRejectsExpiredToken(t *testing.T) {
	ctx := context.Background()
	stack := newAuthStack(t)

	carol := newUser("carol@acme.co", model.UserStatusPending, nil)
	stack.seed(t, newAccount(model.AccountStatusActive), carol)

	testCases := []struct {
		name  string
		token string
		used  bool
	}{
		{name: "未使用", token: strings.Repeat("a", 64)},
		{name: "使用済み", token: strings.Repeat("b", 64), used: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := newTokenRecord(tc.token, carol, model.PurposeLogin)
			rec.CreatedAt = time.Now().Add(-6 * 24 * time.Hour)
			rec.ExpiresAt = time.Now().Add(-time.Hour)
			rec.TTLEpochSeconds = rec.ExpiresAt.Unix()
			rec.Used = tc.used
			require.NoError(t, stack.db.Create(rec).Error)

			_, err := stack.passwords.SetPassword(ctx, testTenantID, tc.token, "Str0ng!1", "Str0ng!1")
			assert.Equal(t, model.CodeExpired, appErrorCode(err))

			var user model.CorporateUser
			require.NoError(t, stack.db.Where("tenant_id = ? AND email = ?", testTenantID, "carol@acme.co").First(&user).Error)
			assert.False(t, user.HasPassword())
			assert.Equal(t, model.UserStatusPending, user.Status)
		})
	}
}
