//go:generate mockery --name TokenService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"go_corporate_auth/internal/config"
	"go_corporate_auth/internal/middleware"
	"go_corporate_auth/internal/model"
	"go_corporate_auth/internal/repository"
)

// tokenBytes はマジックリンクトークンの乱数バイト数 (hex で 64 文字)
const tokenBytes = 32

// IssueResult は magic-link / forgot-password の応答。
// 内部でどの分岐を通っても同じ内容になる (MagicLink は非本番で公開設定のときだけ)。
type IssueResult struct {
	Message   string
	MagicLink string
}

// VerifyResult は verify の結果。NeedsPassword のときは Session が nil でトークンは未消費。
type VerifyResult struct {
	NeedsPassword bool
	Token         string
	User          model.UserResponse
	Session       *SessionResult
}

// TokenService はマジックリンクトークンの発行・検証・消費を行う。トークンを更新するのはこのサービスだけ。
type TokenService interface {
	Issue(ctx context.Context, tenantID, email string, purpose model.TokenPurpose) (*IssueResult, error)
	Verify(ctx context.Context, tenantID, token string) (*VerifyResult, error)
	// Validate は未使用かつ期限内のトークンを返す
	Validate(ctx context.Context, tenantID, token string) (*model.MagicLinkToken, error)
	// Consume は used=false のときだけ used=true にする。既に使用済みなら ALREADY_USED。
	Consume(ctx context.Context, tenantID, token string) error
	// Wait は送信中のメールがすべて終わるまで待つ
	Wait()
}

type tokenService struct {
	userRepo    repository.CorporateUserRepository
	accountRepo repository.CorporateAccountRepository
	tokenRepo   repository.MagicLinkTokenRepository
	sessions    SessionService
	mailer      Mailer
	cfg         *config.Config
	metrics     *Metrics

	inflight sync.WaitGroup
}

func NewTokenService(
	userRepo repository.CorporateUserRepository,
	accountRepo repository.CorporateAccountRepository,
	tokenRepo repository.MagicLinkTokenRepository,
	sessions SessionService,
	mailer Mailer,
	cfg *config.Config,
	metrics *Metrics,
) TokenService {
	return &tokenService{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		tokenRepo:   tokenRepo,
		sessions:    sessions,
		mailer:      mailer,
		cfg:         cfg,
		metrics:     metrics,
	}
}

// NormalizeEmail は比較・保存用にメールアドレスを正規化する
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func issueMessage(purpose model.TokenPurpose) string {
	if purpose == model.PurposePasswordReset {
		return "If an account exists for this email, a password reset link has been sent."
	}
	return "If an account exists for this email, a login link has been sent."
}

func (s *tokenService) Issue(ctx context.Context, tenantID, email string, purpose model.TokenPurpose) (*IssueResult, error) {
	start := time.Now()
	op := OpIssueMagicLink
	if purpose == model.PurposePasswordReset {
		op = OpRequestReset
	}
	if !purpose.Valid() {
		return nil, errInternal(errors.New("unknown token purpose: " + string(purpose)))
	}

	email = NormalizeEmail(email)
	logger := middleware.GetLogger(ctx).With("tenant_id", tenantID, "email", email, "purpose", purpose)
	result := &IssueResult{Message: issueMessage(purpose)}

	// 1. 発行数の上限 (スライディングウィンドウ)
	issued, err := s.tokenRepo.CountIssuedSince(ctx, tenantID, email, start.Add(-s.cfg.Auth.MagicLinkWindow))
	if err != nil {
		logger.Error("Failed to count issued magic links", "error", err)
		s.metrics.observe(op, OutcomeError, start)
		return nil, errInternal(err)
	}
	if issued >= int64(s.cfg.Auth.MaxMagicLinksPerHour) {
		logger.Warn("Magic link rate limit reached", "issued_in_window", issued, "limit", s.cfg.Auth.MaxMagicLinksPerHour)
		s.metrics.observe(op, OutcomeRateLimited, start)
		return result, nil
	}

	// 2. 対象ユーザーと法人アカウントの確認。ここで弾いても応答は変えない。
	user, account, err := s.findIssueTarget(ctx, logger, tenantID, email)
	if err != nil {
		s.metrics.observe(op, OutcomeError, start)
		return nil, errInternal(err)
	}
	if user == nil {
		s.metrics.observe(op, OutcomeSuppressed, start)
		return result, nil
	}

	// 3. トークン生成と保存
	tokenStr, err := generateToken()
	if err != nil {
		logger.Error("Failed to generate random bytes for token", "error", err)
		s.metrics.observe(op, OutcomeError, start)
		return nil, errInternal(err)
	}
	expiresAt := start.Add(s.cfg.Auth.MagicLinkTTL)
	record := &model.MagicLinkToken{
		Token:           tokenStr,
		TenantID:        tenantID,
		Email:           email,
		CorpAccountID:   user.CorpAccountID,
		UserID:          user.UserID,
		UserRole:        user.Role,
		UserName:        user.Name,
		CompanyName:     account.CompanyName,
		Purpose:         purpose,
		CreatedAt:       start,
		ExpiresAt:       expiresAt,
		TTLEpochSeconds: expiresAt.Unix(),
	}
	if err := s.tokenRepo.Create(ctx, record); err != nil {
		logger.Error("Failed to save magic link token", "error", err, "token_prefix", model.TokenPrefix(tokenStr))
		s.metrics.observe(op, OutcomeError, start)
		return nil, errInternal(err)
	}

	// 4. メール送信はレスポンスを待たせない
	link := s.buildLink(tokenStr)
	s.dispatchEmail(ctx, user, account, purpose, link)

	logger.Info("Magic link issued",
		"user_id", user.UserID,
		"token_prefix", model.TokenPrefix(tokenStr),
		"expires_at", expiresAt,
	)
	if s.cfg.App.ExposeMagicLink && !s.cfg.IsProduction() {
		result.MagicLink = link
	}
	s.metrics.observe(op, OutcomeSuccess, start)
	return result, nil
}

// findIssueTarget はリンクを送ってよいユーザーとアカウントを返す。対象外なら (nil, nil, nil)。
func (s *tokenService) findIssueTarget(ctx context.Context, logger *slog.Logger, tenantID, email string) (*model.CorporateUser, *model.CorporateAccount, error) {
	user, err := s.userRepo.FindByEmail(ctx, tenantID, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Info("Magic link requested for unknown email")
			return nil, nil, nil
		}
		logger.Error("Failed to find corporate user", "error", err)
		return nil, nil, err
	}
	if !user.CanUseLoginLink() {
		logger.Info("Magic link requested for ineligible user", "user_id", user.UserID, "status", user.Status)
		return nil, nil, nil
	}

	account, err := s.accountRepo.FindByID(ctx, tenantID, user.CorpAccountID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Corporate account missing for user", "user_id", user.UserID, "corp_account_id", user.CorpAccountID)
			return nil, nil, nil
		}
		logger.Error("Failed to find corporate account", "error", err)
		return nil, nil, err
	}
	if !account.IsActive() {
		logger.Info("Magic link requested for inactive account", "corp_account_id", account.CorpAccountID, "status", account.Status)
		return nil, nil, nil
	}
	return user, account, nil
}

func (s *tokenService) buildLink(token string) string {
	return strings.TrimRight(s.cfg.App.FrontendURL, "/") + "/corporate/verify?token=" + url.QueryEscape(token)
}

// dispatchEmail はリクエストのキャンセルから切り離したゴルーチンでメールを送る。失敗はログに残すだけ。
func (s *tokenService) dispatchEmail(ctx context.Context, user *model.CorporateUser, account *model.CorporateAccount, purpose model.TokenPurpose, link string) {
	logger := middleware.GetLogger(ctx).With("tenant_id", user.TenantID, "email", user.Email)

	msg, err := renderTokenEmail(purpose, emailTemplateData{
		UserName:    user.Name,
		CompanyName: account.CompanyName,
		Link:        link,
		ExpiresIn:   humanizeTTL(s.cfg.Auth.MagicLinkTTL),
		AppName:     s.cfg.App.Name,
	})
	if err != nil {
		logger.Error("Failed to render magic link email", "error", err)
		return
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Auth.EmailDispatchTimeout)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer cancel()
		if err := s.mailer.Send(sendCtx, user.Email, msg.Subject, msg.HTML, msg.Text); err != nil {
			logger.Error("Failed to send magic link email", "error", err)
		}
	}()
}

func (s *tokenService) Wait() {
	s.inflight.Wait()
}

func (s *tokenService) Validate(ctx context.Context, tenantID, tokenStr string) (*model.MagicLinkToken, error) {
	logger := middleware.GetLogger(ctx).With("tenant_id", tenantID, "token_prefix", model.TokenPrefix(tokenStr))

	token, err := s.tokenRepo.FindByToken(ctx, tenantID, tokenStr)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Magic link token not found")
			return nil, errInvalidOrExpired()
		}
		logger.Error("Failed to load magic link token", "error", err)
		return nil, errInternal(err)
	}
	// 期限切れは used に関係なく EXPIRED
	if token.IsExpired(time.Now()) {
		logger.Warn("Magic link token expired", "email", token.Email, "expires_at", token.ExpiresAt, "used", token.Used)
		return nil, model.NewAppError(model.CodeExpired, MsgExpired, "token", model.ErrUnauthorized)
	}
	if token.Used {
		logger.Warn("Magic link token already used", "email", token.Email)
		return nil, errAlreadyUsed()
	}
	return token, nil
}

func (s *tokenService) Consume(ctx context.Context, tenantID, tokenStr string) error {
	logger := middleware.GetLogger(ctx).With("tenant_id", tenantID, "token_prefix", model.TokenPrefix(tokenStr))

	if err := s.tokenRepo.MarkUsed(ctx, tenantID, tokenStr, time.Now()); err != nil {
		if errors.Is(err, model.ErrConditionFailed) {
			logger.Warn("Magic link token consumed concurrently")
			return errAlreadyUsed()
		}
		logger.Error("Failed to consume magic link token", "error", err)
		return errInternal(err)
	}
	return nil
}

func (s *tokenService) Verify(ctx context.Context, tenantID, tokenStr string) (res *VerifyResult, err error) {
	start := time.Now()
	defer func() {
		outcome := outcomeOf(err)
		if err == nil && res.NeedsPassword {
			outcome = OutcomeNeedsPassword
		}
		s.metrics.observe(OpVerifyToken, outcome, start)
	}()

	token, err := s.Validate(ctx, tenantID, tokenStr)
	if err != nil {
		return nil, err
	}
	logger := middleware.GetLogger(ctx).With(
		"tenant_id", tenantID,
		"email", token.Email,
		"token_prefix", model.TokenPrefix(tokenStr),
	)

	user, account, err := loadLinkEligibleOwner(ctx, s.userRepo, s.accountRepo, token)
	if err != nil {
		return nil, err
	}

	needsSetup := !user.HasPassword() ||
		(s.cfg.Auth.ResetTokenNeedsSetup && token.Purpose == model.PurposePasswordReset)
	if needsSetup {
		// パスワード設定画面で同じトークンを使うので消費しない
		logger.Info("Magic link verified, password setup required", "user_id", user.UserID)
		return &VerifyResult{
			NeedsPassword: true,
			Token:         tokenStr,
			User:          model.NewUserResponse(user, account),
		}, nil
	}

	if !user.IsActive() {
		logger.Warn("Verify rejected: user not active", "user_id", user.UserID, "status", user.Status)
		return nil, errAccountInactive()
	}

	if err := s.Consume(ctx, tenantID, tokenStr); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.TenantID, user.CorpAccountID, user.UserID, now); err != nil {
		logger.Error("Failed to update last login", "error", err, "user_id", user.UserID)
		return nil, errInternal(err)
	}
	user.LastLogin = &now

	session, err := s.sessions.Issue(ctx, user, account)
	if err != nil {
		return nil, err
	}

	logger.Info("Magic link login successful", "user_id", user.UserID)
	return &VerifyResult{
		Token:   session.Token,
		User:    session.User,
		Session: session,
	}, nil
}

// loadLinkEligibleOwner は verify 用の資格チェック。
// ユーザーが suspended / removed、またはアカウントが active でなければ 401。
func loadLinkEligibleOwner(ctx context.Context, userRepo repository.CorporateUserRepository, accountRepo repository.CorporateAccountRepository, token *model.MagicLinkToken) (*model.CorporateUser, *model.CorporateAccount, error) {
	return loadTokenOwner(ctx, userRepo, accountRepo, token, false)
}

// loadTokenOwner はトークンの持ち主と法人アカウントを読む。
// activating が true (パスワード設定) のときはユーザーの状態を問わない。設定完了で active に戻るため。
func loadTokenOwner(ctx context.Context, userRepo repository.CorporateUserRepository, accountRepo repository.CorporateAccountRepository, token *model.MagicLinkToken, activating bool) (*model.CorporateUser, *model.CorporateAccount, error) {
	logger := middleware.GetLogger(ctx).With("tenant_id", token.TenantID, "email", token.Email, "token_prefix", model.TokenPrefix(token.Token))

	user, err := userRepo.FindByID(ctx, token.TenantID, token.CorpAccountID, token.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("User for magic link token no longer exists", "user_id", token.UserID)
			return nil, nil, errInvalidOrExpired()
		}
		logger.Error("Failed to load user for magic link token", "error", err)
		return nil, nil, errInternal(err)
	}
	if !user.CanUseLoginLink() {
		logger.Warn("Magic link rejected: user not eligible", "user_id", user.UserID, "status", user.Status)
		return nil, nil, errAccountInactive()
	}

	account, err := accountRepo.FindByID(ctx, token.TenantID, token.CorpAccountID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Account for magic link token no longer exists", "corp_account_id", token.CorpAccountID)
			return nil, nil, errAccountInactive()
		}
		logger.Error("Failed to load account for magic link token", "error", err)
		return nil, nil, errInternal(err)
	}
	if !account.IsActive() {
		logger.Warn("Magic link rejected: account not active", "corp_account_id", account.CorpAccountID, "status", account.Status)
		return nil, nil, errAccountInactive()
	}
	return user, account, nil
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
