//go:generate mockery --name PasswordService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go_corporate_auth/internal/config"
	"go_corporate_auth/internal/middleware"
	"go_corporate_auth/internal/model"
	"go_corporate_auth/internal/password"
	"go_corporate_auth/internal/repository"
)

// PasswordService はパスワードログイン、初回設定 / 再設定を扱う
type PasswordService interface {
	Login(ctx context.Context, tenantID, email, plain string) (*SessionResult, error)
	SetPassword(ctx context.Context, tenantID, token, plain, confirm string) (*SessionResult, error)
	RequestReset(ctx context.Context, tenantID, email string) (*IssueResult, error)
}

type passwordService struct {
	userRepo    repository.CorporateUserRepository
	accountRepo repository.CorporateAccountRepository
	tokens      TokenService
	sessions    SessionService
	hasher      password.Hasher
	metrics     *Metrics

	// 存在しないユーザーでも bcrypt の比較を行い、応答時間の差を小さくする
	dummyOnce sync.Once
	dummyHash string
}

func NewPasswordService(
	userRepo repository.CorporateUserRepository,
	accountRepo repository.CorporateAccountRepository,
	tokens TokenService,
	sessions SessionService,
	cfg *config.Config,
	metrics *Metrics,
) PasswordService {
	return &passwordService{
		userRepo:    userRepo,
		accountRepo: accountRepo,
		tokens:      tokens,
		sessions:    sessions,
		hasher:      password.NewHasher(cfg.Auth.BcryptCost),
		metrics:     metrics,
	}
}

func (s *passwordService) Login(ctx context.Context, tenantID, email, plain string) (res *SessionResult, err error) {
	start := time.Now()
	defer func() { s.metrics.observe(OpLogin, outcomeOf(err), start) }()

	email = NormalizeEmail(email)
	logger := middleware.GetLogger(ctx).With("tenant_id", tenantID, "email", email)

	user, err := s.userRepo.FindByEmail(ctx, tenantID, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.burnCompare(plain)
			logger.Warn("Login failed: user not found")
			return nil, errInvalidCredentials()
		}
		logger.Error("Login failed: db error on FindByEmail", "error", err)
		return nil, errInternal(err)
	}
	logger = logger.With("user_id", user.UserID)

	if !user.HasPassword() {
		logger.Warn("Login failed: password not set")
		return nil, model.NewAppError(model.CodePasswordNotSet, MsgPasswordNotSet, "", model.ErrUnauthorized)
	}

	account, err := s.accountRepo.FindByID(ctx, tenantID, user.CorpAccountID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		logger.Error("Login failed: db error on account lookup", "error", err)
		return nil, errInternal(err)
	}
	if !user.IsActive() || account == nil || !account.IsActive() {
		s.burnCompare(plain)
		logger.Warn("Login failed: user or account not active", "user_status", user.Status)
		return nil, errInvalidCredentials()
	}

	ok, err := s.hasher.Compare(*user.PasswordHash, plain)
	if err != nil {
		logger.Error("Login failed: stored hash unusable", "error", err)
		return nil, errInternal(err)
	}
	if !ok {
		logger.Warn("Login failed: password mismatch")
		return nil, errInvalidCredentials()
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, tenantID, user.CorpAccountID, user.UserID, now); err != nil {
		logger.Error("Failed to update last login", "error", err)
		return nil, errInternal(err)
	}
	user.LastLogin = &now

	res, err = s.sessions.Issue(ctx, user, account)
	if err != nil {
		return nil, err
	}
	logger.Info("Login successful")
	return res, nil
}

func (s *passwordService) SetPassword(ctx context.Context, tenantID, tokenStr, plain, confirm string) (res *SessionResult, err error) {
	start := time.Now()
	defer func() { s.metrics.observe(OpSetPassword, outcomeOf(err), start) }()

	logger := middleware.GetLogger(ctx).With("tenant_id", tenantID, "token_prefix", model.TokenPrefix(tokenStr))

	// 1. ポリシーと確認用パスワード
	if err := password.ValidatePair(plain, confirm); err != nil {
		field := "password"
		if errors.Is(err, password.ErrMismatch) {
			field = "confirmPassword"
		}
		logger.Info("Set password rejected by policy", "reason", err.Error())
		return nil, model.NewAppError(model.CodeValidation, err.Error(), field, model.ErrInvalidInput)
	}

	// 2. トークン (verify と同じチェック)
	token, err := s.tokens.Validate(ctx, tenantID, tokenStr)
	if err != nil {
		return nil, err
	}
	logger = logger.With("email", token.Email, "user_id", token.UserID)

	// 3. 法人アカウントの状態。ユーザーは以前の状態に関係なく active になる。
	user, account, err := loadTokenOwner(ctx, s.userRepo, s.accountRepo, token, true)
	if err != nil {
		return nil, err
	}
	if !user.CanUseLoginLink() {
		logger.Info("Reactivating user by password setup", "prior_status", user.Status)
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		return nil, errInternal(err)
	}

	// 4. 先にトークンを消費する。同時リクエストの負けた側はここで ALREADY_USED になる。
	if err := s.tokens.Consume(ctx, tenantID, tokenStr); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.userRepo.SetPassword(ctx, tenantID, user.CorpAccountID, user.UserID, hash, now); err != nil {
		logger.Error("Failed to persist password after consuming token", "error", err)
		return nil, errInternal(err)
	}
	user.PasswordHash = &hash
	user.PasswordSetAt = &now
	user.LastLogin = &now
	user.Status = model.UserStatusActive

	res, err = s.sessions.Issue(ctx, user, account)
	if err != nil {
		return nil, err
	}
	logger.Info("Password set successfully", "purpose", token.Purpose)
	return res, nil
}

func (s *passwordService) RequestReset(ctx context.Context, tenantID, email string) (*IssueResult, error) {
	return s.tokens.Issue(ctx, tenantID, email, model.PurposePasswordReset)
}

func (s *passwordService) burnCompare(plain string) {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("dummy-password-for-timing")
		if err == nil {
			s.dummyHash = h
		}
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Compare(s.dummyHash, plain)
	}
}
