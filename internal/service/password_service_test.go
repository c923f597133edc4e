package service_test

import (
	"context"
	"errors"
	"testing"

	"go_corporate_auth/internal/config"
	"go_corporate_auth/internal/model"
	"go_corporate_auth/internal/password"
	"go_corporate_auth/internal/repository/mocks"
	"go_corporate_auth/internal/service"
	servicemocks "go_corporate_auth/internal/service/mocks"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type PasswordServiceTestSuite struct {
	suite.Suite

	mockUserRepo    *mocks.CorporateUserRepository
	mockAccountRepo *mocks.CorporateAccountRepository
	mockTokens      *servicemocks.TokenService
	mockSessions    *servicemocks.SessionService
	cfg             *config.Config
	passwordService service.PasswordService
}

func (s *PasswordServiceTestSuite) SetupTest() {
	s.mockUserRepo = new(mocks.CorporateUserRepository)
	s.mockAccountRepo = new(mocks.CorporateAccountRepository)
	s.mockTokens = new(servicemocks.TokenService)
	s.mockSessions = new(servicemocks.SessionService)
	s.cfg = newTestConfig()
	s.passwordService = service.NewPasswordService(s.mockUserRepo, s.mockAccountRepo, s.mockTokens, s.mockSessions, s.cfg, nil)
}

func (s *PasswordServiceTestSuite) assertMocks() {
	s.mockUserRepo.AssertExpectations(s.T())
	s.mockAccountRepo.AssertExpectations(s.T())
	s.mockTokens.AssertExpectations(s.T())
	s.mockSessions.AssertExpectations(s.T())
}

func TestPasswordService(t *testing.T) {
	suite.Run(t, new(PasswordServiceTestSuite))
}

func (s *PasswordServiceTestSuite) TestLogin() {
	const email = "bob@acme.co"
	const correct = "correctPass1!"
	hash := hashOf(correct)

	testCases := []struct {
		name       string
		password   string
		setupMocks func()
		wantCode   string
		wantMsg    string
	}{
		{
			name:     "正常系: active ユーザー + active アカウント + 正しいパスワード",
			password: correct,
			setupMocks: func() {
				user := newUser(email, model.UserStatusActive, hash)
				s.mockUserRepo.On("FindByEmail", mock.Anything, testTenantID, email).Return(user, nil).Once()
				s.mockAccountRepo.On("FindByID", mock.Anything, testTenantID, testAccountID).Return(newAccount(model.AccountStatusActive), nil).Once()
				s.mockUserRepo.On("UpdateLastLogin", mock.Anything, testTenantID, testAccountID, user.UserID, mock.Anything).Return(nil).Once()
				s.mockSessions.On("Issue", mock.Anything, user, mock.Anything).Return(&service.SessionResult{Token: "jwt", ExpiresIn: 28800}, nil).Once()
			},
		},
		{
			name:     "異常系: 存在しないメールアドレス",
			password: correct,
			setupMocks: func() {
				s.mockUserRepo.On("FindByEmail", mock.Anything, testTenantID, email).Return(nil, model.ErrNotFound).Once()
			},
			wantCode: model.CodeInvalidCredential,
			wantMsg:  service.MsgInvalidCredentials,
		},
		{
			name:     "異常系: パスワード未設定は専用メッセージ",
			password: correct,
			setupMocks: func() {
				s.mockUserRepo.On("FindByEmail", mock.Anything, testTenantID, email).Return(newUser(email, model.UserStatusPending, nil), nil).Once()
			},
			wantCode: model.CodePasswordNotSet,
			wantMsg:  service.MsgPasswordNotSet,
		},
		{
			name:     "異常系: パスワード違い",
			password: "wrongPass1!",
			setupMocks: func() {
				s.mockUserRepo.On("FindByEmail", mock.Anything, testTenantID, email).Return(newUser(email, model.UserStatusActive, hash), nil).Once()
				s.mockAccountRepo.On("FindByID", mock.Anything, testTenantID, testAccountID).Return(newAccount(model.AccountStatusActive), nil).Once()
			},
			wantCode: model.CodeInvalidCredential,
			wantMsg:  service.MsgInvalidCredentials,
		},
		{
			name:     "異常系: 停止中のユーザー",
			password: correct,
			setupMocks: func() {
				s.mockUserRepo.On("FindByEmail", mock.Anything, testTenantID, email).Return(newUser(email, model.UserStatusSuspended, hash), nil).Once()
				s.mockAccountRepo.On("FindByID", mock.Anything, testTenantID, testAccountID).Return(newAccount(model.AccountStatusActive), nil).Once()
			},
			wantCode: model.CodeInvalidCredential,
			wantMsg:  service.MsgInvalidCredentials,
		},
		{
			name:     "異常系: 法人アカウントが停止中なら正しいパスワードでも失敗",
			password: correct,
			setupMocks: func() {
				s.mockUserRepo.On("FindByEmail", mock.Anything, testTenantID, email).Return(newUser(email, model.UserStatusActive, hash), nil).Once()
				s.mockAccountRepo.On("FindByID", mock.Anything, testTenantID, testAccountID).Return(newAccount(model.AccountStatusSuspended), nil).Once()
			},
			wantCode: model.CodeInvalidCredential,
			wantMsg:  service.MsgInvalidCredentials,
		},
		{
			name:     "異常系: DB エラーは 500",
			password: correct,
			setupMocks: func() {
				s.mockUserRepo.On("FindByEmail", mock.Anything, testTenantID, email).Return(nil, errors.New("connection reset")).Once()
			},
			wantCode: model.CodeInternal,
			wantMsg:  service.MsgInternal,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			tc.setupMocks()

			res, err := s.passwordService.Login(context.Background(), testTenantID, email, tc.password)

			if tc.wantCode == "" {
				s.Require().NoError(err)
				s.Equal("jwt", res.Token)
			} else {
				s.Nil(res)
				var appErr *model.AppError
				s.Require().ErrorAs(err, &appErr)
				s.Equal(tc.wantCode, appErr.Code)
				s.Equal(tc.wantMsg, appErr.Message)
			}
			s.assertMocks()
		})
	}
}

func (s *PasswordServiceTestSuite) TestSetPassword() {
	const tok = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	const email = "alice@acme.co"
	const strong = "Str0ng!1"

	testCases := []struct {
		name       string
		password   string
		confirm    string
		setupMocks func()
		check      func(res *service.SessionResult, err error)
	}{
		{
			name:       "異常系: 8文字未満",
			password:   "short1!",
			confirm:    "short1!",
			setupMocks: func() {},
			check: func(res *service.SessionResult, err error) {
				s.ErrorIs(err, model.ErrInvalidInput)
				var appErr *model.AppError
				s.Require().ErrorAs(err, &appErr)
				s.Equal(password.ErrTooShort.Error(), appErr.Message)
				s.Equal("password", appErr.Field)
			},
		},
		{
			name:       "異常系: 大文字なし",
			password:   "alllowercase1!",
			confirm:    "alllowercase1!",
			setupMocks: func() {},
			check: func(res *service.SessionResult, err error) {
				var appErr *model.AppError
				s.Require().ErrorAs(err, &appErr)
				s.Equal(password.ErrMissingUpper.Error(), appErr.Message)
			},
		},
		{
			name:       "異常系: 小文字なし",
			password:   "ALLUPPERCASE1!",
			confirm:    "ALLUPPERCASE1!",
			setupMocks: func() {},
			check: func(res *service.SessionResult, err error) {
				s.ErrorIs(err, model.ErrInvalidInput)
			},
		},
		{
			name:       "異常系: 数字なし",
			password:   "NoDigitsHere!",
			confirm:    "NoDigitsHere!",
			setupMocks: func() {},
			check: func(res *service.SessionResult, err error) {
				s.ErrorIs(err, model.ErrInvalidInput)
			},
		},
		{
			name:       "異常系: 記号なし",
			password:   "NoSymbols123",
			confirm:    "NoSymbols123",
			setupMocks: func() {},
			check: func(res *service.SessionResult, err error) {
				s.ErrorIs(err, model.ErrInvalidInput)
			},
		},
		{
			name:       "異常系: 確認用パスワードが一致しない",
			password:   strong,
			confirm:    "Str0ng!2",
			setupMocks: func() {},
			check: func(res *service.SessionResult, err error) {
				var appErr *model.AppError
				s.Require().ErrorAs(err, &appErr)
				s.Equal("confirmPassword", appErr.Field)
				s.ErrorIs(err, model.ErrInvalidInput)
			},
		},
		{
			name:     "異常系: 使用済みトークン",
			password: strong,
			confirm:  strong,
			setupMocks: func() {
				s.mockTokens.On("Validate", mock.Anything, testTenantID, tok).
					Return(nil, model.NewAppError(model.CodeAlreadyUsed, service.MsgAlreadyUsed, "token", model.ErrUnauthorized)).Once()
			},
			check: func(res *service.SessionResult, err error) {
				s.Equal(model.CodeAlreadyUsed, appErrorCode(err))
			},
		},
		{
			name:     "正常系: pending ユーザーが active になりセッションが発行される",
			password: strong,
			confirm:  strong,
			setupMocks: func() {
				user := newUser(email, model.UserStatusPending, nil)
				s.mockTokens.On("Validate", mock.Anything, testTenantID, tok).Return(newTokenRecord(tok, user, model.PurposeLogin), nil).Once()
				s.mockUserRepo.On("FindByID", mock.Anything, testTenantID, testAccountID, user.UserID).Return(user, nil).Once()
				s.mockAccountRepo.On("FindByID", mock.Anything, testTenantID, testAccountID).Return(newAccount(model.AccountStatusActive), nil).Once()
				s.mockTokens.On("Consume", mock.Anything, testTenantID, tok).Return(nil).Once()
				s.mockUserRepo.On("SetPassword", mock.Anything, testTenantID, testAccountID, user.UserID,
					mock.MatchedBy(func(hash string) bool {
						return bcrypt.CompareHashAndPassword([]byte(hash), []byte(strong)) == nil
					}), mock.Anything).Return(nil).Once()
				s.mockSessions.On("Issue", mock.Anything, mock.MatchedBy(func(u *model.CorporateUser) bool {
					return u.Status == model.UserStatusActive && u.HasPassword() && u.PasswordSetAt != nil
				}), mock.Anything).Return(&service.SessionResult{Token: "jwt"}, nil).Once()
			},
			check: func(res *service.SessionResult, err error) {
				s.Require().NoError(err)
				s.Equal("jwt", res.Token)
			},
		},
		{
			name:     "異常系: 同時リクエストで消費に負けたらパスワードは保存しない",
			password: strong,
			confirm:  strong,
			setupMocks: func() {
				user := newUser(email, model.UserStatusPending, nil)
				s.mockTokens.On("Validate", mock.Anything, testTenantID, tok).Return(newTokenRecord(tok, user, model.PurposeLogin), nil).Once()
				s.mockUserRepo.On("FindByID", mock.Anything, testTenantID, testAccountID, user.UserID).Return(user, nil).Once()
				s.mockAccountRepo.On("FindByID", mock.Anything, testTenantID, testAccountID).Return(newAccount(model.AccountStatusActive), nil).Once()
				s.mockTokens.On("Consume", mock.Anything, testTenantID, tok).
					Return(model.NewAppError(model.CodeAlreadyUsed, service.MsgAlreadyUsed, "token", model.ErrUnauthorized)).Once()
			},
			check: func(res *service.SessionResult, err error) {
				s.Equal(model.CodeAlreadyUsed, appErrorCode(err))
				s.mockUserRepo.AssertNotCalled(s.T(), "SetPassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name:     "正常系: suspended ユーザーもパスワード設定で active に戻る",
			password: strong,
			confirm:  strong,
			setupMocks: func() {
				user := newUser(email, model.UserStatusSuspended, hashOf("Old0ld!!"))
				s.mockTokens.On("Validate", mock.Anything, testTenantID, tok).Return(newTokenRecord(tok, user, model.PurposePasswordReset), nil).Once()
				s.mockUserRepo.On("FindByID", mock.Anything, testTenantID, testAccountID, user.UserID).Return(user, nil).Once()
				s.mockAccountRepo.On("FindByID", mock.Anything, testTenantID, testAccountID).Return(newAccount(model.AccountStatusActive), nil).Once()
				s.mockTokens.On("Consume", mock.Anything, testTenantID, tok).Return(nil).Once()
				s.mockUserRepo.On("SetPassword", mock.Anything, testTenantID, testAccountID, user.UserID, mock.Anything, mock.Anything).Return(nil).Once()
				s.mockSessions.On("Issue", mock.Anything, mock.MatchedBy(func(u *model.CorporateUser) bool {
					return u.Status == model.UserStatusActive
				}), mock.Anything).Return(&service.SessionResult{Token: "jwt"}, nil).Once()
			},
			check: func(res *service.SessionResult, err error) {
				s.Require().NoError(err)
				s.Equal("jwt", res.Token)
			},
		},
		{
			name:     "異常系: 期限切れトークン",
			password: strong,
			confirm:  strong,
			setupMocks: func() {
				s.mockTokens.On("Validate", mock.Anything, testTenantID, tok).
					Return(nil, model.NewAppError(model.CodeExpired, service.MsgExpired, "token", model.ErrUnauthorized)).Once()
			},
			check: func(res *service.SessionResult, err error) {
				s.Equal(model.CodeExpired, appErrorCode(err))
				s.mockUserRepo.AssertNotCalled(s.T(), "SetPassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name:     "異常系: 法人アカウントが停止中",
			password: strong,
			confirm:  strong,
			setupMocks: func() {
				user := newUser(email, model.UserStatusActive, nil)
				s.mockTokens.On("Validate", mock.Anything, testTenantID, tok).Return(newTokenRecord(tok, user, model.PurposeLogin), nil).Once()
				s.mockUserRepo.On("FindByID", mock.Anything, testTenantID, testAccountID, user.UserID).Return(user, nil).Once()
				s.mockAccountRepo.On("FindByID", mock.Anything, testTenantID, testAccountID).Return(newAccount(model.AccountStatusClosed), nil).Once()
			},
			check: func(res *service.SessionResult, err error) {
				s.Equal(model.CodeAccountInactive, appErrorCode(err))
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			tc.setupMocks()

			res, err := s.passwordService.SetPassword(context.Background(), testTenantID, tok, tc.password, tc.confirm)

			tc.check(res, err)
			if err != nil {
				s.Nil(res)
			}
			s.assertMocks()
		})
	}
}

func (s *PasswordServiceTestSuite) TestRequestReset() {
	want := &service.IssueResult{Message: "If an account exists for this email, a password reset link has been sent."}
	s.mockTokens.On("Issue", mock.Anything, testTenantID, "alice@acme.co", model.PurposePasswordReset).Return(want, nil).Once()

	res, err := s.passwordService.RequestReset(context.Background(), testTenantID, "alice@acme.co")

	s.NoError(err)
	s.Equal(want, res)
	s.assertMocks()
}
