package handlers

import (
	"net/http"

	"go_corporate_auth/internal/middleware"
	"go_corporate_auth/internal/model"
	"go_corporate_auth/internal/service"
	"go_corporate_auth/internal/webutil"
)

// AuthHandler は /corporate/auth 配下のエンドポイントです
type AuthHandler struct {
	tokens    service.TokenService
	passwords service.PasswordService
}

func NewAuthHandler(tokens service.TokenService, passwords service.PasswordService) *AuthHandler {
	return &AuthHandler{tokens: tokens, passwords: passwords}
}

// RequestMagicLink はログインリンクを発行します。アカウントの有無に関わらず同じ応答を返す。
func (h *AuthHandler) RequestMagicLink(w http.ResponseWriter, r *http.Request) {
	h.issue(w, r, model.PurposeLogin)
}

// ForgotPassword はパスワード再設定用のリンクを発行します
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	h.issue(w, r, model.PurposePasswordReset)
}

func (h *AuthHandler) issue(w http.ResponseWriter, r *http.Request, purpose model.TokenPurpose) {
	logger := middleware.GetLogger(r.Context())

	tenantID, err := middleware.GetTenantID(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.MagicLinkRequest
	if err := webutil.DecodeAndValidate(w, r, logger, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var res *service.IssueResult
	if purpose == model.PurposePasswordReset {
		res, err = h.passwords.RequestReset(r.Context(), tenantID, req.Email)
	} else {
		res, err = h.tokens.Issue(r.Context(), tenantID, req.Email, purpose)
	}
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, model.MagicLinkResponse{
		Success:   true,
		Message:   res.Message,
		MagicLink: res.MagicLink,
	})
}

// Verify はマジックリンクのトークンを検証します。
// パスワード未設定なら needsPassword を返し、設定済みならセッションを発行する。
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, err := middleware.GetTenantID(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.VerifyRequest
	if err := webutil.DecodeAndValidate(w, r, logger, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	res, err := h.tokens.Verify(r.Context(), tenantID, req.Token)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if res.NeedsPassword {
		webutil.RespondWithJSON(w, http.StatusOK, model.NeedsPasswordResponse{
			Success:       true,
			NeedsPassword: true,
			Token:         res.Token,
			User:          res.User,
		})
		return
	}
	respondSession(w, res.Session)
}

// Login はメールアドレスとパスワードで認証します
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, err := middleware.GetTenantID(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.LoginRequest
	if err := webutil.DecodeAndValidate(w, r, logger, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	session, err := h.passwords.Login(r.Context(), tenantID, req.Email, req.Password)
	if err != nil {
		// サービス層でログは出力済み
		webutil.HandleError(w, logger, err)
		return
	}
	respondSession(w, session)
}

// SetPassword はリンクのトークンを使ってパスワードを設定し、そのままログインさせます
func (h *AuthHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	tenantID, err := middleware.GetTenantID(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.SetPasswordRequest
	if err := webutil.DecodeAndValidate(w, r, logger, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	session, err := h.passwords.SetPassword(r.Context(), tenantID, req.Token, req.Password, req.ConfirmPassword)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	respondSession(w, session)
}

// Session は RequireCorporateSession で検証済みのセッションのユーザー情報を返します
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	claims, ok := middleware.GetSessionClaims(r.Context())
	if !ok {
		webutil.HandleError(w, logger, model.NewAppError(model.CodeInternal, "Internal server error", "", model.ErrInternalServer))
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, model.SessionCheckResponse{
		Valid: true,
		User:  model.UserResponseFromClaims(claims),
	})
}

func respondSession(w http.ResponseWriter, s *service.SessionResult) {
	webutil.RespondWithJSON(w, http.StatusOK, model.SessionResponse{
		Success:   true,
		Token:     s.Token,
		User:      s.User,
		ExpiresIn: s.ExpiresIn,
	})
}
