package model

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionTypeCorporate は法人ポータル用セッションの type クレーム
const SessionTypeCorporate = "corporate"

// MagicLinkRequest は magic-link / forgot-password API のリクエストボディ
type MagicLinkRequest struct {
	Email string `json:"email" validate:"required,email,max=320"`
}

type VerifyRequest struct {
	Token string `json:"token" validate:"required,max=256"`
}

// LoginRequest はログインAPIのリクエストボディ
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=320"`
	Password string `json:"password" validate:"required,max=72"`
}

type SetPasswordRequest struct {
	Token           string `json:"token" validate:"required,max=256"`
	Password        string `json:"password" validate:"required,max=72,password_policy"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,max=72"`
}

// MagicLinkResponse は存在有無に関わらず同じ形で返す
type MagicLinkResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	MagicLink string `json:"magicLink,omitempty"`
}

// UserResponse はクライアントに返すユーザー情報
type UserResponse struct {
	ID            string   `json:"id"`
	Email         string   `json:"email"`
	Name          string   `json:"name"`
	Role          UserRole `json:"role,omitempty"`
	CorpAccountID string   `json:"corpAccountId,omitempty"`
	CompanyName   string   `json:"companyName"`
}

// SessionResponse はログイン成功時のレスポンス
type SessionResponse struct {
	Success   bool         `json:"success"`
	Token     string       `json:"token"`
	User      UserResponse `json:"user"`
	ExpiresIn int64        `json:"expiresIn"`
}

// NeedsPasswordResponse は verify 時にパスワード未設定だった場合のレスポンス
type NeedsPasswordResponse struct {
	Success       bool         `json:"success"`
	NeedsPassword bool         `json:"needsPassword"`
	Token         string       `json:"token"`
	User          UserResponse `json:"user"`
}

type SessionCheckResponse struct {
	Valid bool         `json:"valid"`
	User  UserResponse `json:"user"`
}

// SessionClaims は JWT に含めるクレーム
type SessionClaims struct {
	Type          string   `json:"type"`
	TenantID      string   `json:"tenantId"`
	CorpAccountID string   `json:"corpAccountId"`
	UserID        string   `json:"userId"`
	Email         string   `json:"email"`
	Role          UserRole `json:"role"`
	UserName      string   `json:"userName"`
	CompanyName   string   `json:"companyName"`
	jwt.RegisteredClaims
}

// NewUserResponse は CorporateUser と CorporateAccount からレスポンス用の構造体を作る
func NewUserResponse(u *CorporateUser, a *CorporateAccount) UserResponse {
	resp := UserResponse{
		ID:            u.UserID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		CorpAccountID: u.CorpAccountID,
	}
	if a != nil {
		resp.CompanyName = a.CompanyName
	}
	return resp
}

// UserResponseFromClaims はセッションクレームからユーザー情報を組み立てる
func UserResponseFromClaims(c *SessionClaims) UserResponse {
	return UserResponse{
		ID:            c.UserID,
		Email:         c.Email,
		Name:          c.UserName,
		Role:          c.Role,
		CorpAccountID: c.CorpAccountID,
		CompanyName:   c.CompanyName,
	}
}
