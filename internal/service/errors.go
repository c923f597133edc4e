package service

import (
	"errors"
	"fmt"

	"go_corporate_auth/internal/model"
)

// クライアントに返すメッセージ
const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgPasswordNotSet     = "Please use your login link first to set up your password"
	MsgInvalidOrExpired   = "Invalid or expired link"
	MsgAlreadyUsed        = "This link has already been used"
	MsgExpired            = "This link has expired"
	MsgAccountInactive    = "Your account is not active"
	MsgMissingToken       = "Missing or malformed authorization header"
	MsgSessionExpired     = "Session expired"
	MsgSessionInvalid     = "Invalid session"
	MsgInternal           = "Internal server error"
)

func errInvalidCredentials() error {
	return model.NewAppError(model.CodeInvalidCredential, MsgInvalidCredentials, "", model.ErrUnauthorized)
}

func errInvalidOrExpired() error {
	return model.NewAppError(model.CodeInvalidOrExpired, MsgInvalidOrExpired, "token", model.ErrUnauthorized)
}

func errAlreadyUsed() error {
	return model.NewAppError(model.CodeAlreadyUsed, MsgAlreadyUsed, "token", model.ErrUnauthorized)
}

func errAccountInactive() error {
	return model.NewAppError(model.CodeAccountInactive, MsgAccountInactive, "", model.ErrUnauthorized)
}

// errInternal は原因を保持したまま 500 扱いのエラーにする
func errInternal(cause error) error {
	return model.NewAppError(model.CodeInternal, MsgInternal, "", fmt.Errorf("%w: %w", model.ErrInternalServer, cause))
}

// isInternal は呼び出し側の入力ではなくサーバー側の問題によるエラーか
func isInternal(err error) bool {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		return errors.Is(appErr.Err, model.ErrInternalServer)
	}
	return true
}
