// internal/model/error.go
package model

import "errors"

// アプリケーション固有のエラー
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("resource conflict")
	ErrTooManyRequests = errors.New("too many requests")
	ErrInternalServer  = errors.New("internal server error")

	// ErrConditionFailed は条件付き更新の条件が満たされなかったことを表す (例: used=false でなかった)
	ErrConditionFailed = errors.New("conditional update failed")
)

// エラーコード (レスポンスの code フィールド)
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeInvalidBody       = "INVALID_REQUEST_BODY"
	CodeInvalidTenant     = "INVALID_TENANT"
	CodeInvalidOrExpired  = "INVALID_OR_EXPIRED"
	CodeAlreadyUsed       = "ALREADY_USED"
	CodeExpired           = "EXPIRED"
	CodeInvalidCredential = "INVALID_CREDENTIALS"
	CodePasswordNotSet    = "PASSWORD_NOT_SET"
	CodeAccountInactive   = "ACCOUNT_INACTIVE"
	CodeMissingToken      = "MISSING_TOKEN"
	CodeSessionExpired    = "SESSION_EXPIRED"
	CodeSessionInvalid    = "SESSION_INVALID"
	CodeRateLimited       = "RATE_LIMITED"
	CodeNotFound          = "NOT_FOUND"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	CodeInternal          = "INTERNAL_SERVER_ERROR"
)

// AppError はクライアントに返すメッセージと、原因となったエラーを保持します。
// HTTP ステータスは Err (センチネルエラー) から決まる。
type AppError struct {
	Code    string
	Message string
	Field   string
	Err     error
}

func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{Code: code, Message: message, Field: field, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// APIErrorResponse はエラーレスポンスの構造体
type APIErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}
