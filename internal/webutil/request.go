package webutil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"go_corporate_auth/internal/model"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes はリクエストボディの上限
const maxBodyBytes = 64 << 10

const msgInvalidBody = "Invalid request body"

// DecodeJSONBody はリクエストボディをデコードします。未知のフィールドや複数の JSON 値は拒否する。
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return model.NewAppError(model.CodeInvalidBody, msgInvalidBody, "", model.ErrInvalidInput)
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		// ボディにはパスワードが含まれ得るのでエラー内容だけ残す
		logger.Warn("Error decoding JSON body", "error", err)
		return model.NewAppError(model.CodeInvalidBody, msgInvalidBody, "", model.ErrInvalidInput)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		logger.Warn("Request body contains trailing data")
		return model.NewAppError(model.CodeInvalidBody, msgInvalidBody, "", model.ErrInvalidInput)
	}
	return nil
}

// DecodeAndValidate は DecodeJSONBody のあと validate タグで検証する。
// 最初に失敗したフィールドを Accept-Language に応じた言語で返す。
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst interface{}) error {
	if err := DecodeJSONBody(w, r, logger, dst); err != nil {
		return err
	}
	if err := Validator.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return NewValidationError(verrs, TranslatorFor(r.Header.Get("Accept-Language")))
		}
		logger.Error("Unexpected validator error", "error", err)
		return err
	}
	return nil
}
