// internal/webutil/response.go
package webutil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"go_corporate_auth/internal/model"
)

const msgInternal = "Internal server error"

// HandleError はエラーを解釈し、適切なJSONエラーレスポンスを返します。
// 500 の場合は原因とスタックトレースをログに残し、クライアントには汎用メッセージだけ返す。
func HandleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	statusCode := MapErrorToStatusCode(err)

	var appErr *model.AppError
	if statusCode == http.StatusInternalServerError || !errors.As(err, &appErr) {
		if statusCode == http.StatusInternalServerError {
			logger.Error("Internal server error", "error", err, "stack", string(debug.Stack()))
			RespondWithJSON(w, statusCode, model.APIErrorResponse{Error: msgInternal, Code: model.CodeInternal})
			return
		}
		// AppError でない既知のセンチネル
		RespondWithJSON(w, statusCode, model.APIErrorResponse{Error: http.StatusText(statusCode)})
		return
	}

	RespondWithJSON(w, statusCode, model.APIErrorResponse{
		Error: appErr.Message,
		Code:  appErr.Code,
		Field: appErr.Field,
	})
}

// MapErrorToStatusCode はアプリケーションエラーをHTTPステータスコードにマッピングします
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, model.ErrInternalServer):
		return http.StatusInternalServerError
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, model.ErrTooManyRequests):
		return http.StatusTooManyRequests
	default:
		// ハンドリングされていないエラーは内部サーバーエラーとして扱う
		return http.StatusInternalServerError
	}
}

// RespondWithJSON はJSONレスポンスを返します
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Error marshaling JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error","code":"INTERNAL_SERVER_ERROR"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	w.Write(response)
}
