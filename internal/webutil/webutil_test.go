package webutil_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go_corporate_auth/internal/model"
	"go_corporate_auth/internal/password"
	"go_corporate_auth/internal/webutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestHandleError(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   model.APIErrorResponse
	}{
		{
			name:       "異常系: 認証エラーは 401 とコード",
			err:        model.NewAppError(model.CodeInvalidCredential, "Invalid email or password", "", model.ErrUnauthorized),
			wantStatus: http.StatusUnauthorized,
			wantBody:   model.APIErrorResponse{Error: "Invalid email or password", Code: model.CodeInvalidCredential},
		},
		{
			name:       "異常系: バリデーションエラーは 400 と field",
			err:        model.NewAppError(model.CodeValidation, "passwords do not match", "confirmPassword", model.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantBody:   model.APIErrorResponse{Error: "passwords do not match", Code: model.CodeValidation, Field: "confirmPassword"},
		},
		{
			name:       "異常系: レート制限は 429",
			err:        model.NewAppError(model.CodeRateLimited, "Too many requests", "", model.ErrTooManyRequests),
			wantStatus: http.StatusTooManyRequests,
			wantBody:   model.APIErrorResponse{Error: "Too many requests", Code: model.CodeRateLimited},
		},
		{
			name:       "異常系: 内部エラーは原因を隠す",
			err:        model.NewAppError(model.CodeInternal, "Internal server error", "", fmt.Errorf("%w: %w", model.ErrInternalServer, errors.New("dial tcp: refused"))),
			wantStatus: http.StatusInternalServerError,
			wantBody:   model.APIErrorResponse{Error: "Internal server error", Code: model.CodeInternal},
		},
		{
			name:       "異常系: 未知のエラーは 500",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   model.APIErrorResponse{Error: "Internal server error", Code: model.CodeInternal},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			webutil.HandleError(rr, discardLogger, tc.err)

			assert.Equal(t, tc.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			var body model.APIErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tc.wantBody, body)
			assert.NotContains(t, rr.Body.String(), "dial tcp")
		})
	}
}

func TestDecodeAndValidate(t *testing.T) {
	testCases := []struct {
		name           string
		body           string
		acceptLanguage string
		wantErr        bool
		wantCode       string
		wantField      string
		wantMessage    string
	}{
		{
			name: "正常系",
			body: `{"token":"abc","password":"Str0ng!1","confirmPassword":"Str0ng!1"}`,
		},
		{
			name:     "異常系: JSON が壊れている",
			body:     `{"token":`,
			wantErr:  true,
			wantCode: model.CodeInvalidBody,
		},
		{
			name:     "異常系: 未知のフィールド",
			body:     `{"token":"abc","password":"Str0ng!1","confirmPassword":"Str0ng!1","admin":true}`,
			wantErr:  true,
			wantCode: model.CodeInvalidBody,
		},
		{
			name:      "異常系: 必須項目がない",
			body:      `{"password":"Str0ng!1","confirmPassword":"Str0ng!1"}`,
			wantErr:   true,
			wantCode:  model.CodeValidation,
			wantField: "token",
		},
		{
			name:        "異常系: ポリシー違反は最初に破ったルールを返す",
			body:        `{"token":"abc","password":"alllowercase1!","confirmPassword":"alllowercase1!"}`,
			wantErr:     true,
			wantCode:    model.CodeValidation,
			wantField:   "password",
			wantMessage: password.ErrMissingUpper.Error(),
		},
		{
			name:           "異常系: 日本語のメッセージ",
			body:           `{"password":"Str0ng!1","confirmPassword":"Str0ng!1"}`,
			acceptLanguage: "ja-JP,ja;q=0.9,en;q=0.8",
			wantErr:        true,
			wantCode:       model.CodeValidation,
			wantField:      "token",
			wantMessage:    "トークンは必須項目です。",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/corporate/auth/set-password", strings.NewReader(tc.body))
			if tc.acceptLanguage != "" {
				req.Header.Set("Accept-Language", tc.acceptLanguage)
			}
			rr := httptest.NewRecorder()

			var dst model.SetPasswordRequest
			err := webutil.DecodeAndValidate(rr, req, discardLogger, &dst)

			if !tc.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "abc", dst.Token)
				return
			}
			var appErr *model.AppError
			require.ErrorAs(t, err, &appErr)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
			assert.Equal(t, tc.wantCode, appErr.Code)
			assert.Equal(t, tc.wantField, appErr.Field)
			if tc.wantMessage != "" {
				assert.Equal(t, tc.wantMessage, appErr.Message)
			}
		})
	}
}
