package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// logCtxKey はコンテキストにロガーを格納するためのキーです。
type logCtxKey struct{}

// sensitiveHeaders はログ出力時に値をマスキングするヘッダー名のリストです (小文字で定義)。
var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true, // リクエストヘッダー
	"set-cookie":    true, // レスポンスヘッダー
	"x-api-key":     true,
	"x-csrf-token":  true,
}

// sensitiveBodyFields はボディのログ出力時に値を伏せる JSON フィールド
var sensitiveBodyFields = map[string]bool{
	"password":        true,
	"confirmPassword": true,
	"token":           true,
	"magicLink":       true,
}

// responseLogger は http.ResponseWriter をラップし、ステータスコードと書き込みバイト数を記録します。
// captureBody のときだけボディを保持する。
type responseLogger struct {
	http.ResponseWriter
	statusCode  int
	bytesOut    int
	captureBody bool
	body        bytes.Buffer
}

func (rl *responseLogger) WriteHeader(statusCode int) {
	rl.statusCode = statusCode
	rl.ResponseWriter.WriteHeader(statusCode)
}

func (rl *responseLogger) Write(b []byte) (int, error) {
	n, err := rl.ResponseWriter.Write(b)
	rl.bytesOut += n
	if rl.captureBody {
		rl.body.Write(b[:n])
	}
	return n, err
}

// LoggingMiddleware はリクエスト単位のロガーをコンテキストに入れ、開始と完了をログに出すミドルウェアです。
// debug のときはヘッダーとボディも出すが、機密ヘッダーとパスワード・トークンは伏せる。
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()

			requestLogger := logger.With("req_id", middleware.GetReqID(r.Context()))
			ctx := context.WithValue(r.Context(), logCtxKey{}, requestLogger)
			r = r.WithContext(ctx)

			requestLogger.Info("Request started",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			debug := logger.Enabled(ctx, slog.LevelDebug)
			var reqBodyBytes []byte
			if debug && r.Body != nil {
				reqBodyBytes, _ = io.ReadAll(r.Body)
				r.Body = io.NopCloser(bytes.NewBuffer(reqBodyBytes))
			}

			rl := &responseLogger{ResponseWriter: w, statusCode: http.StatusOK, captureBody: debug}
			next.ServeHTTP(rl, r)

			logLevel := slog.LevelInfo
			if rl.statusCode >= 500 {
				logLevel = slog.LevelError
			} else if rl.statusCode >= 400 {
				logLevel = slog.LevelWarn
			}

			requestLogger.Log(ctx, logLevel, "Request completed",
				"status", rl.statusCode,
				"latency_ms", float64(time.Since(startTime).Nanoseconds())/1e6,
				"bytes_out", rl.bytesOut,
			)

			if debug {
				requestLogger.Debug("Request detail",
					"headers", formatHeaders(r.Header),
					"body", redactBody(reqBodyBytes),
				)
				requestLogger.Debug("Response detail",
					"status", rl.statusCode,
					"headers", formatHeaders(rl.Header()),
					"body", redactBody(rl.body.Bytes()),
				)
			}
		})
	}
}

// GetLogger はコンテキストから slog.Logger を取得します。
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(logCtxKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// formatHeaders はヘッダー情報をログ出力用に整形・マスキングするヘルパー関数
func formatHeaders(headers http.Header) map[string]string {
	result := make(map[string]string)
	for key, values := range headers {
		lowerKey := strings.ToLower(key)
		if sensitiveHeaders[lowerKey] {
			result[key] = "[SENSITIVE]"
		} else {
			result[key] = strings.Join(values, ", ")
		}
	}
	return result
}

// redactBody は JSON ボディの機密フィールドを伏せた文字列を返す。JSON でなければサイズだけ。
func redactBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return "[non-JSON body: " + strconv.Itoa(len(body)) + " bytes]"
	}
	for key := range data {
		if sensitiveBodyFields[key] {
			data[key] = "[MASKED]"
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "[unserializable body]"
	}
	return string(b)
}
