package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type logCtxKey struct{}

// 詳細ログでマスクするヘッダー (小文字)
var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
	"x-api-key":     true,
}

// デバッグ時でもボディを記録しないパス (画像アップロード、ログイン)
var bodyRedactedPaths = map[string]bool{
	"/api/upload":   true,
	"/api/login":    true,
	"/api/register": true,
}

const maxLoggedBody = 4 << 10

// statusRecorder はステータスコードと書き込みバイト数、デバッグ用にボディの先頭を記録する
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int
	capture *bytes.Buffer
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.capture != nil && sr.capture.Len() < maxLoggedBody {
		sr.capture.Write(b[:min(len(b), maxLoggedBody-sr.capture.Len())])
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.written += n
	return n, err
}

// Unwrap は http.ResponseController が元の ResponseWriter に届くようにする
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// LoggingMiddleware はリクエスト単位のロガーをコンテキストに入れ、開始と完了を記録する
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLogger := logger.With("req_id", middleware.GetReqID(r.Context()))
			r = r.WithContext(WithLogger(r.Context(), reqLogger))

			reqLogger.Info("Request started",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			debug := logger.Enabled(r.Context(), slog.LevelDebug)
			redact := bodyRedactedPaths[r.URL.Path]

			var reqBody []byte
			if debug && !redact && r.Body != nil {
				reqBody, _ = io.ReadAll(io.LimitReader(r.Body, maxLoggedBody))
				r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(reqBody), r.Body))
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			if debug && !redact {
				rec.capture = new(bytes.Buffer)
			}

			next.ServeHTTP(rec, r)

			level := slog.LevelInfo
			switch {
			case rec.status >= 500:
				level = slog.LevelError
			case rec.status >= 400:
				level = slog.LevelWarn
			}
			reqLogger.Log(r.Context(), level, "Request completed",
				"status", rec.status,
				"latency_ms", float64(time.Since(start).Nanoseconds())/1e6,
				"bytes_out", rec.written,
			)

			if debug {
				reqLogger.Debug("Request detail",
					"headers", formatHeaders(r.Header),
					"body", string(reqBody),
				)
				respBody := ""
				if rec.capture != nil {
					respBody = rec.capture.String()
				}
				reqLogger.Debug("Response detail",
					"status", rec.status,
					"headers", formatHeaders(rec.Header()),
					"body", respBody,
				)
			}
		})
	}
}

// WithLogger はロガーをコンテキストに格納する。バッチなど HTTP 以外の入口でも使う。
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, logCtxKey{}, logger)
}

// GetLogger はコンテキストから slog.Logger を取得します。
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(logCtxKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func formatHeaders(headers http.Header) map[string]string {
	result := make(map[string]string, len(headers))
	for key, values := range headers {
		if sensitiveHeaders[strings.ToLower(key)] {
			result[key] = "[SENSITIVE]"
			continue
		}
		result[key] = strings.Join(values, ", ")
	}
	return result
}
