// logging.go — slog-журнал входящих HTTP-запросов портала.
// Путь в записи нормализуется так же, как в метриках (статика
// сворачивается в /static/*), has_session отмечает запросы браузеров
// с установленной session cookie.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/assuranceconnect/portal/internal/ui/auth"
)

// logResponseWriter перехватывает статус-код и объём ответа.
type logResponseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *logResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *logResponseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Unwrap позволяет http.ResponseController получить доступ к оригинальному ResponseWriter.
func (rw *logResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// statusLevel — уровень записи по статус-коду ответа.
func statusLevel(code int) slog.Level {
	switch {
	case code >= 500:
		return slog.LevelError
	case code >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// RequestLogger возвращает middleware журнала запросов портала.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &logResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			_, cookieErr := r.Cookie(auth.SessionCookieName)

			logger.LogAttrs(r.Context(), statusLevel(wrapped.statusCode), "HTTP запрос",
				slog.String("method", r.Method),
				slog.String("path", normalizePath(r.URL.Path)),
				slog.Int("status", wrapped.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.Int64("bytes", wrapped.written),
				slog.String("remote_addr", r.RemoteAddr),
				slog.Bool("has_session", cookieErr == nil),
			)
		})
	}
}
