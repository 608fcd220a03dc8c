package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/aatrips/Verified-land-marketplace/internal/contextkeys"
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const traceIDHeader = "X-Trace-ID"

// LoggerMiddleware кладет в контекст логгер с trace_id и пишет итог запроса.
// Проба /healthz и раздача /media пишутся только на уровне debug.
func LoggerMiddleware(logger port.LoggerPort) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(traceIDHeader)
			if _, err := uuid.Parse(traceID); err != nil {
				traceID = uuid.NewString()
			}

			requestLogger := logger.WithFields(port.Fields{"trace_id": traceID})
			ctx := contextkeys.ContextWithTraceID(contextkeys.ContextWithLogger(r.Context(), requestLogger), traceID)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Header().Set(traceIDHeader, traceID)
			startTime := time.Now()

			next.ServeHTTP(ww, r.WithContext(ctx))

			fields := port.Fields{
				"http_method":   r.Method,
				"http_path":     r.URL.Path,
				"remote_addr":   r.RemoteAddr,
				"status_code":   ww.Status(),
				"bytes_written": ww.BytesWritten(),
				"duration_ms":   time.Since(startTime).Milliseconds(),
			}
			if rctx := chi.RouteContext(ctx); rctx != nil && rctx.RoutePattern() != "" {
				fields["route"] = rctx.RoutePattern()
			}

			switch {
			case ww.Status() >= http.StatusInternalServerError:
				requestLogger.Warn("Request failed", fields)
			case isQuietPath(r.URL.Path):
				requestLogger.Debug("Request finished", fields)
			default:
				requestLogger.Info("Request finished", fields)
			}
		})
	}
}

func isQuietPath(path string) bool {
	return path == "/healthz" || strings.HasPrefix(path, "/media/")
}
