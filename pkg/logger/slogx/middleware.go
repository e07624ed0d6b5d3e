package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// LoggingMiddleware logs the start and the outcome of every request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()

		attrs := []slog.Attr{
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		}
		if reqID := middleware.GetReqID(ctx); reqID != "" {
			attrs = append(attrs, slog.String("request_id", reqID))
		}
		logger := Default().With(attrs...)

		logger.Debug(ctx, "start handling request")

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		statusAttr := slog.Int("status", status)
		durAttr := slog.Duration("duration", time.Since(start))

		if status >= http.StatusInternalServerError {
			logger.Error(ctx, "finish with error", statusAttr, durAttr)
		} else {
			logger.Info(ctx, "finish success", statusAttr, durAttr)
		}
	})
}
