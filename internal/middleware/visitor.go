package middleware

import (
	"errors"
	"net/http"

	"aviorie-web/internal/auth"
	"aviorie-web/internal/logger"
	"aviorie-web/internal/session"

	"go.uber.org/zap"
)

// VisitorMiddleware identifies the browser by its signed visitor cookie,
// issuing one when it is missing or invalid, and puts the visitor's session
// (if any) on the request context.
func VisitorMiddleware(visitors *auth.Visitors, sessions session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			id := ""
			if token := auth.ExtractVisitorToken(r); token != "" {
				parsed, err := visitors.Parse(token)
				if err != nil {
					logger.FromCtx(ctx).Info("replacing invalid visitor cookie", zap.Error(err))
				} else {
					id = parsed
				}
			}
			if id == "" {
				issued, cookie, err := visitors.Issue()
				if err != nil {
					logger.FromCtx(ctx).Error("failed to issue visitor cookie", zap.Error(err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, cookie)
				id = issued
			}

			ctx = auth.WithVisitor(ctx, id)
			ctx = logger.WithVisitorID(ctx, id)

			s, err := sessions.Load(ctx, id)
			switch {
			case err == nil:
				ctx = session.WithSession(ctx, s)
			case errors.Is(err, session.ErrNotFound):
			case errors.Is(err, session.ErrCorruptValue):
				logger.FromCtx(ctx).Warn("dropping corrupt session", zap.Error(err))
				if err := sessions.Clear(ctx, id); err != nil {
					logger.FromCtx(ctx).Error("failed to clear session", zap.Error(err))
				}
			default:
				logger.FromCtx(ctx).Error("failed to load session", zap.Error(err))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
