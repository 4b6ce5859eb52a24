// Package guard admits requests to role-scoped pages.
package guard

import (
	"net/http"

	"aviorie-web/internal/logger"
	"aviorie-web/internal/role"
	"aviorie-web/internal/session"

	"go.uber.org/zap"
)

const LoginPath = "/auth"

// Decision is what Check concluded for one request.
type Decision int

const (
	Admit Decision = iota
	ToLogin
	ToLanding
)

// Check decides from the session alone. The stored token is not revalidated
// against the backend here; dashboards handle a 401 when they see one.
func Check(s *session.Session, allowed ...role.Kind) Decision {
	if s == nil {
		return ToLogin
	}
	r, ok := s.Role()
	if !ok {
		return ToLanding
	}
	for _, k := range allowed {
		if r.Kind() == k {
			return Admit
		}
	}
	return ToLanding
}

// Require wraps a handler so it only runs for sessions whose role is one of
// allowed. The session must already be on the request context.
func Require(allowed ...role.Kind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, _ := session.FromContext(r.Context())

			switch Check(s, allowed...) {
			case ToLogin:
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			case ToLanding:
				logger.FromCtx(r.Context()).Info("role not allowed",
					zap.String("path", r.URL.Path),
					zap.String("role", s.User.Role),
				)
				http.Redirect(w, r, role.Landing, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
