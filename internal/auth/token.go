package auth

import (
	"net/http"
	"strings"
)

const VisitorCookie = "aviorie_visitor"

// ExtractVisitorToken returns the signed visitor token sent by the browser.
func ExtractVisitorToken(r *http.Request) string {
	// Cookie first; browsers always send it.
	if cookie, err := r.Cookie(VisitorCookie); err == nil {
		if cookie.Value != "" {
			return cookie.Value
		}
	}

	// Authorization header for scripted clients.
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}
