package web

import (
	"encoding/base64"
	"net/http"
	"strings"
)

const (
	flashCookie = "aviorie_flash"
	flashMaxAge = 60
)

// Flash is a one-shot notice carried across a redirect.
type Flash struct {
	Text   string
	Failed bool
}

func setFlash(w http.ResponseWriter, secure bool, f Flash) {
	prefix := "ok|"
	if f.Failed {
		prefix = "err|"
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(prefix + f.Text)),
		Path:     "/",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash reads the pending flash, if any, and expires the cookie.
func takeFlash(w http.ResponseWriter, r *http.Request, secure bool) *Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	kind, text, ok := strings.Cut(string(raw), "|")
	if !ok || text == "" {
		return nil
	}
	return &Flash{Text: text, Failed: kind == "err"}
}
