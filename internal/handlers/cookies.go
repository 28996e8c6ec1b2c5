package handlers

import (
	"net/http"
	"time"

	"github.com/clipstream/backend/internal/models"
)

const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"
)

// CookiePolicy controls the attributes stamped on auth cookies. Secure is
// off in development so local HTTP clients keep working.
type CookiePolicy struct {
	Secure bool
}

func (p CookiePolicy) set(w http.ResponseWriter, pair models.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookieName,
		Value:    pair.AccessToken,
		Path:     "/",
		Expires:  pair.AccessExpiresAt,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    pair.RefreshToken,
		Path:     "/",
		Expires:  pair.RefreshExpiresAt,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (p CookiePolicy) clear(w http.ResponseWriter) {
	for _, name := range []string{accessCookieName, refreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   p.Secure,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
