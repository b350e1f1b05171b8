package handlers

import (
	"net/http"
	"time"

	"github.com/handsomefox/movie-sentiment/internal/env"
)

const handoffCookieName = "handoff"

// setHandoffCookie remembers the catalog selection until the search page
// reads it.
func setHandoffCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     handoffCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: sameSite(),
		Secure:   secure(),
	})
}

func clearHandoffCookie(w http.ResponseWriter) {
	clearCookie(w, handoffCookieName)
}

// relayCookies re-issues cookies set by the API on this host so the
// browser sends them back on the next request.
func relayCookies(w http.ResponseWriter, cookies []*http.Cookie) {
	for _, c := range cookies {
		http.SetCookie(w, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     "/",
			Expires:  c.Expires,
			MaxAge:   c.MaxAge,
			HttpOnly: true,
			SameSite: sameSite(),
			Secure:   secure(),
		})
	}
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: sameSite(),
		Secure:   secure(),
	})
}

func sameSite() http.SameSite {
	return http.SameSiteLaxMode
}

func secure() bool {
	switch env.Current {
	case env.Production:
		return true
	default:
		return false
	}
}
