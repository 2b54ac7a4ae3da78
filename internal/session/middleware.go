package session

import (
	"context"
	"net/http"
	"time"
)

// CookieName is the session cookie set on login.
const CookieName = "careerbot_session"

const cookieMaxAge = 7 * 24 * time.Hour

type contextKey int

const sessionKey contextKey = iota

// FromContext extracts the session from a request context, or nil if
// the request is unauthenticated.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionKey).(*Session); ok {
		return s
	}
	return nil
}

// SetCookie writes the session cookie for a fresh login.
func SetCookie(w http.ResponseWriter, token string, isDev bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		Expires:  time.Now().Add(cookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	})
}

// ClearCookie expires the session cookie on logout.
func ClearCookie(w http.ResponseWriter, isDev bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	})
}

// Middleware resolves the session cookie and injects the session into
// the request context. Requests without a live session are rejected
// with 401; the account id used downstream always comes from the
// resolved session, never from the request payload.
func Middleware(mgr *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(CookieName)
			if err != nil || c.Value == "" {
				http.Error(w, `{"error":"not logged in"}`, http.StatusUnauthorized)
				return
			}

			sess := mgr.Get(c.Value)
			if sess == nil {
				http.Error(w, `{"error":"session expired"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
