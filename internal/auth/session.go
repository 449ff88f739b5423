package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/isdelr/accounthub-be/internal/models"
	"github.com/isdelr/accounthub-be/internal/services"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// SessionKey is the context key for the resolved session.
type contextKey string

const SessionKey = contextKey("session")

// SetSessionCookie binds a session token to the client. The cookie is
// HttpOnly so client scripts cannot read the token.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	// Set Secure flag based on environment.
	isProd := os.Getenv("APP_ENV") == "production"

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
}

// ClearSessionCookie removes the session cookie from the client.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	})
}

// SessionFromContext returns the resolved session placed by Middleware.
func SessionFromContext(ctx context.Context) (models.Session, bool) {
	session, ok := ctx.Value(SessionKey).(models.Session)
	return session, ok
}

// Middleware creates a middleware for protecting routes. It resolves the
// session cookie against the store and passes the session down via the
// request context. Missing, unknown, and expired tokens all produce the
// same 401 response.
func Middleware(sessions services.SessionServiceProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			session, err := sessions.Get(cookie.Value)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "Need to Login"})
}
