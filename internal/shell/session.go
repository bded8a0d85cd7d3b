package shell

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/edvin/kitcatalog/internal/model"
)

const (
	SessionCookie = "kitcatalog_session"
	visitorCookie = "kitcatalog_visitor"
	sessionMaxAge = 24 * time.Hour
)

// TokenValidator validates session tokens. core.AuthService satisfies it.
type TokenValidator interface {
	ValidateToken(token string) (*model.JWTClaims, error)
}

// SessionManager keeps the signed-in user's JWT in an HttpOnly cookie.
type SessionManager struct {
	tokens TokenValidator
	secure bool
}

func NewSessionManager(tokens TokenValidator, secure bool) *SessionManager {
	return &SessionManager{tokens: tokens, secure: secure}
}

type claimsKey struct{}

// Current returns the claims of the signed-in user.
func (m *SessionManager) Current(r *http.Request) (*model.JWTClaims, bool) {
	if claims, ok := r.Context().Value(claimsKey{}).(*model.JWTClaims); ok {
		return claims, true
	}
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return nil, false
	}
	claims, err := m.tokens.ValidateToken(c.Value)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// Start sets the session cookie.
func (m *SessionManager) Start(w http.ResponseWriter, token string) {
	http.SetCookie(w, m.cookie(SessionCookie, token, int(sessionMaxAge.Seconds())))
}

// End clears the session cookie.
func (m *SessionManager) End(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie(SessionCookie, "", -1))
}

func (m *SessionManager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Key identifies the browser session for per-session state such as toasts.
// Signed-in users are keyed by user ID, everyone else by the visitor cookie
// set in Track.
func (m *SessionManager) Key(r *http.Request) string {
	if claims, ok := m.Current(r); ok {
		return UserKey(claims.Sub)
	}
	if c, err := r.Cookie(visitorCookie); err == nil && c.Value != "" {
		return "visitor:" + c.Value
	}
	return ""
}

// UserKey is the session key of a signed-in user.
func UserKey(userID string) string { return "user:" + userID }

// Track makes sure every browser carries a visitor cookie.
func (m *SessionManager) Track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(visitorCookie); err != nil || c.Value == "" {
			visitor := m.cookie(visitorCookie, uuid.New().String(), 0)
			http.SetCookie(w, visitor)
			r.AddCookie(visitor)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession redirects to the sign-in page when no valid session is
// present. The validated claims are stored on the request context.
func (m *SessionManager) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := m.Current(r)
		if !ok {
			target := SignInPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
