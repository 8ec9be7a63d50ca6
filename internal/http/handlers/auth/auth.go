package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"medportal/internal/core/domain/user"
	"medportal/internal/core/services/auth"
	"net/http"
	"strings"
	"time"
)

const (
	DEFAULT_COOKIE_NAME   = "sid"
	SESSION_TOKEN_MAX_LEN = 1024
)

// SessionCookie carries the session token as "<token>.<signature>", where the
// signature is an HMAC-SHA256 of the token keyed with the application secret.
type SessionCookie struct {
	name   string
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewSessionCookie(name string, secret string, ttl time.Duration, secure bool) *SessionCookie {
	if secret == "" {
		panic("Session cookie secret must not be empty.")
	}
	if name == "" {
		name = DEFAULT_COOKIE_NAME
	}
	return &SessionCookie{name: name, secret: []byte(secret), ttl: ttl, secure: secure}
}

func (c *SessionCookie) Name() string {
	return c.name
}

func (c *SessionCookie) SetSessionCookie(rw http.ResponseWriter, token user.SessionToken) {
	cookie := &http.Cookie{
		Name:     c.name,
		Value:    string(token) + "." + c.sign(string(token)),
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if c.ttl > 0 {
		cookie.MaxAge = int(c.ttl.Seconds())
	}
	http.SetCookie(rw, cookie)
}

func (c *SessionCookie) ClearSessionCookie(rw http.ResponseWriter) {
	http.SetCookie(rw, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *SessionCookie) ParseSessionToken(r *http.Request) (token user.SessionToken, ok bool) {
	cookie, err := r.Cookie(c.name)
	if err != nil {
		return token, false
	}
	if len(cookie.Value) > SESSION_TOKEN_MAX_LEN {
		return token, false
	}
	ix := strings.LastIndexByte(cookie.Value, '.')
	if ix <= 0 {
		return token, false
	}
	rawToken, signature := cookie.Value[:ix], cookie.Value[ix+1:]
	if !hmac.Equal([]byte(signature), []byte(c.sign(rawToken))) {
		return token, false
	}
	return user.SessionToken(rawToken), true
}

func (c *SessionCookie) SetSessionTokenToContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := c.ParseSessionToken(r)
		if ok {
			r = r.WithContext(auth.WithSessionToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}

func (c *SessionCookie) sign(value string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
