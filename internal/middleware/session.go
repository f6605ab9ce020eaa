package middleware

import (
	"errors"
	"net/http"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookie is the name of the signed admin-session cookie. The cookie
// replaces PHP-style server-side session state: it carries an HS256 token
// with an opaque session id and an expiry, nothing else.
const SessionCookie = "umfrage_admin_session"

const sessionTTL = 12 * time.Hour

type SessionClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// Sessions signs and verifies admin session tokens.
type Sessions struct {
	secret []byte
}

func NewSessions(secret string) *Sessions {
	return &Sessions{secret: []byte(secret)}
}

// Issue returns a cookie holding a freshly signed session token.
func (s *Sessions) Issue() (*http.Cookie, error) {
	now := time.Now()
	claims := SessionClaims{
		SID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL / time.Second),
	}, nil
}

// Clear returns an expired cookie that removes the session.
func Clear() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
}

// Authenticated reports whether the request carries a valid session cookie.
func (s *Sessions) Authenticated(r *http.Request) bool {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return false
	}
	_, err = s.parse(c.Value)
	return err == nil
}

func (s *Sessions) parse(tok string) (*SessionClaims, error) {
	t, err := jwt.ParseWithClaims(tok, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*SessionClaims); ok && t.Valid {
		return c, nil
	}
	return nil, errors.New("invalid session token")
}
