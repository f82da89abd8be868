// Package session supplies the bearer credential used by submissions. The
// core treats the credential as read-only input: it never refreshes or
// mutates a token, and an absent token simply means the request goes out
// unauthenticated.
package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSource yields the current bearer token. The second return reports
// whether a token is present.
type TokenSource interface {
	Token() (string, bool)
}

// Static wraps a fixed token string. An empty string reports absent.
type Static string

// Token implements TokenSource.
func (s Static) Token() (string, bool) {
	token := strings.TrimSpace(string(s))
	return token, token != ""
}

// Func adapts a plain function into a TokenSource, for callers whose token
// lives in device storage behind their own accessor.
type Func func() (string, bool)

// Token implements TokenSource.
func (f Func) Token() (string, bool) {
	if f == nil {
		return "", false
	}
	return f()
}

// JWTOption customises a JWTSource.
type JWTOption func(*JWTSource)

// WithLeeway tolerates clock skew when checking expiry.
func WithLeeway(d time.Duration) JWTOption {
	return func(s *JWTSource) {
		s.leeway = d
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) JWTOption {
	return func(s *JWTSource) {
		if now != nil {
			s.now = now
		}
	}
}

// JWTSource wraps another source and reports the token absent once its JWT
// expiry claim has passed. The client holds no signing key, so claims are
// read without signature verification; the backend remains the authority and
// still answers 401 for tokens it rejects. Tokens that do not parse as JWTs
// are passed through untouched.
type JWTSource struct {
	base   TokenSource
	leeway time.Duration
	now    func() time.Time
}

// JWT wraps base with expiry checking.
func JWT(base TokenSource, options ...JWTOption) *JWTSource {
	s := &JWTSource{
		base: base,
		now:  time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Token implements TokenSource.
func (s *JWTSource) Token() (string, bool) {
	if s == nil || s.base == nil {
		return "", false
	}
	raw, ok := s.base.Token()
	if !ok {
		return "", false
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return raw, true
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return raw, true
	}
	if s.now().After(exp.Time.Add(s.leeway)) {
		return "", false
	}
	return raw, true
}
