package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a type for context keys
type contextKey string

// TokenKey is the context key for the caller's Webex access token
const TokenKey contextKey = "webexToken"

var (
	errNoToken      = errors.New("authorization required")
	errInvalidToken = errors.New("invalid or expired token")
)

// Middleware extracts the Webex credential the host forwards with each
// activity request. Without a signing secret the bearer token is the Webex
// token itself; with one, the bearer token is a host-issued JWT whose
// "token" claim carries the Webex token.
type Middleware struct {
	secret []byte
}

// NewMiddleware creates the middleware. An empty secret selects plain
// bearer pass-through.
func NewMiddleware(secret string) *Middleware {
	m := &Middleware{}
	if secret != "" {
		m.secret = []byte(secret)
	}
	return m
}

// RequireToken rejects requests without a usable credential and stores the
// resolved Webex token on the request context.
func (m *Middleware) RequireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := m.resolve(r)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), TokenKey, token)
		next(w, r.WithContext(ctx))
	}
}

// TokenFrom extracts the Webex token from the request context
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(TokenKey).(string)
	return token
}

func (m *Middleware) resolve(r *http.Request) (string, error) {
	bearer := extractBearer(r)
	if bearer == "" {
		return "", errNoToken
	}

	if m.secret == nil {
		return bearer, nil
	}

	parsed, err := jwt.Parse(bearer, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return "", errInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", errInvalidToken
	}

	token, _ := claims["token"].(string)
	if token == "" {
		return "", errInvalidToken
	}
	return token, nil
}

// extractBearer extracts the credential from the Authorization header or,
// as a fallback, the token query parameter.
func extractBearer(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	return ""
}
