package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"derinfoods/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const userContextKey contextKey = "auth_user"

// JWTAuthenticator issues and verifies HS256 bearer tokens.
type JWTAuthenticator struct {
	secret   []byte
	tokenTTL time.Duration
	logger   zerolog.Logger
}

// NewJWTAuthenticator creates a new authenticator.
func NewJWTAuthenticator(secret string, tokenTTL time.Duration, logger zerolog.Logger) *JWTAuthenticator {
	return &JWTAuthenticator{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// IssueToken mints a signed token for the given user.
func (a *JWTAuthenticator) IssueToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(a.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// parseToken validates a bearer token and extracts the caller identity.
func (a *JWTAuthenticator) parseToken(tokenString string) (*model.AuthUser, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, jwt.ErrTokenInvalidClaims
	}
	role, _ := claims["role"].(string)

	return &model.AuthUser{ID: id, Role: role}, nil
}

// Authenticate parses the Authorization header if present and attaches the
// caller identity to the request context. Anonymous requests pass through;
// only a malformed or expired token is rejected, since a caller presenting
// credentials should never be silently downgraded to guest.
func (a *JWTAuthenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			unauthorised(w, "malformed Authorization header")
			return
		}

		user, err := a.parseToken(tokenString)
		if err != nil {
			a.logger.Warn().Str("path", r.URL.Path).Msg("invalid bearer token")
			unauthorised(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests without an authenticated caller.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			unauthorised(w, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests unless the caller holds the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			unauthorised(w, "authentication required")
			return
		}
		if !user.IsAdmin() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error": {"code": "FORBIDDEN", "message": "Admin access required"}}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated caller, or nil for anonymous
// requests.
func UserFromContext(ctx context.Context) *model.AuthUser {
	user, _ := ctx.Value(userContextKey).(*model.AuthUser)
	return user
}

func unauthorised(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error": {"code": "NOT_AUTHORIZED", "message": "` + message + `"}}`))
}
