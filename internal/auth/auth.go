// Package auth provides password hashing, JWT-based session tokens, and the
// HTTP middleware pair used by the router: a best-effort identity attachment
// that never rejects, and an authentication gate that does.
// Tokens are accepted from an HTTP-only cookie or from the Authorization header.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/patric-chuzhbe/shortlinks/internal/logger"
	"github.com/patric-chuzhbe/shortlinks/internal/models"
)

// Auth issues and verifies session tokens and exposes the identity middleware.
type Auth struct {
	// authCookieName is the name of the cookie used to store the JWT.
	authCookieName string

	// tokenSigningSecretKey is the key used to sign JWTs.
	tokenSigningSecretKey []byte

	// tokenTTL is the lifetime of an issued token.
	tokenTTL time.Duration
}

// Claims represents the JWT claims used by the system.
// It embeds standard JWT claims and adds a user-specific identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// ContextKey is a custom type for storing values in context to avoid collisions.
type ContextKey string

// UserIDKey is the context key used to store and retrieve the authenticated user's ID.
const UserIDKey ContextKey = "userID"

// New creates a new Auth handler with the given cookie name,
// JWT signing secret, and token lifetime.
func New(
	authCookieName string,
	tokenSigningSecretKey []byte,
	tokenTTL time.Duration,
) *Auth {
	return &Auth{
		authCookieName:        authCookieName,
		tokenSigningSecretKey: tokenSigningSecretKey,
		tokenTTL:              tokenTTL,
	}
}

// HashPassword returns a one-way bcrypt hash of the given password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// BuildToken returns a signed JWT carrying the user ID, valid for the
// configured token lifetime.
func (a *Auth) BuildToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   userID,
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
			},
			UserID: userID,
		},
	)

	return token.SignedString(a.tokenSigningSecretKey)
}

// ParseToken validates the token's signature and expiry and returns the
// embedded user ID. Any malformed, tampered, or expired token yields an error.
func (a *Auth) ParseToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return a.tokenSigningSecretKey, nil
		},
	)
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.UserID == "" {
		return "", jwt.ErrTokenInvalidClaims
	}

	return claims.UserID, nil
}

// SetAuthCookie stores the token as an HTTP-only cookie on the response.
func (a *Auth) SetAuthCookie(response http.ResponseWriter, token string) {
	http.SetCookie(
		response,
		&http.Cookie{
			Name:     a.authCookieName,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			MaxAge:   int(a.tokenTTL.Seconds()),
		},
	)
}

// AttachUser is an HTTP middleware that runs on every request. It attempts to
// resolve the caller's identity from the request token and, on success, stores
// the user ID in the request context. Missing, malformed, or expired tokens
// are swallowed and the request proceeds with no identity attached.
func (a *Auth) AttachUser(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		tokenString := a.getTokenStringFromAuthorizationHeaderOrCookie(request)
		if tokenString == "" {
			h.ServeHTTP(response, request)

			return
		}

		userID, err := a.ParseToken(tokenString)
		if err != nil {
			logger.Log.Debugln("Ignoring unusable token in `AttachUser()`: ", zap.Error(err))
			h.ServeHTTP(response, request)

			return
		}

		ctx := context.WithValue(request.Context(), UserIDKey, userID)
		h.ServeHTTP(response, request.WithContext(ctx))
	}

	return http.HandlerFunc(middleware)
}

// RequireUser is an HTTP middleware that rejects the request with 401
// unless it carries a valid token. On success, the resolved user ID is
// stored in the request context.
func (a *Auth) RequireUser(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		tokenString := a.getTokenStringFromAuthorizationHeaderOrCookie(request)
		if tokenString == "" {
			writeUnauthorized(response)

			return
		}

		userID, err := a.ParseToken(tokenString)
		if err != nil {
			logger.Log.Debugln("Rejecting token in `RequireUser()`: ", zap.Error(err))
			writeUnauthorized(response)

			return
		}

		ctx := context.WithValue(request.Context(), UserIDKey, userID)
		h.ServeHTTP(response, request.WithContext(ctx))
	}

	return http.HandlerFunc(middleware)
}

// UserIDFromContext returns the authenticated user's ID stored by
// AttachUser or RequireUser, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)

	return userID, ok && userID != ""
}

func (a *Auth) getTokenStringFromAuthorizationHeaderOrCookie(request *http.Request) string {
	tokenString := request.Header.Get("Authorization")
	if tokenString != "" {
		return strings.TrimPrefix(tokenString, "Bearer ")
	}
	cookie, err := request.Cookie(a.authCookieName)
	if err == nil {
		tokenString = cookie.Value
	}

	return tokenString
}

func writeUnauthorized(response http.ResponseWriter) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(response).Encode(models.ErrorResponse{
		Success: false,
		Message: "Unauthorized",
	})
}
