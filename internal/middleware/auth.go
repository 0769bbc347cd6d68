package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pdfquiz/backend/internal/models"
)

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	usernameKey contextKey = "username"
)

// Claims is the bearer token payload.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserEnsurer creates the local profile row for a token subject.
type UserEnsurer interface {
	EnsureUser(ctx context.Context, userID int64, username string) error
}

type Authenticator struct {
	secret []byte
	users  UserEnsurer
	known  sync.Map
}

func NewAuthenticator(secret string, users UserEnsurer) *Authenticator {
	return &Authenticator{secret: []byte(secret), users: users}
}

// Middleware rejects requests without a valid bearer token and stores the
// caller's id and username on the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			unauthorized(w, "Missing bearer token")
			return
		}

		claims, err := ParseToken(a.secret, raw)
		if err != nil {
			unauthorized(w, "Invalid or expired token")
			return
		}

		if a.users != nil {
			if _, seen := a.known.Load(claims.UserID); !seen {
				if err := a.users.EnsureUser(r.Context(), claims.UserID, claims.Username); err != nil {
					log.Printf("[auth] ensure user %d failed: %v", claims.UserID, err)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(models.ErrorResponse{Error: "Failed to load user"})
					return
				}
				a.known.Store(claims.UserID, struct{}{})
			}
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.UserID, claims.Username)))
	})
}

// IssueToken signs an HS256 token for the given user.
func IssueToken(secret []byte, userID int64, username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseToken(secret []byte, raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.UserID <= 0 {
		return nil, errors.New("token has no user_id")
	}
	if claims.Username == "" {
		claims.Username = fmt.Sprintf("user%d", claims.UserID)
	}
	return claims, nil
}

func WithUser(ctx context.Context, userID int64, username string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, usernameKey, username)
}

// UserID returns the authenticated caller, or 0 outside the middleware.
func UserID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

func Username(ctx context.Context) string {
	name, _ := ctx.Value(usernameKey).(string)
	return name
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: msg})
}
