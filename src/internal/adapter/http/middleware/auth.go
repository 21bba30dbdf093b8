package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/orgbook/orgbook-api/src/internal/domain"
	"github.com/orgbook/orgbook-api/src/internal/logger"
)

type contextKey string

const requesterKey contextKey = "requester"

// BearerAuth validates the Authorization header's JWT and attaches the
// resolved Requester to the request context.
func BearerAuth(jwtSecret string) func(http.Handler) http.Handler {
	secret := []byte(jwtSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(secret) == 0 {
				logger.Error("auth middleware missing server configuration", nil, logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "server auth configuration is missing", http.StatusInternalServerError)
				return
			}

			requester, err := parseBearer(r.Header.Get("Authorization"), secret)
			if err != nil {
				logger.Info("auth middleware unauthorized request", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
					"reason": err.Error(),
				})
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), requesterKey, requester)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseBearer(header string, secret []byte) (domain.Requester, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return domain.Requester{}, fmt.Errorf("missing bearer token")
	}

	token, err := jwt.Parse(strings.TrimPrefix(header, prefix), func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil {
		return domain.Requester{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return domain.Requester{}, fmt.Errorf("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" {
		return domain.Requester{}, fmt.Errorf("token missing subject")
	}

	return domain.Requester{UserID: sub, Role: domain.UserRole(role)}, nil
}

// RequesterFromContext returns the authenticated requester attached by
// BearerAuth. The second return is false on unauthenticated requests.
func RequesterFromContext(ctx context.Context) (domain.Requester, bool) {
	requester, ok := ctx.Value(requesterKey).(domain.Requester)
	return requester, ok
}
