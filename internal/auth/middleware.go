package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/saulo-duarte/quizzical/internal/config"
)

const CookieName = "jwt"

type claimsKey struct{}

var ErrNoClaims = errors.New("no client claims in context")

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func GetClientClaimsFromContext(ctx context.Context) (*Claims, error) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	if !ok || c == nil {
		return nil, ErrNoClaims
	}
	return c, nil
}

// ClientIDFromRequest resolves the store namespace of an authenticated request.
func ClientIDFromRequest(r *http.Request) (string, bool) {
	c, err := GetClientClaimsFromContext(r.Context())
	if err != nil {
		return "", false
	}
	return c.ClientID, true
}

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := config.WithContext(r.Context())

		tokenStr := bearerToken(r)
		if tokenStr == "" {
			if cookie, err := r.Cookie(CookieName); err == nil {
				tokenStr = cookie.Value
			}
		}
		if tokenStr == "" {
			log.Warn("Missing client token")
			config.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		claims, err := ValidateJWT(tokenStr)
		if err != nil {
			log.WithError(err).Warn("Invalid client token")
			config.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := WithClaims(r.Context(), claims)
		ctx = config.ContextWithFields(ctx, logrus.Fields{"client_id": claims.ClientID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
