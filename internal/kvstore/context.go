package kvstore

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/saulo-duarte/quizzical/internal/config"
)

const TabHeader = "X-Tab-ID"

type scopeKey struct{}

func WithScope(ctx context.Context, sc *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, sc)
}

// ScopeFromContext returns nil when the request carries no client scope; reads
// through a nil scope fall back to their defaults.
func ScopeFromContext(ctx context.Context) *Scope {
	sc, _ := ctx.Value(scopeKey{}).(*Scope)
	return sc
}

// Middleware binds a Scope to each request. namespace resolves the client
// profile; the origin is the caller's tab id, or a fresh id when absent.
func (s *Store) Middleware(namespace func(*http.Request) (string, bool)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ns, ok := namespace(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			origin := strings.TrimSpace(r.Header.Get(TabHeader))
			if origin == "" {
				origin = strings.TrimSpace(r.URL.Query().Get("tab"))
			}
			if origin == "" {
				origin = uuid.NewString()
			}
			ctx := WithScope(r.Context(), s.Scope(ns, origin))
			ctx = config.ContextWithFields(ctx, logrus.Fields{"tab": origin})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
