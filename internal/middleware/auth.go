package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/acervo/bookshelf/internal/api/response"
	"github.com/acervo/bookshelf/internal/auth"
)

type contextKey string

const identityKey contextKey = "identity"

// RequireAuth validates the Authorization bearer token and injects the
// verified identity into the request context. Missing, malformed, and expired
// tokens are all rejected with the same response.
func RequireAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				response.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			identity, err := tokens.Verify(tokenString)
			if err != nil {
				response.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom returns the authenticated identity stored by RequireAuth, or
// nil on unauthenticated requests.
func IdentityFrom(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(identityKey).(*auth.Identity)
	return id
}
