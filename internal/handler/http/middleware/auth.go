package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/factory-erp-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type contextKey struct{}

// Identity is the authenticated caller, taken from access-token claims.
type Identity struct {
	UserID string
	Name   string
}

// AuthRequired rejects requests without a verified access token and stores the caller's
// identity in the request context.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.Unauthorized(w, "Invalid token type")
				return
			}
			userID, ok := claims["user_id"].(string)
			if !ok || userID == "" {
				response.Unauthorized(w, "Token has no user")
				return
			}
			name, _ := claims["name"].(string)

			ctx := WithIdentity(r.Context(), Identity{UserID: userID, Name: name})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFrom returns the caller set by AuthRequired.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
