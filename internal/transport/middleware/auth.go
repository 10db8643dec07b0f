package middleware

import (
	"errors"
	"net/http"

	internal "github.com/billableops/resource-management/internal"
	"github.com/billableops/resource-management/internal/auth"
	"github.com/billableops/resource-management/internal/transport"
)

// Authenticate validates the bearer token and stores the resolved Actor in
// the request context. Every handler past this point can rely on an actor
// being present.
func Authenticate(validator *auth.TokenValidator) func(http.Handler) http.Handler {
	base := &transport.BaseHandler{}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := transport.ExtractTokenFromHeader(r)
			if token == "" {
				base.WriteError(w, http.StatusUnauthorized, string(internal.ErrCodeInvalidToken), "missing bearer token", nil)
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					base.HandleServiceError(w, internal.ErrTokenExpired)
					return
				}
				base.HandleServiceError(w, internal.ErrInvalidToken)
				return
			}

			ctx := auth.ContextWithActor(r.Context(), claims.ToActor())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
