package middleware

import (
	"context"
	"net/http"

	"fifa-tracker/internal/auth"
	"fifa-tracker/internal/constants"

	"github.com/rs/zerolog"
)

const AddressKey contextKey = "wallet_address"

// RequireAuth verifies the session cookie and stores the caller's
// wallet address in the request context. Missing or invalid sessions
// get a 401; the client treats that as "redirect to login".
func RequireAuth(authSvc *auth.Service, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(constants.SessionCookie)
			if err != nil || cookie.Value == "" {
				http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
				return
			}

			address, err := authSvc.VerifyToken(cookie.Value)
			if err != nil {
				logger.Debug().Err(err).Msg("session token rejected")
				http.Error(w, `{"error":"invalid session"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), AddressKey, address)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AddressFromContext returns the authenticated wallet address set by
// RequireAuth.
func AddressFromContext(ctx context.Context) (string, bool) {
	address, ok := ctx.Value(AddressKey).(string)
	return address, ok
}
