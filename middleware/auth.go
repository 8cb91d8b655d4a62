package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Dosada05/knobel-manager/auth"
)

type contextKey string

const subjectContextKey contextKey = "subject"

// Authenticate forwards the caller's bearer token to the remote API calls made
// while serving the request. Requests without a token pass through and fall
// back to the configured service credential. Malformed or expired tokens are
// rejected before any remote call.
func Authenticate(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			token = strings.TrimSpace(token)
			if !ok || token == "" {
				writeUnauthorized(w, errors.New("authorization header must be a bearer token"))
				return
			}

			claims, err := auth.Inspect(token)
			if err != nil {
				logger.DebugContext(r.Context(), "Rejected malformed bearer token", slog.Any("error", err))
				writeUnauthorized(w, err)
				return
			}
			if claims.Expired(time.Now()) {
				writeUnauthorized(w, auth.ErrTokenExpired)
				return
			}

			ctx := auth.WithToken(r.Context(), token)
			ctx = context.WithValue(ctx, subjectContextKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
