package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"zkdrop/internal/jwttoken"
	"zkdrop/pkg/faults"
	"zkdrop/pkg/platform/httputil"
	"zkdrop/pkg/requestcontext"
)

// JWTValidator validates admin bearer tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*jwttoken.Claims, error)
}

type contextKeySubject struct{}

// Subject returns the authenticated operator subject, or empty when the
// request did not pass through RequireAuth.
func Subject(ctx context.Context) string {
	subject, _ := ctx.Value(contextKeySubject{}).(string)
	return subject
}

// RequireAuth guards a route with admin bearer token validation.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, faults.New(faults.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, faults.New(faults.CodeUnauthorized, "invalid or expired token"))
				return
			}

			ctx = context.WithValue(ctx, contextKeySubject{}, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
