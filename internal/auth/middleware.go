package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	apierrors "excelytics/internal/errors"
)

// Middleware returns the bearer-token middleware. Requests without a valid
// Authorization header are rejected before reaching any handler; valid
// claims are placed in the request context.
func Middleware(tokens *TokenService, logger *slog.Logger) func(next http.Handler) http.Handler {
	logger = logger.With(slog.String("component", "auth_middleware"))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrUnauthorized))
				return
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrUnauthorized))
				return
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				logger.WarnContext(r.Context(), "token verification failed",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				render.Render(w, r, apierrors.NewErrorResponse(apierrors.ErrInvalidToken))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}
