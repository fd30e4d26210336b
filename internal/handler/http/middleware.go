package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sareehouse/storefront/internal/service"
	apperrors "github.com/sareehouse/storefront/pkg/errors"
	"github.com/sareehouse/storefront/pkg/httputil"
)

// AdminAuth gates admin routes on a valid Bearer session token.
func AdminAuth(session *service.Session, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("missing authorization header"), logger)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.WriteError(w, r, apperrors.Unauthorized("authorization header must be a bearer token"), logger)
				return
			}

			if _, err := session.VerifyToken(token); err != nil {
				httputil.WriteError(w, r, err, logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
