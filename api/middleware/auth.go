package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/coolabdulsamad/purple-premium-bread-sub002/api/responses"
	pkgauth "github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/auth"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/config"
	pkgerrors "github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/errors"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/logger"
)

// Auth validates the cashier's bearer token and seeds the request context
// with the session claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotAuthenticated, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotAuthenticated, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseSessionToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeNotAuthenticated, err, "invalid token"))
				return
			}

			ctx := pkgauth.WithCashier(r.Context(), claims)
			if logg != nil {
				ctx = logg.WithCashierID(ctx, strconv.FormatInt(claims.CashierID, 10))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
