package controllers

import (
	"net/http"
	"time"

	"github.com/coolabdulsamad/purple-premium-bread-sub002/api/responses"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/api/validators"
	pkgauth "github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/auth"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/config"
	pkgerrors "github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/errors"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/logger"
)

// SessionInfo echoes the authenticated cashier's claims.
func SessionInfo(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := pkgauth.CashierFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotAuthenticated, "no cashier session"))
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"cashier_id": claims.CashierID,
			"fullname":   claims.FullName,
			"role":       claims.Role,
		})
	}
}

type mintSessionRequest struct {
	CashierID int64  `json:"cashier_id" validate:"required,min=1"`
	FullName  string `json:"fullname" validate:"omitempty,max=120"`
	Role      string `json:"role" validate:"omitempty,max=40"`
	TTL       string `json:"ttl" validate:"omitempty"`
}

// SessionMint issues a cashier token. Dev-only tooling; production terminals
// receive their tokens from the back office. The route is not registered when
// the app runs in prod.
func SessionMint(cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload mintSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ttl := 12 * time.Hour
		if payload.TTL != "" {
			parsed, err := time.ParseDuration(payload.TTL)
			if err != nil || parsed <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid ttl"))
				return
			}
			ttl = parsed
		}

		token, err := pkgauth.MintSessionToken(cfg.JWT, time.Now().UTC(), ttl, pkgauth.SessionTokenPayload{
			CashierID: payload.CashierID,
			FullName:  payload.FullName,
			Role:      payload.Role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"token": token})
	}
}
