package controllers

import (
	"context"
	"net/http"

	"github.com/coolabdulsamad/purple-premium-bread-sub002/api/responses"
	checkoutsvc "github.com/coolabdulsamad/purple-premium-bread-sub002/internal/checkout"
	pkgerrors "github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/errors"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/logger"
)

type checkoutService interface {
	Checkout(ctx context.Context, cartID int) (*checkoutsvc.Result, error)
}

// Checkout submits one cart as a sale.
func Checkout(svc checkoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		id, err := cartIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Checkout(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
