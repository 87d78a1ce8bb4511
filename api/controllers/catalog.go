package controllers

import (
	"context"
	"net/http"

	"github.com/coolabdulsamad/purple-premium-bread-sub002/api/responses"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/internal/catalog"
	pkgerrors "github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/errors"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/logger"
)

type snapshotProvider interface {
	Current() *catalog.Snapshot
}

type catalogRefresher interface {
	Refresh(ctx context.Context) error
}

type cartRepricer interface {
	RecomputeAll()
}

type productView struct {
	catalog.Product
	Stock int `json:"stock"`
}

// CatalogProducts lists the sellable products with their current stock.
func CatalogProducts(snapshots snapshotProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if snapshots == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		snap := snapshots.Current()
		products := snap.Products()
		out := make([]productView, 0, len(products))
		for _, p := range products {
			out = append(out, productView{Product: p, Stock: snap.StockFor(p.ID)})
		}
		responses.WriteSuccess(w, out)
	}
}

func CatalogCustomers(snapshots snapshotProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if snapshots == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		responses.WriteSuccess(w, snapshots.Current().Customers())
	}
}

// CatalogServices lists the selectable discount services and the effective
// tax rate.
func CatalogServices(snapshots snapshotProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if snapshots == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		snap := snapshots.Current()
		responses.WriteSuccess(w, map[string]any{
			"discounts": snap.DiscountServices(),
			"tax_rate":  snap.TaxRate(),
		})
	}
}

// CatalogRefresh reloads the snapshot from the back office and reprices every
// open cart against it.
func CatalogRefresh(loader catalogRefresher, carts cartRepricer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if loader == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		if err := loader.Refresh(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if carts != nil {
			carts.RecomputeAll()
		}
		responses.WriteSuccess(w, map[string]string{"status": "refreshed"})
	}
}
