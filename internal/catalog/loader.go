package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/bakery"
	pkgerrors "github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/errors"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/logger"
)

type backendAPI interface {
	ListProducts(ctx context.Context) ([]bakery.Product, error)
	ListInventory(ctx context.Context) ([]bakery.StockLevel, error)
	ListCustomers(ctx context.Context) ([]bakery.Customer, error)
	ListPricingServices(ctx context.Context) ([]bakery.PricingService, error)
}

// Loader owns the current catalog snapshot and refreshes it as a full
// reload. A failed refresh keeps the previous snapshot intact.
type Loader struct {
	api  backendAPI
	logg *logger.Logger

	mu      sync.RWMutex
	current *Snapshot
}

// NewLoader builds a loader starting from an empty snapshot.
func NewLoader(api backendAPI, logg *logger.Logger) (*Loader, error) {
	if api == nil {
		return nil, fmt.Errorf("backend api required")
	}
	return &Loader{
		api:     api,
		logg:    logg,
		current: EmptySnapshot(),
	}, nil
}

// Refresh reloads every catalog collection and swaps the snapshot in one
// step. Any fetch failure aborts the whole reload.
func (l *Loader) Refresh(ctx context.Context) error {
	products, err := l.api.ListProducts(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	stock, err := l.api.ListInventory(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory")
	}
	customers, err := l.api.ListCustomers(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customers")
	}
	services, err := l.api.ListPricingServices(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pricing services")
	}

	snapshot := NewSnapshot(products, stock, customers, services)

	l.mu.Lock()
	l.current = snapshot
	l.mu.Unlock()

	if l.logg != nil {
		ctx = l.logg.WithFields(ctx, map[string]any{
			"products":  len(snapshot.Products()),
			"customers": len(snapshot.Customers()),
			"services":  len(snapshot.Services()),
		})
		l.logg.Info(ctx, "catalog.refreshed")
	}
	return nil
}

// Current returns the latest snapshot; never nil.
func (l *Loader) Current() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}
