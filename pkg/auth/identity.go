package auth

import (
	"context"

	pkgerrors "github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/errors"
)

type cashierCtxKey struct{}

// WithCashier seeds the context with the authenticated cashier's claims.
func WithCashier(ctx context.Context, claims *SessionTokenClaims) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, cashierCtxKey{}, claims)
}

// CashierFromContext returns the authenticated cashier's claims, if present.
func CashierFromContext(ctx context.Context) (*SessionTokenClaims, bool) {
	if ctx == nil {
		return nil, false
	}
	claims, ok := ctx.Value(cashierCtxKey{}).(*SessionTokenClaims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}

// SessionIdentity resolves the cashier behind the current request. It is the
// session-identity collaborator injected into the checkout service.
type SessionIdentity struct{}

func (SessionIdentity) CashierID(ctx context.Context) (int64, error) {
	claims, ok := CashierFromContext(ctx)
	if !ok || claims.CashierID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeNotAuthenticated, "no cashier session")
	}
	return claims.CashierID, nil
}
