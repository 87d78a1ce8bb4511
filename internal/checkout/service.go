package checkout

import (
	"context"
	"time"

	"github.com/coolabdulsamad/purple-premium-bread-sub002/internal/cart"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/internal/catalog"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/bakery"
	pkgerrors "github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/errors"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/logger"
)

// SaleStatus is the settlement state reported to the back office.
type SaleStatus string

const (
	SaleStatusPaid          SaleStatus = "paid"
	SaleStatusPartiallyPaid SaleStatus = "partially_paid"
	SaleStatusUnpaid        SaleStatus = "unpaid"
)

type cartStore interface {
	BeginCheckout(id int) (cart.Cart, error)
	FinishCheckout(id int, success bool)
	RecomputeAll()
}

type snapshotProvider interface {
	Current() *catalog.Snapshot
}

type catalogRefresher interface {
	Refresh(ctx context.Context) error
}

type backendAPI interface {
	UploadReceipt(ctx context.Context, filename string, data []byte) (string, error)
	SubmitSale(ctx context.Context, sub bakery.SaleSubmission) (*bakery.SaleRecord, error)
}

type identityProvider interface {
	CashierID(ctx context.Context) (int64, error)
}

type saleCounter interface {
	Incr(ctx context.Context, key string) (int64, error)
	CounterKey(name string) string
}

// Service validates a cart against payment rules and submits the sale to the
// back office. Validation failures never mutate the cart; submission and
// upload failures preserve it so the cashier can retry.
type Service struct {
	carts    cartStore
	catalog  snapshotProvider
	refresh  catalogRefresher
	api      backendAPI
	identity identityProvider
	counter  saleCounter
	logg     *logger.Logger
}

func NewService(carts cartStore, catalog snapshotProvider, refresh catalogRefresher, api backendAPI, identity identityProvider, counter saleCounter, logg *logger.Logger) *Service {
	return &Service{
		carts:    carts,
		catalog:  catalog,
		refresh:  refresh,
		api:      api,
		identity: identity,
		counter:  counter,
		logg:     logg,
	}
}

// Result is the outcome of one accepted checkout.
type Result struct {
	SaleID     int64      `json:"sale_id"`
	Status     SaleStatus `json:"status"`
	AmountPaid float64    `json:"amount_paid"`
	BalanceDue float64    `json:"balance_due"`
}

// Checkout runs the full validation pipeline for one cart and submits the
// sale exactly once. Preconditions are checked in order and each violation
// aborts before any payload is sent. On acceptance the cart is removed and
// the catalog is refreshed.
func (s *Service) Checkout(ctx context.Context, cartID int) (*Result, error) {
	c, err := s.carts.BeginCheckout(cartID)
	if err != nil {
		return nil, err
	}

	result, err := s.run(ctx, c)
	s.carts.FinishCheckout(cartID, err == nil)
	if err != nil {
		return nil, err
	}

	if refreshErr := s.refresh.Refresh(ctx); refreshErr != nil {
		s.logg.Error(ctx, "checkout.catalog_refresh_failed", refreshErr)
	}
	s.carts.RecomputeAll()
	s.countSale(ctx)

	return result, nil
}

// countSale tracks accepted sales per UTC day. The counter is best effort
// and never fails a checkout that the back office already accepted.
func (s *Service) countSale(ctx context.Context) {
	if s.counter == nil {
		return
	}
	key := s.counter.CounterKey("sales:" + time.Now().UTC().Format("2006-01-02"))
	if _, err := s.counter.Incr(ctx, key); err != nil {
		s.logg.Error(ctx, "checkout.sale_counter_failed", err)
	}
}

func (s *Service) run(ctx context.Context, c cart.Cart) (*Result, error) {
	if len(c.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart has no items")
	}

	cashierID, err := s.identity.CashierID(ctx)
	if err != nil {
		return nil, err
	}

	var receiptURL string
	if c.Payment.Method.SupportsReceipt() && len(c.Payment.Receipt) > 0 {
		receiptURL, err = s.api.UploadReceipt(ctx, c.Payment.ReceiptName, c.Payment.Receipt)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeReceiptUploadFailed, err, "receipt upload failed")
		}
	}

	st, err := s.settle(c)
	if err != nil {
		return nil, err
	}

	sub := s.buildSubmission(c, cashierID, receiptURL, st)
	record, err := s.api.SubmitSale(ctx, sub)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeSubmissionFailed, err, "sale submission rejected")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"sale_id": record.ID,
		"cart_id": c.ID,
		"status":  string(st.status),
		"total":   c.Totals.Total,
	}), "checkout.submitted")

	return &Result{
		SaleID:     record.ID,
		Status:     st.status,
		AmountPaid: st.amountPaid,
		BalanceDue: st.balanceDue,
	}, nil
}

type settlement struct {
	status     SaleStatus
	amountPaid float64
	balanceDue float64
	customerID int64
	dueDate    string
}

// settle derives the settlement terms for the cart. Cash, card, and bank
// transfer are immediate full payment; credit sales run the customer,
// credit-limit, and due-date checks.
func (s *Service) settle(c cart.Cart) (settlement, error) {
	total := c.Totals.Total

	if !c.Payment.Method.IsCredit() {
		return settlement{
			status:     SaleStatusPaid,
			amountPaid: total,
			balanceDue: 0,
		}, nil
	}

	if c.Payment.CustomerID == 0 {
		return settlement{}, pkgerrors.New(pkgerrors.CodeMissingCustomer, "credit sale requires a customer")
	}
	customer, ok := s.catalog.Current().CustomerByID(c.Payment.CustomerID)
	if !ok {
		return settlement{}, pkgerrors.New(pkgerrors.CodeMissingCustomer, "selected customer no longer exists")
	}

	amountPaid := c.Payment.AmountPaid
	balanceDue := total - amountPaid

	// Full payment always bypasses the limit check. Overpayment is allowed
	// and drives the customer balance negative on the back office side.
	if amountPaid < total {
		remaining := customer.CreditLimit - customer.Balance
		if balanceDue > remaining {
			return settlement{}, pkgerrors.New(pkgerrors.CodeCreditLimitExceeded, "balance due exceeds remaining credit").
				WithDetails(map[string]any{
					"balance_due":      balanceDue,
					"remaining_credit": remaining,
				})
		}
	}

	status := SaleStatusPaid
	switch {
	case balanceDue <= 0:
		balanceDue = 0
	case balanceDue < total:
		status = SaleStatusPartiallyPaid
	default:
		status = SaleStatusUnpaid
	}

	if balanceDue > 0 && c.Payment.DueDate == "" {
		return settlement{}, pkgerrors.New(pkgerrors.CodeMissingDueDate, "credit sale with balance due requires a due date")
	}

	return settlement{
		status:     status,
		amountPaid: amountPaid,
		balanceDue: balanceDue,
		customerID: c.Payment.CustomerID,
		dueDate:    c.Payment.DueDate,
	}, nil
}

func (s *Service) buildSubmission(c cart.Cart, cashierID int64, receiptURL string, st settlement) bakery.SaleSubmission {
	items := make([]bakery.SaleItem, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, bakery.SaleItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	sub := bakery.SaleSubmission{
		Items:            items,
		Subtotal:         c.Totals.Subtotal,
		Tax:              c.Totals.Tax,
		Total:            c.Totals.Total,
		DiscountAmount:   c.Totals.DiscountAmount,
		CashierID:        cashierID,
		PaymentMethod:    c.Payment.Method.String(),
		Note:             c.Note,
		PaymentReference: c.Payment.Reference,
		PaymentImageURL:  receiptURL,
		Status:           string(st.status),
		AmountPaid:       st.amountPaid,
		BalanceDue:       st.balanceDue,
		DueDate:          st.dueDate,
	}
	if st.customerID != 0 {
		id := st.customerID
		sub.CustomerID = &id
	}
	return sub
}
