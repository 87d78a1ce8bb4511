package cart

import (
	"fmt"
	"sync"

	"github.com/coolabdulsamad/purple-premium-bread-sub002/internal/catalog"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/internal/pricing"
	pkgerrors "github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/errors"
)

type snapshotProvider interface {
	Current() *catalog.Snapshot
}

// Store owns the ordered collection of carts and the active-cart pointer.
// It is the single source of truth for cart state; every mutation recomputes
// the affected cart's totals before returning.
type Store struct {
	mu      sync.Mutex
	catalog snapshotProvider

	carts    []*Cart
	activeID int
}

// NewStore builds a store seeded with one empty cart, which is active.
func NewStore(catalog snapshotProvider) (*Store, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog provider required")
	}
	first := newCart(1)
	return &Store{
		catalog:  catalog,
		carts:    []*Cart{first},
		activeID: first.ID,
	}, nil
}

// CreateCart appends a new empty cart and makes it active.
func (s *Store) CreateCart() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID()
	c := newCart(id)
	s.carts = append(s.carts, c)
	s.activeID = id
	return id
}

// RemoveCart deletes a cart. Removing the only remaining cart is rejected;
// if the removed cart was active, the first remaining cart becomes active.
func (s *Store) RemoveCart(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	if len(s.carts) == 1 {
		return pkgerrors.New(pkgerrors.CodeLastCartRemoval, "cannot remove the last cart")
	}

	s.carts = append(s.carts[:idx], s.carts[idx+1:]...)
	if s.activeID == id {
		s.activeID = s.carts[0].ID
	}
	return nil
}

// SetActiveCart switches the active pointer. Unknown ids leave the pointer
// untouched; callers are expected to only offer existing carts.
func (s *Store) SetActiveCart(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return
	}
	s.activeID = id
}

// ActiveCartID returns the id of the active cart.
func (s *Store) ActiveCartID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Carts returns copies of every cart in order.
func (s *Store) Carts() []Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Cart, 0, len(s.carts))
	for _, c := range s.carts {
		out = append(out, c.clone())
	}
	return out
}

// Get returns a copy of one cart.
func (s *Store) Get(id int) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cart(id)
	if err != nil {
		return Cart{}, err
	}
	return c.clone(), nil
}

// SetName replaces a cart's display label.
func (s *Store) SetName(id int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cart(id)
	if err != nil {
		return err
	}
	if name == "" {
		name = fmt.Sprintf("Group %d", c.ID)
	}
	c.Name = name
	return nil
}

// AddProduct upserts a line item: a new line starts at quantity 1 when the
// product has stock; an existing line gains 1 unless that would exceed the
// product's current stock.
func (s *Store) AddProduct(cartID int, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cart(cartID)
	if err != nil {
		return err
	}

	snap := s.catalog.Current()
	product, ok := snap.ProductByID(productID)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	stock := snap.StockFor(productID)

	idx := c.findItem(productID)
	if idx < 0 {
		if stock <= 0 {
			return pkgerrors.New(pkgerrors.CodeOutOfStock, fmt.Sprintf("%s is out of stock", product.Name)).
				WithDetails(map[string]any{"product_id": productID})
		}
		c.Items = append(c.Items, LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  1,
		})
	} else {
		if c.Items[idx].Quantity+1 > stock {
			return pkgerrors.New(pkgerrors.CodeInventoryLimit, fmt.Sprintf("only %d of %s in stock", stock, product.Name)).
				WithDetails(map[string]any{"product_id": productID, "stock": stock})
		}
		c.Items[idx].Quantity++
	}

	s.recompute(c)
	return nil
}

// SetLineItemQuantity replaces a line's quantity. Negative input clamps to
// zero, zero removes the line, and quantities above current stock are
// rejected leaving the stored quantity unchanged.
func (s *Store) SetLineItemQuantity(cartID int, productID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cart(cartID)
	if err != nil {
		return err
	}

	idx := c.findItem(productID)
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "line item not found")
	}

	if quantity < 0 {
		quantity = 0
	}
	if quantity == 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		s.recompute(c)
		return nil
	}

	stock := s.catalog.Current().StockFor(productID)
	if quantity > stock {
		return pkgerrors.New(pkgerrors.CodeInventoryLimit, fmt.Sprintf("only %d in stock", stock)).
			WithDetails(map[string]any{"product_id": productID, "stock": stock})
	}

	c.Items[idx].Quantity = quantity
	s.recompute(c)
	return nil
}

// SetDiscount selects a pricing service as the cart discount; zero clears it.
func (s *Store) SetDiscount(cartID int, serviceID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cart(cartID)
	if err != nil {
		return err
	}

	if serviceID != 0 {
		if _, ok := s.catalog.Current().ServiceByID(serviceID); !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "pricing service not found")
		}
	}

	c.DiscountServiceID = serviceID
	s.recompute(c)
	return nil
}

// SetNote replaces the cart's free-text note.
func (s *Store) SetNote(cartID int, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cart(cartID)
	if err != nil {
		return err
	}
	c.Note = note
	return nil
}

// SetPaymentMethod switches the settlement method and resets every other
// payment field to its default.
func (s *Store) SetPaymentMethod(cartID int, method PaymentMethod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cart(cartID)
	if err != nil {
		return err
	}
	if !method.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", method))
	}

	c.Payment = defaultPayment()
	c.Payment.Method = method
	return nil
}

// SetPaymentReference replaces the card/bank transfer reference.
func (s *Store) SetPaymentReference(cartID int, reference string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cart(cartID)
	if err != nil {
		return err
	}
	c.Payment.Reference = reference
	return nil
}

// SetReceiptImage attaches a receipt image to the cart's payment.
func (s *Store) SetReceiptImage(cartID int, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cart(cartID)
	if err != nil {
		return err
	}
	c.Payment.ReceiptName = name
	c.Payment.Receipt = append([]byte(nil), data...)
	return nil
}

// SetPaymentCustomer selects the credit customer for the cart.
func (s *Store) SetPaymentCustomer(cartID int, customerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cart(cartID)
	if err != nil {
		return err
	}
	if customerID != 0 {
		if _, ok := s.catalog.Current().CustomerByID(customerID); !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
	}
	c.Payment.CustomerID = customerID
	return nil
}

// SetAmountPaid replaces the amount tendered on a credit sale.
func (s *Store) SetAmountPaid(cartID int, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cart(cartID)
	if err != nil {
		return err
	}
	if amount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount paid cannot be negative")
	}
	c.Payment.AmountPaid = amount
	return nil
}

// SetDueDate replaces the credit due date (YYYY-MM-DD, empty clears).
func (s *Store) SetDueDate(cartID int, dueDate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cart(cartID)
	if err != nil {
		return err
	}
	c.Payment.DueDate = dueDate
	return nil
}

// RecomputeAll reprices every cart against the current snapshot. Called
// after a catalog refresh so displayed totals track rate changes.
func (s *Store) RecomputeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.carts {
		s.recompute(c)
	}
}

// BeginCheckout marks a cart as submitting and returns a copy of it. A cart
// with an in-flight submission rejects further checkout attempts.
func (s *Store) BeginCheckout(id int) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cart(id)
	if err != nil {
		return Cart{}, err
	}
	if c.submitting {
		return Cart{}, pkgerrors.New(pkgerrors.CodeCheckoutInFlight, "checkout already in progress")
	}
	c.submitting = true
	return c.clone(), nil
}

// FinishCheckout resolves an in-flight submission. On success the cart is
// removed: a fresh cart replaces it when it was the last one, otherwise the
// first remaining cart becomes active. On failure the cart is preserved
// untouched so the cashier can retry.
func (s *Store) FinishCheckout(id int, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}

	if !success {
		s.carts[idx].submitting = false
		return
	}

	s.carts = append(s.carts[:idx], s.carts[idx+1:]...)
	if len(s.carts) == 0 {
		fresh := newCart(1)
		s.carts = []*Cart{fresh}
		s.activeID = fresh.ID
		return
	}
	s.activeID = s.carts[0].ID
}

func (s *Store) recompute(c *Cart) {
	snap := s.catalog.Current()

	var discountRate float64
	if c.DiscountServiceID != 0 {
		if svc, ok := snap.ServiceByID(c.DiscountServiceID); ok {
			discountRate = svc.Rate
		}
	}

	c.Totals = pricing.Compute(c.pricingLines(), discountRate, snap.TaxRate())
}

func (s *Store) cart(id int) (*Cart, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	return s.carts[idx], nil
}

func (s *Store) indexOf(id int) int {
	for i, c := range s.carts {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) nextID() int {
	max := 0
	for _, c := range s.carts {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}
