package cart

import (
	"fmt"

	"github.com/coolabdulsamad/purple-premium-bread-sub002/internal/pricing"
)

// LineItem is one product in a cart. The unit price is captured when the
// product is first added and does not chase later catalog changes.
type LineItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Payment holds the settlement details for one cart. Reference and receipt
// apply to card and bank transfer; customer, amount paid, and due date to
// credit sales.
type Payment struct {
	Method      PaymentMethod `json:"method"`
	Reference   string        `json:"reference,omitempty"`
	ReceiptName string        `json:"receipt_name,omitempty"`
	Receipt     []byte        `json:"-"`
	CustomerID  int64         `json:"customer_id,omitempty"`
	AmountPaid  float64       `json:"amount_paid"`
	DueDate     string        `json:"due_date,omitempty"`
}

// Cart is one sale group under composition at the register.
type Cart struct {
	ID                int            `json:"id"`
	Name              string         `json:"name"`
	Items             []LineItem     `json:"items"`
	DiscountServiceID int64          `json:"discount_service_id,omitempty"`
	Note              string         `json:"note,omitempty"`
	Payment           Payment        `json:"payment"`
	Totals            pricing.Totals `json:"totals"`

	submitting bool
}

// Submitting reports whether a checkout for this cart is in flight.
func (c Cart) Submitting() bool {
	return c.submitting
}

func defaultPayment() Payment {
	return Payment{Method: PaymentMethodCash}
}

func newCart(id int) *Cart {
	return &Cart{
		ID:      id,
		Name:    fmt.Sprintf("Group %d", id),
		Payment: defaultPayment(),
	}
}

func (c *Cart) findItem(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) pricingLines() []pricing.LineInput {
	lines := make([]pricing.LineInput, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, pricing.LineInput{UnitPrice: item.UnitPrice, Quantity: item.Quantity})
	}
	return lines
}

func (c *Cart) clone() Cart {
	out := *c
	out.Items = append([]LineItem(nil), c.Items...)
	if c.Payment.Receipt != nil {
		out.Payment.Receipt = append([]byte(nil), c.Payment.Receipt...)
	}
	return out
}
