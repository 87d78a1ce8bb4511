package bakery

// Product mirrors the back-office product resource.
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Price    float64 `json:"price"`
	IsActive bool    `json:"is_active"`
}

// StockLevel reports the available quantity for one product.
type StockLevel struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Customer mirrors the back-office customer resource. Balance may be
// negative when the customer has overpaid.
type Customer struct {
	ID          int64   `json:"id"`
	FullName    string  `json:"fullname"`
	CreditLimit float64 `json:"credit_limit"`
	Balance     float64 `json:"balance"`
}

// PricingService is a percentage rate definition. The service named "tax"
// (case-insensitive) supplies the tax rate; all others are discounts.
type PricingService struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

// SaleItem is one submitted line of a sale.
type SaleItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// SaleSubmission is the payload posted to the sales endpoint on checkout.
type SaleSubmission struct {
	Items            []SaleItem `json:"items"`
	Subtotal         float64    `json:"subtotal"`
	Tax              float64    `json:"tax"`
	Total            float64    `json:"total"`
	DiscountAmount   float64    `json:"discount_amount"`
	CashierID        int64      `json:"cashier_id"`
	PaymentMethod    string     `json:"payment_method"`
	CustomerID       *int64     `json:"customer_id,omitempty"`
	Note             string     `json:"note,omitempty"`
	PaymentReference string     `json:"payment_reference,omitempty"`
	PaymentImageURL  string     `json:"payment_image_url,omitempty"`
	Status           string     `json:"status"`
	AmountPaid       float64    `json:"amount_paid"`
	BalanceDue       float64    `json:"balance_due"`
	DueDate          string     `json:"due_date,omitempty"`
}

// SaleRecord is the sale echoed back by the backend. The terminal logs the
// id and discards the rest.
type SaleRecord struct {
	ID int64 `json:"id"`
}
