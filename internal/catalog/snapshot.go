package catalog

import (
	"strings"

	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/bakery"
)

// DefaultTaxRate applies when the back office has no pricing service named
// "tax". Checkout stays functional instead of blocking on configuration.
const DefaultTaxRate = 0.08

const taxServiceName = "tax"

// Product is a sellable item from the snapshot. Inactive products are
// filtered out at load time.
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Price    float64 `json:"price"`
}

// Customer carries the credit data checkout validates against.
type Customer struct {
	ID          int64   `json:"id"`
	FullName    string  `json:"fullname"`
	CreditLimit float64 `json:"credit_limit"`
	Balance     float64 `json:"balance"`
}

// PricingService is a percentage rate: the "tax" service (case-insensitive)
// supplies the tax rate, every other one is a selectable discount.
type PricingService struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

// Snapshot is an immutable view of the catalog. A new snapshot replaces the
// previous one wholesale; there is no partial-update path.
type Snapshot struct {
	products     []Product
	productByID  map[int64]Product
	stock        map[int64]int
	customers    []Customer
	customerByID map[int64]Customer
	services     []PricingService
	serviceByID  map[int64]PricingService
	taxRate      float64
}

// NewSnapshot builds a snapshot from back-office payloads.
func NewSnapshot(products []bakery.Product, stock []bakery.StockLevel, customers []bakery.Customer, services []bakery.PricingService) *Snapshot {
	s := &Snapshot{
		productByID:  make(map[int64]Product),
		stock:        make(map[int64]int),
		customerByID: make(map[int64]Customer),
		serviceByID:  make(map[int64]PricingService),
		taxRate:      DefaultTaxRate,
	}

	for _, p := range products {
		if !p.IsActive {
			continue
		}
		product := Product{ID: p.ID, Name: p.Name, Category: p.Category, Price: p.Price}
		s.products = append(s.products, product)
		s.productByID[p.ID] = product
	}

	for _, level := range stock {
		if level.Quantity < 0 {
			continue
		}
		s.stock[level.ProductID] = level.Quantity
	}

	for _, c := range customers {
		customer := Customer{ID: c.ID, FullName: c.FullName, CreditLimit: c.CreditLimit, Balance: c.Balance}
		s.customers = append(s.customers, customer)
		s.customerByID[c.ID] = customer
	}

	for _, svc := range services {
		service := PricingService{ID: svc.ID, Name: svc.Name, Rate: svc.Rate}
		s.services = append(s.services, service)
		s.serviceByID[svc.ID] = service
		if strings.EqualFold(strings.TrimSpace(svc.Name), taxServiceName) {
			s.taxRate = svc.Rate / 100
		}
	}

	return s
}

// EmptySnapshot is the pre-load state: no products, no stock, fallback tax.
func EmptySnapshot() *Snapshot {
	return NewSnapshot(nil, nil, nil, nil)
}

// Products lists active products in catalog order.
func (s *Snapshot) Products() []Product {
	return s.products
}

// ProductByID resolves an active product.
func (s *Snapshot) ProductByID(id int64) (Product, bool) {
	p, ok := s.productByID[id]
	return p, ok
}

// StockFor returns the available quantity for a product; missing products
// report zero stock.
func (s *Snapshot) StockFor(productID int64) int {
	return s.stock[productID]
}

// Customers lists the customer book.
func (s *Snapshot) Customers() []Customer {
	return s.customers
}

// CustomerByID resolves a customer reference.
func (s *Snapshot) CustomerByID(id int64) (Customer, bool) {
	c, ok := s.customerByID[id]
	return c, ok
}

// Services lists every pricing service, tax included.
func (s *Snapshot) Services() []PricingService {
	return s.services
}

// ServiceByID resolves a pricing service reference.
func (s *Snapshot) ServiceByID(id int64) (PricingService, bool) {
	svc, ok := s.serviceByID[id]
	return svc, ok
}

// DiscountServices lists the services selectable as cart discounts.
func (s *Snapshot) DiscountServices() []PricingService {
	var out []PricingService
	for _, svc := range s.services {
		if strings.EqualFold(strings.TrimSpace(svc.Name), taxServiceName) {
			continue
		}
		out = append(out, svc)
	}
	return out
}

// TaxRate returns the effective tax rate as a fraction.
func (s *Snapshot) TaxRate() float64 {
	return s.taxRate
}
