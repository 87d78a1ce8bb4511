package pricing

// LineInput is the priced quantity of one cart line.
type LineInput struct {
	UnitPrice float64
	Quantity  int
}

// Totals are the derived amounts for one cart. They are recomputed after
// every mutation and never hand-edited.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	Tax            float64 `json:"tax"`
	Total          float64 `json:"total"`
}

// Compute derives cart totals. discountRate is a percentage (0-100, 0 for
// no discount); taxRate is a fraction. Pure function, safe to call on every
// recompute.
func Compute(lines []LineInput, discountRate, taxRate float64) Totals {
	var subtotal float64
	for _, line := range lines {
		if line.UnitPrice <= 0 || line.Quantity <= 0 {
			continue
		}
		subtotal += line.UnitPrice * float64(line.Quantity)
	}

	if discountRate < 0 {
		discountRate = 0
	}
	if taxRate < 0 {
		taxRate = 0
	}

	discount := subtotal * discountRate / 100
	if discount > subtotal {
		discount = subtotal
	}

	afterDiscount := subtotal - discount
	tax := afterDiscount * taxRate

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Tax:            tax,
		Total:          afterDiscount + tax,
	}
}
