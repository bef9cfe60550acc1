package domain

import "github.com/shopspring/decimal"

// Breakdown carries the computed price components of a cart.
type Breakdown struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Subtotal sums unit price times quantity over all items, rounded to two
// decimal places. An empty collection yields zero.
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum.Round(2)
}

// Tax is fixed at zero under the current business rule. The line is kept so
// the breakdown always carries a tax component for display.
func Tax(items []LineItem) decimal.Decimal {
	return decimal.Zero
}

// Shipping is fixed at zero: the store ships for free.
func Shipping(items []LineItem) decimal.Decimal {
	return decimal.Zero
}

// Total is subtotal plus tax plus shipping, rounded to two decimal places.
func Total(items []LineItem) decimal.Decimal {
	return Subtotal(items).Add(Tax(items)).Add(Shipping(items)).Round(2)
}

// Price computes the full breakdown for a set of line items.
func Price(items []LineItem) Breakdown {
	return Breakdown{
		Subtotal: Subtotal(items),
		Tax:      Tax(items),
		Shipping: Shipping(items),
		Total:    Total(items),
	}
}
