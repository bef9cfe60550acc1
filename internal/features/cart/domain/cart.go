package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem represents one product entry in the cart.
type LineItem struct {
	// ProductID is the unique identifier of the product.
	ProductID string `json:"product_id"`
	// Name is the display name of the product.
	Name string `json:"name"`
	// UnitPrice is the price of a single unit.
	UnitPrice decimal.Decimal `json:"unit_price"`
	// Quantity is the number of units in the cart, always >= 1.
	Quantity int `json:"quantity"`
	// ImageURL points to the product picture.
	ImageURL string `json:"image_url,omitempty"`
	// Brand is the watch manufacturer.
	Brand string `json:"brand,omitempty"`
}

// Cart is an ordered collection of line items, unique by product ID.
type Cart struct {
	// Key scopes the cart to a guest or authenticated identity.
	Key string `json:"key"`
	// Items holds the line items in insertion order.
	Items []LineItem `json:"items"`
	// UpdatedAt is the timestamp of the last mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCart creates an empty cart for the given identity key.
func NewCart(key string) *Cart {
	return &Cart{
		Key:   key,
		Items: []LineItem{},
	}
}

// AddItem appends the item, or accumulates quantity when the product is
// already present. A quantity below 1 counts as 1.
func (c *Cart) AddItem(item LineItem, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += quantity
			c.UpdatedAt = time.Now()
			return
		}
	}

	item.Quantity = quantity
	c.Items = append(c.Items, item)
	c.UpdatedAt = time.Now()
}

// RemoveItem removes the matching entry. Removing an absent product is a
// no-op; the return value reports whether anything was removed.
func (c *Cart) RemoveItem(productID string) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// SetQuantity replaces the quantity of the matching entry.
// A quantity below 1 removes the item entirely.
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity < 1 {
		c.RemoveItem(productID)
		return
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			c.UpdatedAt = time.Now()
			return
		}
	}
}

// Clear empties the collection.
func (c *Cart) Clear() {
	c.Items = []LineItem{}
	c.UpdatedAt = time.Now()
}

// IsEmpty reports whether the cart holds no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
