package ports

import (
	"context"

	"silistain-store/internal/features/cart/domain"
)

// CartService defines the primary port for cart operations.
type CartService interface {
	GetCart(ctx context.Context, key string) (*domain.Cart, error)
	AddItem(ctx context.Context, key string, item domain.LineItem, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, key, productID string) (*domain.Cart, error)
	SetQuantity(ctx context.Context, key, productID string, quantity int) (*domain.Cart, error)
	Clear(ctx context.Context, key string) error
	Totals(ctx context.Context, key string) (*domain.Breakdown, error)
}

// CartRepository defines the secondary port for cart persistence.
type CartRepository interface {
	// Save writes the full cart under its identity key.
	Save(ctx context.Context, cart *domain.Cart) error
	// Get returns the stored cart, or nil when absent or unreadable.
	Get(ctx context.Context, key string) (*domain.Cart, error)
	// Delete removes the stored cart.
	Delete(ctx context.Context, key string) error
}
