package service

import (
	"context"
	"fmt"

	"silistain-store/internal/features/cart/domain"
	"silistain-store/internal/features/cart/ports"
)

// CartServiceImpl implements ports.CartService.
// Every mutation writes the full cart back to the repository.
type CartServiceImpl struct {
	repo ports.CartRepository
}

// NewCartService creates a new CartServiceImpl.
func NewCartService(repo ports.CartRepository) *CartServiceImpl {
	return &CartServiceImpl{
		repo: repo,
	}
}

// GetCart rehydrates the cart for the given key. A missing or unreadable
// stored cart yields a fresh empty one, never an error.
func (s *CartServiceImpl) GetCart(ctx context.Context, key string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load cart: %w", err)
	}
	if cart == nil {
		cart = domain.NewCart(key)
	}
	return cart, nil
}

// AddItem adds the item to the cart and persists it.
func (s *CartServiceImpl) AddItem(ctx context.Context, key string, item domain.LineItem, quantity int) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, key)
	if err != nil {
		return nil, err
	}

	cart.AddItem(item, quantity)

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("service: failed to save cart: %w", err)
	}
	return cart, nil
}

// RemoveItem removes the product from the cart and persists it.
func (s *CartServiceImpl) RemoveItem(ctx context.Context, key, productID string) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, key)
	if err != nil {
		return nil, err
	}

	cart.RemoveItem(productID)

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("service: failed to save cart: %w", err)
	}
	return cart, nil
}

// SetQuantity updates the quantity of the product; a quantity below 1
// removes the item.
func (s *CartServiceImpl) SetQuantity(ctx context.Context, key, productID string, quantity int) (*domain.Cart, error) {
	cart, err := s.GetCart(ctx, key)
	if err != nil {
		return nil, err
	}

	cart.SetQuantity(productID, quantity)

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("service: failed to save cart: %w", err)
	}
	return cart, nil
}

// Clear empties the cart by deleting the stored entry.
func (s *CartServiceImpl) Clear(ctx context.Context, key string) error {
	if err := s.repo.Delete(ctx, key); err != nil {
		return fmt.Errorf("service: failed to clear cart: %w", err)
	}
	return nil
}

// Totals computes the pricing breakdown for the current cart contents.
func (s *CartServiceImpl) Totals(ctx context.Context, key string) (*domain.Breakdown, error) {
	cart, err := s.GetCart(ctx, key)
	if err != nil {
		return nil, err
	}

	breakdown := domain.Price(cart.Items)
	return &breakdown, nil
}
