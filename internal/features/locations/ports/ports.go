package ports

import (
	"context"

	"silistain-store/internal/features/locations/domain"
)

// LocationService defines the primary port for the governorate →
// delegation → city selection cascade.
type LocationService interface {
	Governorates(ctx context.Context) ([]string, error)
	Delegations(ctx context.Context, governorate string) ([]string, error)
	Cities(ctx context.Context, governorate, delegation string) ([]domain.Municipality, error)
}

// MunicipalityProvider defines the secondary port for the external
// municipality data source.
type MunicipalityProvider interface {
	// FetchAll returns the full flat municipality list.
	FetchAll(ctx context.Context) ([]domain.Municipality, error)
}
