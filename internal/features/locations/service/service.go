package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"silistain-store/internal/features/locations/domain"
	"silistain-store/internal/features/locations/ports"
)

// ErrSourceUnavailable is returned when the municipality source cannot be
// reached; the caller may retry.
var ErrSourceUnavailable = errors.New("location data source unavailable")

// LocationServiceImpl implements ports.LocationService.
// Each call refetches the flat list from the source: the dataset is small
// and the cascade always reflects the latest reference data.
type LocationServiceImpl struct {
	provider ports.MunicipalityProvider
}

// NewLocationService creates a new LocationServiceImpl.
func NewLocationService(provider ports.MunicipalityProvider) *LocationServiceImpl {
	return &LocationServiceImpl{
		provider: provider,
	}
}

func (s *LocationServiceImpl) fetch(ctx context.Context) ([]domain.Municipality, error) {
	all, err := s.provider.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return all, nil
}

// Governorates returns the distinct sorted governorate names.
func (s *LocationServiceImpl) Governorates(ctx context.Context) ([]string, error) {
	all, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	return distinct(all, func(m domain.Municipality) string {
		return m.Governorate
	}), nil
}

// Delegations returns the distinct sorted delegations of a governorate.
// A blank governorate yields an empty list without hitting the source.
func (s *LocationServiceImpl) Delegations(ctx context.Context, governorate string) ([]string, error) {
	if strings.TrimSpace(governorate) == "" {
		return []string{}, nil
	}

	all, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	scoped := filter(all, func(m domain.Municipality) bool {
		return strings.EqualFold(m.Governorate, governorate)
	})

	return distinct(scoped, func(m domain.Municipality) string {
		return m.Delegation
	}), nil
}

// Cities returns the municipalities of a governorate + delegation pair,
// sorted by name. A blank parent at either level yields an empty list
// without hitting the source.
func (s *LocationServiceImpl) Cities(ctx context.Context, governorate, delegation string) ([]domain.Municipality, error) {
	if strings.TrimSpace(governorate) == "" || strings.TrimSpace(delegation) == "" {
		return []domain.Municipality{}, nil
	}

	all, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	scoped := filter(all, func(m domain.Municipality) bool {
		return strings.EqualFold(m.Governorate, governorate) &&
			strings.EqualFold(m.Delegation, delegation)
	})

	sort.Slice(scoped, func(i, j int) bool {
		return scoped[i].Name < scoped[j].Name
	})
	return scoped, nil
}

func filter(items []domain.Municipality, keep func(domain.Municipality) bool) []domain.Municipality {
	out := make([]domain.Municipality, 0, len(items))
	for _, m := range items {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func distinct(items []domain.Municipality, key func(domain.Municipality) string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, m := range items {
		k := key(m)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
