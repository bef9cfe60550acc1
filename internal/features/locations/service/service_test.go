package service

import (
	"context"
	"errors"
	"testing"

	"silistain-store/internal/features/locations/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMunicipalityProvider is a mock implementation of ports.MunicipalityProvider
type MockMunicipalityProvider struct {
	mock.Mock
}

func (m *MockMunicipalityProvider) FetchAll(ctx context.Context) ([]domain.Municipality, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Municipality), args.Error(1)
}

func sampleMunicipalities() []domain.Municipality {
	return []domain.Municipality{
		{ID: "1", Name: "La Marsa", Delegation: "La Marsa", Governorate: "Tunis", PostalCode: "2078"},
		{ID: "2", Name: "Carthage", Delegation: "Carthage", Governorate: "Tunis", PostalCode: "2016"},
		{ID: "3", Name: "Sousse Ville", Delegation: "Sousse Medina", Governorate: "Sousse", PostalCode: "4000"},
		{ID: "4", Name: "Hammam Sousse", Delegation: "Hammam Sousse", Governorate: "Sousse", PostalCode: "4011"},
		{ID: "5", Name: "Akouda", Delegation: "Akouda", Governorate: "Sousse", PostalCode: "4022"},
	}
}

func TestLocationService_Governorates(t *testing.T) {
	ctx := context.Background()

	t.Run("DistinctSorted", func(t *testing.T) {
		provider := new(MockMunicipalityProvider)
		service := NewLocationService(provider)

		provider.On("FetchAll", ctx).Return(sampleMunicipalities(), nil).Once()

		govs, err := service.Governorates(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Sousse", "Tunis"}, govs)
		provider.AssertExpectations(t)
	})

	t.Run("SourceDown", func(t *testing.T) {
		provider := new(MockMunicipalityProvider)
		service := NewLocationService(provider)

		provider.On("FetchAll", ctx).Return(nil, errors.New("timeout")).Once()

		govs, err := service.Governorates(ctx)
		assert.Nil(t, govs)
		assert.ErrorIs(t, err, ErrSourceUnavailable)
		provider.AssertExpectations(t)
	})
}

func TestLocationService_Delegations(t *testing.T) {
	ctx := context.Background()

	t.Run("ScopedToGovernorate", func(t *testing.T) {
		provider := new(MockMunicipalityProvider)
		service := NewLocationService(provider)

		provider.On("FetchAll", ctx).Return(sampleMunicipalities(), nil).Once()

		dels, err := service.Delegations(ctx, "Sousse")
		require.NoError(t, err)
		assert.Equal(t, []string{"Akouda", "Hammam Sousse", "Sousse Medina"}, dels)
		provider.AssertExpectations(t)
	})

	t.Run("BlankGovernorateSkipsFetch", func(t *testing.T) {
		provider := new(MockMunicipalityProvider)
		service := NewLocationService(provider)

		dels, err := service.Delegations(ctx, "  ")
		require.NoError(t, err)
		assert.Empty(t, dels)
		provider.AssertNotCalled(t, "FetchAll", mock.Anything)
	})

	t.Run("RefetchesEveryCall", func(t *testing.T) {
		provider := new(MockMunicipalityProvider)
		service := NewLocationService(provider)

		provider.On("FetchAll", ctx).Return(sampleMunicipalities(), nil).Twice()

		_, err := service.Delegations(ctx, "Sousse")
		require.NoError(t, err)
		_, err = service.Delegations(ctx, "Sousse")
		require.NoError(t, err)
		provider.AssertExpectations(t)
	})
}

func TestLocationService_Cities(t *testing.T) {
	ctx := context.Background()

	t.Run("ScopedAndSorted", func(t *testing.T) {
		provider := new(MockMunicipalityProvider)
		service := NewLocationService(provider)

		provider.On("FetchAll", ctx).Return(sampleMunicipalities(), nil).Once()

		cities, err := service.Cities(ctx, "Sousse", "Sousse Medina")
		require.NoError(t, err)
		require.Len(t, cities, 1)
		assert.Equal(t, "Sousse Ville", cities[0].Name)
		provider.AssertExpectations(t)
	})

	t.Run("CaseInsensitiveMatch", func(t *testing.T) {
		provider := new(MockMunicipalityProvider)
		service := NewLocationService(provider)

		provider.On("FetchAll", ctx).Return(sampleMunicipalities(), nil).Once()

		cities, err := service.Cities(ctx, "sousse", "hammam sousse")
		require.NoError(t, err)
		require.Len(t, cities, 1)
		assert.Equal(t, "Hammam Sousse", cities[0].Name)
	})

	t.Run("BlankParentSkipsFetch", func(t *testing.T) {
		provider := new(MockMunicipalityProvider)
		service := NewLocationService(provider)

		cities, err := service.Cities(ctx, "Sousse", "")
		require.NoError(t, err)
		assert.Empty(t, cities)
		provider.AssertNotCalled(t, "FetchAll", mock.Anything)
	})
}
