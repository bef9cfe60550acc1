package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"silistain-store/internal/core/config"
	"silistain-store/internal/core/httpclient"
	"silistain-store/internal/features/locations/domain"
)

// MunicipalityHTTPAdapter implements ports.MunicipalityProvider against the
// hosted municipality lookup function.
type MunicipalityHTTPAdapter struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// config holds the data source location.
	config config.LocationsConfig
}

// NewMunicipalityHTTPAdapter creates a new MunicipalityHTTPAdapter.
func NewMunicipalityHTTPAdapter(cfg config.LocationsConfig) *MunicipalityHTTPAdapter {
	return &MunicipalityHTTPAdapter{
		client: httpclient.NewClient(10 * time.Second),
		config: cfg,
	}
}

// sourceMunicipality mirrors one record of the source payload.
type sourceMunicipality struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Delegation  string  `json:"delegation"`
	Governorate string  `json:"governorate"`
	PostalCode  string  `json:"postal_code"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// FetchAll retrieves the full flat municipality list and maps it to the
// domain entity.
func (a *MunicipalityHTTPAdapter) FetchAll(ctx context.Context) ([]domain.Municipality, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.SourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("municipality source returned status: %d", resp.StatusCode)
	}

	var records []sourceMunicipality
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	municipalities := make([]domain.Municipality, 0, len(records))
	for _, r := range records {
		municipalities = append(municipalities, domain.Municipality{
			ID:          r.ID,
			Name:        r.Name,
			Delegation:  r.Delegation,
			Governorate: r.Governorate,
			PostalCode:  r.PostalCode,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
		})
	}

	return municipalities, nil
}
