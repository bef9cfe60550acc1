package domain

// Municipality is one row of the delivery-area reference data. It is
// read-only: the source system owns it and this service only projects it.
type Municipality struct {
	// ID is the source system's identifier.
	ID string `json:"id"`
	// Name is the city / locality name.
	Name string `json:"name"`
	// Delegation is the administrative district containing the city.
	Delegation string `json:"delegation"`
	// Governorate is the top-level administrative region.
	Governorate string `json:"governorate"`
	// PostalCode is the locality's postal code.
	PostalCode string `json:"postal_code"`
	// Latitude and Longitude locate the municipality.
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
