// Package geo provides geocoding, nearby-facility lookup against public
// map-data services, and great-circle distance ranking.
package geo

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// FacilityType tags what kind of location can accept medicine donations.
type FacilityType string

const (
	FacilityHospital FacilityType = "hospital"
	FacilityPharmacy FacilityType = "pharmacy"
	FacilityClinic   FacilityType = "clinic"
)

// Facility is a donation-capable location returned by the map-data lookup.
// Owned transiently by the request; never persisted.
type Facility struct {
	Name           string       `json:"name"`
	Address        string       `json:"address"`
	Phone          string       `json:"phone,omitempty"`
	Coordinates    Coordinates  `json:"coordinates"`
	Type           FacilityType `json:"facility_type"`
	SourceVerified bool         `json:"source_verified"`
}

// RankedFacility pairs a facility with its distance from the search origin.
type RankedFacility struct {
	Facility   Facility `json:"facility"`
	DistanceKm float64  `json:"distance_km"`
}
