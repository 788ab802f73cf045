package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/teodorv/medcycle/utils"
)

// userAgent identifies the service to the public map-data endpoints,
// which require a descriptive User-Agent.
const userAgent = "medcycle/1.0 (medicine donation center lookup)"

// Client talks to a Nominatim-style geocoder and an Overpass-style
// map-data endpoint. Outbound calls are throttled to one per second,
// matching the public Nominatim usage policy.
type Client struct {
	geocodeEndpoint  string
	overpassEndpoint string
	httpClient       *http.Client
	limiter          *rate.Limiter
	logger           utils.Logger
}

// NewClient creates a map-data client for the given endpoints.
func NewClient(geocodeEndpoint, overpassEndpoint string, logger utils.Logger) *Client {
	return &Client{
		geocodeEndpoint:  geocodeEndpoint,
		overpassEndpoint: overpassEndpoint,
		httpClient:       &http.Client{Timeout: 15 * time.Second},
		limiter:          rate.NewLimiter(rate.Every(time.Second), 1),
		logger:           logger,
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves free-text location to coordinates using the first
// geocoder match.
func (c *Client) Geocode(ctx context.Context, location string) (Coordinates, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Coordinates{}, err
	}

	params := url.Values{}
	params.Set("q", location)
	params.Set("format", "json")
	params.Set("limit", "1")

	body, err := c.get(ctx, c.geocodeEndpoint+"?"+params.Encode())
	if err != nil {
		return Coordinates{}, fmt.Errorf("geocode %q: %w", location, err)
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return Coordinates{}, fmt.Errorf("parse geocode response: %w", err)
	}
	if len(results) == 0 {
		return Coordinates{}, fmt.Errorf("no geocode match for %q", location)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse geocode latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse geocode longitude: %w", err)
	}

	c.logger.Debug("geocoded location", "query", location, "lat", lat, "lon", lon)
	return Coordinates{Lat: lat, Lon: lon}, nil
}

type overpassResponse struct {
	Elements []struct {
		Type   string            `json:"type"`
		Lat    float64           `json:"lat"`
		Lon    float64           `json:"lon"`
		Center *Coordinates      `json:"center"`
		Tags   map[string]string `json:"tags"`
	} `json:"elements"`
}

// FindNearbyFacilities queries the map-data endpoint for hospitals,
// pharmacies, and clinics within radiusKm of origin. Results carry no
// distance; callers rank them with RankByDistance.
func (c *Client) FindNearbyFacilities(ctx context.Context, origin Coordinates, radiusKm float64) ([]Facility, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	radiusM := int(radiusKm * 1000)
	query := fmt.Sprintf(`[out:json][timeout:25];
(
  node["amenity"="hospital"](around:%d,%f,%f);
  node["amenity"="pharmacy"](around:%d,%f,%f);
  node["amenity"="clinic"](around:%d,%f,%f);
);
out center tags;`,
		radiusM, origin.Lat, origin.Lon,
		radiusM, origin.Lat, origin.Lon,
		radiusM, origin.Lat, origin.Lon)

	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.overpassEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facility lookup: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read facility response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("facility lookup: status code %d: %s", resp.StatusCode, string(body))
	}

	var parsed overpassResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse facility response: %w", err)
	}

	facilities := make([]Facility, 0, len(parsed.Elements))
	for _, el := range parsed.Elements {
		coords := Coordinates{Lat: el.Lat, Lon: el.Lon}
		if el.Center != nil {
			coords = *el.Center
		}

		facilities = append(facilities, Facility{
			Name:           facilityName(el.Tags),
			Address:        facilityAddress(el.Tags),
			Phone:          el.Tags["phone"],
			Coordinates:    coords,
			Type:           facilityType(el.Tags["amenity"]),
			SourceVerified: el.Tags["name"] != "",
		})
	}

	c.logger.Debug("facility lookup complete", "count", len(facilities), "lat", origin.Lat, "lon", origin.Lon)
	return facilities, nil
}

func facilityName(tags map[string]string) string {
	if name := tags["name"]; name != "" {
		return name
	}
	return "Unnamed " + tags["amenity"]
}

func facilityAddress(tags map[string]string) string {
	parts := []string{}
	if v := tags["addr:housenumber"]; v != "" {
		parts = append(parts, v)
	}
	if v := tags["addr:street"]; v != "" {
		parts = append(parts, v)
	}
	if v := tags["addr:city"]; v != "" {
		parts = append(parts, v)
	}
	return strings.Join(parts, " ")
}

func facilityType(amenity string) FacilityType {
	switch amenity {
	case "hospital":
		return FacilityHospital
	case "clinic":
		return FacilityClinic
	default:
		return FacilityPharmacy
	}
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
