package geo

import (
	"math"
	"sort"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in
// kilometers.
func HaversineKm(a, b Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// RankByDistance filters facilities to those within radiusKm of origin and
// returns them sorted by ascending distance. Ties keep input order. An
// empty result is a valid answer, not an error.
func RankByDistance(origin Coordinates, facilities []Facility, radiusKm float64) []RankedFacility {
	ranked := make([]RankedFacility, 0, len(facilities))
	for _, f := range facilities {
		d := HaversineKm(origin, f.Coordinates)
		if d > radiusKm {
			continue
		}
		ranked = append(ranked, RankedFacility{Facility: f, DistanceKm: d})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	return ranked
}
