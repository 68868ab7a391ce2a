package shelter

import (
	"math"
	"sort"
)

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two coordinates in
// kilometers (haversine formula).
func DistanceKm(a, b Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLng := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// SortByDistance orders shelters by ascending distance from origin.
// The sort is stable so equidistant shelters keep their input order.
func SortByDistance(shelters []*Shelter, origin Coordinate) {
	sort.SliceStable(shelters, func(i, j int) bool {
		di := DistanceKm(origin, Coordinate{Latitude: shelters[i].Latitude, Longitude: shelters[i].Longitude})
		dj := DistanceKm(origin, Coordinate{Latitude: shelters[j].Latitude, Longitude: shelters[j].Longitude})
		return di < dj
	})
}
