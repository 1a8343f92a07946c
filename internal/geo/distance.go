package geo

import (
	"math"

	"github.com/foodshare/foodshare/internal/models"
)

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Distance returns the great-circle distance between a and b in whole
// kilometres, using the haversine formula. It returns 0 when either position
// is unknown.
func Distance(a, b *models.Coordinates) int {
	if a == nil || b == nil {
		return 0
	}

	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Latitude))*math.Cos(toRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return int(math.Round(EarthRadiusKm * c))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
