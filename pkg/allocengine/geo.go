package allocengine

import "math"

const earthRadiusKM = 6371.0

// HaversineKM returns the great-circle distance between a and b in kilometers. There is no
// geocoding/distance library in the dependency pack this engine is grounded on and the formula
// itself is a handful of trigonometric calls, so this stays on the standard library rather than
// pulling in an unrelated dependency for it.
func HaversineKM(a, b Location) float64 {
	lat1, lng1 := degToRad(a.Lat), degToRad(a.Lng)
	lat2, lng2 := degToRad(b.Lat), degToRad(b.Lng)

	dLat := lat2 - lat1
	dLng := lng2 - lng1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
