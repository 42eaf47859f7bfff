package domain

import "math"

// Geographic coordinates in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Valid reports whether both components are finite and within WGS84 bounds.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}
