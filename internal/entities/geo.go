package entities

// GeoPoint - координаты WGS84 в градусах.
type GeoPoint struct {
	Lat float64
	Lng float64
}

func (p GeoPoint) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}
