package geo

import "math"

// padding absorbs float rounding so points exactly on the circle stay inside
const boxPaddingDeg = 1e-9

// Box is a latitude/longitude rectangle that contains every point within a
// radius of its center. It only narrows candidates before the exact distance
// check and never replaces it.
type Box struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
	// AllLongitudes is set when the circle touches a pole or crosses the
	// antimeridian; MinLon and MaxLon are then -180 and 180.
	AllLongitudes bool
}

// BoundingBox returns the box enclosing the circle of radiusKm around center.
func BoundingBox(center Coordinate, radiusKm float64) Box {
	dLat := toDegrees(radiusKm/EarthRadiusKm) + boxPaddingDeg

	box := Box{
		MinLat: math.Max(-90, center.Latitude-dLat),
		MaxLat: math.Min(90, center.Latitude+dLat),
		MinLon: -180,
		MaxLon: 180,
	}

	if box.MinLat <= -90 || box.MaxLat >= 90 {
		box.AllLongitudes = true
		return box
	}

	// widest longitude offset reached by the circle, see
	// http://janmatuschek.de/LatitudeLongitudeBoundingCoordinates
	dLon := toDegrees(math.Asin(math.Sin(radiusKm/EarthRadiusKm) / math.Cos(toRadians(center.Latitude))))
	if math.IsNaN(dLon) || center.Longitude-dLon-boxPaddingDeg < -180 || center.Longitude+dLon+boxPaddingDeg > 180 {
		box.AllLongitudes = true
		return box
	}

	dLon += boxPaddingDeg
	box.MinLon = center.Longitude - dLon
	box.MaxLon = center.Longitude + dLon
	return box
}

// Contains reports whether c lies inside the box (edges included).
func (b Box) Contains(c Coordinate) bool {
	if c.Latitude < b.MinLat || c.Latitude > b.MaxLat {
		return false
	}
	if b.AllLongitudes {
		return true
	}
	return c.Longitude >= b.MinLon && c.Longitude <= b.MaxLon
}
