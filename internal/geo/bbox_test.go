package geo

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundingBox(t *testing.T) {
	tests := []struct {
		name          string
		center        Coordinate
		radiusKm      float64
		allLongitudes bool
	}{
		{
			name:     "mid latitude",
			center:   Coordinate{Latitude: 47.6062, Longitude: -122.3321},
			radiusKm: 10,
		},
		{
			name:          "reaches the north pole",
			center:        Coordinate{Latitude: 89.95, Longitude: 10},
			radiusKm:      50,
			allLongitudes: true,
		},
		{
			name:          "crosses the antimeridian",
			center:        Coordinate{Latitude: -17.7, Longitude: 179.9},
			radiusKm:      100,
			allLongitudes: true,
		},
		{
			name:     "zero radius",
			center:   Coordinate{Latitude: 10, Longitude: 20},
			radiusKm: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := BoundingBox(tt.center, tt.radiusKm)
			assert.Equal(t, tt.allLongitudes, box.AllLongitudes)
			assert.True(t, box.Contains(tt.center))
			assert.LessOrEqual(t, box.MinLat, tt.center.Latitude)
			assert.GreaterOrEqual(t, box.MaxLat, tt.center.Latitude)
			assert.GreaterOrEqual(t, box.MinLat, -90.0)
			assert.LessOrEqual(t, box.MaxLat, 90.0)
			if tt.allLongitudes {
				assert.Equal(t, -180.0, box.MinLon)
				assert.Equal(t, 180.0, box.MaxLon)
			}
		})
	}
}

func TestBoundingBox_ExcludesFarPoints(t *testing.T) {
	box := BoundingBox(newYork, 50)
	assert.False(t, box.Contains(losAngeles))
	assert.True(t, box.Contains(Coordinate{Latitude: 40.8, Longitude: -74.1}))
}

func TestBoundingBox_ContainsEveryPointInRadius(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	radii := []float64{0.5, 5, 25, 250, 2500}

	for i := 0; i < 200; i++ {
		center := randomCoordinate(r)
		for _, radius := range radii {
			box := BoundingBox(center, radius)
			for j := 0; j < 50; j++ {
				// sample around the center, biased towards the circle's edge
				p := Coordinate{
					Latitude:  clampLat(center.Latitude + (r.Float64()*2-1)*radius/50),
					Longitude: wrapLon(center.Longitude + (r.Float64()*2-1)*radius/20),
				}
				if DistanceKm(center, p) <= radius {
					assert.True(t, box.Contains(p), "center=%v radius=%v point=%v box=%+v", center, radius, p, box)
				}
			}
		}
	}
}

func clampLat(lat float64) float64 {
	if lat > 90 {
		return 90
	}
	if lat < -90 {
		return -90
	}
	return lat
}

func wrapLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}
