package geo

import (
	"cmp"
	"fmt"
	"slices"
)

// Point pairs a caller-owned identifier with a location.
type Point[K comparable] struct {
	ID         K
	Coordinate Coordinate
}

// Result is the distance from a reference point to the point with ID.
type Result[K comparable] struct {
	ID         K
	DistanceKm float64
}

// Distances computes the distance from ref to every point, keeping input order.
func Distances[K comparable](ref Coordinate, points []Point[K]) ([]Result[K], error) {
	if err := validatePoints(ref, points); err != nil {
		return nil, err
	}

	results := make([]Result[K], len(points))
	for i, p := range points {
		results[i] = Result[K]{ID: p.ID, DistanceKm: DistanceKm(ref, p.Coordinate)}
	}
	return results, nil
}

// FilterByRadius keeps the points whose distance from ref is at most radiusKm.
// Relative input order is preserved.
func FilterByRadius[K comparable](ref Coordinate, points []Point[K], radiusKm float64) ([]Result[K], error) {
	if err := ValidateRadius(radiusKm); err != nil {
		return nil, err
	}
	if err := validatePoints(ref, points); err != nil {
		return nil, err
	}

	results := make([]Result[K], 0, len(points))
	for _, p := range points {
		d := DistanceKm(ref, p.Coordinate)
		if d <= radiusKm {
			results = append(results, Result[K]{ID: p.ID, DistanceKm: d})
		}
	}
	return results, nil
}

// SortByDistance returns a copy of results ordered by ascending distance.
// Equal distances keep their input order.
func SortByDistance[K comparable](results []Result[K]) []Result[K] {
	sorted := slices.Clone(results)
	if sorted == nil {
		sorted = []Result[K]{}
	}
	slices.SortStableFunc(sorted, func(a, b Result[K]) int {
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})
	return sorted
}

// Nearby is the read path used by station listings. With a radius the points
// are filtered and sorted nearest first; without one distances are attached
// and the input order is left alone.
func Nearby[K comparable](ref Coordinate, points []Point[K], radiusKm *float64) ([]Result[K], error) {
	if radiusKm == nil {
		return Distances(ref, points)
	}

	results, err := FilterByRadius(ref, points, *radiusKm)
	if err != nil {
		return nil, err
	}
	return SortByDistance(results), nil
}

func validatePoints[K comparable](ref Coordinate, points []Point[K]) error {
	if err := ref.Validate(); err != nil {
		return fmt.Errorf("reference point: %w", err)
	}
	for i, p := range points {
		if err := p.Coordinate.Validate(); err != nil {
			return fmt.Errorf("point %v at index %d: %w", p.ID, i, err)
		}
	}
	return nil
}
