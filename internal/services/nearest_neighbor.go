package services

import (
	"math"

	"basket-shipping-service/internal/domain"
)

// NearestNeighborOrder returns the indices of points in greedy visiting order.
//
// The first point is the one closest to start, or points[0] when start is nil.
// Each following step moves to the closest unvisited point. Ties keep the
// earliest index, so the result is deterministic for a given input order.
// It does not attempt global optimisation.
func NearestNeighborOrder(points []domain.Coordinates, start *domain.Coordinates) []int {
	if len(points) == 0 {
		return []int{}
	}

	visited := make([]bool, len(points))
	order := make([]int, 0, len(points))

	current := 0
	if start != nil {
		current = nearestUnvisited(points, visited, *start)
	}

	for {
		visited[current] = true
		order = append(order, current)
		if len(order) == len(points) {
			return order
		}
		current = nearestUnvisited(points, visited, points[current])
	}
}

func nearestUnvisited(points []domain.Coordinates, visited []bool, from domain.Coordinates) int {
	best := -1
	bestDistance := math.Inf(1)

	for i, p := range points {
		if visited[i] {
			continue
		}
		// Strict comparison keeps the first-seen point on ties.
		if d := Haversine(from, p); d < bestDistance || best == -1 {
			best = i
			bestDistance = d
		}
	}
	return best
}
