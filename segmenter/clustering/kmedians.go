package clustering

import (
	"math"
	"math/rand"
	"sort"
)

const convergenceEps = 1e-8

// Point is one observation in feature space.
type Point []float64

// KMedians clusters points into k groups using L1 distance and per-dimension
// median updates. The medoid seed is drawn from the given source so a fixed
// seed reproduces the same segmentation. When there are fewer points than
// clusters every point is labeled 0 with no medoids, mirroring the degenerate
// input handling of the campaign model.
func KMedians(points []Point, k, maxIter int, seed int64) (labels []int, medoids []Point, cost float64) {
	labels = make([]int, len(points))
	if len(points) == 0 || k <= 0 || len(points) < k {
		return labels, nil, 0
	}

	rng := rand.New(rand.NewSource(seed))
	dims := len(points[0])

	medoids = make([]Point, k)
	for i, idx := range rng.Perm(len(points))[:k] {
		medoids[i] = append(Point(nil), points[idx]...)
	}

	for iter := 0; iter < maxIter; iter++ {
		cost = 0
		for i, p := range points {
			best, bestDist := 0, math.Inf(1)
			for j, m := range medoids {
				if d := l1(p, m); d < bestDist {
					best, bestDist = j, d
				}
			}
			labels[i] = best
			cost += bestDist
		}

		next := make([]Point, k)
		for j := range next {
			members := make([]Point, 0)
			for i, p := range points {
				if labels[i] == j {
					members = append(members, p)
				}
			}
			if len(members) == 0 {
				next[j] = medoids[j]
				continue
			}
			m := make(Point, dims)
			for d := 0; d < dims; d++ {
				m[d] = medianOf(members, d)
			}
			next[j] = m
		}

		if converged(next, medoids) {
			medoids = next
			break
		}
		medoids = next
	}

	return labels, medoids, cost
}

// OptimalK picks the cluster count by the elbow heuristic: run KMedians for
// every k in [1, maxK] and keep the k whose cost point lies farthest from
// the chord between the first and last cost points.
func OptimalK(points []Point, maxK int, seed int64) int {
	if len(points) < 2 || maxK < 2 {
		return 1
	}

	costs := make([]float64, maxK)
	for k := 1; k <= maxK; k++ {
		_, _, cost := KMedians(points, k, 100, seed)
		costs[k-1] = cost
	}

	x1, y1 := 1.0, costs[0]
	x2, y2 := float64(maxK), costs[maxK-1]
	denom := math.Hypot(y2-y1, x2-x1)
	if denom == 0 {
		return 1
	}

	bestK, maxDistance := 1, 0.0
	for k := 1; k <= maxK; k++ {
		x0, y0 := float64(k), costs[k-1]
		distance := math.Abs((y2-y1)*x0-(x2-x1)*y0+x2*y1-y2*x1) / denom
		if distance > maxDistance {
			maxDistance = distance
			bestK = k
		}
	}
	return bestK
}

func l1(a, b Point) float64 {
	var d float64
	for i := range a {
		d += math.Abs(a[i] - b[i])
	}
	return d
}

func medianOf(members []Point, dim int) float64 {
	values := make([]float64, len(members))
	for i, m := range members {
		values[i] = m[dim]
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}

func converged(a, b []Point) bool {
	for i := range a {
		for d := range a[i] {
			if math.Abs(a[i][d]-b[i][d]) > convergenceEps {
				return false
			}
		}
	}
	return true
}
