package clustering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blob(center Point, offsets ...float64) []Point {
	points := make([]Point, 0, len(offsets))
	for _, o := range offsets {
		p := make(Point, len(center))
		for d := range center {
			p[d] = center[d] + o
		}
		points = append(points, p)
	}
	return points
}

func TestKMediansSeparatedBlobs(t *testing.T) {
	low := blob(Point{1, 1}, 0, 0.1, -0.1, 0.2)
	high := blob(Point{100, 100}, 0, 0.1, -0.1, 0.2)
	points := append(append([]Point{}, low...), high...)

	labels, medoids, cost := KMedians(points, 2, 100, 42)

	require.Len(t, labels, len(points))
	require.Len(t, medoids, 2)

	// All low points share one label, all high points the other.
	for _, l := range labels[1:4] {
		assert.Equal(t, labels[0], l)
	}
	for _, l := range labels[5:] {
		assert.Equal(t, labels[4], l)
	}
	assert.NotEqual(t, labels[0], labels[4])

	// Within-blob spread only.
	assert.Less(t, cost, 5.0)
}

func TestKMediansDeterministicSeed(t *testing.T) {
	points := []Point{
		{1, 2}, {1.5, 1.8}, {8, 8}, {8.2, 7.9}, {50, 3}, {49, 3.5},
	}

	labels1, medoids1, cost1 := KMedians(points, 3, 100, 7)
	labels2, medoids2, cost2 := KMedians(points, 3, 100, 7)

	assert.Equal(t, labels1, labels2)
	assert.Equal(t, medoids1, medoids2)
	assert.Equal(t, cost1, cost2)
}

func TestKMediansDegenerateInput(t *testing.T) {
	labels, medoids, cost := KMedians([]Point{{1, 1}}, 3, 100, 1)
	assert.Equal(t, []int{0}, labels)
	assert.Nil(t, medoids)
	assert.Zero(t, cost)

	labels, medoids, cost = KMedians(nil, 2, 100, 1)
	assert.Empty(t, labels)
	assert.Nil(t, medoids)
	assert.Zero(t, cost)
}

func TestOptimalKFindsElbow(t *testing.T) {
	// Three tight, well separated blobs: cost collapses at k=3.
	points := make([]Point, 0)
	points = append(points, blob(Point{0, 0}, 0, 0.1, 0.2, -0.1, -0.2)...)
	points = append(points, blob(Point{50, 50}, 0, 0.1, 0.2, -0.1, -0.2)...)
	points = append(points, blob(Point{100, 0}, 0, 0.1, 0.2, -0.1, -0.2)...)

	k := OptimalK(points, 8, 42)
	assert.GreaterOrEqual(t, k, 2)
	assert.LessOrEqual(t, k, 4)
}

func TestOptimalKDegenerateInput(t *testing.T) {
	assert.Equal(t, 1, OptimalK(nil, 10, 1))
	assert.Equal(t, 1, OptimalK([]Point{{1}}, 10, 1))
	assert.Equal(t, 1, OptimalK([]Point{{1}, {2}}, 1, 1))
}

func TestMedianOf(t *testing.T) {
	members := []Point{{1}, {9}, {3}}
	assert.Equal(t, 3.0, medianOf(members, 0))

	members = []Point{{1}, {9}, {3}, {5}}
	assert.Equal(t, 4.0, medianOf(members, 0))
}
