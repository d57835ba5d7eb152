package capture

import (
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultClusters is the number of clusters fitted to each region.
const DefaultClusters = 6

const maxIterations = 100

// Clusters is the result of a k-means run.
type Clusters struct {
	Assign    []int            // cluster index per input point
	Centroids []colorful.Color // one centroid per cluster
}

// Sizes counts the points assigned to each cluster.
func (c Clusters) Sizes() []int {
	sizes := make([]int, len(c.Centroids))
	for _, k := range c.Assign {
		sizes[k]++
	}
	return sizes
}

// Largest returns the index of the most populated cluster, preferring the
// lowest index on ties.
func (c Clusters) Largest() int {
	best, bestSize := -1, -1
	for i, n := range c.Sizes() {
		if n > bestSize {
			best, bestSize = i, n
		}
	}
	return best
}

// KMeans clusters points with Lloyd iterations under Distance. k is
// clamped to the number of distinct points; initial centroids are drawn
// from the distinct points with rng so results are reproducible.
func KMeans(points []colorful.Color, k int, rng *rand.Rand) Clusters {
	distinct := uniqueColors(points)
	if k > len(distinct) {
		k = len(distinct)
	}
	if k <= 0 {
		return Clusters{Assign: make([]int, len(points))}
	}

	centroids := make([]colorful.Color, k)
	for i, j := range rng.Perm(len(distinct))[:k] {
		centroids[i] = distinct[j]
	}

	assign := make([]int, len(points))
	for i := range assign {
		assign[i] = -1
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, p := range points {
			if n := Nearest(p, centroids); n != assign[i] {
				assign[i] = n
				changed = true
			}
		}
		if !changed {
			break
		}

		sums := make([][3]float64, k)
		counts := make([]int, k)
		for i, p := range points {
			c := assign[i]
			sums[c][0] += p.R
			sums[c][1] += p.G
			sums[c][2] += p.B
			counts[c]++
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			n := float64(counts[c])
			centroids[c] = colorful.Color{R: sums[c][0] / n, G: sums[c][1] / n, B: sums[c][2] / n}
		}
	}

	return Clusters{Assign: assign, Centroids: centroids}
}

// ExtractRegionColor returns the centroid of the largest of
// DefaultClusters clusters fitted to pixels.
func ExtractRegionColor(pixels []colorful.Color, rng *rand.Rand) colorful.Color {
	cl := KMeans(pixels, DefaultClusters, rng)
	i := cl.Largest()
	if i < 0 {
		return colorful.Color{}
	}
	return cl.Centroids[i]
}

func uniqueColors(points []colorful.Color) []colorful.Color {
	seen := make(map[colorful.Color]struct{}, len(points))
	var out []colorful.Color
	for _, p := range points {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
