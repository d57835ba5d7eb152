// Package capture classifies the sticker colors of a physical cube from
// photographs of its six faces and assembles the result as a face string.
package capture

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/SeamusWaldron/cubr/internal/cubelet"
)

// Distance is the weighted RGB distance between two colors, computed on
// the 0-255 scale with red-mean weighting.
func Distance(a, b colorful.Color) float64 {
	r1, g1, b1 := a.R*255, a.G*255, a.B*255
	r2, g2, b2 := b.R*255, b.G*255, b.B*255

	rmean := (r1 + r2) / 2
	dr, dg, db := r1-r2, g1-g2, b1-b2
	return math.Sqrt((512+rmean)*dr*dr/256 + 4*dg*dg + (767-rmean)*db*db/256)
}

// Nearest returns the index of the candidate closest to c. Ties go to the
// lowest index; an empty candidate list returns -1.
func Nearest(c colorful.Color, candidates []colorful.Color) int {
	best, bestDist := -1, math.Inf(1)
	for i, cand := range candidates {
		if d := Distance(c, cand); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// ClassifyFace labels each region with the letter of its nearest centroid.
// labels[i] names centroids[i].
func ClassifyFace(regions, centroids []colorful.Color, labels string) (string, error) {
	if len(centroids) != len(labels) {
		return "", fmt.Errorf("have %d centroids for %d labels", len(centroids), len(labels))
	}
	out := make([]byte, len(regions))
	for i, r := range regions {
		k := Nearest(r, centroids)
		if k < 0 {
			return "", fmt.Errorf("no centroids to classify against")
		}
		out[i] = labels[k]
	}
	return string(out), nil
}

// ReferenceColor returns the render color for a face letter.
func ReferenceColor(letter byte) colorful.Color {
	l := cubelet.LabelForLetter(letter)
	c, err := colorful.Hex(cubelet.Palette[l])
	if err != nil {
		return colorful.Color{}
	}
	return c
}
