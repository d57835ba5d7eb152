package capture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"

	"github.com/SeamusWaldron/cubr/pkg/types"
)

const afterR = "UUFUUFUUF" + "RRRRRRRRR" + "FFDFFDFFD" + "DDBDDBDDB" + "LLLLLLLLL" + "UBBUBBUBB"

func perturb(c colorful.Color, d float64) colorful.Color {
	return colorful.Color{R: c.R + d, G: c.G - d, B: c.B + d}.Clamped()
}

func TestDistanceSymmetric(t *testing.T) {
	a := ReferenceColor('R')
	b := ReferenceColor('L')
	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
	assert.Zero(t, Distance(a, a))
	assert.Greater(t, Distance(a, b), 0.0)
}

func TestNearestTiesGoLow(t *testing.T) {
	c := colorful.Color{R: 0.5}
	assert.Equal(t, 0, Nearest(c, []colorful.Color{c, c}))
	assert.Equal(t, -1, Nearest(c, nil))
}

func TestClassifyFaceRecoversLabels(t *testing.T) {
	labels := "FBUDRL"
	centroids := make([]colorful.Color, len(labels))
	for i := range labels {
		centroids[i] = ReferenceColor(labels[i])
	}

	want := "FBUDRLLRU"
	regions := make([]colorful.Color, len(want))
	for i := range want {
		regions[i] = perturb(ReferenceColor(want[i]), 0.02)
	}

	got, err := ClassifyFace(regions, centroids, labels)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClassifyFaceLabelMismatch(t *testing.T) {
	_, err := ClassifyFace(nil, []colorful.Color{{}}, "FB")
	assert.Error(t, err)
}

func TestKMeansClampsToDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	red, blue, green := colorful.Color{R: 1}, colorful.Color{B: 1}, colorful.Color{G: 1}
	points := []colorful.Color{red, red, blue, green, blue}

	cl := KMeans(points, DefaultClusters, rng)
	assert.Len(t, cl.Centroids, 3)
	assert.Equal(t, 5, len(cl.Assign))
	assert.Equal(t, 5, cl.Sizes()[0]+cl.Sizes()[1]+cl.Sizes()[2])
}

func TestExtractRegionColorDominant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	red := colorful.Color{R: 0.8}
	var pixels []colorful.Color
	for i := 0; i < 70; i++ {
		pixels = append(pixels, red)
	}
	for i := 0; i < 30; i++ {
		pixels = append(pixels, colorful.Color{B: 0.9})
	}
	// Glare and shadow specks, one pixel each.
	pixels = append(pixels,
		colorful.Color{R: 1, G: 1, B: 1},
		colorful.Color{},
		colorful.Color{G: 0.7},
		colorful.Color{R: 0.9, G: 0.9},
	)

	got := ExtractRegionColor(pixels, rng)
	assert.Equal(t, red, got)
	assert.Equal(t, colorful.Color{}, ExtractRegionColor(nil, rng))
}

func TestLargestPrefersLowestIndex(t *testing.T) {
	cl := Clusters{
		Assign:    []int{2, 1, 2, 1, 0},
		Centroids: make([]colorful.Color, 3),
	}
	assert.Equal(t, 1, cl.Largest())
	assert.Equal(t, -1, Clusters{}.Largest())
}

func faceRegions(letters string) [9]colorful.Color {
	var out [9]colorful.Color
	for i := range out {
		out[i] = perturb(ReferenceColor(letters[i]), 0.01)
	}
	return out
}

func reverse9(r [9]colorful.Color) [9]colorful.Color {
	for i, j := 0, 8; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return r
}

func faceOf(s string, face byte) string {
	i := bytes.IndexByte([]byte(types.FaceOrder), face)
	return s[i*9 : i*9+9]
}

func TestSessionBuildsFaceString(t *testing.T) {
	s := NewSession()
	for i := 0; i < len(CaptureOrder); i++ {
		require.Equal(t, CaptureOrder[i], s.Current())
		regions := faceRegions(faceOf(afterR, CaptureOrder[i]))
		if i < 3 {
			regions = reverse9(regions)
		}
		s.Capture(regions)
	}

	require.True(t, s.Complete())
	assert.Equal(t, byte('U'), s.Current(), "index wraps")

	got, err := s.FaceString()
	require.NoError(t, err)
	assert.Equal(t, afterR, got)
}

func TestSessionIncompleteAndBack(t *testing.T) {
	s := NewSession()
	s.Back()
	assert.Equal(t, byte('U'), s.Current())

	s.Capture(faceRegions("UUUUUUUUU"))
	s.Capture(faceRegions("FFFFFFFFF"))
	s.Back()
	assert.Equal(t, byte('F'), s.Current())
	assert.Equal(t, 2, s.Captured())

	_, err := s.FaceString()
	assert.ErrorIs(t, err, ErrIncomplete)

	s.Reset()
	assert.Equal(t, 0, s.Captured())
}

func paintFace(t *testing.T, w, h int, grid Grid, letters string) *image.RGBA {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	scale := w / grid.FrameWidth
	size := grid.RegionSize * scale
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r, g, b := ReferenceColor(letters[i*3+j]).RGB255()
			x := (grid.OriginX + j*grid.RegionSize) * scale
			y := (grid.OriginY + i*grid.RegionSize) * scale
			rect := image.Rect(x, y, x+size, y+size)
			draw.Draw(img, rect, image.NewUniform(color.RGBA{R: r, G: g, B: b, A: 255}), image.Point{}, draw.Src)
		}
	}
	return img
}

func TestSampleFaceFromImage(t *testing.T) {
	letters := "URFDLBUFR"
	grid := DefaultGrid()

	for _, width := range []int{600, 1200} {
		img := paintFace(t, width, width*2/3, grid, letters)

		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, img))
		decoded, err := Decode(&buf)
		require.NoError(t, err)

		got, err := NewSampler(grid, rand.New(rand.NewSource(3))).SampleFace(decoded)
		require.NoError(t, err)
		for i := range got {
			assert.Less(t, Distance(got[i], ReferenceColor(letters[i])), 5.0, "width %d region %d", width, i)
		}
	}
}

func TestSampleFaceTooSmall(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 600, 200))
	_, err := NewSampler(DefaultGrid(), nil).SampleFace(img)
	assert.ErrorIs(t, err, ErrFrameTooSmall)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}
