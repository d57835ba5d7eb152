package capture

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders
	_ "image/png"
	"io"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrFrameTooSmall is returned when a frame cannot hold the sampling grid.
var ErrFrameTooSmall = errors.New("cubr: capture frame too small")

// Grid describes where the 3x3 sticker regions sit in a normalized frame.
type Grid struct {
	FrameWidth int // frames are scaled to this width first
	OriginX    int
	OriginY    int
	RegionSize int
}

// DefaultGrid is the layout the capture overlay guides the user toward.
func DefaultGrid() Grid {
	return Grid{FrameWidth: 600, OriginX: 180, OriginY: 100, RegionSize: 80}
}

// Sampler turns frames into the nine region colors of one face.
type Sampler struct {
	grid Grid
	rng  *rand.Rand
}

// NewSampler creates a sampler. A nil rng uses a fixed seed.
func NewSampler(grid Grid, rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Sampler{grid: grid, rng: rng}
}

// Decode reads an image in any registered format (png, jpeg, bmp, tiff, webp).
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	return img, nil
}

// Normalize scales img to the grid frame width, keeping its aspect ratio.
func (s *Sampler) Normalize(img image.Image) *image.RGBA {
	b := img.Bounds()
	w := s.grid.FrameWidth
	h := b.Dy() * w / max(b.Dx(), 1)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if b.Dx() == w && b.Dy() == h {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// SampleFace returns the dominant color of each of the nine regions in
// row-major order.
func (s *Sampler) SampleFace(img image.Image) ([9]colorful.Color, error) {
	var out [9]colorful.Color

	frame := s.Normalize(img)
	g := s.grid
	need := image.Rect(g.OriginX, g.OriginY, g.OriginX+3*g.RegionSize, g.OriginY+3*g.RegionSize)
	if !need.In(frame.Bounds()) {
		return out, fmt.Errorf("%w: %v does not contain %v", ErrFrameTooSmall, frame.Bounds(), need)
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			x := g.OriginX + j*g.RegionSize
			y := g.OriginY + i*g.RegionSize
			pixels := regionPixels(frame, image.Rect(x, y, x+g.RegionSize, y+g.RegionSize))
			out[i*3+j] = ExtractRegionColor(pixels, s.rng)
		}
	}
	return out, nil
}

func regionPixels(img *image.RGBA, r image.Rectangle) []colorful.Color {
	pixels := make([]colorful.Color, 0, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c, ok := colorful.MakeColor(img.RGBAAt(x, y))
			if !ok {
				continue
			}
			pixels = append(pixels, c)
		}
	}
	return pixels
}
