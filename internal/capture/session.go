package capture

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/SeamusWaldron/cubr/pkg/types"
)

// CaptureOrder is the order in which faces are photographed.
const CaptureOrder = "UFDBLR"

// reversed is the number of leading captures whose regions are stored
// end-to-end reversed to undo how the cube is held for them.
const reversed = 3

// ErrIncomplete is returned when a face string is requested before all six
// faces were captured.
var ErrIncomplete = errors.New("cubr: capture incomplete")

// Session collects the nine region colors of each face in CaptureOrder.
type Session struct {
	faces    [6][9]colorful.Color
	captured [6]bool
	index    int
}

// NewSession starts a capture at the first face.
func NewSession() *Session {
	return &Session{}
}

// Current returns the letter of the face the next capture is stored as.
func (s *Session) Current() byte {
	return CaptureOrder[s.index]
}

// Capture stores regions for the current face and advances, wrapping after
// the last face.
func (s *Session) Capture(regions [9]colorful.Color) {
	if s.index < reversed {
		for i, j := 0, 8; i < j; i, j = i+1, j-1 {
			regions[i], regions[j] = regions[j], regions[i]
		}
	}
	s.faces[s.index] = regions
	s.captured[s.index] = true
	s.index = (s.index + 1) % len(CaptureOrder)
}

// Back steps to the previous face so it can be retaken.
func (s *Session) Back() {
	s.index = max(s.index-1, 0)
}

// Captured returns the number of faces stored so far.
func (s *Session) Captured() int {
	n := 0
	for _, ok := range s.captured {
		if ok {
			n++
		}
	}
	return n
}

// Complete reports whether every face has been captured.
func (s *Session) Complete() bool {
	return s.Captured() == len(CaptureOrder)
}

// Reset discards every capture.
func (s *Session) Reset() {
	*s = Session{}
}

// Centers returns the center region color of each captured face, in
// CaptureOrder.
func (s *Session) Centers() []colorful.Color {
	centers := make([]colorful.Color, len(CaptureOrder))
	for i := range s.faces {
		centers[i] = s.faces[i][4]
	}
	return centers
}

// FaceString classifies every region against the six face centers and
// assembles the result in face string order.
func (s *Session) FaceString() (string, error) {
	if !s.Complete() {
		return "", fmt.Errorf("%w: %d of %d faces", ErrIncomplete, s.Captured(), len(CaptureOrder))
	}

	centers := s.Centers()
	var b strings.Builder
	b.Grow(types.FaceletCount)
	for _, face := range types.FaceOrder {
		i := strings.IndexRune(CaptureOrder, face)
		letters, err := ClassifyFace(s.faces[i][:], centers, CaptureOrder)
		if err != nil {
			return "", fmt.Errorf("failed to classify face %c: %w", face, err)
		}
		b.WriteString(letters)
	}
	return b.String(), nil
}
