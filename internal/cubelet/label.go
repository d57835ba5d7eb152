package cubelet

import "github.com/SeamusWaldron/cubr/internal/vecmath"

// Dir indexes the six sides of a cubelet relative to its own orientation.
type Dir int

const (
	DirFront Dir = iota
	DirBack
	DirUp
	DirDown
	DirRight
	DirLeft
)

// Dirs lists every direction in label order.
var Dirs = [6]Dir{DirFront, DirBack, DirUp, DirDown, DirRight, DirLeft}

// Label identifies the sticker color on one side of a cubelet.
// Values 0-5 are the solved colors of faces F, B, U, D, R and L.
type Label int

const (
	LabelInterior Label = -1 // side faces into the cube
	LabelF        Label = 0  // green
	LabelB        Label = 1  // blue
	LabelU        Label = 2  // white
	LabelD        Label = 3  // yellow
	LabelR        Label = 4  // red
	LabelL        Label = 5  // orange
	LabelUnknown  Label = 6  // placeholder for unclassified stickers
)

var labelLetters = [...]byte{'F', 'B', 'U', 'D', 'R', 'L', 'X'}

var labelNames = [...]string{"green", "blue", "white", "yellow", "red", "orange", "pink"}

// Palette holds the render color for each label, followed by the
// interior color at index 7.
var Palette = [8]string{"#009b48", "#0045ad", "#ffffff", "#ffd500", "#b90000", "#ff5900", "#ffc0cb", "#303030"}

// Letter returns the face letter for the label ('X' when unknown).
func (l Label) Letter() byte {
	if l < 0 || int(l) >= len(labelLetters) {
		return 'X'
	}
	return labelLetters[l]
}

// String returns the color name of the label.
func (l Label) String() string {
	if l == LabelInterior {
		return "interior"
	}
	if l < 0 || int(l) >= len(labelNames) {
		return "unknown"
	}
	return labelNames[l]
}

// Visible reports whether the label is a sticker.
func (l Label) Visible() bool {
	return l != LabelInterior
}

// paletteIndex maps a label to its row in Palette.
func (l Label) paletteIndex() int {
	if l == LabelInterior {
		return len(Palette) - 1
	}
	return int(l)
}

// LabelForLetter maps a face letter to its label. Any letter outside
// F, B, U, D, R, L maps to LabelUnknown.
func LabelForLetter(b byte) Label {
	switch b {
	case 'F', 'f':
		return LabelF
	case 'B', 'b':
		return LabelB
	case 'U', 'u':
		return LabelU
	case 'D', 'd':
		return LabelD
	case 'R', 'r':
		return LabelR
	case 'L', 'l':
		return LabelL
	default:
		return LabelUnknown
	}
}

// Pose is a position plus the up and right orientation vectors.
type Pose struct {
	Pos   vecmath.Vec
	Up    vecmath.Vec
	Right vecmath.Vec
}

// HomeUp and HomeRight are the orientation every cubelet starts with.
var (
	HomeUp    = vecmath.Vec{Y: 1}
	HomeRight = vecmath.Vec{X: 1}
)
