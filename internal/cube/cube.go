// Package cube provides a facelet model of a 3x3 cube over face letters.
// It mirrors the face string layout exactly, so it is used to edit face
// strings by hand, to print them and to detect solving phases.
package cube

import (
	"fmt"
	"strings"

	"github.com/SeamusWaldron/cubr/pkg/types"
)

// Sticker is the color of one facelet, named by the face whose center
// carries that color.
type Sticker byte

// Unknown marks a facelet whose color has not been entered.
const Unknown Sticker = types.UnknownFacelet

// Valid reports whether s is one of the six face letters.
func (s Sticker) Valid() bool {
	return s != 0 && strings.IndexByte(types.FaceOrder, byte(s)) >= 0
}

func (s Sticker) String() string {
	return string(rune(s))
}

// Face indexes the faces in face string order.
type Face int

const (
	U Face = iota
	R
	F
	D
	L
	B
)

// Faces lists every face in face string order.
var Faces = [6]Face{U, R, F, D, L, B}

func (f Face) String() string {
	if f < U || f > B {
		return "?"
	}
	return types.FaceOrder[f : f+1]
}

// Sticker returns the solved color of f.
func (f Face) Sticker() Sticker {
	return Sticker(types.FaceOrder[f])
}

// Cube is a 3x3 cube as 54 facelets. Each face is indexed as:
//
//	0 1 2
//	3 4 5
//	6 7 8
//
// The center (index 4) defines the face color and never moves.
type Cube struct {
	Facelets [6][9]Sticker
}

// New creates a solved cube.
func New() *Cube {
	c := &Cube{}
	for _, f := range Faces {
		for i := range c.Facelets[f] {
			c.Facelets[f][i] = f.Sticker()
		}
	}
	return c
}

// Parse builds a cube from a complete face string.
func Parse(s string) (*Cube, error) {
	if err := types.ValidateFaceString(s, false); err != nil {
		return nil, err
	}
	c := &Cube{}
	for i := 0; i < types.FaceletCount; i++ {
		c.Facelets[i/9][i%9] = Sticker(s[i])
	}
	return c, nil
}

// FaceString serializes the cube in face string order.
func (c *Cube) FaceString() string {
	var b strings.Builder
	b.Grow(types.FaceletCount)
	for _, f := range Faces {
		for _, s := range c.Facelets[f] {
			b.WriteByte(byte(s))
		}
	}
	return b.String()
}

// Clone creates a deep copy of the cube.
func (c *Cube) Clone() *Cube {
	clone := *c
	return &clone
}

// IsSolved returns true if every facelet matches its face.
func (c *Cube) IsSolved() bool {
	for _, f := range Faces {
		for _, s := range c.Facelets[f] {
			if s != f.Sticker() {
				return false
			}
		}
	}
	return true
}

// Count returns how many facelets carry s.
func (c *Cube) Count(s Sticker) int {
	n := 0
	for _, f := range Faces {
		for _, x := range c.Facelets[f] {
			if x == s {
				n++
			}
		}
	}
	return n
}

// rotateFaceCW rotates the stickers of a face 90 degrees clockwise.
func (c *Cube) rotateFaceCW(face Face) {
	f := &c.Facelets[face]
	// Corners: 0->2->8->6->0, edges: 1->5->7->3->1
	f[0], f[2], f[8], f[6] = f[6], f[0], f[2], f[8]
	f[1], f[5], f[7], f[3] = f[3], f[1], f[5], f[7]
}

// Move applies a quarter or half turn.
// turn: 1 = CW, -1 = CCW, 2 = 180 degrees
func (c *Cube) Move(face Face, turn int) {
	n := ((turn % 4) + 4) % 4
	for i := 0; i < n; i++ {
		c.rotateFaceCW(face)
		c.cycleEdgesCW(face)
	}
}

// strip is three facelets of one face.
type strip struct {
	face Face
	idx  [3]int
}

// rings lists, for each face, the four adjacent strips in the order a
// clockwise turn carries stickers: strip i moves to strip i+1.
var rings = [6][4]strip{
	U: {{F, [3]int{0, 1, 2}}, {L, [3]int{0, 1, 2}}, {B, [3]int{0, 1, 2}}, {R, [3]int{0, 1, 2}}},
	D: {{F, [3]int{6, 7, 8}}, {R, [3]int{6, 7, 8}}, {B, [3]int{6, 7, 8}}, {L, [3]int{6, 7, 8}}},
	F: {{U, [3]int{6, 7, 8}}, {R, [3]int{0, 3, 6}}, {D, [3]int{2, 1, 0}}, {L, [3]int{8, 5, 2}}},
	B: {{U, [3]int{2, 1, 0}}, {L, [3]int{0, 3, 6}}, {D, [3]int{6, 7, 8}}, {R, [3]int{8, 5, 2}}},
	R: {{U, [3]int{2, 5, 8}}, {B, [3]int{6, 3, 0}}, {D, [3]int{2, 5, 8}}, {F, [3]int{2, 5, 8}}},
	L: {{U, [3]int{0, 3, 6}}, {F, [3]int{0, 3, 6}}, {D, [3]int{0, 3, 6}}, {B, [3]int{8, 5, 2}}},
}

// cycleEdgesCW moves the stickers around a face one step clockwise.
func (c *Cube) cycleEdgesCW(face Face) {
	ring := rings[face]
	last := ring[3]
	var saved [3]Sticker
	for k, i := range last.idx {
		saved[k] = c.Facelets[last.face][i]
	}
	for s := 3; s > 0; s-- {
		dst, src := ring[s], ring[s-1]
		for k := range dst.idx {
			c.Facelets[dst.face][dst.idx[k]] = c.Facelets[src.face][src.idx[k]]
		}
	}
	first := ring[0]
	for k, i := range first.idx {
		c.Facelets[first.face][i] = saved[k]
	}
}

// ApplyMove applies a move in notation form.
func (c *Cube) ApplyMove(m types.Move) {
	c.Move(faceOf(m.Face), int(m.Turn))
}

// ApplyMoves applies a sequence of moves.
func (c *Cube) ApplyMoves(moves []types.Move) {
	for _, m := range moves {
		c.ApplyMove(m)
	}
}

func faceOf(f types.Face) Face {
	return Face(strings.Index(types.FaceOrder, string(f)))
}

// String draws the cube as an unfolded net.
func (c *Cube) String() string {
	var b strings.Builder
	row := func(f Face, r int) {
		for col := 0; col < 3; col++ {
			b.WriteString(c.Facelets[f][r*3+col].String())
			b.WriteByte(' ')
		}
	}

	for r := 0; r < 3; r++ {
		b.WriteString("      ")
		row(U, r)
		b.WriteByte('\n')
	}
	for r := 0; r < 3; r++ {
		for _, f := range []Face{L, F, R, B} {
			row(f, r)
		}
		b.WriteByte('\n')
	}
	for r := 0; r < 3; r++ {
		b.WriteString("      ")
		row(D, r)
		b.WriteByte('\n')
	}
	return b.String()
}

// Debug returns a one-line summary.
func (c *Cube) Debug() string {
	return fmt.Sprintf("solved=%v phase=%s", c.IsSolved(), c.DetectPhase())
}
