package cubelets

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/SeamusWaldron/cubr/internal/cubelet"
	"github.com/SeamusWaldron/cubr/internal/vecmath"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

// stickerOffset is how far a sticker position sits outside the lattice.
const stickerOffset = 3

// faceletIndex maps a sticker position (one unit outside a cubelet
// center) to its index in the face string. Rows and columns are read as
// seen from outside each face.
func faceletIndex(p vecmath.Vec) (int, bool) {
	x := int(math.Round(p.X))
	y := int(math.Round(p.Y))
	z := int(math.Round(p.Z))

	var face, row, col int
	switch {
	case y == stickerOffset:
		face, row, col = 0, (z+2)/2, (x+2)/2
	case x == stickerOffset:
		face, row, col = 1, (2-y)/2, (2-z)/2
	case z == stickerOffset:
		face, row, col = 2, (2-y)/2, (x+2)/2
	case y == -stickerOffset:
		face, row, col = 3, (2-z)/2, (x+2)/2
	case x == -stickerOffset:
		face, row, col = 4, (2-y)/2, (z+2)/2
	case z == -stickerOffset:
		face, row, col = 5, (2-y)/2, (2-x)/2
	default:
		return 0, false
	}
	return face*9 + row*3 + col, true
}

// faceString renders the stickers of cubes at their permanent poses.
func faceString(cubes []*cubelet.Cubelet) string {
	buf := []byte(strings.Repeat(string(types.UnknownFacelet), types.FaceletCount))
	for _, c := range cubes {
		for _, f := range c.Faces() {
			if i, ok := faceletIndex(f.Position); ok {
				buf[i] = f.Label.Letter()
			}
		}
	}
	return string(buf)
}

// assignFaceString relabels cubes sitting at their home poses from s.
func assignFaceString(cubes []*cubelet.Cubelet, s string) {
	for _, c := range cubes {
		home := c.Home()
		for _, d := range cubelet.Dirs {
			if !c.Labels()[d].Visible() {
				continue
			}
			normal, ok := homeNormal(home, d)
			if !ok {
				continue
			}
			if i, ok := faceletIndex(r3.Add(home.Pos, normal)); ok {
				c.SetLabel(d, cubelet.LabelForLetter(s[i]))
			}
		}
	}
}

// homeNormal returns the outward normal of side d at pose p.
func homeNormal(p cubelet.Pose, d cubelet.Dir) (vecmath.Vec, bool) {
	up := vecmath.Unit(p.Up)
	right := vecmath.Unit(p.Right)
	front := r3.Cross(right, up)
	switch d {
	case cubelet.DirFront:
		return front, true
	case cubelet.DirBack:
		return r3.Scale(-1, front), true
	case cubelet.DirUp:
		return up, true
	case cubelet.DirDown:
		return r3.Scale(-1, up), true
	case cubelet.DirRight:
		return right, true
	case cubelet.DirLeft:
		return r3.Scale(-1, right), true
	}
	return vecmath.Vec{}, false
}
