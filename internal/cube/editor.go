package cube

import (
	"errors"
	"fmt"
)

// ErrCenterFixed is returned when painting a center facelet.
var ErrCenterFixed = errors.New("cubr: center facelets cannot be changed")

// Editor is a face grid that is filled in by hand. Centers are fixed to
// their face; every other facelet starts Unknown.
type Editor struct {
	cube  Cube
	brush Sticker
}

// NewEditor returns an editor with only the centers known.
func NewEditor() *Editor {
	e := &Editor{brush: Unknown}
	e.Clear()
	return e
}

// Clear resets every non-center facelet to Unknown.
func (e *Editor) Clear() {
	for _, f := range Faces {
		for i := range e.cube.Facelets[f] {
			e.cube.Facelets[f][i] = Unknown
		}
		e.cube.Facelets[f][4] = f.Sticker()
	}
}

// SetData fills the grid from a face string. Missing or unrecognized
// characters become Unknown; centers are left untouched.
func (e *Editor) SetData(s string) {
	for fi, f := range Faces {
		for i := 0; i < 9; i++ {
			if i == 4 {
				continue
			}
			st := Unknown
			if k := fi*9 + i; k < len(s) {
				if c := Sticker(s[k]); c.Valid() {
					st = c
				}
			}
			e.cube.Facelets[f][i] = st
		}
	}
}

// Paint sets one facelet to the current brush.
func (e *Editor) Paint(f Face, row, col int) error {
	if f < U || f > B || row < 0 || row > 2 || col < 0 || col > 2 {
		return fmt.Errorf("facelet %v[%d,%d] out of range", f, row, col)
	}
	i := row*3 + col
	if i == 4 {
		return ErrCenterFixed
	}
	e.cube.Facelets[f][i] = e.brush
	return nil
}

// Brush returns the sticker Paint applies.
func (e *Editor) Brush() Sticker {
	return e.brush
}

// SetBrush selects the sticker Paint applies. Anything other than a face
// letter selects Unknown.
func (e *Editor) SetBrush(s Sticker) {
	if !s.Valid() {
		s = Unknown
	}
	e.brush = s
}

// NextBrush cycles the brush forward through U R F D L B.
func (e *Editor) NextBrush() {
	i := e.brushIndex()
	if i < 0 || i >= len(Faces)-1 {
		e.brush = Faces[0].Sticker()
		return
	}
	e.brush = Faces[i+1].Sticker()
}

// PrevBrush cycles the brush backward through U R F D L B.
func (e *Editor) PrevBrush() {
	i := e.brushIndex()
	if i <= 0 {
		e.brush = Faces[len(Faces)-1].Sticker()
		return
	}
	e.brush = Faces[i-1].Sticker()
}

func (e *Editor) brushIndex() int {
	for i, f := range Faces {
		if f.Sticker() == e.brush {
			return i
		}
	}
	return -1
}

// Complete reports whether no facelet is Unknown.
func (e *Editor) Complete() bool {
	return e.cube.Count(Unknown) == 0
}

// String returns the face string, with Unknown where nothing was entered.
func (e *Editor) String() string {
	return e.cube.FaceString()
}

// Cube returns the edited grid as a strict cube.
func (e *Editor) Cube() (*Cube, error) {
	return Parse(e.String())
}

// Net draws the grid as an unfolded net.
func (e *Editor) Net() string {
	return e.cube.String()
}
