package cubelets

import (
	"github.com/SeamusWaldron/cubr/internal/cubelet"
	"github.com/SeamusWaldron/cubr/internal/turns"
	"github.com/SeamusWaldron/cubr/internal/vecmath"
)

// State is a detached copy of the cube used for search and what-if
// evaluation. Moves apply immediately and never touch the live cubelets.
type State struct {
	cubes    []*cubelet.Cubelet
	registry *turns.Registry
}

// MakeMove applies m immediately.
func (s *State) MakeMove(m turns.Move) {
	applyImmediate(s.cubes, m)
}

// MakeMoveAt applies the registry move at index i.
func (s *State) MakeMoveAt(i int) {
	s.MakeMove(s.registry.At(i))
}

// UnmakeMove applies the opposite of m.
func (s *State) UnmakeMove(m turns.Move) error {
	opp, err := s.registry.Opposite(m)
	if err != nil {
		return err
	}
	s.MakeMove(opp)
	return nil
}

// MoveAt returns the registry move at index i.
func (s *State) MoveAt(i int) turns.Move {
	return s.registry.At(i)
}

// NumMoves returns the size of the move registry.
func (s *State) NumMoves() int {
	return s.registry.Len()
}

// IndexOf finds the registry index of the move with the given axis and angle.
func (s *State) IndexOf(axis vecmath.Vec, angle float64) (int, error) {
	return s.registry.IndexOf(axis, angle)
}

// IsSolved reports whether every cubelet of the snapshot is home.
func (s *State) IsSolved() bool {
	return allHome(s.cubes)
}

// FaceString derives the face string of the snapshot.
func (s *State) FaceString() string {
	return faceString(s.cubes)
}

// Clone returns an independent copy of the snapshot.
func (s *State) Clone() *State {
	return &State{cubes: cloneAll(s.cubes), registry: s.registry}
}
