// Package turns defines the 18 face turns of the cube as pure data and the
// registry used to look them up by token or by (axis, angle).
package turns

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/SeamusWaldron/cubr/internal/vecmath"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

// ErrMoveNotFound is returned when no registered move matches an
// (axis, angle) pair.
var ErrMoveNotFound = errors.New("cubr: move not found")

// LayerCoord is the lattice coordinate of every face layer.
const LayerCoord = 2

// Layer selects the cubelets whose permanent position lies on one face.
type Layer struct {
	Axis vecmath.Axis
	Sign int
}

// Contains reports whether pos lies on the layer.
func (l Layer) Contains(pos vecmath.Vec) bool {
	return vecmath.Feq(vecmath.Component(pos, l.Axis), float64(LayerCoord*l.Sign))
}

// Move is one face turn.
type Move struct {
	types.Move
	Axis  vecmath.Vec
	Angle float64
	Layer Layer
}

// AppliesTo reports whether a cubelet at pos takes part in the turn.
func (m Move) AppliesTo(pos vecmath.Vec) bool {
	return m.Layer.Contains(pos)
}

// Token returns the lowercase registry key of the move.
func (m Move) Token() string {
	return strings.ToLower(m.Notation())
}

// faceGeometry maps each face to its outward layer.
var faceGeometry = map[types.Face]Layer{
	types.FaceF: {Axis: vecmath.Z, Sign: 1},
	types.FaceB: {Axis: vecmath.Z, Sign: -1},
	types.FaceR: {Axis: vecmath.X, Sign: 1},
	types.FaceL: {Axis: vecmath.X, Sign: -1},
	types.FaceU: {Axis: vecmath.Y, Sign: 1},
	types.FaceD: {Axis: vecmath.Y, Sign: -1},
}

// turnAngles gives the rotation about the outward axis for each turn kind.
// Clockwise as seen from outside the face is a negative rotation.
var turnAngles = map[types.Turn]float64{
	types.TurnCW:  -math.Pi / 2,
	types.TurnCCW: math.Pi / 2,
	types.Turn180: math.Pi,
}

// axisVec returns the layer normal scaled to the layer coordinate.
func axisVec(l Layer) vecmath.Vec {
	var v vecmath.Vec
	c := float64(LayerCoord * l.Sign)
	switch l.Axis {
	case vecmath.X:
		v.X = c
	case vecmath.Y:
		v.Y = c
	case vecmath.Z:
		v.Z = c
	}
	return v
}

// Registry holds the canonical moves in a fixed order.
type Registry struct {
	moves   []Move
	byToken map[string]int
}

// NewRegistry builds the 18 canonical moves.
func NewRegistry() *Registry {
	r := &Registry{byToken: make(map[string]int)}
	for _, face := range types.Faces {
		layer := faceGeometry[face]
		for _, turn := range types.Turns {
			m := Move{
				Move:  types.Move{Face: face, Turn: turn},
				Axis:  axisVec(layer),
				Angle: turnAngles[turn],
				Layer: layer,
			}
			r.byToken[m.Token()] = len(r.moves)
			r.moves = append(r.moves, m)
		}
	}
	return r
}

// Len returns the number of registered moves.
func (r *Registry) Len() int { return len(r.moves) }

// At returns the move at index i.
func (r *Registry) At(i int) Move { return r.moves[i] }

// All returns a copy of every registered move in order.
func (r *Registry) All() []Move {
	out := make([]Move, len(r.moves))
	copy(out, r.moves)
	return out
}

// Lookup resolves a notation token, ignoring case.
func (r *Registry) Lookup(token string) (Move, bool) {
	parsed, err := types.ParseMove(token)
	if err != nil {
		return Move{}, false
	}
	return r.For(parsed), true
}

// For returns the registered move for a notation move.
func (r *Registry) For(m types.Move) Move {
	return r.moves[r.byToken[strings.ToLower(m.Notation())]]
}

// IndexOf finds the move whose axis is parallel to axis and whose angle
// matches.
func (r *Registry) IndexOf(axis vecmath.Vec, angle float64) (int, error) {
	for i, m := range r.moves {
		if vecmath.Parallel(m.Axis, axis) && vecmath.Feq(m.Angle, angle) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: axis %s angle %g", ErrMoveNotFound, vecmath.Format(axis), angle)
}

// Opposite returns the move that undoes m.
func (r *Registry) Opposite(m Move) (Move, error) {
	i, err := r.IndexOf(m.Axis, vecmath.PrincipalAngle(-m.Angle))
	if err != nil {
		return Move{}, err
	}
	return r.moves[i], nil
}

// Random picks a move uniformly by reservoir selection over the registry.
func (r *Registry) Random(rng *rand.Rand) Move {
	var pick Move
	for i, m := range r.moves {
		if rng.Float64() < 1/float64(i+1) {
			pick = m
		}
	}
	return pick
}
