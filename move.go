package cubr

import (
	"github.com/SeamusWaldron/cubr/pkg/types"
)

// Face represents a cube face in standard notation.
type Face = types.Face

// Turn represents the direction and magnitude of a face turn.
type Turn = types.Turn

// Move is a single face turn, e.g. R, U' or F2.
type Move = types.Move

const (
	FaceR = types.FaceR // Right
	FaceL = types.FaceL // Left
	FaceU = types.FaceU // Up
	FaceD = types.FaceD // Down
	FaceF = types.FaceF // Front
	FaceB = types.FaceB // Back
)

const (
	CW     = types.TurnCW  // Clockwise (90 degrees)
	CCW    = types.TurnCCW // Counter-clockwise (90 degrees)
	Double = types.Turn180 // Half turn (180 degrees)
)

// ParseMove parses a standard notation string into a Move.
// Examples: R, R', R2, u, U`
func ParseMove(s string) (Move, error) {
	return types.ParseMove(s)
}

// ParseMoves parses a space-separated sequence of moves. Tokens that are
// not valid notation are returned in invalid.
func ParseMoves(s string) (moves []Move, invalid []string) {
	return types.ParseMoves(s)
}

// FormatMoves formats moves as a space-separated notation string.
func FormatMoves(moves []Move) string {
	return types.FormatMoves(moves)
}

// Invert returns the sequence that undoes moves.
func Invert(moves []Move) []Move {
	return types.Invert(moves)
}

// Simplify merges adjacent turns of the same face.
func Simplify(moves []Move) []Move {
	return types.Simplify(moves)
}

// SolvedFaceString returns the face string of a solved cube.
func SolvedFaceString() string {
	return types.SolvedFaceString()
}
