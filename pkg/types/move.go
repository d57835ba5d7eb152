// Package types contains the move notation shared by the cubr packages.
package types

import (
	"errors"
	"strings"
)

// ErrInvalidNotation is returned when a move token cannot be parsed.
var ErrInvalidNotation = errors.New("cubr: invalid move notation")

// Face represents a cube face in standard notation.
type Face string

const (
	FaceR Face = "R" // Right
	FaceL Face = "L" // Left
	FaceU Face = "U" // Up
	FaceD Face = "D" // Down
	FaceF Face = "F" // Front
	FaceB Face = "B" // Back
)

// Faces lists the faces in the order the move registry enumerates them.
var Faces = []Face{FaceF, FaceB, FaceR, FaceL, FaceU, FaceD}

// Turn represents the direction and magnitude of a face turn.
type Turn int

const (
	TurnCW  Turn = 1  // Clockwise quarter turn
	TurnCCW Turn = -1 // Counter-clockwise quarter turn
	Turn180 Turn = 2  // 180 degree turn (half turn)
)

// Turns lists the turn kinds in registry order.
var Turns = []Turn{TurnCW, TurnCCW, Turn180}

// Move represents a single cube move with face and turn direction.
type Move struct {
	Face Face `json:"face"`
	Turn Turn `json:"turn"`
}

// Notation returns the standard cube notation string for this move.
// Examples: R, R', R2, U, U', U2
func (m Move) Notation() string {
	suffix := ""
	switch m.Turn {
	case TurnCCW:
		suffix = "'"
	case Turn180:
		suffix = "2"
	}
	return string(m.Face) + suffix
}

// String returns the notation string.
func (m Move) String() string {
	return m.Notation()
}

// Inverse returns the inverse of this move.
func (m Move) Inverse() Move {
	inv := m
	switch m.Turn {
	case TurnCW:
		inv.Turn = TurnCCW
	case TurnCCW:
		inv.Turn = TurnCW
		// Turn180 is its own inverse
	}
	return inv
}

// IsCancellation returns true if the other move cancels this move.
func (m Move) IsCancellation(other Move) bool {
	if m.Face != other.Face {
		return false
	}
	return m.Turn == -other.Turn ||
		(m.Turn == Turn180 && other.Turn == Turn180)
}

// Merge combines two same-face moves into one (or returns nil if they cancel).
// Returns nil if the moves cannot be merged or if they cancel out completely.
func (m Move) Merge(other Move) *Move {
	if m.Face != other.Face {
		return nil
	}

	// Quarter turns modulo a full rotation.
	combined := ((int(m.Turn)+int(other.Turn))%4 + 4) % 4
	switch combined {
	case 0:
		return nil
	case 1:
		return &Move{Face: m.Face, Turn: TurnCW}
	case 2:
		return &Move{Face: m.Face, Turn: Turn180}
	default:
		return &Move{Face: m.Face, Turn: TurnCCW}
	}
}

// ParseMove parses a standard notation token into a Move.
// Lowercase faces and a backtick prime are accepted.
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return Move{}, ErrInvalidNotation
	}

	var face Face
	switch s[0] {
	case 'R', 'r':
		face = FaceR
	case 'L', 'l':
		face = FaceL
	case 'U', 'u':
		face = FaceU
	case 'D', 'd':
		face = FaceD
	case 'F', 'f':
		face = FaceF
	case 'B', 'b':
		face = FaceB
	default:
		return Move{}, ErrInvalidNotation
	}

	turn := TurnCW
	if len(s) > 1 {
		switch s[1:] {
		case "'", "`":
			turn = TurnCCW
		case "2", "2'", "2`":
			turn = Turn180
		default:
			return Move{}, ErrInvalidNotation
		}
	}

	return Move{Face: face, Turn: turn}, nil
}

// ParseMoves parses a space-separated sequence of moves.
// Invalid tokens are skipped and returned separately.
func ParseMoves(s string) (moves []Move, invalid []string) {
	for _, part := range strings.Fields(s) {
		move, err := ParseMove(part)
		if err != nil {
			invalid = append(invalid, part)
			continue
		}
		moves = append(moves, move)
	}
	return moves, invalid
}

// FormatMoves formats moves as a space-separated notation string.
func FormatMoves(moves []Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation()
	}
	return strings.Join(parts, " ")
}

// Invert returns the sequence that undoes moves.
func Invert(moves []Move) []Move {
	out := make([]Move, len(moves))
	for i, m := range moves {
		out[len(moves)-1-i] = m.Inverse()
	}
	return out
}

// Simplify merges adjacent same-face turns and drops turns that cancel.
func Simplify(moves []Move) []Move {
	out := make([]Move, 0, len(moves))
	for _, m := range moves {
		if n := len(out); n > 0 && out[n-1].Face == m.Face {
			merged := out[n-1].Merge(m)
			out = out[:n-1]
			if merged != nil {
				out = append(out, *merged)
			}
			continue
		}
		out = append(out, m)
	}
	return out
}
