package cube

import "github.com/SeamusWaldron/cubr/pkg/types"

// Tracker follows a cube through a stream of moves and reports each new
// solving phase reached.
type Tracker struct {
	cube          *Cube
	highestPhase  Phase // monotonic, never goes backwards
	phaseCallback func(phase Phase)
}

// NewTracker creates a tracker over a solved cube.
func NewTracker() *Tracker {
	return &Tracker{cube: New(), highestPhase: PhaseSolved}
}

// NewTrackerFrom creates a tracker over c. The highest phase starts at the
// phase c is already in.
func NewTrackerFrom(c *Cube) *Tracker {
	return &Tracker{cube: c.Clone(), highestPhase: c.DetectPhase()}
}

// SetPhaseCallback sets a callback fired whenever a new highest phase is
// reached.
func (t *Tracker) SetPhaseCallback(cb func(phase Phase)) {
	t.phaseCallback = cb
}

// Reset tracks a new solve from the given state.
func (t *Tracker) Reset(c *Cube) {
	t.cube = c.Clone()
	t.highestPhase = c.DetectPhase()
}

// ApplyMove applies a move and checks for a phase transition.
func (t *Tracker) ApplyMove(m types.Move) {
	t.cube.ApplyMove(m)

	current := t.cube.DetectPhase()
	if current > t.highestPhase {
		t.highestPhase = current
		if t.phaseCallback != nil {
			t.phaseCallback(current)
		}
	}
}

// ApplyMoves applies multiple moves.
func (t *Tracker) ApplyMoves(moves []types.Move) {
	for _, m := range moves {
		t.ApplyMove(m)
	}
}

// CurrentPhase returns the phase of the cube right now, which may go
// backwards while solving.
func (t *Tracker) CurrentPhase() Phase {
	return t.cube.DetectPhase()
}

// HighestPhase returns the highest phase reached since the last reset.
func (t *Tracker) HighestPhase() Phase {
	return t.highestPhase
}

// IsSolved returns true if the cube is solved.
func (t *Tracker) IsSolved() bool {
	return t.cube.IsSolved()
}

// Cube returns the tracked cube.
func (t *Tracker) Cube() *Cube {
	return t.cube
}
