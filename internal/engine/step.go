package engine

import "github.com/SeamusWaldron/cubr/internal/turns"

// Step is an entry of the move queue: a MoveStep or an Action.
type Step interface {
	isStep()
}

// MoveStep queues a face turn.
type MoveStep struct {
	turns.Move
}

func (MoveStep) isStep() {}

// Action is an instantaneous queued callback. It runs on the tick
// goroutine with the engine locked and must not call back into the Engine.
type Action func(s *Settings)

func (Action) isStep() {}

// Moves wraps turns as queue steps.
func Moves(ms ...turns.Move) []Step {
	steps := make([]Step, len(ms))
	for i, m := range ms {
		steps[i] = MoveStep{m}
	}
	return steps
}
