package engine

import (
	"context"
	"fmt"

	"github.com/SeamusWaldron/cubr/internal/turns"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

// Solver finds a sequence of move tokens that solves a face string.
type Solver interface {
	Solve(ctx context.Context, faceString string) ([]string, error)
}

// Solve asks s for a solution to the current cube and loads it for
// playback. On any error the cube is left untouched.
func (e *Engine) Solve(ctx context.Context, s Solver) ([]turns.Move, error) {
	return e.SolveFaceString(ctx, s, e.FaceString())
}

// SolveFaceString asks s for a solution to faceString and loads it for
// playback. On any error the cube is left untouched.
func (e *Engine) SolveFaceString(ctx context.Context, s Solver, faceString string) ([]turns.Move, error) {
	if err := types.ValidateFaceString(faceString, false); err != nil {
		return nil, err
	}

	tokens, err := s.Solve(ctx, faceString)
	if err != nil {
		return nil, err
	}

	moves := make([]turns.Move, 0, len(tokens))
	for _, tok := range tokens {
		m, ok := e.registry.Lookup(tok)
		if !ok {
			return nil, fmt.Errorf("solver returned move %q: %w", tok, types.ErrInvalidNotation)
		}
		moves = append(moves, m)
	}

	if err := e.LoadSolution(moves); err != nil {
		return nil, err
	}
	e.logger.Infof("loaded solution of %d moves", len(moves))
	return moves, nil
}

// LoadSolution resets the cube, replays the inverse of moves instantly so
// the scrambled position reappears, and keeps moves for StepForward and
// StepBack.
func (e *Engine) LoadSolution(moves []turns.Move) error {
	scramble := make([]Step, len(moves))
	for i, m := range moves {
		opp, err := e.registry.Opposite(m)
		if err != nil {
			return fmt.Errorf("failed to invert solution: %w", err)
		}
		scramble[len(moves)-1-i] = MoveStep{opp}
	}

	var err error
	e.locked(func() {
		e.reset(true)
		if err = e.cubes.SetFaceString(types.SolvedFaceString()); err != nil {
			return
		}
		e.solution = append([]turns.Move(nil), moves...)
		e.cursor = 0
		e.queue = append(e.queue, atSpeed(0, scramble)...)
	})
	return err
}

// StepForward queues the next solution move. It returns false at the end
// of the solution.
func (e *Engine) StepForward() bool {
	var ok bool
	e.locked(func() {
		if e.cursor >= len(e.solution) {
			return
		}
		e.queue = append(e.queue, MoveStep{e.solution[e.cursor]})
		e.cursor++
		ok = true
	})
	return ok
}

// StepBack queues the undo of the previous solution move. It returns false
// at the start of the solution.
func (e *Engine) StepBack() bool {
	var ok bool
	e.locked(func() {
		if e.cursor == 0 {
			return
		}
		opp, err := e.registry.Opposite(e.solution[e.cursor-1])
		if err != nil {
			e.logger.Errorf("failed to invert %s: %v", e.solution[e.cursor-1].Notation(), err)
			return
		}
		e.cursor--
		e.queue = append(e.queue, MoveStep{opp})
		ok = true
	})
	return ok
}

// Solution returns the loaded solution and how many of its moves have
// been stepped through.
func (e *Engine) Solution() ([]turns.Move, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]turns.Move(nil), e.solution...), e.cursor
}

// atSpeed brackets steps with actions that switch to speed and back.
func atSpeed(speed int, steps []Step) []Step {
	var prev int
	out := make([]Step, 0, len(steps)+2)
	out = append(out, Action(func(s *Settings) {
		prev = s.Speed
		s.Speed = speed
	}))
	out = append(out, steps...)
	return append(out, Action(func(s *Settings) {
		s.Speed = prev
	}))
}
