package cubr

import (
	"github.com/SeamusWaldron/cubr/internal/game"
	"github.com/SeamusWaldron/cubr/internal/solver"
	"github.com/SeamusWaldron/cubr/internal/turns"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

// Sentinel errors for the cubr package.
var (
	// Parsing errors
	ErrInvalidNotation   = types.ErrInvalidNotation
	ErrInvalidFaceString = types.ErrInvalidFaceString

	// Solver errors
	ErrNoSolver     = game.ErrNoSolver
	ErrUnsolvable   = solver.ErrUnsolvable
	ErrMoveNotFound = turns.ErrMoveNotFound
)
