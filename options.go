package cubr

import (
	"math/rand"
	"time"

	"github.com/SeamusWaldron/cubr/internal/engine"
	"github.com/SeamusWaldron/cubr/internal/log"
	"github.com/SeamusWaldron/cubr/internal/solver"
)

// Solver finds a sequence of move tokens that solves a face string.
type Solver = engine.Solver

// Logger is the logging interface the cube reports through.
type Logger = log.Logger

// Option configures a Cube.
type Option func(*config)

type config struct {
	settings      engine.Settings
	logger        log.Logger
	solver        Solver
	solverURL     string
	solverTimeout time.Duration
	rng           *rand.Rand
	shuffleLength int
}

func defaultConfig() *config {
	return &config{
		settings:      engine.DefaultSettings(),
		logger:        log.Nop(),
		solverTimeout: solver.DefaultTimeout,
	}
}

// WithSpeed sets how many frames a quarter turn takes. Zero makes turns
// complete on the tick they start.
func WithSpeed(speed int) Option {
	return func(c *config) {
		c.settings.Speed = speed
		c.settings.DefaultSpeed = speed
	}
}

// WithMovesPerTick caps how many queued turns start on one tick.
func WithMovesPerTick(n int) Option {
	return func(c *config) {
		c.settings.MovesPerTick = n
		c.settings.DefaultMovesPerTick = n
	}
}

// WithTurnAcceleration sets the easing exponent of each turn. 1 is linear.
func WithTurnAcceleration(k float64) Option {
	return func(c *config) {
		c.settings.TurnAcceleration = k
	}
}

// WithTickInterval sets how often Run advances the animation.
func WithTickInterval(d time.Duration) Option {
	return func(c *config) {
		c.settings.TickInterval = d
	}
}

// WithSolver sets the solver used by Solve.
func WithSolver(s Solver) Option {
	return func(c *config) {
		c.solver = s
	}
}

// WithSolverURL uses the HTTP solver at url, which is called as
// GET url?cube=<face string>.
func WithSolverURL(url string, timeout time.Duration) Option {
	return func(c *config) {
		c.solverURL = url
		if timeout > 0 {
			c.solverTimeout = timeout
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithRand sets the random source used by Shuffle.
func WithRand(rng *rand.Rand) Option {
	return func(c *config) {
		c.rng = rng
	}
}

// WithShuffleLength sets how many turns Shuffle(0) makes.
func WithShuffleLength(n int) Option {
	return func(c *config) {
		c.shuffleLength = n
	}
}
