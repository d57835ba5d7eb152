package cubr

import (
	"context"
	"sync"

	"github.com/SeamusWaldron/cubr/internal/cube"
	"github.com/SeamusWaldron/cubr/internal/cubelet"
	"github.com/SeamusWaldron/cubr/internal/engine"
	"github.com/SeamusWaldron/cubr/internal/game"
	"github.com/SeamusWaldron/cubr/internal/solver"
	"github.com/SeamusWaldron/cubr/internal/turns"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

// maxSettleTicks bounds Settle so a paused cube cannot hang it.
const maxSettleTicks = 1 << 20

// Mesh is the render data of one cubelet.
type Mesh = cubelet.Mesh

// Sticker is one visible sticker: its color label and where it sits.
type Sticker = cubelet.Face

// Cube is an animated 3x3x3 cube. Turns are queued and play out as Tick
// is called, either by Run or by the caller. All methods are safe for
// concurrent use.
type Cube struct {
	engine *engine.Engine
	game   *game.Game

	mu      sync.Mutex
	tracker *cube.Tracker
	setup   []Move // queued shuffle or scramble turns, not tracked as progress
	onMove  []func(Move)
	onPhase []func(Phase)
}

// New creates a solved cube.
func New(opts ...Option) *Cube {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	engineOpts := []engine.Option{
		engine.WithSettings(cfg.settings),
		engine.WithLogger(cfg.logger),
	}
	if cfg.rng != nil {
		engineOpts = append(engineOpts, engine.WithRand(cfg.rng))
	}
	e := engine.New(engineOpts...)

	gameOpts := []game.Option{game.WithLogger(cfg.logger)}
	switch {
	case cfg.solver != nil:
		gameOpts = append(gameOpts, game.WithSolver(cfg.solver))
	case cfg.solverURL != "":
		gameOpts = append(gameOpts, game.WithSolver(solver.New(cfg.solverURL,
			solver.WithTimeout(cfg.solverTimeout),
			solver.WithLogger(cfg.logger),
		)))
	}
	if cfg.shuffleLength > 0 {
		gameOpts = append(gameOpts, game.WithShuffleLength(cfg.shuffleLength))
	}

	c := &Cube{
		engine:  e,
		game:    game.New(e, gameOpts...),
		tracker: cube.NewTracker(),
	}
	c.game.OnMove(c.handleMove)
	return c
}

// OnMove registers fn to run after every turn starts.
func (c *Cube) OnMove(fn func(Move)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onMove = append(c.onMove, fn)
}

// OnPhaseChange registers fn to run when the cube reaches a phase further
// along than any since the last reset.
func (c *Cube) OnPhaseChange(fn func(Phase)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPhase = append(c.onPhase, fn)
}

// OnProgress registers fn to receive shuffle progress in [0, 1].
func (c *Cube) OnProgress(fn func(float64)) {
	c.game.OnProgress(fn)
}

func (c *Cube) handleMove(m turns.Move) {
	c.mu.Lock()
	var reached []Phase
	switch {
	case len(c.setup) > 0 && c.setup[0] == m.Move:
		c.setup = c.setup[1:]
		if c.tracker != nil {
			c.tracker.Cube().ApplyMove(m.Move)
			if len(c.setup) == 0 {
				c.tracker.Reset(c.tracker.Cube())
			}
		}
	case c.tracker != nil:
		before := c.tracker.HighestPhase()
		c.tracker.ApplyMove(m.Move)
		if after := c.tracker.HighestPhase(); after > before {
			reached = append(reached, after)
		}
	}
	onMove, onPhase := c.onMove, c.onPhase
	c.mu.Unlock()

	for _, fn := range onMove {
		fn(m.Move)
	}
	for _, p := range reached {
		for _, fn := range onPhase {
			fn(p)
		}
	}
}

// resetTracker restarts phase tracking from the cube as it stands, with
// setup turns still to come. Cubes with unknown stickers are not tracked.
// Callers hold c.mu, so no turn is tracked against the old state.
func (c *Cube) resetTracker(setup []Move) {
	c.setup = setup
	parsed, err := cube.Parse(c.engine.FaceString())
	if err != nil {
		c.tracker = nil
		return
	}
	c.tracker = cube.NewTrackerFrom(parsed)
}

// Apply queues moves.
func (c *Cube) Apply(moves ...Move) {
	tokens := make([]string, len(moves))
	for i, m := range moves {
		tokens[i] = m.Notation()
	}
	c.game.Move(tokens...)
}

// ApplyNotation queues the moves in a space-separated notation string.
// Nothing is queued if any token is invalid.
func (c *Cube) ApplyNotation(s string) error {
	moves, invalid := types.ParseMoves(s)
	if len(invalid) > 0 {
		return ErrInvalidNotation
	}
	c.Apply(moves...)
	return nil
}

// Shuffle queues n random turns, or the configured shuffle length when n
// is not positive, and returns them.
func (c *Cube) Shuffle(n int) []Move {
	// Held while queuing so a running cube cannot track a shuffle turn
	// before it is known to be one.
	c.mu.Lock()
	defer c.mu.Unlock()
	chosen := c.game.Shuffle(n)
	out := make([]Move, len(chosen))
	for i, m := range chosen {
		out[i] = m.Move
	}
	c.setup = append(c.setup, out...)
	return out
}

// Reset drops pending turns and returns the cube to solved.
func (c *Cube) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.game.Reset()
	c.resetTracker(nil)
}

// SetFaceString relabels the cube. Unknown stickers may be given as X.
func (c *Cube) SetFaceString(s string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.game.SetFaceString(s); err != nil {
		return err
	}
	c.resetTracker(nil)
	return nil
}

// Solve asks the solver for a solution to the cube and loads it for
// playback with StepForward and StepBack. The cube is left untouched on
// error.
func (c *Cube) Solve(ctx context.Context) ([]Move, error) {
	sol, err := c.game.FindSolution(ctx, c.engine.FaceString())
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.game.LoadSolution(sol); err != nil {
		return nil, err
	}
	out := make([]Move, len(sol))
	for i, m := range sol {
		out[i] = m.Move
	}
	// The cube was reset to solved and replays the scramble before
	// playback. A running cube may already have turned, so the tracker
	// starts from solved rather than from the live face string.
	c.setup = types.Invert(out)
	c.tracker = cube.NewTracker()
	return out, nil
}

// StepForward queues the next solution turn. It returns false at the end
// of the solution.
func (c *Cube) StepForward() bool {
	return c.game.StepForward()
}

// StepBack queues the inverse of the previous solution turn. It returns
// false at the start of the solution.
func (c *Cube) StepBack() bool {
	return c.game.StepBack()
}

// Tick advances the cube by one frame.
func (c *Cube) Tick() {
	c.engine.Tick()
}

// Run ticks the cube until ctx is done.
func (c *Cube) Run(ctx context.Context) error {
	return c.engine.Run(ctx)
}

// Settle ticks until every queued turn has finished. It returns false if
// the cube is paused or never went idle.
func (c *Cube) Settle() bool {
	for i := 0; i < maxSettleTicks; i++ {
		if c.engine.Idle() {
			return true
		}
		if c.engine.Settings().Paused {
			return false
		}
		c.engine.Tick()
	}
	return c.engine.Idle()
}

// TogglePause pauses or resumes dispatch and returns the new state.
func (c *Cube) TogglePause() bool {
	return c.engine.TogglePause()
}

// SpeedUp makes turns faster.
func (c *Cube) SpeedUp() {
	c.engine.SpeedUp()
}

// SlowDown makes turns slower.
func (c *Cube) SlowDown() {
	c.engine.SlowDown()
}

// Idle reports whether nothing is queued or animating.
func (c *Cube) Idle() bool {
	return c.engine.Idle()
}

// IsSolved reports whether every cubelet is home. A cube whose stickers
// read solved with a center turned in place is not solved.
func (c *Cube) IsSolved() bool {
	return c.engine.IsSolved()
}

// FaceString returns the 54 letter face string, faces in order U R F D L B.
func (c *Cube) FaceString() string {
	return c.engine.FaceString()
}

// Phase returns the solving phase the cube is in right now.
func (c *Cube) Phase() Phase {
	return DetectPhase(c.engine.FaceString())
}

// Progress reports which phases are complete.
func (c *Cube) Progress() Progress {
	parsed, err := cube.Parse(c.engine.FaceString())
	if err != nil {
		return Progress{}
	}
	return parsed.GetProgress()
}

// Stickers returns every visible sticker.
func (c *Cube) Stickers() []Sticker {
	return c.engine.ExportFaces()
}

// Meshes returns the render data of every cubelet at its animated pose.
func (c *Cube) Meshes() []Mesh {
	return c.engine.Meshes()
}

// Descriptions names every cubelet, e.g. "green, white, and red corner
// piece".
func (c *Cube) Descriptions() []string {
	return c.engine.Descriptions()
}

// String draws the cube as an unfolded net.
func (c *Cube) String() string {
	parsed, err := cube.Parse(c.engine.FaceString())
	if err != nil {
		return c.engine.FaceString()
	}
	return parsed.String()
}
