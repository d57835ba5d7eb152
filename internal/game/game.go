// Package game ties the move engine to the solver and, when one is open,
// the session recorder. The TUI, the HTTP server and the one-shot CLI
// commands all drive the cube through a Game.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/SeamusWaldron/cubr/internal/cube"
	"github.com/SeamusWaldron/cubr/internal/engine"
	"github.com/SeamusWaldron/cubr/internal/log"
	"github.com/SeamusWaldron/cubr/internal/recorder"
	"github.com/SeamusWaldron/cubr/internal/storage"
	"github.com/SeamusWaldron/cubr/internal/turns"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

// DefaultShuffleLength is the number of random turns in a shuffle.
const DefaultShuffleLength = 25

// ErrNoSolver is returned by Solve when no solver is configured.
var ErrNoSolver = errors.New("cubr: no solver configured")

// Option configures a Game.
type Option func(*Game)

// WithSolver sets the external solver.
func WithSolver(s engine.Solver) Option {
	return func(g *Game) {
		g.solver = s
	}
}

// WithRecorder records every turn into rec.
func WithRecorder(rec *recorder.Session) Option {
	return func(g *Game) {
		g.rec = rec
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(g *Game) {
		g.logger = l
	}
}

// WithShuffleLength sets the shuffle length used when none is given.
func WithShuffleLength(n int) Option {
	return func(g *Game) {
		if n > 0 {
			g.shuffleLength = n
		}
	}
}

// Game drives one cube.
type Game struct {
	engine        *engine.Engine
	solver        engine.Solver
	rec           *recorder.Session
	logger        log.Logger
	shuffleLength int

	mu        sync.Mutex
	moves     int
	lastMove  string
	progress  float64
	lastError string
	listeners []func(turns.Move)

	progressListeners []func(float64)
}

// New creates a game over e and takes over its move and progress hooks.
func New(e *engine.Engine, opts ...Option) *Game {
	g := &Game{
		engine:        e,
		logger:        log.Nop(),
		shuffleLength: DefaultShuffleLength,
	}
	for _, opt := range opts {
		opt(g)
	}
	e.SetMoveHook(g.handleMove)
	e.SetProgressHook(g.handleProgress)
	return g
}

// Engine returns the underlying engine.
func (g *Game) Engine() *engine.Engine {
	return g.engine
}

// Recorder returns the session recorder, or nil.
func (g *Game) Recorder() *recorder.Session {
	return g.rec
}

// OnMove registers fn to run after every dispatched turn.
func (g *Game) OnMove(fn func(turns.Move)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
}

func (g *Game) handleMove(m turns.Move) {
	if g.rec != nil {
		g.rec.HandleMove(m)
	}

	g.mu.Lock()
	g.moves++
	g.lastMove = m.Notation()
	listeners := g.listeners
	g.mu.Unlock()

	for _, fn := range listeners {
		fn(m)
	}
}

// OnProgress registers fn to receive shuffle progress in [0, 1].
func (g *Game) OnProgress(fn func(float64)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.progressListeners = append(g.progressListeners, fn)
}

func (g *Game) handleProgress(p float64) {
	g.mu.Lock()
	g.progress = p
	listeners := g.progressListeners
	g.mu.Unlock()

	for _, fn := range listeners {
		fn(p)
	}
}

// event records a non-move event when a session is open.
func (g *Game) event(eventType string, payload any) {
	if g.rec == nil {
		return
	}
	if err := g.rec.RecordEvent(eventType, payload); err != nil {
		g.logger.Warnf("failed to record %s event: %v", eventType, err)
	}
}

func (g *Game) expect(source string, moves []types.Move) {
	if g.rec != nil {
		g.rec.Expect(source, moves)
	}
}

func (g *Game) setError(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		g.lastError = ""
		return
	}
	g.lastError = err.Error()
}

// Move queues notation tokens and returns how many were recognized.
func (g *Game) Move(tokens ...string) int {
	return g.engine.EnqueueTokens(tokens...)
}

// Shuffle queues n random turns, or the configured shuffle length when n
// is not positive.
func (g *Game) Shuffle(n int) []turns.Move {
	if n <= 0 {
		n = g.shuffleLength
	}

	chosen := g.engine.RandomMoves(n)
	g.event(storage.EventShuffle, map[string]int{"count": n})
	g.expect(storage.SourceShuffle, plain(chosen))
	g.engine.QueueShuffle(chosen)
	g.logger.Infof("shuffling %d moves", n)
	return chosen
}

// Reset aborts pending turns and returns the cube to solved.
func (g *Game) Reset() {
	g.engine.Reset(true)
	g.setError(nil)
	g.event(storage.EventReset, types.SolvedFaceString())
}

// SetFaceString relabels the cube. Unknown stickers may be given as X.
func (g *Game) SetFaceString(s string) error {
	if err := g.engine.SetFaceString(s); err != nil {
		return err
	}
	g.event(storage.EventSetState, s)
	return nil
}

// Solve asks the solver for a solution to the current cube and loads it
// for playback. On failure the cube is left untouched.
func (g *Game) Solve(ctx context.Context) ([]turns.Move, error) {
	return g.SolveFaceString(ctx, g.engine.FaceString())
}

// SolveFaceString solves faceString and loads the solution for playback,
// replaying the scramble so faceString reappears on the cube.
func (g *Game) SolveFaceString(ctx context.Context, faceString string) ([]turns.Move, error) {
	moves, err := g.FindSolution(ctx, faceString)
	if err != nil {
		return nil, err
	}
	if err := g.LoadSolution(moves); err != nil {
		return nil, err
	}
	return moves, nil
}

// FindSolution asks the solver for a solution to faceString without
// touching the cube.
func (g *Game) FindSolution(ctx context.Context, faceString string) ([]turns.Move, error) {
	if g.solver == nil {
		return nil, ErrNoSolver
	}
	if err := types.ValidateFaceString(faceString, false); err != nil {
		return nil, err
	}

	tokens, err := g.solver.Solve(ctx, faceString)
	if err != nil {
		g.setError(err)
		g.event(storage.EventSolveFail, err.Error())
		return nil, err
	}

	moves := make([]turns.Move, 0, len(tokens))
	for _, tok := range tokens {
		m, ok := g.engine.Registry().Lookup(tok)
		if !ok {
			err := fmt.Errorf("solver returned move %q: %w", tok, types.ErrInvalidNotation)
			g.setError(err)
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// LoadSolution resets the cube and queues the scrambled replay of moves,
// leaving them ready for StepForward.
func (g *Game) LoadSolution(moves []turns.Move) error {
	solution := plain(moves)
	g.event(storage.EventSolution, types.FormatMoves(solution))
	g.event(storage.EventReset, types.SolvedFaceString())
	g.expect(storage.SourceSolution, types.Invert(solution))

	if err := g.engine.LoadSolution(moves); err != nil {
		g.setError(err)
		return err
	}
	g.setError(nil)
	g.logger.Infof("loaded solution of %d moves", len(moves))
	return nil
}

// StepForward queues the next solution turn.
func (g *Game) StepForward() bool {
	sol, cursor := g.engine.Solution()
	if cursor >= len(sol) {
		return false
	}
	g.expect(storage.SourceSolution, []types.Move{sol[cursor].Move})
	if !g.engine.StepForward() {
		g.clearExpected()
		return false
	}
	return true
}

// StepBack queues the undo of the previous solution turn.
func (g *Game) StepBack() bool {
	sol, cursor := g.engine.Solution()
	if cursor == 0 {
		return false
	}
	g.expect(storage.SourceSolution, []types.Move{sol[cursor-1].Move.Inverse()})
	if !g.engine.StepBack() {
		g.clearExpected()
		return false
	}
	return true
}

func (g *Game) clearExpected() {
	if g.rec != nil {
		g.rec.ClearExpected()
	}
}

// View is a point-in-time summary of the game.
type View struct {
	FaceString string   `json:"face_string"`
	Solved     bool     `json:"solved"`
	Idle       bool     `json:"idle"`
	Queue      int      `json:"queue"`
	Phase      string   `json:"phase"`
	Paused     bool     `json:"paused"`
	Speed      int      `json:"speed"`
	Moves      int      `json:"moves"`
	LastMove   string   `json:"last_move,omitempty"`
	Progress   float64  `json:"progress"`
	Solution   []string `json:"solution,omitempty"`
	Cursor     int      `json:"cursor"`
	SessionID  string   `json:"session_id,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// View returns the current state of the game. Solved follows the stickers,
// so a relabeled cube reads as scrambled and twisted centers do not count.
func (g *Game) View() View {
	fs := g.engine.FaceString()
	settings := g.engine.Settings()
	sol, cursor := g.engine.Solution()

	v := View{
		FaceString: fs,
		Solved:     fs == types.SolvedFaceString(),
		Idle:       g.engine.Idle(),
		Queue:      g.engine.QueueLen(),
		Phase:      PhaseOf(fs),
		Paused:     settings.Paused,
		Speed:      settings.Speed,
		Cursor:     cursor,
	}
	for _, m := range sol {
		v.Solution = append(v.Solution, m.Notation())
	}
	if g.rec != nil {
		v.SessionID = g.rec.SessionID()
	}

	g.mu.Lock()
	v.Moves = g.moves
	v.LastMove = g.lastMove
	v.Progress = g.progress
	v.Error = g.lastError
	g.mu.Unlock()

	return v
}

// PhaseOf names the solving phase of a face string, or "unknown" when the
// string has unknown stickers.
func PhaseOf(faceString string) string {
	c, err := cube.Parse(faceString)
	if err != nil {
		return "unknown"
	}
	return c.DetectPhase().String()
}

// plain strips the geometry from registry moves.
func plain(ms []turns.Move) []types.Move {
	out := make([]types.Move, len(ms))
	for i, m := range ms {
		out[i] = m.Move
	}
	return out
}
