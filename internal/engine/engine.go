// Package engine drives the animated cube: it owns the move queue, feeds
// queued turns to the cubelets at a bounded rate each tick, and exposes
// shuffle, reset and solution playback on top of that.
package engine

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/SeamusWaldron/cubr/internal/cubelet"
	"github.com/SeamusWaldron/cubr/internal/cubelets"
	"github.com/SeamusWaldron/cubr/internal/log"
	"github.com/SeamusWaldron/cubr/internal/turns"
)

// Option configures an Engine.
type Option func(*Engine)

// WithSettings replaces the default settings.
func WithSettings(s Settings) Option {
	return func(e *Engine) {
		e.settings = s
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithRand sets the random source used for shuffles.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// Engine is the move queue and dispatcher for one cube. All methods are
// safe for concurrent use; hooks run after the engine lock is released.
type Engine struct {
	mu       sync.Mutex
	settings Settings
	cubes    *cubelets.Collection
	registry *turns.Registry
	queue    []Step
	rng      *rand.Rand
	logger   log.Logger

	onMove     func(turns.Move)
	onProgress func(float64)
	onTick     func()
	pending    []func()

	solution []turns.Move
	cursor   int
}

// New creates an engine over a solved cube.
func New(opts ...Option) *Engine {
	e := &Engine{
		settings: DefaultSettings(),
		registry: turns.NewRegistry(),
		logger:   log.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	accel := e.settings.TurnAcceleration
	if accel <= 0 {
		accel = cubelet.DefaultTurnAcceleration
	}
	e.cubes = cubelets.New(accel)
	return e
}

// Registry returns the move registry.
func (e *Engine) Registry() *turns.Registry {
	return e.registry
}

// SetMoveHook registers a callback fired for every turn dispatched.
func (e *Engine) SetMoveHook(fn func(turns.Move)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onMove = fn
}

// SetProgressHook registers a callback for shuffle progress in [0, 1).
func (e *Engine) SetProgressHook(fn func(float64)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onProgress = fn
}

// SetTickHook registers a callback fired after every tick.
func (e *Engine) SetTickHook(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onTick = fn
}

// locked runs fn under the engine lock, then fires any notifications fn
// queued once the lock is released.
func (e *Engine) locked(fn func()) {
	e.mu.Lock()
	fn()
	notes := e.pending
	e.pending = nil
	e.mu.Unlock()

	for _, n := range notes {
		n()
	}
}

// notify defers fn until the engine lock is released. Callers hold the lock.
func (e *Engine) notify(fn func()) {
	e.pending = append(e.pending, fn)
}

// Enqueue appends steps to the queue, first dropping everything pending
// when clearOthers is set.
func (e *Engine) Enqueue(clearOthers bool, steps ...Step) {
	e.locked(func() {
		if clearOthers {
			e.queue = nil
		}
		e.queue = append(e.queue, steps...)
	})
}

// EnqueueTokens resolves notation tokens against the registry and queues
// the resulting turns. Unknown tokens are dropped. It returns the number
// of turns queued.
func (e *Engine) EnqueueTokens(tokens ...string) int {
	steps := e.resolve(tokens)
	e.Enqueue(false, steps...)
	return len(steps)
}

// EnqueueAtSpeed queues steps bracketed by actions that switch to speed
// and back to whatever speed was active before.
func (e *Engine) EnqueueAtSpeed(speed int, steps ...Step) {
	e.Enqueue(false, atSpeed(speed, steps)...)
}

func (e *Engine) resolve(tokens []string) []Step {
	steps := make([]Step, 0, len(tokens))
	for _, tok := range tokens {
		m, ok := e.registry.Lookup(tok)
		if !ok {
			e.logger.Debugf("dropping unknown move token %q", tok)
			continue
		}
		steps = append(steps, MoveStep{m})
	}
	return steps
}

// Opposite returns the step that undoes s. Actions are their own opposite.
func (e *Engine) Opposite(s Step) (Step, error) {
	ms, ok := s.(MoveStep)
	if !ok {
		return s, nil
	}
	opp, err := e.registry.Opposite(ms.Move)
	if err != nil {
		return nil, err
	}
	return MoveStep{opp}, nil
}

// Tick dispatches queued steps and advances every animation by one frame.
func (e *Engine) Tick() {
	e.locked(func() {
		e.dispatch()
		e.cubes.Tick()
		if e.onTick != nil {
			e.notify(e.onTick)
		}
	})
}

// dispatch starts at most MovesPerTick queued steps. A turn whose layer
// is still animating stays at the head of the queue for the next tick.
func (e *Engine) dispatch() {
	for n := 0; len(e.queue) > 0 && n < e.settings.MovesPerTick && !e.settings.Paused; n++ {
		switch s := e.queue[0].(type) {
		case Action:
			s(&e.settings)
		case MoveStep:
			frames := int(math.Round(float64(e.settings.Speed) * math.Sqrt(math.Abs(s.Angle))))
			if !e.cubes.ApplyMove(s.Move, frames) {
				return
			}
			if e.onMove != nil {
				hook, m := e.onMove, s.Move
				e.notify(func() { hook(m) })
			}
		}
		e.queue = e.queue[1:]
	}
}

// Run ticks every TickInterval until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	interval := e.Settings().TickInterval
	if interval <= 0 {
		interval = DefaultSettings().TickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.Tick()
		}
	}
}

// Shuffle queues count random turns bracketed by actions that speed up
// dispatch and then restore the defaults. It returns the chosen turns.
func (e *Engine) Shuffle(count int) []turns.Move {
	chosen := e.RandomMoves(count)
	e.QueueShuffle(chosen)
	return chosen
}

// RandomMoves draws count turns uniformly from the registry.
func (e *Engine) RandomMoves(count int) []turns.Move {
	e.mu.Lock()
	defer e.mu.Unlock()

	chosen := make([]turns.Move, count)
	for i := range chosen {
		chosen[i] = e.registry.Random(e.rng)
	}
	return chosen
}

// QueueShuffle queues moves as a shuffle: faster turns, a progress report
// after each one, and the default settings restored at the end.
func (e *Engine) QueueShuffle(moves []turns.Move) {
	count := len(moves)
	steps := make([]Step, 0, 2*count+3)

	steps = append(steps, Action(func(s *Settings) {
		if count < 100 {
			s.Speed = 3
		} else {
			s.Speed = 0
		}
		if count > 500 {
			s.MovesPerTick = 20
		} else {
			s.MovesPerTick = 3
		}
	}))
	for i, m := range moves {
		steps = append(steps, MoveStep{m}, e.progressAction(float64(i)/float64(count)))
	}
	steps = append(steps, e.progressAction(0), Action(func(s *Settings) {
		s.RestoreDefaults()
	}))

	e.Enqueue(false, steps...)
	e.logger.Debugf("queued shuffle of %d moves", count)
}

// progressAction reports p to the progress hook when dequeued.
func (e *Engine) progressAction(p float64) Action {
	return func(*Settings) {
		if e.onProgress != nil {
			hook := e.onProgress
			e.notify(func() { hook(p) })
		}
	}
}

// Reset returns every cubelet home. With abort set, every pending action
// runs before the queue is cleared so settings changes are undone.
func (e *Engine) Reset(abort bool) {
	e.locked(func() {
		e.reset(abort)
	})
}

func (e *Engine) reset(abort bool) {
	if abort {
		for _, s := range e.queue {
			if a, ok := s.(Action); ok {
				a(&e.settings)
			}
		}
		e.queue = nil
	}
	e.cubes.ReturnHome()
	e.solution = nil
	e.cursor = 0
}

// SetFaceString aborts pending work and relabels the cube from s.
func (e *Engine) SetFaceString(s string) error {
	var err error
	e.locked(func() {
		e.reset(true)
		err = e.cubes.SetFaceString(s)
	})
	return err
}

// FaceString derives the face string from the permanent poses.
func (e *Engine) FaceString() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cubes.FaceString()
}

// IsSolved reports whether every cubelet is home.
func (e *Engine) IsSolved() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cubes.IsSolved()
}

// Idle reports whether the queue is empty and nothing is animating.
func (e *Engine) Idle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue) == 0 && !e.cubes.Busy()
}

// QueueLen returns the number of pending steps.
func (e *Engine) QueueLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Snapshot returns a detached copy of the cube.
func (e *Engine) Snapshot() *cubelets.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cubes.Snapshot(e.registry)
}

// Meshes returns render buffers for the live poses.
func (e *Engine) Meshes() []cubelet.Mesh {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cubes.Meshes()
}

// ExportFaces lists every visible sticker.
func (e *Engine) ExportFaces() []cubelet.Face {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cubes.ExportFaces()
}

// Descriptions names every cubelet by its stickers.
func (e *Engine) Descriptions() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cubes.Descriptions()
}

// Settings returns a copy of the current settings.
func (e *Engine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// UpdateSettings applies fn to the settings under the engine lock.
func (e *Engine) UpdateSettings(fn func(*Settings)) {
	e.locked(func() {
		fn(&e.settings)
	})
}

// TogglePause flips the paused flag and returns the new value.
func (e *Engine) TogglePause() bool {
	var paused bool
	e.UpdateSettings(func(s *Settings) {
		s.Paused = !s.Paused
		paused = s.Paused
	})
	return paused
}

// SlowDown lengthens later turns.
func (e *Engine) SlowDown() {
	e.UpdateSettings((*Settings).SlowDown)
}

// SpeedUp shortens later turns.
func (e *Engine) SpeedUp() {
	e.UpdateSettings((*Settings).SpeedUp)
}
