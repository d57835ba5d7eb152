package recorder

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SeamusWaldron/cubr/internal/cube"
	"github.com/SeamusWaldron/cubr/internal/log"
	"github.com/SeamusWaldron/cubr/internal/storage"
	"github.com/SeamusWaldron/cubr/internal/turns"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

var (
	// ErrRecording is returned when starting while a session is open.
	ErrRecording = errors.New("cubr: session already in progress")

	// ErrNotRecording is returned when no session is open.
	ErrNotRecording = errors.New("cubr: no session in progress")
)

// SessionState represents the current state of a recording session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateRecording
	StateEnded
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// Session records one play session at a time.
type Session struct {
	db         *storage.DB
	checkpoint *CheckpointStore
	logger     log.Logger
	now        func() time.Time

	mu        sync.Mutex
	state     SessionState
	sessionID string
	startTime time.Time
	moveIndex int
	source    string
	last      string
	expected  []expectedMove
	tracker   *cube.Tracker

	sessionRepo *storage.SessionRepository
	eventRepo   *storage.EventRepository
	moveRepo    *storage.MoveRepository
	phaseRepo   *storage.PhaseRepository

	onPhase func(cube.Phase)
}

// expectedMove is a queued turn the engine has yet to dispatch, tagged
// with the source it should be recorded under.
type expectedMove struct {
	move   types.Move
	source string
}

// NewSession creates a new session manager. checkpoint may be nil.
func NewSession(db *storage.DB, checkpoint *CheckpointStore, opts ...Option) *Session {
	s := &Session{
		db:          db,
		checkpoint:  checkpoint,
		logger:      log.Nop(),
		now:         time.Now,
		state:       StateIdle,
		source:      storage.SourceUser,
		sessionRepo: storage.NewSessionRepository(db),
		eventRepo:   storage.NewEventRepository(db),
		moveRepo:    storage.NewMoveRepository(db),
		phaseRepo:   storage.NewPhaseRepository(db),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPhaseCallback sets the callback for newly reached phases.
func (s *Session) SetPhaseCallback(cb func(cube.Phase)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPhase = cb
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SessionID returns the current session ID.
func (s *Session) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// MoveCount returns the number of moves recorded so far.
func (s *Session) MoveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moveIndex
}

// ElapsedMs returns the time since the session started in milliseconds.
func (s *Session) ElapsedMs() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRecording {
		return 0
	}
	return s.elapsed()
}

func (s *Session) elapsed() int64 {
	return s.now().Sub(s.startTime).Milliseconds()
}

// newTracker follows phases from faceString. Partial face strings cannot
// be tracked and yield nil.
func newTracker(faceString string) *cube.Tracker {
	c, err := cube.Parse(faceString)
	if err != nil {
		return nil
	}
	return cube.NewTrackerFrom(c)
}

// Start opens a session of the given kind with the cube in startState.
func (s *Session) Start(kind, startState, notes, appVersion string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		return "", ErrRecording
	}

	sessionID, err := s.sessionRepo.Create(kind, startState, notes, appVersion)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.sessionID = sessionID
	s.startTime = s.now()
	s.moveIndex = 0
	s.source = storage.SourceUser
	s.last = storage.SourceUser
	s.expected = nil
	s.tracker = newTracker(startState)
	s.state = StateRecording

	if s.checkpoint != nil {
		err := s.checkpoint.Update(func(cp *Checkpoint) { cp.OpenSession = sessionID })
		if err != nil {
			s.logger.Warnf("%v", err)
		}
	}

	s.logger.WithField("session", sessionID).Infof("started %s session", kind)
	return sessionID, nil
}

// End closes the current session with the cube in endState.
func (s *Session) End(endState string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return ErrNotRecording
	}

	if err := s.sessionRepo.End(s.sessionID, endState); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	s.state = StateEnded

	if s.checkpoint != nil {
		err := s.checkpoint.Update(func(cp *Checkpoint) {
			cp.OpenSession = ""
			cp.LastCube = endState
		})
		if err != nil {
			s.logger.Warnf("%v", err)
		}
	}

	s.logger.WithField("session", s.sessionID).Infof("ended session after %d moves", s.moveIndex)
	return nil
}

// SetSource tags the moves recorded from now on.
func (s *Session) SetSource(source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = source
}

// Expect tags the next moves, in order, with source. The engine queue is
// FIFO, so moves queued by a shuffle or a solution reach RecordMove in the
// order they were queued.
func (s *Session) Expect(source string, moves []types.Move) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range moves {
		s.expected = append(s.expected, expectedMove{move: m, source: source})
	}
}

// ClearExpected drops pending expectations, e.g. after the engine queue
// was aborted.
func (s *Session) ClearExpected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expected = nil
}

// sourceFor pops the expectation matching m, falling back to the current
// source.
func (s *Session) sourceFor(m types.Move) string {
	if len(s.expected) > 0 && s.expected[0].move == m {
		src := s.expected[0].source
		s.expected = s.expected[1:]
		return src
	}
	return s.source
}

// RecordMove stores m and marks any phase it completes. Only user moves
// count as progress: the first user move after a shuffle or a solution
// restarts phase tracking from the cube as it stands.
func (s *Session) RecordMove(m types.Move) error {
	s.mu.Lock()

	if s.state != StateRecording {
		s.mu.Unlock()
		return nil
	}

	source := s.sourceFor(m)
	tsMs := s.elapsed()
	if _, err := s.moveRepo.Create(s.sessionID, s.moveIndex, tsMs, m, source); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to store move: %w", err)
	}
	s.moveIndex++

	var reached []cube.Phase
	if s.tracker != nil {
		if source == storage.SourceUser && s.last != storage.SourceUser {
			s.tracker.Reset(s.tracker.Cube())
		}
		before := s.tracker.HighestPhase()
		s.tracker.ApplyMove(m)
		if after := s.tracker.HighestPhase(); after > before && source == storage.SourceUser {
			if _, err := s.phaseRepo.CreatePhaseMark(s.sessionID, tsMs, after.String(), s.moveIndex); err != nil {
				s.mu.Unlock()
				return fmt.Errorf("failed to mark phase: %w", err)
			}
			reached = append(reached, after)
		}
	}
	s.last = source
	cb := s.onPhase
	s.mu.Unlock()

	if cb != nil {
		for _, p := range reached {
			cb(p)
		}
	}
	return nil
}

// HandleMove is an engine move hook. Storage errors are logged.
func (s *Session) HandleMove(m turns.Move) {
	if err := s.RecordMove(m.Move); err != nil {
		s.logger.Errorf("%v", err)
	}
}

// RecordEvent stores a non-move event with a JSON payload.
func (s *Session) RecordEvent(eventType string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return nil
	}

	if _, err := s.eventRepo.Create(s.sessionID, s.elapsed(), eventType, payload); err != nil {
		return fmt.Errorf("failed to store event: %w", err)
	}

	// A new cube state invalidates phase progress.
	if eventType == storage.EventSetState || eventType == storage.EventReset {
		if fs, ok := payload.(string); ok {
			s.tracker = newTracker(fs)
			s.expected = nil
		}
	}
	return nil
}

// Resume reopens an interrupted session, replaying its moves to restore
// phase tracking.
func (s *Session) Resume(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionRepo.Get(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	if sess.EndedAt != nil {
		return fmt.Errorf("session already ended")
	}

	records, err := s.moveRepo.GetBySession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get moves: %w", err)
	}

	s.sessionID = sessionID
	s.startTime = sess.StartedAt
	s.moveIndex = len(records)
	s.source = storage.SourceUser
	s.last = storage.SourceUser
	s.expected = nil
	s.tracker = newTracker(sess.StartState)
	if s.tracker != nil {
		s.tracker.ApplyMoves(storage.ToMoves(records))
	}
	s.state = StateRecording

	return nil
}

// Segments returns the phase segments of the current session.
func (s *Session) Segments() ([]storage.PhaseSegment, error) {
	return s.phaseRepo.Segments(s.SessionID())
}
