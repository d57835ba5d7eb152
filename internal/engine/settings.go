package engine

import (
	"time"

	"github.com/SeamusWaldron/cubr/internal/cubelet"
)

const (
	// MaxSpeed is the slowest allowed speed setting.
	MaxSpeed = 30

	// SpeedStep is how much SlowDown and SpeedUp change the speed.
	SpeedStep = 2
)

// Settings controls how the engine dispatches queued moves. Speed scales
// the frame count of each turn, so a larger value means a slower turn and
// zero means turns complete on the tick they start.
type Settings struct {
	Speed               int
	DefaultSpeed        int
	MovesPerTick        int
	DefaultMovesPerTick int
	TurnAcceleration    float64
	Paused              bool
	TickInterval        time.Duration
}

// DefaultSettings returns the settings a fresh engine starts with.
func DefaultSettings() Settings {
	return Settings{
		Speed:               12,
		DefaultSpeed:        12,
		MovesPerTick:        3,
		DefaultMovesPerTick: 3,
		TurnAcceleration:    cubelet.DefaultTurnAcceleration,
		TickInterval:        20 * time.Millisecond,
	}
}

// SlowDown increases the frame count of later turns.
func (s *Settings) SlowDown() {
	s.Speed = min(s.Speed+SpeedStep, MaxSpeed)
}

// SpeedUp decreases the frame count of later turns.
func (s *Settings) SpeedUp() {
	s.Speed = max(s.Speed-SpeedStep, 0)
}

// RestoreDefaults resets speed and moves per tick.
func (s *Settings) RestoreDefaults() {
	s.Speed = s.DefaultSpeed
	s.MovesPerTick = s.DefaultMovesPerTick
}
