package cubr

import "github.com/SeamusWaldron/cubr/internal/cube"

// Phase is the furthest completed stage of a layer-by-layer solve, with
// the U face solved first. Phases are ordered, so they compare with < and >.
type Phase = cube.Phase

const (
	PhaseScrambled         = cube.PhaseScrambled
	PhaseUpCross           = cube.PhaseUpCross
	PhaseUpLayer           = cube.PhaseUpLayer
	PhaseMiddleLayer       = cube.PhaseMiddleLayer
	PhaseDownCross         = cube.PhaseDownCross
	PhaseCornersPositioned = cube.PhaseCornersPositioned
	PhaseCornersOriented   = cube.PhaseCornersOriented
	PhaseSolved            = cube.PhaseSolved
)

// Progress records which phases are complete.
type Progress = cube.Progress

// DetectPhase returns the phase of a face string. Face strings with
// unknown stickers are reported as scrambled.
func DetectPhase(faceString string) Phase {
	c, err := cube.Parse(faceString)
	if err != nil {
		return PhaseScrambled
	}
	return c.DetectPhase()
}
