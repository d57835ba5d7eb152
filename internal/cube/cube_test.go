package cube

import (
	"errors"
	"strings"
	"testing"

	"github.com/SeamusWaldron/cubr/internal/cubelet"
	"github.com/SeamusWaldron/cubr/internal/cubelets"
	"github.com/SeamusWaldron/cubr/internal/turns"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

const afterR = "UUFUUFUUF" + "RRRRRRRRR" + "FFDFFDFFD" + "DDBDDBDDB" + "LLLLLLLLL" + "UBBUBBUBB"

func mustParse(t *testing.T, s string) []types.Move {
	t.Helper()
	moves, invalid := types.ParseMoves(s)
	if len(invalid) > 0 {
		t.Fatalf("invalid tokens in %q: %v", s, invalid)
	}
	return moves
}

func TestNewCubeIsSolved(t *testing.T) {
	c := New()
	if !c.IsSolved() {
		t.Error("New cube should be solved")
	}
	if got := c.FaceString(); got != types.SolvedFaceString() {
		t.Errorf("FaceString() = %q", got)
	}
}

func TestSingleMoveBreaksSolved(t *testing.T) {
	c := New()
	c.Move(R, 1)
	if c.IsSolved() {
		t.Error("Cube should not be solved after R move")
	}
	if got := c.FaceString(); got != afterR {
		t.Errorf("after R got %q, want %q", got, afterR)
	}
}

func TestFourQuarterTurnsAreIdentity(t *testing.T) {
	for _, face := range Faces {
		c := New()
		for i := 0; i < 4; i++ {
			c.Move(face, 1)
		}
		if !c.IsSolved() {
			t.Errorf("%v x 4 should return to solved", face)
			t.Log(c.String())
		}
	}
}

func TestHalfTurnTwiceIsIdentity(t *testing.T) {
	for _, face := range Faces {
		c := New()
		c.Move(face, 2)
		c.Move(face, 2)
		if !c.IsSolved() {
			t.Errorf("%v2 %v2 should return to solved", face, face)
		}
	}
}

func TestSexyMoveSixTimes(t *testing.T) {
	c := New()
	for i := 0; i < 6; i++ {
		c.ApplyMoves(mustParse(t, "R U R' U'"))
	}
	if !c.IsSolved() {
		t.Error("(R U R' U') x 6 should return to solved")
		t.Log(c.String())
	}
}

func TestInverseSequenceSolves(t *testing.T) {
	scramble := mustParse(t, "R U2 F' L D B2 R' U L2 F")
	c := New()
	c.ApplyMoves(scramble)
	if c.IsSolved() {
		t.Fatal("scramble left the cube solved")
	}
	c.ApplyMoves(types.Invert(scramble))
	if !c.IsSolved() {
		t.Error("scramble followed by its inverse should solve")
	}
}

// The facelet model and the cubelet model must agree on every canonical
// move, and on a longer sequence.
func TestAgreesWithCubelets(t *testing.T) {
	registry := turns.NewRegistry()
	for _, m := range registry.All() {
		state := cubelets.New(cubelet.DefaultTurnAcceleration).Snapshot(registry)
		state.MakeMove(m)

		c := New()
		c.ApplyMove(m.Move)
		if got, want := c.FaceString(), state.FaceString(); got != want {
			t.Errorf("%s: facelets %q, cubelets %q", m.Notation(), got, want)
		}
	}

	state := cubelets.New(cubelet.DefaultTurnAcceleration).Snapshot(registry)
	c := New()
	for _, m := range mustParse(t, "F R' U2 B L' D F2 R U' L2") {
		state.MakeMove(registry.For(m))
		c.ApplyMove(m)
	}
	if c.FaceString() != state.FaceString() {
		t.Errorf("sequence mismatch:\n%s", c.String())
	}
}

func TestParse(t *testing.T) {
	c, err := Parse(afterR)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	c.Move(R, -1)
	if !c.IsSolved() {
		t.Error("R' after R should solve")
	}

	if _, err := Parse(afterR[:53]); !errors.Is(err, types.ErrInvalidFaceString) {
		t.Errorf("short string: err = %v", err)
	}
	if _, err := Parse("X" + afterR[1:]); !errors.Is(err, types.ErrInvalidFaceString) {
		t.Errorf("unknown facelet: err = %v", err)
	}
}

func TestStringNet(t *testing.T) {
	lines := strings.Split(strings.TrimRight(New().String(), "\n"), "\n")
	if len(lines) != 9 {
		t.Fatalf("net has %d lines, want 9", len(lines))
	}
	if lines[0] != "      U U U " {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[3] != "L L L F F F R R R B B B " {
		t.Errorf("middle line = %q", lines[3])
	}
}

func TestEditorPadsUnknown(t *testing.T) {
	e := NewEditor()
	want := "XXXXUXXXX" + "XXXXRXXXX" + "XXXXFXXXX" + "XXXXDXXXX" + "XXXXLXXXX" + "XXXXBXXXX"
	if got := e.String(); got != want {
		t.Errorf("new editor = %q", got)
	}

	e.SetData("UUFUQ")
	got := e.String()
	if got[:9] != "UUFUUXXXX" {
		t.Errorf("partial U face = %q", got[:9])
	}
	if got[9:18] != "XXXXRXXXX" {
		t.Errorf("R face = %q", got[9:18])
	}
	if e.Complete() {
		t.Error("partial editor reported complete")
	}

	e.SetData(afterR)
	if e.String() != afterR || !e.Complete() {
		t.Errorf("full data = %q", e.String())
	}
	if _, err := e.Cube(); err != nil {
		t.Errorf("Cube() = %v", err)
	}
}

func TestEditorPaint(t *testing.T) {
	e := NewEditor()
	if e.Brush() != Unknown {
		t.Errorf("initial brush = %v", e.Brush())
	}

	e.NextBrush()
	if e.Brush() != 'U' {
		t.Errorf("next from unknown = %v", e.Brush())
	}
	e.PrevBrush()
	if e.Brush() != 'B' {
		t.Errorf("prev from U = %v", e.Brush())
	}
	e.NextBrush()
	if e.Brush() != 'U' {
		t.Errorf("next from B = %v", e.Brush())
	}

	e.SetBrush('R')
	if err := e.Paint(F, 0, 2); err != nil {
		t.Fatalf("Paint: %v", err)
	}
	if got := e.String()[18+2]; got != 'R' {
		t.Errorf("painted facelet = %c", got)
	}
	if err := e.Paint(F, 1, 1); !errors.Is(err, ErrCenterFixed) {
		t.Errorf("center paint err = %v", err)
	}
	if err := e.Paint(F, 3, 0); err == nil {
		t.Error("out of range paint should fail")
	}
}

func TestPhaseDetection(t *testing.T) {
	tests := []struct {
		name  string
		moves string
		want  Phase
	}{
		{"solved", "", PhaseSolved},
		{"D turn leaves the down cross", "D", PhaseDownCross},
		{"sune on the down face", "R D R' D R D2 R'", PhaseDownCross},
		{"middle edges swapped", "R2 D2 R2 D2 R2", PhaseUpLayer},
		{"R breaks the up cross", "R", PhaseScrambled},
		{"corner insert out of the up layer", "R U R'", PhaseScrambled},
		{"middle edge out", "R' D' R", PhaseUpCross},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.ApplyMoves(mustParse(t, tt.moves))
			if got := c.DetectPhase(); got != tt.want {
				t.Errorf("DetectPhase() = %v, want %v\n%s", got, tt.want, c.String())
			}
		})
	}
}

func TestGetProgressSolved(t *testing.T) {
	p := New().GetProgress()
	if !p.UpCross || !p.UpLayer || !p.MiddleLayer || !p.DownCross || !p.CornersPositioned || !p.CornersOriented || !p.Solved {
		t.Errorf("solved progress = %+v", p)
	}
}

func TestTrackerPhaseCallback(t *testing.T) {
	scramble := mustParse(t, "D")
	c := New()
	c.ApplyMoves(scramble)

	tr := NewTrackerFrom(c)
	if tr.HighestPhase() != PhaseDownCross {
		t.Fatalf("start phase = %v", tr.HighestPhase())
	}

	var reached []Phase
	tr.SetPhaseCallback(func(p Phase) { reached = append(reached, p) })
	tr.ApplyMoves(types.Invert(scramble))

	if len(reached) != 1 || reached[0] != PhaseSolved {
		t.Errorf("reached = %v", reached)
	}
	if !tr.IsSolved() {
		t.Error("tracker should be solved")
	}
}

func TestParsePhase(t *testing.T) {
	for p := PhaseScrambled; p <= PhaseSolved; p++ {
		got, ok := ParsePhase(p.String())
		if !ok || got != p {
			t.Errorf("ParsePhase(%q) = %v, %v", p.String(), got, ok)
		}
	}
	if _, ok := ParsePhase("inspection"); ok {
		t.Error("unknown key parsed")
	}
}
