package cubr

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"
)

// afterR is the face string of a solved cube turned R.
const afterR = "UUFUUFUUFRRRRRRRRRFFDFFDFFDDDBDDBDDBLLLLLLLLLUBBUBBUBB"

type fixedSolver []string

func (s fixedSolver) Solve(context.Context, string) ([]string, error) {
	return s, nil
}

func TestNewIsSolved(t *testing.T) {
	c := New()
	if !c.IsSolved() || !c.Idle() {
		t.Error("New cube should be solved and idle")
	}
	if c.FaceString() != SolvedFaceString() {
		t.Errorf("FaceString = %q", c.FaceString())
	}
	if c.Phase() != PhaseSolved {
		t.Errorf("Phase = %v", c.Phase())
	}
	if n := len(c.Stickers()); n != 54 {
		t.Errorf("stickers = %d", n)
	}
	if n := len(c.Meshes()); n != 26 {
		t.Errorf("meshes = %d", n)
	}
	if n := len(c.Descriptions()); n != 26 {
		t.Errorf("descriptions = %d", n)
	}
}

func TestSingleMoveBreaksSolved(t *testing.T) {
	c := New()
	c.Apply(R)
	if !c.Settle() {
		t.Fatal("cube never settled")
	}
	if c.IsSolved() {
		t.Error("Cube should not be solved after R move")
	}
	if c.FaceString() != afterR {
		t.Errorf("FaceString = %q, want %q", c.FaceString(), afterR)
	}
}

func TestSexyMove6TimesReturnsToSolved(t *testing.T) {
	c := New(WithSpeed(0))
	for i := 0; i < 6; i++ {
		c.Apply(SexyMove...)
	}
	c.Settle()
	if !c.IsSolved() {
		t.Error("6x sexy move should return to solved")
		t.Log(c.String())
	}
}

func TestSuperflipTwiceRestoresStickers(t *testing.T) {
	c := New(WithSpeed(0))
	c.Apply(Superflip...)
	c.Settle()
	if c.IsSolved() || c.FaceString() == SolvedFaceString() {
		t.Fatal("superflip should scramble the cube")
	}
	c.Apply(Superflip...)
	c.Settle()
	if c.FaceString() != SolvedFaceString() {
		t.Errorf("FaceString = %q", c.FaceString())
	}
	// The stickers are back but the centers have turned in place.
	if c.IsSolved() {
		t.Error("twisted centers should not count as solved")
	}
}

func TestApplyNotation(t *testing.T) {
	c := New(WithSpeed(0))

	if err := c.ApplyNotation("R Q"); !errors.Is(err, ErrInvalidNotation) {
		t.Errorf("invalid notation: %v", err)
	}
	if !c.Idle() {
		t.Error("invalid notation should queue nothing")
	}

	if err := c.ApplyNotation("F B2 L' D"); err != nil {
		t.Fatalf("ApplyNotation: %v", err)
	}
	c.Settle()
	moves, _ := ParseMoves("F B2 L' D")
	c.Apply(Invert(moves)...)
	c.Settle()
	if !c.IsSolved() {
		t.Error("sequence and its inverse should cancel")
	}
}

func TestOnMoveAndPhaseChange(t *testing.T) {
	c := New(WithSpeed(0))
	var moves []Move
	var phases []Phase
	c.OnMove(func(m Move) { moves = append(moves, m) })
	c.OnPhaseChange(func(p Phase) { phases = append(phases, p) })

	if err := c.SetFaceString(afterR); err != nil {
		t.Fatalf("SetFaceString: %v", err)
	}
	c.Apply(RPrime)
	c.Settle()

	if FormatMoves(moves) != "R'" {
		t.Errorf("moves = %q", FormatMoves(moves))
	}
	if len(phases) != 1 || phases[0] != PhaseSolved {
		t.Errorf("phases = %v", phases)
	}
}

func TestShuffleIsNotProgress(t *testing.T) {
	c := New(WithRand(rand.New(rand.NewSource(3))))
	var phases []Phase
	c.OnPhaseChange(func(p Phase) { phases = append(phases, p) })

	var progress []float64
	c.OnProgress(func(p float64) { progress = append(progress, p) })

	shuffled := c.Shuffle(10)
	if len(shuffled) != 10 {
		t.Fatalf("shuffled %d moves", len(shuffled))
	}
	c.Settle()
	if len(progress) == 0 || progress[len(progress)-1] != 0 {
		t.Errorf("progress = %v", progress)
	}

	c.Apply(Invert(shuffled)...)
	c.Settle()
	if !c.IsSolved() {
		t.Fatal("undoing the shuffle should solve the cube")
	}
	if len(phases) == 0 || phases[len(phases)-1] != PhaseSolved {
		t.Errorf("phases = %v", phases)
	}
}

func TestShuffleWhileRunning(t *testing.T) {
	c := New(WithSpeed(0), WithTickInterval(time.Millisecond), WithRand(rand.New(rand.NewSource(5))))

	var mu sync.Mutex
	var phases []Phase
	moves := 0
	c.OnPhaseChange(func(p Phase) {
		mu.Lock()
		phases = append(phases, p)
		mu.Unlock()
	})
	c.OnMove(func(Move) {
		mu.Lock()
		moves++
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	// Phase callbacks run after the move callbacks of the same turn.
	waitMoves := func(n int) {
		t.Helper()
		deadline := time.Now().Add(5 * time.Second)
		for {
			mu.Lock()
			got := moves
			mu.Unlock()
			if got >= n {
				time.Sleep(5 * time.Millisecond)
				return
			}
			if time.Now().After(deadline) {
				t.Fatalf("saw %d of %d moves", got, n)
			}
			time.Sleep(time.Millisecond)
		}
	}

	var shuffled []Move
	for i := 0; i < 5; i++ {
		shuffled = append(shuffled, c.Shuffle(5)...)
	}
	waitMoves(25)

	mu.Lock()
	if len(phases) != 0 {
		t.Errorf("shuffle turns reached phases %v", phases)
	}
	mu.Unlock()

	c.Apply(Invert(shuffled)...)
	waitMoves(50)
	if !c.IsSolved() {
		t.Fatal("undoing the shuffle should solve the cube")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(phases) == 0 || phases[len(phases)-1] != PhaseSolved {
		t.Errorf("phases = %v", phases)
	}
}

func TestSolvePlayback(t *testing.T) {
	c := New(WithSpeed(0), WithSolver(fixedSolver{"R'"}))
	var phases []Phase
	c.OnPhaseChange(func(p Phase) { phases = append(phases, p) })

	if err := c.SetFaceString(afterR); err != nil {
		t.Fatalf("SetFaceString: %v", err)
	}
	solution, err := c.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if FormatMoves(solution) != "R'" {
		t.Errorf("solution = %q", FormatMoves(solution))
	}

	c.Settle()
	if c.FaceString() != afterR {
		t.Errorf("scramble not replayed: %q", c.FaceString())
	}
	if len(phases) != 0 {
		t.Errorf("scramble replay reported phases %v", phases)
	}

	if !c.StepForward() {
		t.Fatal("StepForward at start of solution")
	}
	c.Settle()
	if !c.IsSolved() {
		t.Error("cube should be solved after the solution")
	}
	if c.StepForward() {
		t.Error("StepForward past the end")
	}
	if len(phases) != 1 || phases[0] != PhaseSolved {
		t.Errorf("phases = %v", phases)
	}

	if !c.StepBack() {
		t.Fatal("StepBack at end of solution")
	}
	c.Settle()
	if c.FaceString() != afterR {
		t.Errorf("StepBack gave %q", c.FaceString())
	}
}

func TestSolveWithoutSolver(t *testing.T) {
	c := New()
	if _, err := c.Solve(context.Background()); !errors.Is(err, ErrNoSolver) {
		t.Errorf("Solve without solver: %v", err)
	}
}

func TestSettleWhilePaused(t *testing.T) {
	c := New()
	if !c.TogglePause() {
		t.Fatal("TogglePause should pause")
	}
	c.Apply(U)
	if c.Settle() {
		t.Error("Settle should give up while paused")
	}
	c.TogglePause()
	if !c.Settle() || c.IsSolved() {
		t.Error("U should play after resuming")
	}
}

func TestUnknownStickers(t *testing.T) {
	c := New()
	partial := "X" + SolvedFaceString()[1:]
	if err := c.SetFaceString(partial); err != nil {
		t.Fatalf("SetFaceString: %v", err)
	}
	if c.FaceString() != partial {
		t.Errorf("FaceString = %q", c.FaceString())
	}
	if DetectPhase(partial) != PhaseScrambled {
		t.Errorf("DetectPhase = %v", DetectPhase(partial))
	}
	if err := c.SetFaceString("short"); !errors.Is(err, ErrInvalidFaceString) {
		t.Errorf("short face string: %v", err)
	}
}
