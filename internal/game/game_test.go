package game

import (
	"context"
	"errors"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubr/internal/engine"
	"github.com/SeamusWaldron/cubr/internal/recorder"
	"github.com/SeamusWaldron/cubr/internal/storage"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

type fakeSolver struct {
	tokens []string
	err    error
}

func (f *fakeSolver) Solve(context.Context, string) ([]string, error) {
	return f.tokens, f.err
}

func runUntilIdle(t *testing.T, e *engine.Engine) {
	t.Helper()
	for i := 0; !e.Idle(); i++ {
		require.Less(t, i, 100000, "engine never went idle")
		e.Tick()
	}
}

func newRecorded(t *testing.T, opts ...Option) (*Game, *storage.DB, string) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "cubr.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rec := recorder.NewSession(db, nil)
	id, err := rec.Start(storage.KindPlay, types.SolvedFaceString(), "", "test")
	require.NoError(t, err)

	e := engine.New(engine.WithRand(rand.New(rand.NewSource(7))))
	return New(e, append(opts, WithRecorder(rec))...), db, id
}

func sources(t *testing.T, db *storage.DB, id string) []string {
	t.Helper()
	records, err := storage.NewMoveRepository(db).GetBySession(id)
	require.NoError(t, err)
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Source
	}
	return out
}

func TestMoveAndView(t *testing.T) {
	g := New(engine.New())

	assert.Equal(t, 2, g.Move("R", "bogus", "R'"))
	runUntilIdle(t, g.Engine())

	v := g.View()
	assert.True(t, v.Solved)
	assert.True(t, v.Idle)
	assert.Equal(t, 2, v.Moves)
	assert.Equal(t, "R'", v.LastMove)
	assert.Equal(t, "solved", v.Phase)
	assert.Equal(t, types.SolvedFaceString(), v.FaceString)
}

func TestShuffleRecordsSource(t *testing.T) {
	g, db, id := newRecorded(t, WithShuffleLength(5))

	chosen := g.Shuffle(0)
	require.Len(t, chosen, 5)
	runUntilIdle(t, g.Engine())

	assert.Equal(t, []string{"shuffle", "shuffle", "shuffle", "shuffle", "shuffle"}, sources(t, db, id))
	assert.Equal(t, 0.0, g.View().Progress)

	events, err := storage.NewEventRepository(db).GetByType(id, storage.EventShuffle)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestSolvePlaybackRecorded(t *testing.T) {
	g, db, id := newRecorded(t, WithSolver(&fakeSolver{tokens: []string{"R'"}}))

	g.Move("R")
	runUntilIdle(t, g.Engine())
	scrambled := g.Engine().FaceString()

	moves, err := g.Solve(context.Background())
	require.NoError(t, err)
	require.Len(t, moves, 1)
	runUntilIdle(t, g.Engine())
	assert.Equal(t, scrambled, g.Engine().FaceString())

	assert.True(t, g.StepForward())
	assert.False(t, g.StepForward())
	runUntilIdle(t, g.Engine())
	assert.True(t, g.View().Solved)

	assert.Equal(t, []string{"user", "solution", "solution"}, sources(t, db, id))

	assert.True(t, g.StepBack())
	runUntilIdle(t, g.Engine())
	assert.Equal(t, "solution", sources(t, db, id)[3])
}

func TestSolveFailure(t *testing.T) {
	unsolvable := errors.New("unsolvable")
	g, db, id := newRecorded(t, WithSolver(&fakeSolver{err: unsolvable}))

	g.Move("F")
	runUntilIdle(t, g.Engine())
	before := g.Engine().FaceString()

	_, err := g.Solve(context.Background())
	assert.ErrorIs(t, err, unsolvable)
	assert.Equal(t, before, g.Engine().FaceString())
	assert.Equal(t, "unsolvable", g.View().Error)

	fails, _ := storage.NewEventRepository(db).GetByType(id, storage.EventSolveFail)
	assert.Len(t, fails, 1)

	g.Reset()
	assert.Empty(t, g.View().Error)
	assert.True(t, g.View().Solved)
}

func TestSolveWithoutSolver(t *testing.T) {
	g := New(engine.New())
	_, err := g.Solve(context.Background())
	assert.ErrorIs(t, err, ErrNoSolver)
}

func TestSetFaceStringUnknownPhase(t *testing.T) {
	g := New(engine.New())
	s := types.SolvedFaceString()
	require.NoError(t, g.SetFaceString("X"+s[1:]))
	assert.Equal(t, "unknown", g.View().Phase)

	assert.Error(t, g.SetFaceString("nope"))
}

func TestViewSolvedFollowsStickers(t *testing.T) {
	const afterR = "UUFUUFUUFRRRRRRRRRFFDFFDFFDDDBDDBDDBLLLLLLLLLUBBUBBUBB"
	g := New(engine.New())

	// Relabeling leaves every cubelet at home with scrambled stickers.
	require.NoError(t, g.SetFaceString(afterR))
	v := g.View()
	assert.False(t, v.Solved)
	assert.Equal(t, "scrambled", v.Phase)

	require.NoError(t, g.SetFaceString(types.SolvedFaceString()))
	assert.True(t, g.View().Solved)

	// Superflip twice restores the stickers but leaves centers turned.
	g.Reset()
	superflip := "U R2 F B R B2 R U2 L B2 R U' D' R2 F R' L B2 U2 F2"
	assert.Equal(t, 40, g.Move(strings.Fields(superflip+" "+superflip)...))
	runUntilIdle(t, g.Engine())
	v = g.View()
	assert.True(t, v.Solved)
	assert.Equal(t, "solved", v.Phase)
	assert.False(t, g.Engine().IsSolved())
}
