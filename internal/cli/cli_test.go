package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubr/internal/cube"
	"github.com/SeamusWaldron/cubr/internal/engine"
	"github.com/SeamusWaldron/cubr/internal/game"
	"github.com/SeamusWaldron/cubr/internal/storage"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

type stubSolver []string

func (s stubSolver) Solve(context.Context, string) ([]string, error) {
	return s, nil
}

func settle(t *testing.T, e *engine.Engine) {
	t.Helper()
	for i := 0; !e.Idle(); i++ {
		require.Less(t, i, 100000, "engine never went idle")
		e.Tick()
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1.50s", formatDuration(1500*time.Millisecond))
	assert.Equal(t, "2m5.0s", formatDuration(2*time.Minute+5*time.Second))
}

func TestRenderNet(t *testing.T) {
	lines := strings.Split(strings.TrimRight(renderNet(types.SolvedFaceString()), "\n"), "\n")
	assert.Len(t, lines, 9)

	assert.Equal(t, "short\n", renderNet("short"))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[     ]", progressBar(0, 5))
	assert.Equal(t, "[==   ]", progressBar(0.5, 5))
	assert.Equal(t, "[=====]", progressBar(2, 5))
}

func TestPlayKeys(t *testing.T) {
	e := engine.New()
	g := game.New(e, game.WithSolver(stubSolver{"R"}))
	m := newPlayModel(g, 0, false)

	m.handleKey("R")
	settle(t, e)
	assert.False(t, e.IsSolved())
	assert.Equal(t, "R'", g.View().LastMove)

	cmd := m.handleKey("x")
	require.NotNil(t, cmd)
	assert.True(t, m.solving)
	assert.Nil(t, m.handleKey("x"), "second solve while one is running")

	m.Update(cmd())
	assert.False(t, m.solving)
	require.NoError(t, m.err)
	settle(t, e)

	m.handleKey("n")
	settle(t, e)
	assert.True(t, e.IsSolved())
	assert.Contains(t, m.View(), "SOLVED!")

	m.handleKey("n")
	assert.Equal(t, "End of solution", m.message)

	paused := e.Settings().Paused
	m.handleKey(" ")
	assert.NotEqual(t, paused, e.Settings().Paused)

	assert.NotNil(t, m.handleKey("q"))
	assert.Equal(t, "Goodbye!\n", m.View())
}

func TestReplayIgnoresTurnKeys(t *testing.T) {
	e := engine.New()
	g := game.New(e)
	m := newPlayModel(g, time.Millisecond, true)

	m.handleKey("r")
	m.handleKey("s")
	assert.True(t, e.Idle())
	assert.True(t, e.IsSolved())
}

func TestReplaySteps(t *testing.T) {
	e := engine.New()
	records := []storage.MoveRecord{
		{Face: "R", Turn: 1, Notation: "R"},
		{Face: "U", Turn: 2, Notation: "U2"},
		{Face: "R", Turn: -1, Notation: "R'"},
	}
	steps := replaySteps(e.Registry(), records)
	require.Len(t, steps, 3)

	e.Enqueue(false, steps...)
	settle(t, e)
	want := cube.New()
	want.ApplyMoves(storage.ToMoves(records))
	assert.Equal(t, want.FaceString(), e.FaceString())
}
