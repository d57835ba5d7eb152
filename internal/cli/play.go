package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubr/internal/cube"
	"github.com/SeamusWaldron/cubr/internal/engine"
	"github.com/SeamusWaldron/cubr/internal/game"
	"github.com/SeamusWaldron/cubr/internal/recorder"
	"github.com/SeamusWaldron/cubr/internal/storage"
	"github.com/SeamusWaldron/cubr/internal/turns"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

var (
	playState    string
	playContinue bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Interactive cube",
	Long: `Turn the cube from the keyboard. Every turn is recorded, and solving
phases you complete are marked as you reach them.

Keyboard shortcuts:
  u d l r f b   - Turn a face clockwise
  U D L R F B   - Turn a face counter-clockwise
  s             - Shuffle
  x             - Ask the solver for a solution
  n / p         - Step forward / back through the solution
  0             - Reset to solved
  SPACE         - Pause / resume
  + / -         - Faster / slower turns
  tab           - Toggle details
  q/Esc         - Quit`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().StringVar(&playState, "state", "", "Start from a saved state")
	playCmd.Flags().BoolVar(&playContinue, "continue", false, "Start from the cube the last session ended on")
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	phaseStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("226"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	start := types.SolvedFaceString()
	switch {
	case playState != "":
		saved, err := storage.NewStateRepository(db).Get(playState)
		if err != nil {
			return err
		}
		if saved == nil {
			return fmt.Errorf("no saved state named %q", playState)
		}
		start = saved.FaceString
	case playContinue:
		checkpoint, err := recorder.OpenDefaultCheckpoint()
		if err != nil {
			return err
		}
		if last := checkpoint.Get().LastCube; last != "" {
			start = last
		}
	}

	e := engine.New(engine.WithSettings(cfg.EngineSettings()), engine.WithLogger(logger))
	if err := e.SetFaceString(start); err != nil {
		return fmt.Errorf("invalid start state: %w", err)
	}

	rec, _, err := startRecording(db, logger, storage.KindPlay, start, "")
	if err != nil {
		return err
	}

	g := game.New(e,
		game.WithSolver(newSolver(cfg, logger)),
		game.WithRecorder(rec),
		game.WithLogger(logger),
		game.WithShuffleLength(cfg.Engine.ShuffleLength),
	)
	return runPlayer(g, cfg.EngineSettings().TickInterval, false)
}

// runPlayer runs the TUI until the user quits, then closes any open
// session on the cube as it stands.
func runPlayer(g *game.Game, tick time.Duration, replay bool) error {
	model := newPlayModel(g, tick, replay)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()

	if rec := g.Recorder(); rec != nil {
		if endErr := rec.End(g.Engine().FaceString()); endErr != nil && err == nil {
			err = endErr
		}
	}
	if err != nil {
		return fmt.Errorf("player error: %w", err)
	}
	return nil
}

// Messages
type tickMsg time.Time
type solvedMsg struct {
	moves []turns.Move
	err   error
}

// Model
type playModel struct {
	game   *game.Game
	tick   time.Duration
	replay bool

	solving  bool
	details  bool
	message  string
	err      error
	quitting bool
}

func newPlayModel(g *game.Game, tick time.Duration, replay bool) *playModel {
	if tick <= 0 {
		tick = engine.DefaultSettings().TickInterval
	}
	m := &playModel{game: g, tick: tick, replay: replay}
	if rec := g.Recorder(); rec != nil {
		// Phase callbacks fire from Tick, which runs inside Update.
		rec.SetPhaseCallback(func(p cube.Phase) {
			m.message = "Reached " + p.DisplayName()
		})
	}
	return m
}

func (m *playModel) Init() tea.Cmd {
	return m.tickCmd()
}

func (m *playModel) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *playModel) solveCmd() tea.Cmd {
	return func() tea.Msg {
		moves, err := m.game.Solve(context.Background())
		return solvedMsg{moves: moves, err: err}
	}
}

// faceKeys maps a key to the turn it queues.
var faceKeys = map[string]string{
	"u": "U", "d": "D", "l": "L", "r": "R", "f": "F", "b": "B",
	"U": "U'", "D": "D'", "L": "L'", "R": "R'", "F": "F'", "B": "B'",
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())

	case tickMsg:
		m.game.Engine().Tick()
		return m, m.tickCmd()

	case solvedMsg:
		m.solving = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.message = fmt.Sprintf("Solution of %d moves loaded; n/p to step", len(msg.moves))
	}

	return m, nil
}

func (m *playModel) handleKey(key string) tea.Cmd {
	e := m.game.Engine()

	switch key {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return tea.Quit
	case " ":
		if e.TogglePause() {
			m.message = "Paused"
		} else {
			m.message = ""
		}
		return nil
	case "+", "=":
		e.SpeedUp()
		return nil
	case "-":
		e.SlowDown()
		return nil
	case "tab":
		m.details = !m.details
		return nil
	}

	if m.replay {
		return nil
	}

	if tok, ok := faceKeys[key]; ok {
		m.game.Move(tok)
		return nil
	}

	switch key {
	case "s":
		n := len(m.game.Shuffle(0))
		m.message = fmt.Sprintf("Shuffling %d moves", n)
	case "0":
		m.game.Reset()
		m.err = nil
		m.message = "Reset"
	case "x":
		if m.solving {
			return nil
		}
		m.solving = true
		m.message = "Solving..."
		return m.solveCmd()
	case "n":
		if !m.game.StepForward() {
			m.message = "End of solution"
		}
	case "p":
		if !m.game.StepBack() {
			m.message = "Start of solution"
		}
	}
	return nil
}

func (m *playModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	v := m.game.View()
	var b strings.Builder

	title := "cubr"
	if m.replay {
		title = "cubr replay"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(renderNet(v.FaceString))
	b.WriteString("\n")

	if v.Solved {
		b.WriteString(fmt.Sprintf("Cube State: %s\n", phaseStyle.Render("SOLVED!")))
	} else if p, ok := cube.ParsePhase(v.Phase); ok {
		b.WriteString(fmt.Sprintf("Completed: %s\n", phaseStyle.Render(p.DisplayName())))
	}

	status := fmt.Sprintf("Moves: %d  Queue: %d  Speed: %d", v.Moves, v.Queue, v.Speed)
	if v.Paused {
		status += "  [PAUSED]"
	}
	if v.SessionID != "" {
		status += fmt.Sprintf("  Session: %s", v.SessionID[:8])
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")

	if v.Progress > 0 {
		b.WriteString(progressBar(v.Progress, 30))
		b.WriteString("\n")
	}

	if len(v.Solution) > 0 {
		b.WriteString("Solution: ")
		for i, tok := range v.Solution {
			style := moveStyle
			if i == v.Cursor {
				style = cursorStyle
			}
			b.WriteString(style.Render(tok))
			b.WriteByte(' ')
		}
		b.WriteString(fmt.Sprintf("(%d/%d)\n", v.Cursor, len(v.Solution)))
	} else if v.LastMove != "" {
		b.WriteString(fmt.Sprintf("Last move: %s\n", moveStyle.Render(v.LastMove)))
	}

	if m.details {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(v.FaceString))
		b.WriteString("\n")
		if c, err := cube.Parse(v.FaceString); err == nil {
			p := c.GetProgress()
			b.WriteString(statusStyle.Render(fmt.Sprintf("Up cross %v  Up layer %v  Middle %v  Down cross %v",
				p.UpCross, p.UpLayer, p.MiddleLayer, p.DownCross)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	} else if m.message != "" {
		b.WriteString(m.message)
		b.WriteString("\n")
	}

	help := "udlrfb=turn  UDLRFB=reverse  s=shuffle  x=solve  n/p=step  0=reset  SPACE=pause  +/-=speed  q=quit"
	if m.replay {
		help = "SPACE=pause  +/-=speed  tab=details  q=quit"
	}
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")

	return b.String()
}

// progressBar renders p in [0, 1] as a bar of width cells.
func progressBar(p float64, width int) string {
	filled := int(p * float64(width))
	filled = max(0, min(filled, width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}
