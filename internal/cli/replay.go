package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubr/internal/engine"
	"github.com/SeamusWaldron/cubr/internal/game"
	"github.com/SeamusWaldron/cubr/internal/recorder"
	"github.com/SeamusWaldron/cubr/internal/storage"
	"github.com/SeamusWaldron/cubr/internal/turns"
)

var (
	replayLast   bool
	replaySource string
)

var replayCmd = &cobra.Command{
	Use:   "replay [session-id]",
	Short: "Replay a recorded session",
	Long: `Animate a recorded session from its start state, turn by turn.

Use SPACE to pause and +/- to change the turn speed.

Examples:
  cubr replay --last
  cubr replay --last --source user
  cubr replay 3f2a9c1e-...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().BoolVar(&replayLast, "last", false, "Replay the most recent session")
	replayCmd.Flags().StringVar(&replaySource, "source", "", "Only replay moves from this source (user, shuffle, solution)")
}

func runReplay(cmd *cobra.Command, args []string) error {
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

	var id string
	if len(args) > 0 {
		id = args[0]
	}
	sessionID, err := resolveSessionID(db, id, replayLast)
	if err != nil {
		return err
	}

	sess, err := storage.NewSessionRepository(db).Get(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil {
		return fmt.Errorf("session not found: %s", sessionID)
	}

	records, err := storage.NewMoveRepository(db).GetBySession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get moves: %w", err)
	}
	records = recorder.FilterSource(records, replaySource)
	if len(records) == 0 {
		return fmt.Errorf("session %s has no moves to replay", sessionID)
	}

	e := engine.New(engine.WithSettings(cfg.EngineSettings()), engine.WithLogger(logger))
	if err := e.SetFaceString(sess.StartState); err != nil {
		return fmt.Errorf("session start state: %w", err)
	}
	e.Enqueue(false, replaySteps(e.Registry(), records)...)

	g := game.New(e, game.WithLogger(logger))
	return runPlayer(g, cfg.EngineSettings().TickInterval, true)
}

// replaySteps turns stored moves into engine steps.
func replaySteps(reg *turns.Registry, records []storage.MoveRecord) []engine.Step {
	ms := make([]turns.Move, len(records))
	for i, m := range storage.ToMoves(records) {
		ms[i] = reg.For(m)
	}
	return engine.Moves(ms...)
}
