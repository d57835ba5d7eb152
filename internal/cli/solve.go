package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubr/internal/engine"
	"github.com/SeamusWaldron/cubr/internal/game"
	"github.com/SeamusWaldron/cubr/internal/storage"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

var (
	solveNet  bool
	solvePlay bool
)

var solveCmd = &cobra.Command{
	Use:   "solve <facestring>",
	Short: "Ask the solver for a solution",
	Long: `Send a 54 character face string (faces in order U R F D L B) to the
configured solver and print the solution.

With --play the cube opens in the interactive player with the solution
loaded; step through it with n and p.

Examples:
  cubr solve UUFUUFUUFRRRRRRRRRFFDFFDFFDDDBDDBDDBLLLLLLLLLUBBUBBUBB
  cubr solve --net --play <facestring>`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().BoolVar(&solveNet, "net", false, "Print the cube as an unfolded net")
	solveCmd.Flags().BoolVar(&solvePlay, "play", false, "Open the solution in the interactive player")
}

func runSolve(cmd *cobra.Command, args []string) error {
	faceString := strings.ToUpper(strings.TrimSpace(args[0]))
	if err := types.ValidateFaceString(faceString, false); err != nil {
		return err
	}
	return solveAndShow(cmd.Context(), faceString, solveNet, solvePlay)
}

// solveAndShow solves faceString, prints the solution and optionally hands
// the cube to the interactive player.
func solveAndShow(ctx context.Context, faceString string, net, play bool) error {
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

	if ctx == nil {
		ctx = context.Background()
	}

	kind := storage.KindSolve
	if play {
		kind = storage.KindPlay
	}
	rec, _, err := startRecording(db, logger, kind, faceString, "")
	if err != nil {
		return err
	}

	e := engine.New(engine.WithSettings(cfg.EngineSettings()), engine.WithLogger(logger))
	g := game.New(e,
		game.WithSolver(newSolver(cfg, logger)),
		game.WithRecorder(rec),
		game.WithLogger(logger),
		game.WithShuffleLength(cfg.Engine.ShuffleLength),
	)

	if net {
		fmt.Print(renderNet(faceString))
		fmt.Println()
	}

	moves, err := g.SolveFaceString(ctx, faceString)
	if err != nil {
		if endErr := rec.End(faceString); endErr != nil {
			logger.Warnf("failed to end session: %v", endErr)
		}
		return fmt.Errorf("failed to solve: %w", err)
	}

	tokens := make([]string, len(moves))
	for i, m := range moves {
		tokens[i] = m.Notation()
	}
	fmt.Printf("Solution (%d moves): %s\n", len(moves), strings.Join(tokens, " "))

	if !play {
		return rec.End(faceString)
	}
	return runPlayer(g, cfg.EngineSettings().TickInterval, false)
}
