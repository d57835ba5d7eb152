package cli

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubr/internal/engine"
	"github.com/SeamusWaldron/cubr/internal/game"
	"github.com/SeamusWaldron/cubr/internal/storage"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

var (
	shuffleCount int
	shuffleSeed  int64
	shuffleSave  string
)

var shuffleCmd = &cobra.Command{
	Use:   "shuffle",
	Short: "Generate a random scramble",
	Long: `Shuffle a solved cube with random turns and print the turns and the
resulting face string. The scramble is recorded as a session; --save also
stores the result as a named state for 'cubr play --state'.`,
	Args: cobra.NoArgs,
	RunE: runShuffle,
}

func init() {
	rootCmd.AddCommand(shuffleCmd)
	shuffleCmd.Flags().IntVarP(&shuffleCount, "count", "n", 0, "Number of turns (default: engine.shuffle_length)")
	shuffleCmd.Flags().Int64Var(&shuffleSeed, "seed", 0, "Random seed (default: time based)")
	shuffleCmd.Flags().StringVar(&shuffleSave, "save", "", "Save the result under this name")
}

func runShuffle(cmd *cobra.Command, args []string) error {
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

	seed := shuffleSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rec, _, err := startRecording(db, logger, storage.KindShuffle, types.SolvedFaceString(), fmt.Sprintf("seed %d", seed))
	if err != nil {
		return err
	}

	// Headless, so ticks run back to back instead of on a timer.
	e := engine.New(
		engine.WithSettings(cfg.EngineSettings()),
		engine.WithLogger(logger),
		engine.WithRand(rand.New(rand.NewSource(seed))),
	)
	g := game.New(e, game.WithRecorder(rec), game.WithLogger(logger), game.WithShuffleLength(cfg.Engine.ShuffleLength))

	moves := g.Shuffle(shuffleCount)
	for !e.Idle() {
		e.Tick()
	}

	faceString := e.FaceString()
	if err := rec.End(faceString); err != nil {
		return err
	}

	tokens := make([]string, len(moves))
	for i, m := range moves {
		tokens[i] = m.Notation()
	}
	fmt.Printf("Scramble (%d moves): %s\n", len(moves), strings.Join(tokens, " "))
	fmt.Println(faceString)
	fmt.Print(renderNet(faceString))

	if shuffleSave != "" {
		if _, err := storage.NewStateRepository(db).Save(shuffleSave, faceString, rec.SessionID()); err != nil {
			return err
		}
		fmt.Printf("Saved as %q\n", shuffleSave)
	}
	return nil
}
