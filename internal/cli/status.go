package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubr/internal/recorder"
	"github.com/SeamusWaldron/cubr/internal/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration, database and session status",
	Long:  `Display the config in use, the database location and statistics, any session left open, and the cube the last session ended on.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	checkpoint, err := recorder.OpenDefaultCheckpoint()
	if err != nil {
		return err
	}
	cp := checkpoint.Get()

	fmt.Println("cubr status")
	fmt.Println("===========")
	fmt.Println()

	fmt.Printf("Solver:   %s (timeout %s)\n", cfg.Solver.URL, cfg.SolverTimeout())
	fmt.Printf("Server:   %s\n", cfg.Server.Addr)

	db, err := openDB(cfg)
	if err != nil {
		fmt.Printf("Database: unavailable (%v)\n", err)
	} else {
		defer db.Close()
		fmt.Printf("Database: %s\n", db.Path())

		sessionRepo := storage.NewSessionRepository(db)
		if last, _ := sessionRepo.GetLast(); last != nil {
			fmt.Printf("Last session: %s (%s, %s)\n", last.SessionID, last.Kind, last.StartedAt.Format(time.RFC3339))
		}
		all, _ := sessionRepo.List(10000)
		fmt.Printf("Total sessions: %d\n", len(all))

		states, _ := storage.NewStateRepository(db).List()
		fmt.Printf("Saved states: %d\n", len(states))
	}

	fmt.Println()

	if cp.OpenSession != "" {
		fmt.Printf("Open session: %s\n", cp.OpenSession)
		fmt.Println("  (it is closed the next time 'cubr play' or 'cubr serve' starts)")
	} else {
		fmt.Println("No open session")
	}

	if last := cp.LastCube; last != "" {
		fmt.Println()
		fmt.Println("Last cube:")
		fmt.Print(renderNet(last))
	}

	return nil
}
