package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubr/internal/analysis"
	"github.com/SeamusWaldron/cubr/internal/cube"
	"github.com/SeamusWaldron/cubr/internal/recorder"
	"github.com/SeamusWaldron/cubr/internal/storage"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

var (
	listLimit int
	showLast  bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect recorded sessions",
	Long:  `Commands for listing, showing and deleting recorded sessions.`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions",
	Long:  `Display a list of recent sessions with basic statistics.`,
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show details of a session",
	Long: `Display detailed information about a session including:
- Session metadata (kind, duration, moves)
- Phases reached with timing
- Move sequence

Use --last to show the most recent session.`,
	RunE: runSessionsShow,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and its moves",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsListCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of sessions to display")

	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsShowCmd.Flags().BoolVar(&showLast, "last", false, "Show the most recent session")

	sessionsCmd.AddCommand(sessionsDeleteCmd)
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	sessionRepo := storage.NewSessionRepository(db)
	sessions, err := sessionRepo.List(listLimit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet")
		fmt.Println("Start one with: cubr play")
		return nil
	}

	fmt.Printf("Recent sessions (showing %d):\n", len(sessions))
	fmt.Println()
	fmt.Printf("%-36s  %-8s  %-20s  %-10s  %-6s  %s\n", "ID", "Kind", "Started", "Duration", "Moves", "Notes")
	fmt.Println("------------------------------------  --------  --------------------  ----------  ------  -----")

	for _, s := range sessions {
		duration := "-"
		if s.DurationMs != nil {
			duration = formatDuration(time.Duration(*s.DurationMs) * time.Millisecond)
		}

		moves := "-"
		if n, _ := sessionRepo.GetMoveCount(s.SessionID); n > 0 {
			moves = fmt.Sprintf("%d", n)
		}

		notes := ""
		if s.Notes != nil {
			notes = *s.Notes
			if len(notes) > 30 {
				notes = notes[:27] + "..."
			}
		}
		if s.EndedAt == nil {
			notes += " (open)"
		}

		fmt.Printf("%-36s  %-8s  %-20s  %-10s  %-6s  %s\n",
			s.SessionID,
			s.Kind,
			s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			duration,
			moves,
			notes,
		)
	}

	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
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
	sessionID, err := resolveSessionID(db, id, showLast)
	if err != nil {
		return err
	}

	session, err := storage.NewSessionRepository(db).Get(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return fmt.Errorf("session not found: %s", sessionID)
	}

	moves, err := storage.NewMoveRepository(db).GetBySession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get moves: %w", err)
	}

	segments, err := storage.NewPhaseRepository(db).Segments(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get phases: %w", err)
	}

	fmt.Println("Session Details")
	fmt.Println("===============")
	fmt.Println()

	fmt.Printf("ID:      %s\n", session.SessionID)
	fmt.Printf("Kind:    %s\n", session.Kind)
	fmt.Printf("Started: %s\n", session.StartedAt.Local().Format("2006-01-02 15:04:05"))
	if session.EndedAt != nil {
		fmt.Printf("Ended:   %s\n", session.EndedAt.Local().Format("2006-01-02 15:04:05"))
	}
	if session.DurationMs != nil {
		fmt.Printf("Duration: %s\n", formatDuration(time.Duration(*session.DurationMs)*time.Millisecond))
	}
	if session.Notes != nil && *session.Notes != "" {
		fmt.Printf("Notes:   %s\n", *session.Notes)
	}
	fmt.Println()

	if len(segments) > 0 {
		fmt.Println("Phases")
		fmt.Println("------")
		fmt.Printf("%-20s  %-10s  %-6s  %s\n", "Phase", "Time", "Moves", "TPS")
		for _, seg := range segments {
			fmt.Printf("%-20s  %-10s  %-6d  %.2f\n",
				phaseDisplayName(seg.PhaseKey),
				formatDuration(time.Duration(seg.DurationMs)*time.Millisecond),
				seg.MoveCount,
				seg.TPS,
			)
		}
		fmt.Println()
	}

	counts := map[string]int{}
	for _, m := range moves {
		counts[m.Source]++
	}
	fmt.Printf("Moves: %d (user %d, shuffle %d, solution %d)\n",
		len(moves), counts[storage.SourceUser], counts[storage.SourceShuffle], counts[storage.SourceSolution])
	userRecords := recorder.FilterSource(moves, storage.SourceUser)
	if len(userRecords) > 0 {
		fmt.Printf("User moves: %s\n", types.FormatMoves(storage.ToMoves(userRecords)))

		sum := analysis.Summarize(userRecords, analysis.DefaultPauseMs)
		fmt.Printf("Simplified: %d (%.0f%%)  TPS: %.2f  Most used face: %s\n",
			sum.SimplifiedMoves, sum.Efficiency*100, sum.TPS, sum.MostUsedFace)
		fmt.Printf("Pauses over %s: %d (longest %s)\n",
			formatDuration(analysis.DefaultPauseMs*time.Millisecond),
			len(sum.Pauses),
			formatDuration(time.Duration(sum.LongestPauseMs)*time.Millisecond))

		report := analysis.MineNGrams(userRecords, 4, 8, 3)
		if len(report.TopNGrams) > 0 {
			fmt.Println()
			fmt.Println("Repeated sequences")
			fmt.Println("------------------")
			for n := 4; n <= 8; n++ {
				for _, g := range report.TopNGrams[n] {
					fmt.Printf("  %-28s x%d\n", g.String(), g.Count)
				}
			}
		}
	}

	fmt.Println()
	fmt.Println("Start:")
	fmt.Print(renderNet(session.StartState))
	if session.EndState != nil {
		fmt.Println("End:")
		fmt.Print(renderNet(*session.EndState))
	}

	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.NewSessionRepository(db).Delete(args[0]); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	fmt.Printf("Deleted session %s\n", args[0])
	return nil
}

// phaseDisplayName names a stored phase key.
func phaseDisplayName(key string) string {
	if p, ok := cube.ParsePhase(key); ok {
		return p.DisplayName()
	}
	return key
}
