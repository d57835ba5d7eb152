package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubr/internal/recorder"
	"github.com/SeamusWaldron/cubr/internal/storage"
)

var (
	exportSessionID string
	exportFormat    string
	exportOutput    string
	exportLast      bool
	exportSimplify  bool
	exportSource    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export session data",
	Long:  `Export recorded session data in various formats.`,
}

var exportMovesCmd = &cobra.Command{
	Use:   "moves",
	Short: "Export moves from a session",
	Long: `Export the move sequence from a session in text or JSON format.

Examples:
  cubr export moves --last
  cubr export moves --last --source user --simplify
  cubr export moves --id <session_id> --format json
  cubr export moves --id <session_id> --format txt -o moves.txt`,
	RunE: runExportMoves,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.AddCommand(exportMovesCmd)
	exportMovesCmd.Flags().StringVar(&exportSessionID, "id", "", "Session ID to export")
	exportMovesCmd.Flags().BoolVar(&exportLast, "last", false, "Export the last session")
	exportMovesCmd.Flags().StringVar(&exportFormat, "format", recorder.FormatText, "Export format (txt, json)")
	exportMovesCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	exportMovesCmd.Flags().BoolVar(&exportSimplify, "simplify", false, "Merge and cancel adjacent turns of the same face (txt only)")
	exportMovesCmd.Flags().StringVar(&exportSource, "source", "", "Only export moves from this source (user, shuffle, solution)")
}

func runExportMoves(cmd *cobra.Command, args []string) error {
	if exportSessionID == "" && !exportLast {
		return fmt.Errorf("specify --id or --last")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	sessionID, err := resolveSessionID(db, exportSessionID, exportLast)
	if err != nil {
		return err
	}

	moves, err := storage.NewMoveRepository(db).GetBySession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get moves: %w", err)
	}
	moves = recorder.FilterSource(moves, exportSource)
	if len(moves) == 0 {
		return fmt.Errorf("no moves found for session %s", sessionID)
	}

	output, err := recorder.ExportMoves(moves, exportFormat, exportSimplify)
	if err != nil {
		return err
	}

	if exportOutput == "" {
		fmt.Println(output)
		return nil
	}

	// Ensure directory exists
	dir := filepath.Dir(exportOutput)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(exportOutput, []byte(output+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	fmt.Printf("Exported %d moves to %s\n", len(moves), exportOutput)
	return nil
}
