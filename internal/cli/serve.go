package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubr/internal/engine"
	"github.com/SeamusWaldron/cubr/internal/game"
	"github.com/SeamusWaldron/cubr/internal/server"
	"github.com/SeamusWaldron/cubr/internal/storage"
	"github.com/SeamusWaldron/cubr/pkg/types"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the cube over HTTP",
	Long: `Run the cube headless behind an HTTP API. Render clients fetch
/api/meshes or /api/faces, send turns to /api/moves and follow state
changes over the /ws websocket. The whole run is recorded as one session.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
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

	rec, _, err := startRecording(db, logger, storage.KindPlay, types.SolvedFaceString(), "serve")
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

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithStates(storage.NewStateRepository(db)),
	}
	if verbose {
		opts = append(opts, server.WithAccessLog())
	}
	srv := server.New(g, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go e.Run(ctx)

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Listen(addr)
	}()

	select {
	case err = <-errc:
		err = fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
		logger.Infof("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = srv.Shutdown(shutdownCtx)
	}

	if endErr := rec.End(e.FaceString()); endErr != nil {
		logger.Warnf("failed to end session: %v", endErr)
	}
	return err
}
