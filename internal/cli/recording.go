package cli

import (
	"fmt"

	"github.com/SeamusWaldron/cubr/internal/log"
	"github.com/SeamusWaldron/cubr/internal/recorder"
	"github.com/SeamusWaldron/cubr/internal/storage"
)

// startRecording opens a new session of kind starting at startState. A
// session left open by an earlier run is closed first, ending on the last
// cube the checkpoint knows about.
func startRecording(db *storage.DB, logger log.Logger, kind, startState, notes string) (*recorder.Session, *recorder.CheckpointStore, error) {
	checkpoint, err := recorder.OpenDefaultCheckpoint()
	if err != nil {
		return nil, nil, err
	}
	if err := checkpoint.Update(func(cp *recorder.Checkpoint) { cp.DBPath = db.Path() }); err != nil {
		logger.Warnf("%v", err)
	}

	if cp := checkpoint.Get(); cp.OpenSession != "" {
		stale := recorder.NewSession(db, checkpoint, recorder.WithLogger(logger))
		id := cp.OpenSession
		if err := stale.Resume(id); err != nil {
			logger.Warnf("dropping unresumable session %s: %v", id, err)
			if err := checkpoint.Update(func(cp *recorder.Checkpoint) { cp.OpenSession = "" }); err != nil {
				return nil, nil, err
			}
		} else if err := stale.End(cp.LastCube); err != nil {
			return nil, nil, fmt.Errorf("failed to close session %s: %w", id, err)
		} else {
			logger.Infof("closed session %s left open by an earlier run", id)
		}
	}

	rec := recorder.NewSession(db, checkpoint, recorder.WithLogger(logger))
	if _, err := rec.Start(kind, startState, notes, version); err != nil {
		return nil, nil, err
	}
	return rec, checkpoint, nil
}
