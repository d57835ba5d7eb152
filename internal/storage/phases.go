package storage

import (
	"fmt"
)

// PhaseMark records the moment a session first reached a solving phase.
type PhaseMark struct {
	PhaseMarkID int64
	SessionID   string
	TsMs        int64
	PhaseKey    string
	MoveIndex   int
}

// PhaseSegment is the stretch of a session spent working toward one phase.
type PhaseSegment struct {
	PhaseKey   string
	StartTsMs  int64
	EndTsMs    int64
	DurationMs int64
	MoveCount  int
	TPS        float64
}

// PhaseRepository provides CRUD operations for phase marks.
type PhaseRepository struct {
	db *DB
}

// NewPhaseRepository creates a new phase repository.
func NewPhaseRepository(db *DB) *PhaseRepository {
	return &PhaseRepository{db: db}
}

// CreatePhaseMark creates a new phase mark.
func (r *PhaseRepository) CreatePhaseMark(sessionID string, tsMs int64, phaseKey string, moveIndex int) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO phase_marks (session_id, ts_ms, phase_key, move_index)
		VALUES (?, ?, ?, ?)
	`, sessionID, tsMs, phaseKey, moveIndex)
	if err != nil {
		return 0, fmt.Errorf("failed to create phase mark: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get phase mark ID: %w", err)
	}

	return id, nil
}

// GetPhaseMarks retrieves all phase marks for a session.
func (r *PhaseRepository) GetPhaseMarks(sessionID string) ([]PhaseMark, error) {
	rows, err := r.db.Query(`
		SELECT phase_mark_id, session_id, ts_ms, phase_key, move_index
		FROM phase_marks
		WHERE session_id = ?
		ORDER BY ts_ms, phase_mark_id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get phase marks: %w", err)
	}
	defer rows.Close()

	var marks []PhaseMark
	for rows.Next() {
		var m PhaseMark
		if err := rows.Scan(&m.PhaseMarkID, &m.SessionID, &m.TsMs, &m.PhaseKey, &m.MoveIndex); err != nil {
			return nil, fmt.Errorf("failed to scan phase mark: %w", err)
		}
		marks = append(marks, m)
	}
	return marks, rows.Err()
}

// Segments splits a session at its phase marks. Each segment runs from the
// previous mark (or the session start) up to the mark that completed the
// phase, and counts the moves made in between.
func (r *PhaseRepository) Segments(sessionID string) ([]PhaseSegment, error) {
	marks, err := r.GetPhaseMarks(sessionID)
	if err != nil {
		return nil, err
	}

	var segments []PhaseSegment
	var startMs int64
	startIndex := 0
	for _, mark := range marks {
		seg := PhaseSegment{
			PhaseKey:   mark.PhaseKey,
			StartTsMs:  startMs,
			EndTsMs:    mark.TsMs,
			DurationMs: mark.TsMs - startMs,
			MoveCount:  mark.MoveIndex - startIndex,
		}
		if seg.DurationMs > 0 {
			seg.TPS = float64(seg.MoveCount) / (float64(seg.DurationMs) / 1000.0)
		}
		segments = append(segments, seg)
		startMs, startIndex = mark.TsMs, mark.MoveIndex
	}
	return segments, nil
}
