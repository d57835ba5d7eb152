package storage

import (
	"database/sql"
	"fmt"

	"github.com/SeamusWaldron/cubr/pkg/types"
)

// Move sources.
const (
	SourceUser     = "user"
	SourceShuffle  = "shuffle"
	SourceSolution = "solution"
)

// MoveRecord represents a move in the database.
type MoveRecord struct {
	MoveID    int64
	SessionID string
	MoveIndex int
	TsMs      int64
	Face      string
	Turn      int
	Notation  string
	Source    string
}

// Move returns the record as a notation move.
func (m MoveRecord) Move() types.Move {
	return types.Move{Face: types.Face(m.Face), Turn: types.Turn(m.Turn)}
}

// MoveRepository provides CRUD operations for moves.
type MoveRepository struct {
	db *DB
}

// NewMoveRepository creates a new move repository.
func NewMoveRepository(db *DB) *MoveRepository {
	return &MoveRepository{db: db}
}

const insertMove = `
	INSERT INTO moves (session_id, move_index, ts_ms, face, turn, notation, source)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

// Create creates a new move and returns its ID.
func (r *MoveRepository) Create(sessionID string, moveIndex int, tsMs int64, move types.Move, source string) (int64, error) {
	result, err := r.db.Exec(insertMove, sessionID, moveIndex, tsMs, string(move.Face), int(move.Turn), move.Notation(), source)
	if err != nil {
		return 0, fmt.Errorf("failed to create move: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get move ID: %w", err)
	}

	return id, nil
}

// CreateBatch creates multiple moves sharing a timestamp in a single
// transaction.
func (r *MoveRepository) CreateBatch(sessionID string, moves []types.Move, startIndex int, tsMs int64, source string) error {
	return r.db.Transaction(func(tx *sql.Tx) error {
		for i, move := range moves {
			_, err := tx.Exec(insertMove, sessionID, startIndex+i, tsMs, string(move.Face), int(move.Turn), move.Notation(), source)
			if err != nil {
				return fmt.Errorf("failed to create move %d: %w", startIndex+i, err)
			}
		}
		return nil
	})
}

func (r *MoveRepository) query(q string, args ...any) ([]MoveRecord, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(&m.MoveID, &m.SessionID, &m.MoveIndex, &m.TsMs, &m.Face, &m.Turn, &m.Notation, &m.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

// GetBySession retrieves all moves for a session in order.
func (r *MoveRepository) GetBySession(sessionID string) ([]MoveRecord, error) {
	return r.query(`
		SELECT move_id, session_id, move_index, ts_ms, face, turn, notation, source
		FROM moves
		WHERE session_id = ?
		ORDER BY move_index
	`, sessionID)
}

// GetBySessionRange retrieves moves in a time range for a session.
// The start is inclusive and the end exclusive, so a move on a boundary
// belongs to exactly one range.
func (r *MoveRepository) GetBySessionRange(sessionID string, startTsMs, endTsMs int64) ([]MoveRecord, error) {
	return r.query(`
		SELECT move_id, session_id, move_index, ts_ms, face, turn, notation, source
		FROM moves
		WHERE session_id = ? AND ts_ms >= ? AND ts_ms < ?
		ORDER BY move_index
	`, sessionID, startTsMs, endTsMs)
}

// GetNextIndex returns the next move index for a session.
func (r *MoveRepository) GetNextIndex(sessionID string) (int, error) {
	var maxIndex int
	err := r.db.QueryRow(`
		SELECT COALESCE(MAX(move_index), -1) FROM moves WHERE session_id = ?
	`, sessionID).Scan(&maxIndex)
	if err != nil {
		return 0, fmt.Errorf("failed to get max move index: %w", err)
	}
	return maxIndex + 1, nil
}

// Count returns the number of moves for a session.
func (r *MoveRepository) Count(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM moves WHERE session_id = ?", sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count moves: %w", err)
	}
	return count, nil
}

// ToMoves converts records to notation moves.
func ToMoves(records []MoveRecord) []types.Move {
	moves := make([]types.Move, len(records))
	for i, r := range records {
		moves[i] = r.Move()
	}
	return moves
}
