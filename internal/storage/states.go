package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SavedState is a named face string kept for later reloading.
type SavedState struct {
	StateID    int64     `json:"state_id"`
	Name       string    `json:"name"`
	FaceString string    `json:"face_string"`
	CreatedAt  time.Time `json:"created_at"`
	SessionID  *string   `json:"session_id,omitempty"`
}

// StateRepository provides CRUD operations for saved states.
type StateRepository struct {
	db *DB
}

// NewStateRepository creates a new saved state repository.
func NewStateRepository(db *DB) *StateRepository {
	return &StateRepository{db: db}
}

// Save stores faceString under name, replacing any state with that name.
func (r *StateRepository) Save(name, faceString, sessionID string) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO saved_states (name, face_string, created_at, session_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			face_string = excluded.face_string,
			created_at = excluded.created_at,
			session_id = excluded.session_id
	`, name, faceString, time.Now().UTC().Format(timeLayout), optional(sessionID))
	if err != nil {
		return 0, fmt.Errorf("failed to save state: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get state ID: %w", err)
	}
	return id, nil
}

func scanState(row scanner) (*SavedState, error) {
	var s SavedState
	var createdAt string
	if err := row.Scan(&s.StateID, &s.Name, &s.FaceString, &createdAt, &s.SessionID); err != nil {
		return nil, err
	}
	s.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return &s, nil
}

// Get retrieves a saved state by name. A missing state returns nil, nil.
func (r *StateRepository) Get(name string) (*SavedState, error) {
	s, err := scanState(r.db.QueryRow(`
		SELECT state_id, name, face_string, created_at, session_id
		FROM saved_states
		WHERE name = ?
	`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get state: %w", err)
	}
	return s, nil
}

// List retrieves every saved state ordered by name.
func (r *StateRepository) List() ([]SavedState, error) {
	rows, err := r.db.Query(`
		SELECT state_id, name, face_string, created_at, session_id
		FROM saved_states
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list states: %w", err)
	}
	defer rows.Close()

	var states []SavedState
	for rows.Next() {
		s, err := scanState(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan state: %w", err)
		}
		states = append(states, *s)
	}
	return states, rows.Err()
}

// Delete removes a saved state.
func (r *StateRepository) Delete(name string) error {
	if _, err := r.db.Exec("DELETE FROM saved_states WHERE name = ?", name); err != nil {
		return fmt.Errorf("failed to delete state: %w", err)
	}
	return nil
}
