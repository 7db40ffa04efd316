package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rxstock/rxdash/internal/api"
)

// storageKey is the single well-known key the client persists its session
// under, mirroring a browser session-storage entry.
const storageKey = "rxdash.session"

// Record is the persisted session snapshot.
type Record struct {
	Token   string
	User    *api.Profile
	SavedAt time.Time
}

// SessionStore persists the current session record across process restarts.
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a new SessionStore
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save writes the record, replacing any previous one.
func (s *SessionStore) Save(ctx context.Context, rec Record) error {
	profileJSON := ""
	if rec.User != nil {
		data, err := json.Marshal(rec.User)
		if err != nil {
			return fmt.Errorf("encode profile: %w", err)
		}
		profileJSON = string(data)
	}

	savedAt := rec.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}

	query := `
		INSERT INTO session_records (storage_key, token, profile_json, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(storage_key) DO UPDATE SET
			token = excluded.token,
			profile_json = excluded.profile_json,
			saved_at = excluded.saved_at
	`

	if _, err := s.db.ExecContext(ctx, query, storageKey, rec.Token, profileJSON, savedAt); err != nil {
		return fmt.Errorf("failed to save session record: %w", err)
	}

	return nil
}

// Load reads the persisted record. Returns ErrNotFound when nothing is
// stored and ErrCorrupt when the stored profile no longer decodes.
func (s *SessionStore) Load(ctx context.Context) (*Record, error) {
	query := `
		SELECT token, profile_json, saved_at
		FROM session_records
		WHERE storage_key = ?
	`

	var rec Record
	var profileJSON string
	err := s.db.QueryRowContext(ctx, query, storageKey).Scan(&rec.Token, &profileJSON, &rec.SavedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session record: %w", err)
	}

	if rec.Token == "" {
		return nil, ErrCorrupt
	}
	if profileJSON != "" {
		var profile api.Profile
		if err := json.Unmarshal([]byte(profileJSON), &profile); err != nil {
			return nil, ErrCorrupt
		}
		rec.User = &profile
	}

	return &rec, nil
}

// Clear erases the persisted record. Clearing an empty store is a no-op.
func (s *SessionStore) Clear(ctx context.Context) error {
	query := `DELETE FROM session_records WHERE storage_key = ?`

	if _, err := s.db.ExecContext(ctx, query, storageKey); err != nil {
		return fmt.Errorf("failed to clear session record: %w", err)
	}

	return nil
}
