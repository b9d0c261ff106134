package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coursepilot/coursepilot/internal/provider"
	"github.com/coursepilot/coursepilot/internal/state"
)

// SessionStore is the SQLite-backed implementation of state.Store.
type SessionStore struct {
	db          *DB
	maxIdleDays int // 0 = don't prune
}

// NewSessionStore returns a session store over the given DB. maxIdleDays
// enables pruning of idle sessions via PruneIdleSessions (0 = off).
func NewSessionStore(db *DB, maxIdleDays int) *SessionStore {
	return &SessionStore{db: db, maxIdleDays: maxIdleDays}
}

func (s *SessionStore) Create(id string) (*state.Session, error) {
	now := time.Now()
	_, err := s.db.SQLDB().Exec(
		`INSERT INTO sessions (id, messages, pending, current_course, created_at, updated_at) VALUES (?, '[]', '', 0, ?, ?)`,
		id, now.UTC().Format(time.RFC3339), now.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("session create: %w", err)
	}
	return &state.Session{
		ID:        id,
		Messages:  []provider.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SessionStore) Get(id string) (*state.Session, error) {
	var messagesJSON, pendingJSON, createdAt, updatedAt string
	var currentCourse int
	err := s.db.SQLDB().QueryRow(
		`SELECT messages, pending, current_course, created_at, updated_at FROM sessions WHERE id = ?`,
		id,
	).Scan(&messagesJSON, &pendingJSON, &currentCourse, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	return decodeSession(id, messagesJSON, pendingJSON, currentCourse, createdAt, updatedAt)
}

func (s *SessionStore) Save(sess *state.Session) error {
	messagesJSON, pendingJSON, err := encodeSession(sess)
	if err != nil {
		return err
	}
	sess.UpdatedAt = time.Now()
	_, err = s.db.SQLDB().Exec(
		`UPDATE sessions SET messages = ?, pending = ?, current_course = ?, updated_at = ? WHERE id = ?`,
		messagesJSON, pendingJSON, sess.CurrentCourse, sess.UpdatedAt.UTC().Format(time.RFC3339), sess.ID)
	if err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(id string) error {
	_, err := s.db.SQLDB().Exec(`DELETE FROM sessions WHERE id = ?`, id)
	return err
}

func (s *SessionStore) List() ([]string, error) {
	rows, err := s.db.SQLDB().Query(`SELECT id FROM sessions`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// PruneIdleSessions deletes sessions not updated in the last maxIdleDays days.
// No-op if maxIdleDays <= 0. Returns the number of sessions removed.
func (s *SessionStore) PruneIdleSessions() (int64, error) {
	if s.maxIdleDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -s.maxIdleDays).UTC().Format(time.RFC3339)
	res, err := s.db.SQLDB().Exec(`DELETE FROM sessions WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func encodeSession(sess *state.Session) (messagesJSON, pendingJSON string, err error) {
	mb, err := json.Marshal(sess.Messages)
	if err != nil {
		return "", "", fmt.Errorf("session save: marshal messages: %w", err)
	}
	pendingJSON = ""
	if sess.Pending != nil {
		pb, err := json.Marshal(sess.Pending)
		if err != nil {
			return "", "", fmt.Errorf("session save: marshal pending: %w", err)
		}
		pendingJSON = string(pb)
	}
	return string(mb), pendingJSON, nil
}

func decodeSession(id, messagesJSON, pendingJSON string, currentCourse int, createdAt, updatedAt string) (*state.Session, error) {
	var messages []provider.Message
	if messagesJSON != "" {
		if err := json.Unmarshal([]byte(messagesJSON), &messages); err != nil {
			return nil, fmt.Errorf("session get: parse messages: %w", err)
		}
	}
	var pending *state.PendingAction
	if pendingJSON != "" {
		pending = &state.PendingAction{}
		if err := json.Unmarshal([]byte(pendingJSON), pending); err != nil {
			return nil, fmt.Errorf("session get: parse pending: %w", err)
		}
	}
	ca, _ := time.Parse(time.RFC3339, createdAt)
	ua, _ := time.Parse(time.RFC3339, updatedAt)
	return &state.Session{
		ID:            id,
		Messages:      messages,
		Pending:       pending,
		CurrentCourse: currentCourse,
		CreatedAt:     ca,
		UpdatedAt:     ua,
	}, nil
}
