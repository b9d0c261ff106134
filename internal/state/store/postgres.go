package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/coursepilot/coursepilot/internal/state"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS sessions (
    id             TEXT NOT NULL PRIMARY KEY,
    messages       TEXT NOT NULL DEFAULT '[]',
    pending        TEXT NOT NULL DEFAULT '',
    current_course INTEGER NOT NULL DEFAULT 0,
    created_at     TIMESTAMPTZ NOT NULL,
    updated_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions (updated_at);
`

// PostgresStore is the Postgres-backed implementation of state.Store, for
// deployments where several gateway instances share one session database.
type PostgresStore struct {
	db          *sql.DB
	maxIdleDays int
}

// OpenPostgres connects with the given DSN, bootstraps the schema and returns
// the store. Caller must call Close when done.
func OpenPostgres(dsn string, maxIdleDays int) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("state store: postgres dsn is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("state store: open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("state store: ping postgres: %w", err)
	}
	if _, err := db.Exec(pgSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("state store: bootstrap schema: %w", err)
	}
	return &PostgresStore{db: db, maxIdleDays: maxIdleDays}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Create(id string) (*state.Session, error) {
	now := time.Now()
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, messages, pending, current_course, created_at, updated_at) VALUES ($1, '[]', '', 0, $2, $2)`,
		id, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("session create: %w", err)
	}
	return &state.Session{
		ID:        id,
		Messages:  nil,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) Get(id string) (*state.Session, error) {
	var messagesJSON, pendingJSON string
	var currentCourse int
	var createdAt, updatedAt time.Time
	err := s.db.QueryRow(
		`SELECT messages, pending, current_course, created_at, updated_at FROM sessions WHERE id = $1`,
		id,
	).Scan(&messagesJSON, &pendingJSON, &currentCourse, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	sess, err := decodeSession(id, messagesJSON, pendingJSON, currentCourse,
		createdAt.UTC().Format(time.RFC3339), updatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	sess.CreatedAt = createdAt
	sess.UpdatedAt = updatedAt
	return sess, nil
}

func (s *PostgresStore) Save(sess *state.Session) error {
	messagesJSON, pendingJSON, err := encodeSession(sess)
	if err != nil {
		return err
	}
	sess.UpdatedAt = time.Now()
	_, err = s.db.Exec(
		`UPDATE sessions SET messages = $1, pending = $2, current_course = $3, updated_at = $4 WHERE id = $5`,
		messagesJSON, pendingJSON, sess.CurrentCourse, sess.UpdatedAt.UTC(), sess.ID)
	if err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE id = $1`, id)
	return err
}

func (s *PostgresStore) List() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM sessions`)
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
func (s *PostgresStore) PruneIdleSessions() (int64, error) {
	if s.maxIdleDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -s.maxIdleDays).UTC()
	res, err := s.db.Exec(`DELETE FROM sessions WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
