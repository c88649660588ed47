package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

func (s *Store) scanSession(row interface{ Scan(...any) error }) (*Session, error) {
	sess := &Session{}
	var exercises string
	var completedAt sql.NullString
	err := row.Scan(&sess.ID, &sess.Date, &sess.TemplateID, &sess.Status,
		&sess.TotalVolume, &sess.Unit, &completedAt, &exercises)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t, _ := time.Parse(time.RFC3339, completedAt.String)
		sess.CompletedAt = &t
	}
	if err := json.Unmarshal([]byte(exercises), &sess.Exercises); err != nil {
		return nil, fmt.Errorf("decode session %s exercises: %w", sess.ID, err)
	}
	return sess, nil
}

const sessionCols = `id, date, template_id, status, total_volume, unit, completed_at, exercises`

// GetSession returns the session with the given id, or nil when absent.
func (s *Store) GetSession(id string) (*Session, error) {
	row := s.db.QueryRow(
		`SELECT `+sessionCols+` FROM sessions WHERE user_key = ? AND id = ?`, s.user, id,
	)
	sess, err := s.scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return sess, nil
}

// GetSessionByDate returns the session logged for a calendar date, or nil
// when none exists. One session per date is an application invariant; the
// oldest row wins if it is ever violated.
func (s *Store) GetSessionByDate(date string) (*Session, error) {
	row := s.db.QueryRow(
		`SELECT `+sessionCols+` FROM sessions
		 WHERE user_key = ? AND date = ? ORDER BY id LIMIT 1`, s.user, date,
	)
	sess, err := s.scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session for %s: %w", date, err)
	}
	return sess, nil
}

// ListSessions returns all sessions, most recent date first.
func (s *Store) ListSessions() ([]Session, error) {
	rows, err := s.db.Query(
		`SELECT `+sessionCols+` FROM sessions WHERE user_key = ? ORDER BY date DESC`, s.user,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := s.scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

// UpsertSession writes the whole session value, replacing any existing row
// with the same id. Last writer wins.
func (s *Store) UpsertSession(sess Session) error {
	exercises, err := json.Marshal(sess.Exercises)
	if err != nil {
		return fmt.Errorf("encode session %s exercises: %w", sess.ID, err)
	}
	var completedAt any
	if sess.CompletedAt != nil {
		completedAt = sess.CompletedAt.UTC().Format(time.RFC3339)
	}
	_, err = s.db.Exec(
		`INSERT INTO sessions (user_key, id, date, template_id, status, total_volume, unit, completed_at, exercises)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_key, id) DO UPDATE SET
			date = excluded.date,
			template_id = excluded.template_id,
			status = excluded.status,
			total_volume = excluded.total_volume,
			unit = excluded.unit,
			completed_at = excluded.completed_at,
			exercises = excluded.exercises`,
		s.user, sess.ID, sess.Date, sess.TemplateID, sess.Status,
		sess.TotalVolume, sess.Unit, completedAt, string(exercises),
	)
	if err != nil {
		return fmt.Errorf("upsert session %s: %w", sess.ID, err)
	}
	return nil
}
