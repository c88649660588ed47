package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// GetLog returns the persisted daily log for a date, or nil when none has
// been written yet. Absent dates are synthesized by the aggregator, never
// here.
func (s *Store) GetLog(date string) (*DailyLog, error) {
	var log DailyLog
	var meals string
	err := s.db.QueryRow(
		`SELECT date, steps, meals FROM daily_logs WHERE user_key = ? AND date = ?`,
		s.user, date,
	).Scan(&log.Date, &log.Steps, &meals)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get log %s: %w", date, err)
	}
	if err := json.Unmarshal([]byte(meals), &log.Meals); err != nil {
		return nil, fmt.Errorf("decode log %s meals: %w", date, err)
	}
	return &log, nil
}

// LogsBetween returns persisted logs with from <= date <= to, oldest first.
// Dates with no log are simply missing from the result.
func (s *Store) LogsBetween(from, to string) ([]DailyLog, error) {
	rows, err := s.db.Query(
		`SELECT date, steps, meals FROM daily_logs
		 WHERE user_key = ? AND date >= ? AND date <= ? ORDER BY date`,
		s.user, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	var logs []DailyLog
	for rows.Next() {
		var log DailyLog
		var meals string
		if err := rows.Scan(&log.Date, &log.Steps, &meals); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(meals), &log.Meals); err != nil {
			return nil, fmt.Errorf("decode log %s meals: %w", log.Date, err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// UpsertLog writes the whole log value, replacing any existing row for the
// same date. This is the only write path for daily logs.
func (s *Store) UpsertLog(log DailyLog) error {
	meals, err := json.Marshal(log.Meals)
	if err != nil {
		return fmt.Errorf("encode log %s meals: %w", log.Date, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO daily_logs (user_key, date, steps, meals) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_key, date) DO UPDATE SET
			steps = excluded.steps,
			meals = excluded.meals`,
		s.user, log.Date, log.Steps, string(meals),
	)
	if err != nil {
		return fmt.Errorf("upsert log %s: %w", log.Date, err)
	}
	return nil
}
