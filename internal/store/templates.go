package store

import (
	"encoding/json"
	"fmt"
)

// ListTemplates returns the user's workout templates in stored order.
func (s *Store) ListTemplates() ([]WorkoutTemplate, error) {
	rows, err := s.db.Query(
		`SELECT id, title, day_of_week, exercises FROM templates
		 WHERE user_key = ? ORDER BY position`, s.user,
	)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []WorkoutTemplate
	for rows.Next() {
		var t WorkoutTemplate
		var exercises string
		if err := rows.Scan(&t.ID, &t.Title, &t.DayOfWeek, &exercises); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(exercises), &t.Exercises); err != nil {
			return nil, fmt.Errorf("decode template %s exercises: %w", t.ID, err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// SaveTemplates replaces the whole template collection. Callers
// read-modify-write the full set; stored order is preserved so that
// day-of-week resolution stays first-match-wins.
func (s *Store) SaveTemplates(templates []WorkoutTemplate) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save templates: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM templates WHERE user_key = ?`, s.user); err != nil {
		return fmt.Errorf("clear templates: %w", err)
	}

	for i, t := range templates {
		exercises, err := json.Marshal(t.Exercises)
		if err != nil {
			return fmt.Errorf("encode template %s exercises: %w", t.ID, err)
		}
		_, err = tx.Exec(
			`INSERT INTO templates (user_key, position, id, title, day_of_week, exercises)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			s.user, i, t.ID, t.Title, t.DayOfWeek, string(exercises),
		)
		if err != nil {
			return fmt.Errorf("insert template %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}
