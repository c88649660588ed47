package store

import (
	"database/sql"
	"fmt"
)

const (
	settingUnit           = "unit"
	settingGoogleClientID = "google_client_id"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM settings WHERE user_key = ? AND key = ?`, s.user, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (user_key, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(user_key, key) DO UPDATE SET value = excluded.value`,
		s.user, key, value,
	)
	return err
}

// Unit returns the global weight unit preference, kg until changed.
// Sessions capture the unit at creation time; changing it later does not
// rewrite existing sessions.
func (s *Store) Unit() WeightUnit {
	v, err := s.GetSetting(settingUnit)
	if err != nil || v == "" {
		return UnitKG
	}
	if WeightUnit(v) == UnitLBS {
		return UnitLBS
	}
	return UnitKG
}

func (s *Store) SetUnit(u WeightUnit) error {
	return s.SetSetting(settingUnit, string(u))
}

// GoogleClientID returns the OAuth client id configured for step sync, an
// empty string when not set.
func (s *Store) GoogleClientID() string {
	v, _ := s.GetSetting(settingGoogleClientID)
	return v
}

func (s *Store) SetGoogleClientID(id string) error {
	return s.SetSetting(settingGoogleClientID, id)
}
