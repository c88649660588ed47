package store

import (
	"database/sql"
	"fmt"
	"time"
)

// GetCredential returns the stored step-provider credential, nil when the
// provider is disconnected.
func (s *Store) GetCredential() (*Credential, error) {
	c := &Credential{}
	var expiresAt string
	err := s.db.QueryRow(
		`SELECT access_token, refresh_token, expires_at, scope FROM credentials WHERE user_key = ?`,
		s.user,
	).Scan(&c.AccessToken, &c.RefreshToken, &expiresAt, &c.Scope)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}
	c.ExpiresAt, _ = time.Parse(time.RFC3339, expiresAt)
	return c, nil
}

func (s *Store) SaveCredential(c Credential) error {
	_, err := s.db.Exec(
		`INSERT INTO credentials (user_key, access_token, refresh_token, expires_at, scope)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_key) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			scope = excluded.scope`,
		s.user, c.AccessToken, c.RefreshToken, c.ExpiresAt.UTC().Format(time.RFC3339), c.Scope,
	)
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// DeleteCredential drops the stored credential, marking the provider
// disconnected.
func (s *Store) DeleteCredential() error {
	_, err := s.db.Exec(`DELETE FROM credentials WHERE user_key = ?`, s.user)
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}
