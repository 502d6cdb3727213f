package credentials

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the credential pair in a local SQLite database,
// typically ~/.brainac/credentials.db.
type SQLiteStore struct {
	sql *sql.DB
}

// OpenSQLite opens (creating if needed) the credential database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create credentials directory: %w", err)
		}
	}

	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := d.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = d.Close()
		return nil, err
	}
	store := &SQLiteStore{sql: d}
	if err := store.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error { return s.sql.Close() }

func (s *SQLiteStore) migrate() error {
	_, err := s.sql.Exec(`
CREATE TABLE IF NOT EXISTS credentials (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`)
	return err
}

// Load returns the stored pair, or ErrNotFound unless both keys exist.
func (s *SQLiteStore) Load() (string, string, error) {
	userRecord, err := s.get(KeyUserRecord)
	if err != nil {
		return "", "", err
	}
	token, err := s.get(KeyAuthToken)
	if err != nil {
		return "", "", err
	}
	return userRecord, token, nil
}

func (s *SQLiteStore) get(key string) (string, error) {
	var value string
	err := s.sql.QueryRow(`SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Save writes both halves in one transaction.
func (s *SQLiteStore) Save(userRecord, token string) error {
	tx, err := s.sql.Begin()
	if err != nil {
		return err
	}
	for key, value := range map[string]string{
		KeyUserRecord: userRecord,
		KeyAuthToken:  token,
	} {
		if _, err := tx.Exec(
			`INSERT INTO credentials (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// SaveUser overwrites the user record, refusing to break the pair.
func (s *SQLiteStore) SaveUser(userRecord string) error {
	if _, err := s.get(KeyAuthToken); err != nil {
		return err
	}
	_, err := s.sql.Exec(
		`INSERT INTO credentials (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		KeyUserRecord, userRecord,
	)
	return err
}

// Clear removes both halves in one transaction.
func (s *SQLiteStore) Clear() error {
	tx, err := s.sql.Begin()
	if err != nil {
		return err
	}
	for _, key := range []string{KeyUserRecord, KeyAuthToken} {
		if _, err := tx.Exec(`DELETE FROM credentials WHERE key = ?`, key); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
