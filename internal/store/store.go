// Package store handles SQLite persistence of user word lists.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/dictee/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrListNotFound is returned when no list has the requested name.
var ErrListNotFound = errors.New("word list not found")

// Store wraps SQLite access for word lists.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS word_lists (
			name TEXT PRIMARY KEY,
			random INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS word_list_entries (
			list_name TEXT NOT NULL REFERENCES word_lists(name) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			entry TEXT NOT NULL,
			PRIMARY KEY (list_name, position)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveList creates or replaces a word list and its entries.
func (s *Store) SaveList(ctx context.Context, list model.WordList) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO word_lists (name, random, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET random = excluded.random, updated_at = excluded.updated_at`,
		list.Name, list.Random, time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM word_list_entries WHERE list_name = ?`, list.Name); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO word_list_entries (list_name, position, entry) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for i, entry := range list.Entries {
		if _, err = stmt.ExecContext(ctx, list.Name, i, entry); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteList removes a word list and its entries.
func (s *Store) DeleteList(ctx context.Context, name string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM word_list_entries WHERE list_name = ?`, name); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM word_lists WHERE name = ?`, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = ErrListNotFound
		return err
	}
	return tx.Commit()
}

// GetList loads one word list by name.
func (s *Store) GetList(ctx context.Context, name string) (model.WordList, error) {
	list := model.WordList{Name: name}
	err := s.db.QueryRowContext(ctx, `SELECT random FROM word_lists WHERE name = ?`, name).Scan(&list.Random)
	if errors.Is(err, sql.ErrNoRows) {
		return model.WordList{}, ErrListNotFound
	}
	if err != nil {
		return model.WordList{}, err
	}
	entries, err := s.entries(ctx, name)
	if err != nil {
		return model.WordList{}, err
	}
	list.Entries = entries
	return list, nil
}

// ListLists returns every stored word list ordered by name.
func (s *Store) ListLists(ctx context.Context) ([]model.WordList, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, random FROM word_lists ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var lists []model.WordList
	for rows.Next() {
		var list model.WordList
		if err := rows.Scan(&list.Name, &list.Random); err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range lists {
		entries, err := s.entries(ctx, lists[i].Name)
		if err != nil {
			return nil, err
		}
		lists[i].Entries = entries
	}
	return lists, nil
}

func (s *Store) entries(ctx context.Context, name string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT entry FROM word_list_entries WHERE list_name = ? ORDER BY position ASC`, name)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []string
	for rows.Next() {
		var entry string
		if err := rows.Scan(&entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
