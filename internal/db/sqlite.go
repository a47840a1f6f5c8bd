package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
)

var sqliteTables = []string{
	`CREATE TABLE IF NOT EXISTS "user" (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS movie (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		director TEXT,
		year INTEGER,
		rating REAL,
		poster TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS user_movie_association (
		user_id INTEGER REFERENCES "user"(id) ON DELETE CASCADE,
		movie_id INTEGER REFERENCES movie(id) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS review (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES "user"(id) ON DELETE CASCADE,
		movie_id INTEGER NOT NULL REFERENCES movie(id) ON DELETE CASCADE,
		review_text TEXT,
		rating REAL NOT NULL,
		CONSTRAINT rating_check CHECK (rating >= 1 AND rating <= 10)
	);`,
}

// OpenSQLite opens (creating if needed) the database file at path with
// foreign keys enforced, so deleting a user or movie cascades to its links
// and reviews.
func OpenSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open(string(SQLite), dsn)
	if err != nil {
		return nil, fmt.Errorf("DB connection error: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("DB connection error: %w", err)
	}
	return db, nil
}

func isSQLiteUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
