package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

var postgresTables = []string{
	`CREATE TABLE IF NOT EXISTS "user" (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS movie (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		director TEXT,
		year INTEGER,
		rating DOUBLE PRECISION,
		poster TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS user_movie_association (
		user_id INTEGER REFERENCES "user"(id) ON DELETE CASCADE,
		movie_id INTEGER REFERENCES movie(id) ON DELETE CASCADE
	);`,
	`CREATE TABLE IF NOT EXISTS review (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES "user"(id) ON DELETE CASCADE,
		movie_id INTEGER NOT NULL REFERENCES movie(id) ON DELETE CASCADE,
		review_text TEXT,
		rating DOUBLE PRECISION NOT NULL,
		CONSTRAINT rating_check CHECK (rating >= 1 AND rating <= 10)
	);`,
}

func OpenPostgres(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}
	db, err := sql.Open(string(Postgres), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	return db, nil
}

func isPostgresUniqueViolation(err error) bool {
	var pe *pq.Error
	return errors.As(err, &pe) && pe.Code == pgUniqueViolation
}
