package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Dialect doubles as the database/sql driver name.
type Dialect string

const (
	SQLite   Dialect = "sqlite3"
	Postgres Dialect = "postgres"
)

// Open connects to the database for the given dialect. For SQLite dsn is a
// file path, for Postgres a connection URL.
func Open(dialect Dialect, dsn string) (*sql.DB, error) {
	switch dialect {
	case SQLite:
		return OpenSQLite(dsn)
	case Postgres:
		return OpenPostgres(dsn)
	default:
		return nil, fmt.Errorf("unsupported SQL dialect %q", dialect)
	}
}

// CreateTables creates the user, movie, review and user_movie_association
// tables if they do not exist yet.
func CreateTables(ctx context.Context, db *sql.DB, dialect Dialect) error {
	var stmts []string
	switch dialect {
	case SQLite:
		stmts = sqliteTables
	case Postgres:
		stmts = postgresTables
	default:
		return fmt.Errorf("unsupported SQL dialect %q", dialect)
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// IsUniqueViolation reports whether err is a unique-constraint failure from
// either driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return isSQLiteUniqueViolation(err) || isPostgresUniqueViolation(err)
}

// Rebind rewrites ? placeholders into $1, $2, ... for Postgres. Queries must
// not contain a literal question mark.
func Rebind(dialect Dialect, query string) string {
	if dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
