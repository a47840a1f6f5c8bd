package datamanager

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/BaGreal2/movieweb/internal/db"
	"github.com/BaGreal2/movieweb/internal/model"
	"github.com/BaGreal2/movieweb/internal/password"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// stubProvider answers lookups case-insensitively from a fixed catalog.
type stubProvider struct {
	mu      sync.Mutex
	catalog map[string]model.MovieInfo
	calls   int
}

func newStubProvider() *stubProvider {
	return &stubProvider{catalog: map[string]model.MovieInfo{
		"inception": {
			Name:     "Inception",
			Director: "Christopher Nolan",
			Year:     2010,
			Rating:   8.8,
			Poster:   "https://img.example/inception.jpg",
		},
		"heat": {
			Name:     "Heat",
			Director: "Michael Mann",
			Year:     1995,
			Rating:   8.3,
			Poster:   "https://img.example/heat.jpg",
		},
	}}
}

var errStubNotFound = errors.New("not found")

func (p *stubProvider) FetchMovie(ctx context.Context, title string) (model.MovieInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	info, ok := p.catalog[strings.ToLower(title)]
	if !ok {
		return model.MovieInfo{}, errStubNotFound
	}
	return info, nil
}

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func testHasher() password.Hasher {
	return password.Bcrypt{Cost: bcrypt.MinCost}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestJSONManager(t *testing.T, provider MovieInfoProvider) *JSONDataManager {
	t.Helper()
	m, err := NewJSONDataManager(filepath.Join(t.TempDir(), "users_data.json"), provider, testHasher(), discardLogger())
	require.NoError(t, err)
	return m
}

func newTestSQLManager(t *testing.T, provider MovieInfoProvider) *SQLDataManager {
	t.Helper()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "database_file.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.CreateTables(context.Background(), conn, db.SQLite))
	return NewSQLDataManager(conn, db.SQLite, provider, testHasher(), discardLogger())
}

// variants lists every DataManager implementation for contract tests.
var variants = []struct {
	name string
	new  func(t *testing.T, provider MovieInfoProvider) DataManager
}{
	{"json", func(t *testing.T, p MovieInfoProvider) DataManager { return newTestJSONManager(t, p) }},
	{"sql", func(t *testing.T, p MovieInfoProvider) DataManager { return newTestSQLManager(t, p) }},
}

func mustAddUser(t *testing.T, dm DataManager, name string) model.User {
	t.Helper()
	u, err := dm.AddUser(context.Background(), name, "longenough1", "longenough1")
	require.NoError(t, err)
	return u
}

// onlyMovie returns the single entry of a user's movie map.
func onlyMovie(t *testing.T, movies map[int]model.MovieDetails) model.MovieDetails {
	t.Helper()
	require.Len(t, movies, 1)
	for _, mv := range movies {
		return mv
	}
	return model.MovieDetails{}
}
