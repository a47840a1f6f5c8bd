package datamanager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/BaGreal2/movieweb/internal/model"
	"github.com/BaGreal2/movieweb/internal/password"
)

type jsonMovie struct {
	Name     string  `json:"name"`
	Director string  `json:"director"`
	Year     int     `json:"year"`
	Rating   float64 `json:"rating"`
	Poster   string  `json:"poster"`
}

type jsonUser struct {
	Name     string               `json:"name"`
	Password string               `json:"password,omitempty"`
	Movies   map[string]jsonMovie `json:"movies"`
}

// usersDocument is the whole store, keyed by user id.
type usersDocument map[string]jsonUser

// JSONDataManager keeps every user, with their own copies of their movies,
// in a single JSON file. Each write reads the whole file, changes it in memory
// and replaces the whole file.
//
// Writes are serialised inside one process only. Two processes sharing the
// file can still lose each other's updates.
type JSONDataManager struct {
	path     string
	provider MovieInfoProvider
	hasher   password.Hasher
	logger   *slog.Logger

	mu sync.Mutex
}

var _ DataManager = (*JSONDataManager)(nil)

// NewJSONDataManager uses the file at path, creating an empty store there if
// it does not exist.
func NewJSONDataManager(path string, provider MovieInfoProvider, hasher password.Hasher, logger *slog.Logger) (*JSONDataManager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := &JSONDataManager{
		path:     filepath.Clean(path),
		provider: provider,
		hasher:   hasher,
		logger:   logger,
	}

	if _, err := os.Stat(m.path); errors.Is(err, os.ErrNotExist) {
		if err := m.save(usersDocument{}); err != nil {
			return nil, fmt.Errorf("failed to create data file: %w", err)
		}
		logger.Info("Created empty data file", slog.String("path", m.path))
	} else if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *JSONDataManager) load() (usersDocument, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil, err
	}
	if err := validateUsersDocument(data); err != nil {
		return nil, err
	}
	var doc usersDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode data file: %w", err)
	}
	if doc == nil {
		doc = usersDocument{}
	}
	return doc, nil
}

func (m *JSONDataManager) save(doc usersDocument) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return err
	}
	// Never write a document that load would refuse.
	if err := validateUsersDocument(data); err != nil {
		return err
	}
	return writeFileAtomic(m.path, data)
}

// update runs fn on a freshly loaded document and writes the result back.
// Nothing is written if fn fails.
func (m *JSONDataManager) update(fn func(doc usersDocument) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return m.save(doc)
}

func (m *JSONDataManager) lookupUser(doc usersDocument, userID int) (jsonUser, error) {
	u, ok := doc[strconv.Itoa(userID)]
	if !ok {
		return jsonUser{}, userNotFound(userID)
	}
	return u, nil
}

func (m *JSONDataManager) Ping(ctx context.Context) error {
	_, err := os.Stat(m.path)
	return err
}

func (m *JSONDataManager) GetAllUsers(ctx context.Context) ([]model.User, error) {
	doc, err := m.load()
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0, len(doc))
	for key, u := range doc {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q in data file", key)
		}
		users = append(users, model.User{ID: id, Name: u.Name})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *JSONDataManager) GetUsernameByID(ctx context.Context, userID int) (string, error) {
	doc, err := m.load()
	if err != nil {
		return "", err
	}
	u, err := m.lookupUser(doc, userID)
	if err != nil {
		return "", err
	}
	return u.Name, nil
}

func (m *JSONDataManager) GetUserByName(ctx context.Context, name string) (model.User, error) {
	doc, err := m.load()
	if err != nil {
		return model.User{}, err
	}
	for key, u := range doc {
		if u.Name != name {
			continue
		}
		id, err := strconv.Atoi(key)
		if err != nil {
			return model.User{}, fmt.Errorf("invalid user id %q in data file", key)
		}
		return model.User{ID: id, Name: u.Name, PasswordHash: u.Password}, nil
	}
	return model.User{}, fmt.Errorf("%w: no user named %q", ErrUserNotFound, name)
}

func (m *JSONDataManager) GetUserMovies(ctx context.Context, userID int) (map[int]model.MovieDetails, error) {
	doc, err := m.load()
	if err != nil {
		return nil, err
	}
	u, err := m.lookupUser(doc, userID)
	if err != nil {
		return nil, err
	}

	movies := make(map[int]model.MovieDetails, len(u.Movies))
	for key, jm := range u.Movies {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("invalid movie id %q in data file", key)
		}
		movies[id] = model.MovieDetails{Movie: jm.toModel(id)}
	}
	return movies, nil
}

func (m *JSONDataManager) GetMovieByID(ctx context.Context, userID, movieID int) (model.MovieDetails, error) {
	doc, err := m.load()
	if err != nil {
		return model.MovieDetails{}, err
	}
	u, err := m.lookupUser(doc, userID)
	if err != nil {
		return model.MovieDetails{}, err
	}
	jm, ok := u.Movies[strconv.Itoa(movieID)]
	if !ok {
		return model.MovieDetails{}, movieNotFound(userID, movieID)
	}
	return model.MovieDetails{Movie: jm.toModel(movieID)}, nil
}

func (m *JSONDataManager) AddUser(ctx context.Context, name, plainPassword, confirmPassword string) (model.User, error) {
	if err := checkUsername(name); err != nil {
		return model.User{}, err
	}

	var created model.User
	err := m.update(func(doc usersDocument) error {
		for _, u := range doc {
			if u.Name == name {
				return fmt.Errorf("%w: %q, please choose a different username", ErrUserAlreadyExists, name)
			}
		}

		hashed, err := hashNewPassword(m.hasher, plainPassword, confirmPassword)
		if err != nil {
			return err
		}

		id := nextID(doc)
		doc[strconv.Itoa(id)] = jsonUser{
			Name:     name,
			Password: hashed,
			Movies:   map[string]jsonMovie{},
		}
		created = model.User{ID: id, Name: name, PasswordHash: hashed}
		return nil
	})
	if err != nil {
		return model.User{}, err
	}

	m.logger.Info("User created", slog.Int("user_id", created.ID), slog.String("name", name))
	return created, nil
}

// AddMovie adds a private copy of the movie to the user's list. A title the
// user already has is rejected.
func (m *JSONDataManager) AddMovie(ctx context.Context, userID int, title string) error {
	doc, err := m.load()
	if err != nil {
		return err
	}
	u, err := m.lookupUser(doc, userID)
	if err != nil {
		return err
	}
	if hasMovieNamed(u, title) {
		return fmt.Errorf("%w: movie %q is already in the list", ErrMovieAlreadyExists, title)
	}

	// The lookup runs without holding the write lock; the checks are
	// repeated against the document the write is based on.
	info, err := fetchMovieInfo(ctx, m.provider, title)
	if err != nil {
		return err
	}

	var movieID int
	err = m.update(func(doc usersDocument) error {
		key := strconv.Itoa(userID)
		u, ok := doc[key]
		if !ok {
			return userNotFound(userID)
		}
		if hasMovieNamed(u, title) || hasMovieNamed(u, info.Name) {
			return fmt.Errorf("%w: movie %q is already in the list", ErrMovieAlreadyExists, info.Name)
		}
		if u.Movies == nil {
			u.Movies = map[string]jsonMovie{}
		}

		movieID = nextMovieID(u.Movies)
		u.Movies[strconv.Itoa(movieID)] = jsonMovie{
			Name:     info.Name,
			Director: info.Director,
			Year:     info.Year,
			Rating:   info.Rating,
			Poster:   info.Poster,
		}
		doc[key] = u
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("Movie added", slog.Int("user_id", userID), slog.Int("movie_id", movieID), slog.String("title", info.Name))
	return nil
}

// UpdateMovie changes the user's own copy only. Renaming it to the title of
// another of the user's movies is rejected.
func (m *JSONDataManager) UpdateMovie(ctx context.Context, userID, movieID int, upd model.MovieUpdate) error {
	return m.update(func(doc usersDocument) error {
		u, err := m.lookupUser(doc, userID)
		if err != nil {
			return err
		}
		key := strconv.Itoa(movieID)
		jm, ok := u.Movies[key]
		if !ok {
			return movieNotFound(userID, movieID)
		}

		mv := jm.toModel(movieID)
		upd.Apply(&mv)
		for otherKey, other := range u.Movies {
			if otherKey != key && other.Name == mv.Name {
				return fmt.Errorf("%w: movie %q is already in the list", ErrMovieAlreadyExists, mv.Name)
			}
		}
		u.Movies[key] = fromModel(mv)
		return nil
	})
}

// DeleteMovie removes the user's copy of the movie for good.
func (m *JSONDataManager) DeleteMovie(ctx context.Context, userID, movieID int) error {
	return m.update(func(doc usersDocument) error {
		u, err := m.lookupUser(doc, userID)
		if err != nil {
			return err
		}
		key := strconv.Itoa(movieID)
		if _, ok := u.Movies[key]; !ok {
			return movieNotFound(userID, movieID)
		}
		delete(u.Movies, key)
		return nil
	})
}

func (m *JSONDataManager) AuthenticateUser(plainPassword, hashedPassword string) error {
	return authenticate(m.hasher, plainPassword, hashedPassword)
}

func hasMovieNamed(u jsonUser, title string) bool {
	for _, jm := range u.Movies {
		if jm.Name == title {
			return true
		}
	}
	return false
}

// nextID is max(existing)+1, or 1 for an empty store.
func nextID(doc usersDocument) int {
	highest := 0
	for key := range doc {
		if id, err := strconv.Atoi(key); err == nil && id > highest {
			highest = id
		}
	}
	return highest + 1
}

func nextMovieID(movies map[string]jsonMovie) int {
	highest := 0
	for key := range movies {
		if id, err := strconv.Atoi(key); err == nil && id > highest {
			highest = id
		}
	}
	return highest + 1
}

func (jm jsonMovie) toModel(id int) model.Movie {
	return model.Movie{
		ID:       id,
		Name:     jm.Name,
		Director: jm.Director,
		Year:     jm.Year,
		Rating:   jm.Rating,
		Poster:   jm.Poster,
	}
}

func fromModel(mv model.Movie) jsonMovie {
	return jsonMovie{
		Name:     mv.Name,
		Director: mv.Director,
		Year:     mv.Year,
		Rating:   mv.Rating,
		Poster:   mv.Poster,
	}
}
