package datamanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BaGreal2/movieweb/internal/db"
	"github.com/BaGreal2/movieweb/internal/model"
	"github.com/BaGreal2/movieweb/internal/password"
)

const movieColumns = `m.id, m.title, COALESCE(m.director, ''), COALESCE(m.year, 0), COALESCE(m.rating, 0), COALESCE(m.poster, '')`

// SQLDataManager stores users, a global movie table shared by every user,
// the favorites join table and reviews in a relational database.
//
// Every statement commits on its own. Multi-step operations such as AddMovie
// are not atomic.
type SQLDataManager struct {
	conn     *sql.DB
	dialect  db.Dialect
	provider MovieInfoProvider
	hasher   password.Hasher
	logger   *slog.Logger
}

var (
	_ DataManager   = (*SQLDataManager)(nil)
	_ ReviewManager = (*SQLDataManager)(nil)
)

func NewSQLDataManager(conn *sql.DB, dialect db.Dialect, provider MovieInfoProvider, hasher password.Hasher, logger *slog.Logger) *SQLDataManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLDataManager{
		conn:     conn,
		dialect:  dialect,
		provider: provider,
		hasher:   hasher,
		logger:   logger,
	}
}

func (m *SQLDataManager) q(query string) string {
	return db.Rebind(m.dialect, query)
}

func (m *SQLDataManager) Ping(ctx context.Context) error {
	return m.conn.PingContext(ctx)
}

func (m *SQLDataManager) GetAllUsers(ctx context.Context) ([]model.User, error) {
	rows, err := m.conn.QueryContext(ctx, `SELECT id, name FROM "user" ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (m *SQLDataManager) GetAllMovies(ctx context.Context) ([]model.Movie, error) {
	rows, err := m.conn.QueryContext(ctx, `SELECT `+movieColumns+` FROM movie m ORDER BY m.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []model.Movie{}
	for rows.Next() {
		var mv model.Movie
		if err := rows.Scan(&mv.ID, &mv.Name, &mv.Director, &mv.Year, &mv.Rating, &mv.Poster); err != nil {
			return nil, err
		}
		movies = append(movies, mv)
	}
	return movies, rows.Err()
}

func (m *SQLDataManager) GetUsernameByID(ctx context.Context, userID int) (string, error) {
	var name string
	err := m.conn.QueryRowContext(ctx, m.q(`SELECT name FROM "user" WHERE id = ?`), userID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", userNotFound(userID)
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

func (m *SQLDataManager) GetUserByName(ctx context.Context, name string) (model.User, error) {
	var u model.User
	err := m.conn.QueryRowContext(ctx, m.q(`SELECT id, name, password FROM "user" WHERE name = ?`), name).
		Scan(&u.ID, &u.Name, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("%w: no user named %q", ErrUserNotFound, name)
	}
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

func (m *SQLDataManager) requireUser(ctx context.Context, userID int) error {
	var one int
	err := m.conn.QueryRowContext(ctx, m.q(`SELECT 1 FROM "user" WHERE id = ?`), userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return userNotFound(userID)
	}
	return err
}

func (m *SQLDataManager) isLinked(ctx context.Context, userID, movieID int) (bool, error) {
	var one int
	err := m.conn.QueryRowContext(ctx,
		m.q(`SELECT 1 FROM user_movie_association WHERE user_id = ? AND movie_id = ? LIMIT 1`),
		userID, movieID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// requireLinkedMovie fails with ErrUserNotFound or ErrMovieNotFound unless the
// movie is one of the user's favorites.
func (m *SQLDataManager) requireLinkedMovie(ctx context.Context, userID, movieID int) error {
	if err := m.requireUser(ctx, userID); err != nil {
		return err
	}
	linked, err := m.isLinked(ctx, userID, movieID)
	if err != nil {
		return err
	}
	if !linked {
		return movieNotFound(userID, movieID)
	}
	return nil
}

const userMoviesQuery = `SELECT DISTINCT ` + movieColumns + `, r.review_text, r.rating
	FROM user_movie_association a
	JOIN movie m ON m.id = a.movie_id
	LEFT JOIN review r ON r.user_id = a.user_id AND r.movie_id = m.id
	WHERE a.user_id = ?`

func scanMovieDetails(scan func(dest ...any) error) (model.MovieDetails, error) {
	var (
		d        model.MovieDetails
		text     sql.NullString
		myRating sql.NullFloat64
	)
	if err := scan(&d.ID, &d.Name, &d.Director, &d.Year, &d.Rating, &d.Poster, &text, &myRating); err != nil {
		return model.MovieDetails{}, err
	}
	if text.Valid {
		d.Review = &text.String
	}
	if myRating.Valid {
		d.MyRating = &myRating.Float64
	}
	return d, nil
}

func (m *SQLDataManager) GetUserMovies(ctx context.Context, userID int) (map[int]model.MovieDetails, error) {
	if err := m.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := m.conn.QueryContext(ctx, m.q(userMoviesQuery), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := map[int]model.MovieDetails{}
	for rows.Next() {
		d, err := scanMovieDetails(rows.Scan)
		if err != nil {
			return nil, err
		}
		movies[d.ID] = d
	}
	return movies, rows.Err()
}

func (m *SQLDataManager) GetMovieByID(ctx context.Context, userID, movieID int) (model.MovieDetails, error) {
	if err := m.requireUser(ctx, userID); err != nil {
		return model.MovieDetails{}, err
	}

	row := m.conn.QueryRowContext(ctx, m.q(userMoviesQuery+` AND m.id = ? LIMIT 1`), userID, movieID)
	d, err := scanMovieDetails(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MovieDetails{}, movieNotFound(userID, movieID)
	}
	if err != nil {
		return model.MovieDetails{}, err
	}
	return d, nil
}

func (m *SQLDataManager) AddUser(ctx context.Context, name, plainPassword, confirmPassword string) (model.User, error) {
	if err := checkUsername(name); err != nil {
		return model.User{}, err
	}

	var existing int
	err := m.conn.QueryRowContext(ctx, m.q(`SELECT id FROM "user" WHERE name = ?`), name).Scan(&existing)
	switch {
	case err == nil:
		return model.User{}, fmt.Errorf("%w: %q, please choose a different username", ErrUserAlreadyExists, name)
	case !errors.Is(err, sql.ErrNoRows):
		return model.User{}, err
	}

	hashed, err := hashNewPassword(m.hasher, plainPassword, confirmPassword)
	if err != nil {
		return model.User{}, err
	}

	u := model.User{Name: name, PasswordHash: hashed}
	err = m.conn.QueryRowContext(ctx,
		m.q(`INSERT INTO "user" (name, password) VALUES (?, ?) RETURNING id`),
		name, hashed).Scan(&u.ID)
	if db.IsUniqueViolation(err) {
		// Lost a race with a concurrent registration of the same name.
		return model.User{}, fmt.Errorf("%w: %q, please choose a different username", ErrUserAlreadyExists, name)
	}
	if err != nil {
		return model.User{}, err
	}

	m.logger.Info("User created", slog.Int("user_id", u.ID), slog.String("name", name))
	return u, nil
}

func (m *SQLDataManager) findMovieByTitle(ctx context.Context, title string) (int, bool, error) {
	var id int
	err := m.conn.QueryRowContext(ctx, m.q(`SELECT id FROM movie WHERE title = ? ORDER BY id LIMIT 1`), title).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// link adds the movie to the user's favorites unless it is already there.
func (m *SQLDataManager) link(ctx context.Context, userID, movieID int) error {
	linked, err := m.isLinked(ctx, userID, movieID)
	if err != nil || linked {
		return err
	}
	_, err = m.conn.ExecContext(ctx,
		m.q(`INSERT INTO user_movie_association (user_id, movie_id) VALUES (?, ?)`),
		userID, movieID)
	return err
}

// AddMovie links the user to the global movie with this title, fetching and
// storing it first when no such movie exists. Adding a movie that is already
// in the user's favorites does nothing.
func (m *SQLDataManager) AddMovie(ctx context.Context, userID int, title string) error {
	if err := m.requireUser(ctx, userID); err != nil {
		return err
	}

	if id, ok, err := m.findMovieByTitle(ctx, title); err != nil {
		return err
	} else if ok {
		return m.link(ctx, userID, id)
	}

	info, err := fetchMovieInfo(ctx, m.provider, title)
	if err != nil {
		return err
	}

	// The canonical title may already be stored under a different spelling
	// of the user's input.
	if id, ok, err := m.findMovieByTitle(ctx, info.Name); err != nil {
		return err
	} else if ok {
		return m.link(ctx, userID, id)
	}

	var movieID int
	err = m.conn.QueryRowContext(ctx,
		m.q(`INSERT INTO movie (title, director, year, rating, poster) VALUES (?, ?, ?, ?, ?) RETURNING id`),
		info.Name, info.Director, info.Year, info.Rating, info.Poster).Scan(&movieID)
	if err != nil {
		return err
	}
	if err := m.link(ctx, userID, movieID); err != nil {
		return err
	}

	m.logger.Info("Movie added", slog.Int("user_id", userID), slog.Int("movie_id", movieID), slog.String("title", info.Name))
	return nil
}

// UpdateMovie changes the shared movie row, so every user who has the movie
// sees the change. A title already used by another row is rejected.
func (m *SQLDataManager) UpdateMovie(ctx context.Context, userID, movieID int, upd model.MovieUpdate) error {
	if err := m.requireLinkedMovie(ctx, userID, movieID); err != nil {
		return err
	}

	var mv model.Movie
	err := m.conn.QueryRowContext(ctx, m.q(`SELECT `+movieColumns+` FROM movie m WHERE m.id = ?`), movieID).
		Scan(&mv.ID, &mv.Name, &mv.Director, &mv.Year, &mv.Rating, &mv.Poster)
	if errors.Is(err, sql.ErrNoRows) {
		return movieNotFound(userID, movieID)
	}
	if err != nil {
		return err
	}

	upd.Apply(&mv)
	if id, ok, err := m.findMovieByTitle(ctx, mv.Name); err != nil {
		return err
	} else if ok && id != movieID {
		return fmt.Errorf("%w: another movie is already titled %q", ErrMovieAlreadyExists, mv.Name)
	}

	_, err = m.conn.ExecContext(ctx,
		m.q(`UPDATE movie SET title = ?, director = ?, year = ?, rating = ?, poster = ? WHERE id = ?`),
		mv.Name, mv.Director, mv.Year, mv.Rating, mv.Poster, movieID)
	return err
}

// DeleteMovie only unlinks the movie from the user. The movie row and other
// users' links stay.
func (m *SQLDataManager) DeleteMovie(ctx context.Context, userID, movieID int) error {
	if err := m.requireLinkedMovie(ctx, userID, movieID); err != nil {
		return err
	}
	_, err := m.conn.ExecContext(ctx,
		m.q(`DELETE FROM user_movie_association WHERE user_id = ? AND movie_id = ?`),
		userID, movieID)
	return err
}

// AddReview creates the user's review of a favorite movie, or overwrites it
// if the user already reviewed that movie.
func (m *SQLDataManager) AddReview(ctx context.Context, userID, movieID int, reviewText string, rating float64) error {
	if err := m.requireLinkedMovie(ctx, userID, movieID); err != nil {
		return err
	}
	if rating < model.MinReviewRating || rating > model.MaxReviewRating {
		return fmt.Errorf("%w: %v is outside %d-%d", ErrInvalidRating, rating, model.MinReviewRating, model.MaxReviewRating)
	}

	var reviewID int
	err := m.conn.QueryRowContext(ctx,
		m.q(`SELECT id FROM review WHERE user_id = ? AND movie_id = ? ORDER BY id LIMIT 1`),
		userID, movieID).Scan(&reviewID)
	switch {
	case err == nil:
		_, err = m.conn.ExecContext(ctx,
			m.q(`UPDATE review SET review_text = ?, rating = ? WHERE id = ?`),
			reviewText, rating, reviewID)
		return err
	case errors.Is(err, sql.ErrNoRows):
		_, err = m.conn.ExecContext(ctx,
			m.q(`INSERT INTO review (user_id, movie_id, review_text, rating) VALUES (?, ?, ?, ?)`),
			userID, movieID, reviewText, rating)
		return err
	default:
		return err
	}
}

func (m *SQLDataManager) GetMovieReviews(ctx context.Context, movieID int) ([]model.MovieReview, error) {
	var one int
	err := m.conn.QueryRowContext(ctx, m.q(`SELECT 1 FROM movie WHERE id = ?`), movieID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: movie ID %d does not exist", ErrMovieNotFound, movieID)
	}
	if err != nil {
		return nil, err
	}

	rows, err := m.conn.QueryContext(ctx, m.q(`SELECT u.name, r.rating, COALESCE(r.review_text, '')
		FROM review r
		JOIN "user" u ON u.id = r.user_id
		WHERE r.movie_id = ?
		ORDER BY r.id`), movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []model.MovieReview{}
	for rows.Next() {
		var r model.MovieReview
		if err := rows.Scan(&r.UserName, &r.Rating, &r.ReviewText); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func (m *SQLDataManager) AuthenticateUser(plainPassword, hashedPassword string) error {
	return authenticate(m.hasher, plainPassword, hashedPassword)
}
