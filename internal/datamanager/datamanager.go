// Package datamanager is the data-access layer: users, their favorite movies
// and reviews, behind one interface with a JSON-file and a SQL implementation.
package datamanager

import (
	"context"
	"fmt"
	"strings"

	"github.com/BaGreal2/movieweb/internal/model"
	"github.com/BaGreal2/movieweb/internal/password"
)

const minPasswordLength = 8

// DataManager is implemented by every storage variant.
type DataManager interface {
	GetAllUsers(ctx context.Context) ([]model.User, error)
	GetUsernameByID(ctx context.Context, userID int) (string, error)
	GetUserByName(ctx context.Context, name string) (model.User, error)
	GetUserMovies(ctx context.Context, userID int) (map[int]model.MovieDetails, error)
	GetMovieByID(ctx context.Context, userID, movieID int) (model.MovieDetails, error)
	AddUser(ctx context.Context, name, password, confirmPassword string) (model.User, error)
	AddMovie(ctx context.Context, userID int, title string) error
	UpdateMovie(ctx context.Context, userID, movieID int, update model.MovieUpdate) error
	DeleteMovie(ctx context.Context, userID, movieID int) error
	AuthenticateUser(plainPassword, hashedPassword string) error
}

// ReviewManager is the extra capability of stores that keep reviews and a
// global movie table. Only the SQL variant implements it.
type ReviewManager interface {
	AddReview(ctx context.Context, userID, movieID int, reviewText string, rating float64) error
	GetMovieReviews(ctx context.Context, movieID int) ([]model.MovieReview, error)
	GetAllMovies(ctx context.Context) ([]model.Movie, error)
}

// Pinger reports whether the underlying storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// MovieInfoProvider looks up movie metadata by title.
type MovieInfoProvider interface {
	FetchMovie(ctx context.Context, title string) (model.MovieInfo, error)
}

func checkUsername(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: username must not be blank", ErrInvalidUsername)
	}
	return nil
}

// hashNewPassword checks a registration password pair and hashes it.
func hashNewPassword(hasher password.Hasher, plain, confirm string) (string, error) {
	if plain != confirm {
		return "", ErrPasswordMismatch
	}
	if len(plain) < minPasswordLength {
		return "", fmt.Errorf("%w: password needs to be at least %d characters", ErrWrongPassword, minPasswordLength)
	}
	return hasher.Hash(plain)
}

func authenticate(hasher password.Hasher, plain, hashed string) error {
	if !hasher.Verify(plain, hashed) {
		return ErrWrongPassword
	}
	return nil
}

func fetchMovieInfo(ctx context.Context, provider MovieInfoProvider, title string) (model.MovieInfo, error) {
	info, err := provider.FetchMovie(ctx, title)
	if err != nil {
		return model.MovieInfo{}, fmt.Errorf("%w: %q: %v", ErrProblemFetchingInfo, title, err)
	}
	return info, nil
}
