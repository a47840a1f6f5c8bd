package datamanager

import (
	"errors"
	"fmt"
)

// Business failures returned by every DataManager. They are always wrapped
// with a detail message, so match them with errors.Is.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserAlreadyExists   = errors.New("username already exists")
	ErrMovieNotFound       = errors.New("movie not found")
	ErrMovieAlreadyExists  = errors.New("movie already exists")
	ErrProblemFetchingInfo = errors.New("problem fetching movie info")
	ErrWrongPassword       = errors.New("wrong password")
	ErrInvalidRating       = errors.New("invalid rating")
	ErrInvalidUsername     = errors.New("invalid username")

	// ErrPasswordMismatch is also an ErrWrongPassword.
	ErrPasswordMismatch = fmt.Errorf("%w: passwords don't match", ErrWrongPassword)
)

func userNotFound(userID int) error {
	return fmt.Errorf("%w: user ID %d does not exist", ErrUserNotFound, userID)
}

func movieNotFound(userID, movieID int) error {
	return fmt.Errorf("%w: movie ID %d does not exist for user %d", ErrMovieNotFound, movieID, userID)
}
