package handler

import (
	"context"

	"github.com/BaGreal2/movieweb/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockDataManager struct {
	mock.Mock
}

func (m *MockDataManager) GetAllUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *MockDataManager) GetUsernameByID(ctx context.Context, userID int) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockDataManager) GetUserByName(ctx context.Context, name string) (model.User, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockDataManager) GetUserMovies(ctx context.Context, userID int) (map[int]model.MovieDetails, error) {
	args := m.Called(ctx, userID)
	movies, _ := args.Get(0).(map[int]model.MovieDetails)
	return movies, args.Error(1)
}

func (m *MockDataManager) GetMovieByID(ctx context.Context, userID, movieID int) (model.MovieDetails, error) {
	args := m.Called(ctx, userID, movieID)
	return args.Get(0).(model.MovieDetails), args.Error(1)
}

func (m *MockDataManager) AddUser(ctx context.Context, name, password, confirmPassword string) (model.User, error) {
	args := m.Called(ctx, name, password, confirmPassword)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockDataManager) AddMovie(ctx context.Context, userID int, title string) error {
	return m.Called(ctx, userID, title).Error(0)
}

func (m *MockDataManager) UpdateMovie(ctx context.Context, userID, movieID int, update model.MovieUpdate) error {
	return m.Called(ctx, userID, movieID, update).Error(0)
}

func (m *MockDataManager) DeleteMovie(ctx context.Context, userID, movieID int) error {
	return m.Called(ctx, userID, movieID).Error(0)
}

func (m *MockDataManager) AuthenticateUser(plainPassword, hashedPassword string) error {
	return m.Called(plainPassword, hashedPassword).Error(0)
}

// MockReviewDataManager also keeps reviews and a global movie table.
type MockReviewDataManager struct {
	MockDataManager
}

func (m *MockReviewDataManager) AddReview(ctx context.Context, userID, movieID int, reviewText string, rating float64) error {
	return m.Called(ctx, userID, movieID, reviewText, rating).Error(0)
}

func (m *MockReviewDataManager) GetMovieReviews(ctx context.Context, movieID int) ([]model.MovieReview, error) {
	args := m.Called(ctx, movieID)
	reviews, _ := args.Get(0).([]model.MovieReview)
	return reviews, args.Error(1)
}

func (m *MockReviewDataManager) GetAllMovies(ctx context.Context) ([]model.Movie, error) {
	args := m.Called(ctx)
	movies, _ := args.Get(0).([]model.Movie)
	return movies, args.Error(1)
}

func (m *MockReviewDataManager) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
