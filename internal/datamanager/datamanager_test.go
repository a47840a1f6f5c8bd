package datamanager

import (
	"context"
	"errors"
	"testing"

	"github.com/BaGreal2/movieweb/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrPasswordMismatchIsWrongPassword(t *testing.T) {
	assert.True(t, errors.Is(ErrPasswordMismatch, ErrWrongPassword))
	assert.False(t, errors.Is(ErrWrongPassword, ErrPasswordMismatch))
}

func TestDataManager_AddUser(t *testing.T) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			ctx := context.Background()
			dm := v.new(t, newStubProvider())

			alice, err := dm.AddUser(ctx, "alice", "longenough1", "longenough1")
			require.NoError(t, err)
			assert.Equal(t, 1, alice.ID)
			assert.NotEqual(t, "longenough1", alice.PasswordHash)

			bob, err := dm.AddUser(ctx, "bob", "longenough2", "longenough2")
			require.NoError(t, err)
			assert.Equal(t, 2, bob.ID)

			users, err := dm.GetAllUsers(ctx)
			require.NoError(t, err)
			assert.Equal(t, []model.User{{ID: 1, Name: "alice"}, {ID: 2, Name: "bob"}}, users)
		})
	}
}

func TestDataManager_AddUserRejections(t *testing.T) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			ctx := context.Background()
			dm := v.new(t, newStubProvider())
			mustAddUser(t, dm, "alice")

			_, err := dm.AddUser(ctx, "alice", "longenough1", "longenough1")
			assert.ErrorIs(t, err, ErrUserAlreadyExists)

			// Name is checked before the password.
			_, err = dm.AddUser(ctx, "alice", "short", "short")
			assert.ErrorIs(t, err, ErrUserAlreadyExists)

			_, err = dm.AddUser(ctx, "carol", "short", "short")
			assert.ErrorIs(t, err, ErrWrongPassword)
			assert.NotErrorIs(t, err, ErrPasswordMismatch)

			_, err = dm.AddUser(ctx, "carol", "longenough1", "longenough2")
			assert.ErrorIs(t, err, ErrPasswordMismatch)
			assert.ErrorIs(t, err, ErrWrongPassword)

			users, err := dm.GetAllUsers(ctx)
			require.NoError(t, err)
			assert.Len(t, users, 1)
		})
	}
}

func TestDataManager_Authenticate(t *testing.T) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			ctx := context.Background()
			dm := v.new(t, newStubProvider())
			mustAddUser(t, dm, "alice")

			u, err := dm.GetUserByName(ctx, "alice")
			require.NoError(t, err)
			assert.NoError(t, dm.AuthenticateUser("longenough1", u.PasswordHash))
			assert.ErrorIs(t, dm.AuthenticateUser("wrongpassword", u.PasswordHash), ErrWrongPassword)

			_, err = dm.GetUserByName(ctx, "nobody")
			assert.ErrorIs(t, err, ErrUserNotFound)
		})
	}
}

func TestDataManager_GetUsernameByID(t *testing.T) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			ctx := context.Background()
			dm := v.new(t, newStubProvider())
			alice := mustAddUser(t, dm, "alice")

			name, err := dm.GetUsernameByID(ctx, alice.ID)
			require.NoError(t, err)
			assert.Equal(t, "alice", name)

			_, err = dm.GetUsernameByID(ctx, 42)
			assert.ErrorIs(t, err, ErrUserNotFound)
		})
	}
}

func TestDataManager_AddMovieScenario(t *testing.T) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			ctx := context.Background()
			dm := v.new(t, newStubProvider())
			alice := mustAddUser(t, dm, "alice")

			movies, err := dm.GetUserMovies(ctx, alice.ID)
			require.NoError(t, err)
			assert.Empty(t, movies)

			require.NoError(t, dm.AddMovie(ctx, alice.ID, "Inception"))

			movies, err = dm.GetUserMovies(ctx, alice.ID)
			require.NoError(t, err)
			mv := onlyMovie(t, movies)
			assert.Equal(t, "Inception", mv.Name)
			assert.Equal(t, "Christopher Nolan", mv.Director)
			assert.Equal(t, 2010, mv.Year)
			assert.Equal(t, 8.8, mv.Rating)
			assert.Equal(t, "https://img.example/inception.jpg", mv.Poster)
			assert.Nil(t, mv.Review)
			assert.Nil(t, mv.MyRating)

			got, err := dm.GetMovieByID(ctx, alice.ID, mv.ID)
			require.NoError(t, err)
			assert.Equal(t, mv, got)
		})
	}
}

func TestDataManager_AddMovieUsesCanonicalTitle(t *testing.T) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			ctx := context.Background()
			dm := v.new(t, newStubProvider())
			alice := mustAddUser(t, dm, "alice")

			require.NoError(t, dm.AddMovie(ctx, alice.ID, "inception"))

			movies, err := dm.GetUserMovies(ctx, alice.ID)
			require.NoError(t, err)
			assert.Equal(t, "Inception", onlyMovie(t, movies).Name)
		})
	}
}

func TestDataManager_AddMovieFailures(t *testing.T) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			ctx := context.Background()
			dm := v.new(t, newStubProvider())
			alice := mustAddUser(t, dm, "alice")

			assert.ErrorIs(t, dm.AddMovie(ctx, 99, "Inception"), ErrUserNotFound)
			assert.ErrorIs(t, dm.AddMovie(ctx, alice.ID, "No Such Movie"), ErrProblemFetchingInfo)

			movies, err := dm.GetUserMovies(ctx, alice.ID)
			require.NoError(t, err)
			assert.Empty(t, movies)
		})
	}
}

func TestDataManager_GetMovieByIDNotFound(t *testing.T) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			ctx := context.Background()
			dm := v.new(t, newStubProvider())
			alice := mustAddUser(t, dm, "alice")

			_, err := dm.GetMovieByID(ctx, alice.ID, 7)
			assert.ErrorIs(t, err, ErrMovieNotFound)

			_, err = dm.GetMovieByID(ctx, 99, 7)
			assert.ErrorIs(t, err, ErrUserNotFound)

			_, err = dm.GetUserMovies(ctx, 99)
			assert.ErrorIs(t, err, ErrUserNotFound)
		})
	}
}

func TestDataManager_UpdateMovie(t *testing.T) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			ctx := context.Background()
			dm := v.new(t, newStubProvider())
			alice := mustAddUser(t, dm, "alice")
			require.NoError(t, dm.AddMovie(ctx, alice.ID, "Heat"))
			movies, err := dm.GetUserMovies(ctx, alice.ID)
			require.NoError(t, err)
			id := onlyMovie(t, movies).ID

			name, year := "Heat (1995)", 1996
			require.NoError(t, dm.UpdateMovie(ctx, alice.ID, id, model.MovieUpdate{Name: &name, Year: &year}))

			got, err := dm.GetMovieByID(ctx, alice.ID, id)
			require.NoError(t, err)
			assert.Equal(t, "Heat (1995)", got.Name)
			assert.Equal(t, 1996, got.Year)
			assert.Equal(t, "Michael Mann", got.Director)
			assert.Equal(t, 8.3, got.Rating)

			assert.ErrorIs(t, dm.UpdateMovie(ctx, 99, id, model.MovieUpdate{}), ErrUserNotFound)
			assert.ErrorIs(t, dm.UpdateMovie(ctx, alice.ID, id+100, model.MovieUpdate{}), ErrMovieNotFound)
		})
	}
}

func TestDataManager_DeleteMovie(t *testing.T) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			ctx := context.Background()
			dm := v.new(t, newStubProvider())
			alice := mustAddUser(t, dm, "alice")
			require.NoError(t, dm.AddMovie(ctx, alice.ID, "Heat"))
			movies, err := dm.GetUserMovies(ctx, alice.ID)
			require.NoError(t, err)
			id := onlyMovie(t, movies).ID

			assert.ErrorIs(t, dm.DeleteMovie(ctx, 99, id), ErrUserNotFound)
			require.NoError(t, dm.DeleteMovie(ctx, alice.ID, id))
			assert.ErrorIs(t, dm.DeleteMovie(ctx, alice.ID, id), ErrMovieNotFound)

			movies, err = dm.GetUserMovies(ctx, alice.ID)
			require.NoError(t, err)
			assert.Empty(t, movies)
		})
	}
}

func TestDataManager_AddUserBlankName(t *testing.T) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			ctx := context.Background()
			dm := v.new(t, newStubProvider())
			alice := mustAddUser(t, dm, "alice")

			for _, name := range []string{"", "   "} {
				_, err := dm.AddUser(ctx, name, "longenough1", "longenough1")
				assert.ErrorIs(t, err, ErrInvalidUsername, "name %q", name)
			}

			// The store stays readable and writable.
			got, err := dm.GetUsernameByID(ctx, alice.ID)
			require.NoError(t, err)
			assert.Equal(t, "alice", got)
			mustAddUser(t, dm, "bob")

			users, err := dm.GetAllUsers(ctx)
			require.NoError(t, err)
			assert.Len(t, users, 2)
		})
	}
}

func TestDataManager_UpdateMovieRenameCollision(t *testing.T) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			ctx := context.Background()
			dm := v.new(t, newStubProvider())
			alice := mustAddUser(t, dm, "alice")
			require.NoError(t, dm.AddMovie(ctx, alice.ID, "Heat"))
			require.NoError(t, dm.AddMovie(ctx, alice.ID, "Inception"))

			movies, err := dm.GetUserMovies(ctx, alice.ID)
			require.NoError(t, err)
			var heatID int
			for id, mv := range movies {
				if mv.Name == "Heat" {
					heatID = id
				}
			}
			require.NotZero(t, heatID)

			name := "Inception"
			assert.ErrorIs(t, dm.UpdateMovie(ctx, alice.ID, heatID, model.MovieUpdate{Name: &name}), ErrMovieAlreadyExists)

			got, err := dm.GetMovieByID(ctx, alice.ID, heatID)
			require.NoError(t, err)
			assert.Equal(t, "Heat", got.Name)

			// Keeping the current title is not a collision.
			same, year := "Heat", 1996
			require.NoError(t, dm.UpdateMovie(ctx, alice.ID, heatID, model.MovieUpdate{Name: &same, Year: &year}))
		})
	}
}
