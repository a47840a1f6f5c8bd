package handler

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/BaGreal2/movieweb/internal/datamanager"
	"github.com/BaGreal2/movieweb/internal/model"
)

func ListUsersHandler(dm datamanager.DataManager, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := dm.GetAllUsers(r.Context())
		if err != nil {
			writeDataError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, map[string][]model.User{"users": users})
	}
}

type userMoviesResponse struct {
	UserID   int                  `json:"user_id"`
	UserName string               `json:"user_name"`
	Movies   []model.MovieDetails `json:"movies"`
}

// UserMoviesHandler lists a user's movies ordered by id.
func UserMoviesHandler(dm datamanager.DataManager, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(r, "userID")
		if !ok {
			writeError(w, logger, http.StatusBadRequest, "Invalid user ID")
			return
		}

		name, err := dm.GetUsernameByID(r.Context(), userID)
		if err != nil {
			writeDataError(w, logger, err)
			return
		}
		movies, err := dm.GetUserMovies(r.Context(), userID)
		if err != nil {
			writeDataError(w, logger, err)
			return
		}

		list := make([]model.MovieDetails, 0, len(movies))
		for _, mv := range movies {
			list = append(list, mv)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

		writeJSON(w, logger, http.StatusOK, userMoviesResponse{UserID: userID, UserName: name, Movies: list})
	}
}

func UserMovieHandler(dm datamanager.DataManager, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(r, "userID")
		if !ok {
			writeError(w, logger, http.StatusBadRequest, "Invalid user ID")
			return
		}
		movieID, ok := pathID(r, "movieID")
		if !ok {
			writeError(w, logger, http.StatusBadRequest, "Invalid movie ID")
			return
		}

		mv, err := dm.GetMovieByID(r.Context(), userID, movieID)
		if err != nil {
			writeDataError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, mv)
	}
}
