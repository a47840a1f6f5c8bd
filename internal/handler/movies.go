package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/BaGreal2/movieweb/internal/datamanager"
	"github.com/BaGreal2/movieweb/internal/model"
)

func AddMovieHandler(dm datamanager.DataManager, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(r, "userID")
		if !ok {
			writeError(w, logger, http.StatusBadRequest, "Invalid user ID")
			return
		}

		var req model.AddMovieRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, logger, http.StatusBadRequest, err.Error())
			return
		}
		title := strings.TrimSpace(req.Title)
		if title == "" {
			writeError(w, logger, http.StatusBadRequest, "Title missing")
			return
		}

		if err := dm.AddMovie(r.Context(), userID, title); err != nil {
			writeDataError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, map[string]string{"message": "Movie added successfully"})
	}
}

func UpdateMovieHandler(dm datamanager.DataManager, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, movieID, ok := userMovieIDs(w, r, logger)
		if !ok {
			return
		}

		var upd model.MovieUpdate
		if err := decodeBody(r, &upd); err != nil {
			writeError(w, logger, http.StatusBadRequest, err.Error())
			return
		}

		if err := dm.UpdateMovie(r.Context(), userID, movieID, upd); err != nil {
			writeDataError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, map[string]string{"message": "Movie updated successfully"})
	}
}

func DeleteMovieHandler(dm datamanager.DataManager, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, movieID, ok := userMovieIDs(w, r, logger)
		if !ok {
			return
		}

		if err := dm.DeleteMovie(r.Context(), userID, movieID); err != nil {
			writeDataError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, map[string]string{"message": "Movie deleted successfully"})
	}
}

// AddReviewHandler answers 501 when the store keeps no reviews.
func AddReviewHandler(dm datamanager.DataManager, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm, ok := dm.(datamanager.ReviewManager)
		if !ok {
			writeError(w, logger, http.StatusNotImplemented, "Reviews are not supported by this storage backend")
			return
		}
		userID, movieID, ok := userMovieIDs(w, r, logger)
		if !ok {
			return
		}

		var req model.ReviewRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, logger, http.StatusBadRequest, err.Error())
			return
		}

		if err := rm.AddReview(r.Context(), userID, movieID, req.ReviewText, req.Rating); err != nil {
			writeDataError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusCreated, map[string]string{"message": "Review saved successfully"})
	}
}

func ListMoviesHandler(dm datamanager.DataManager, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm, ok := dm.(datamanager.ReviewManager)
		if !ok {
			writeError(w, logger, http.StatusNotImplemented, "Listing all movies is not supported by this storage backend")
			return
		}

		movies, err := rm.GetAllMovies(r.Context())
		if err != nil {
			writeDataError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, map[string][]model.Movie{"movies": movies})
	}
}

func MovieReviewsHandler(dm datamanager.DataManager, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm, ok := dm.(datamanager.ReviewManager)
		if !ok {
			writeError(w, logger, http.StatusNotImplemented, "Reviews are not supported by this storage backend")
			return
		}
		movieID, ok := pathID(r, "movieID")
		if !ok {
			writeError(w, logger, http.StatusBadRequest, "Invalid movie ID")
			return
		}

		reviews, err := rm.GetMovieReviews(r.Context(), movieID)
		if err != nil {
			writeDataError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, map[string][]model.MovieReview{"reviews": reviews})
	}
}

func userMovieIDs(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (int, int, bool) {
	userID, ok := pathID(r, "userID")
	if !ok {
		writeError(w, logger, http.StatusBadRequest, "Invalid user ID")
		return 0, 0, false
	}
	movieID, ok := pathID(r, "movieID")
	if !ok {
		writeError(w, logger, http.StatusBadRequest, "Invalid movie ID")
		return 0, 0, false
	}
	return userID, movieID, true
}
