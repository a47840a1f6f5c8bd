package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/BaGreal2/movieweb/internal/datamanager"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, map[string]string{"error": msg})
}

// statusFor maps a data manager failure to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, datamanager.ErrUserNotFound), errors.Is(err, datamanager.ErrMovieNotFound):
		return http.StatusNotFound
	case errors.Is(err, datamanager.ErrUserAlreadyExists), errors.Is(err, datamanager.ErrMovieAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, datamanager.ErrWrongPassword), errors.Is(err, datamanager.ErrInvalidRating),
		errors.Is(err, datamanager.ErrInvalidUsername):
		return http.StatusBadRequest
	case errors.Is(err, datamanager.ErrProblemFetchingInfo):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeDataError reports err to the client. Unexpected errors are logged and
// hidden behind a generic message.
func writeDataError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Data manager failure", slog.Any("error", err))
		writeError(w, logger, status, "Internal server error")
		return
	}
	writeError(w, logger, status, err.Error())
}

// decodeBody decodes a JSON request body into dst and validates its tags.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("Invalid request")
	}
	if err := validate.Struct(dst); err != nil {
		return err
	}
	return nil
}

func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
