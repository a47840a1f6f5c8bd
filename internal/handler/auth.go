package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/BaGreal2/movieweb/internal/datamanager"
	"github.com/BaGreal2/movieweb/internal/middleware"
	"github.com/BaGreal2/movieweb/internal/model"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const tokenTTL = 24 * time.Hour

func RegisterHandler(dm datamanager.DataManager, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.RegisterRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, logger, http.StatusBadRequest, err.Error())
			return
		}

		user, err := dm.AddUser(r.Context(), req.Name, req.Password, req.ConfirmPassword)
		if err != nil {
			writeDataError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusCreated, map[string]any{
			"message": "User created successfully",
			"user":    user,
		})
	}
}

func LoginHandler(dm datamanager.DataManager, jwtSecret string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.LoginRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, logger, http.StatusBadRequest, err.Error())
			return
		}

		user, err := dm.GetUserByName(r.Context(), req.Name)
		if errors.Is(err, datamanager.ErrUserNotFound) {
			writeError(w, logger, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		if err != nil {
			writeDataError(w, logger, err)
			return
		}
		if err := dm.AuthenticateUser(req.Password, user.PasswordHash); err != nil {
			writeError(w, logger, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		tokenString, err := issueToken(user.ID, jwtSecret, time.Now())
		if err != nil {
			logger.Error("Failed to sign token", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, logger, http.StatusOK, map[string]any{
			"user":  user,
			"token": tokenString,
		})
	}
}

func issueToken(userID int, secret string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userID": userID,
		"jti":    uuid.NewString(),
		"iat":    now.Unix(),
		"exp":    now.Add(tokenTTL).Unix(),
	})
	return token.SignedString([]byte(secret))
}

func MeHandler(dm datamanager.DataManager, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, logger, http.StatusUnauthorized, "Unauthorized")
			return
		}

		name, err := dm.GetUsernameByID(r.Context(), userID)
		if err != nil {
			writeDataError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, model.User{ID: userID, Name: name})
	}
}
