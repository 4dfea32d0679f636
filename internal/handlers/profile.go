package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/movielog/movielog/internal/logger"
	"github.com/movielog/movielog/internal/models"
	"github.com/movielog/movielog/internal/services"
)

// Profiler defines the interface that the profile service must implement.
type Profiler interface {
	Profile(ctx context.Context, userID int64) (*models.UserDB, error)
	UpdateProfile(ctx context.Context, userID int64, update models.UserUpdate) (*models.UserDB, error)
}

// ProfileResponse represents the caller's profile
// swagger:model ProfileResponse
type ProfileResponse struct {
	// Username
	// default: john_doe
	Username string `json:"username"`

	// Email
	// default: john@example.com
	Email string `json:"email"`

	// Registration timestamp
	JoinedAt time.Time `json:"joined_at"`
}

// ProfileUpdateRequest represents the JSON body for a partial profile update
// swagger:model ProfileUpdateRequest
type ProfileUpdateRequest struct {
	// New username, omit to keep current
	Username *string `json:"username"`

	// New email, omit to keep current
	Email *string `json:"email"`
}

// NewGetProfileHandler returns an HTTP handler for reading the caller's profile.
// @Summary Get profile
// @Description Returns the authenticated user's profile
// @Tags users
// @Produce json
// @Success 200 {object} handlers.ProfileResponse "User profile"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /user/profile [get]
// @Security BearerAuth
func NewGetProfileHandler(svc Profiler, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authorize(tokener, r)
		if err != nil {
			logger.Log.Errorw("failed to authorize request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
			return
		}

		user, err := svc.Profile(r.Context(), userID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserDoesNotExist):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ErrorResponse{Error: "User not found"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ProfileResponse{
			Username: user.Username,
			Email:    user.Email,
			JoinedAt: user.JoinedAt,
		})
	}
}

// NewUpdateProfileHandler returns an HTTP handler for partially updating
// the caller's profile. Only supplied fields are applied.
// @Summary Update profile
// @Description Applies the supplied profile fields for the authenticated user
// @Tags users
// @Accept json
// @Produce json
// @Param profileUpdateRequest body handlers.ProfileUpdateRequest true "Profile update request"
// @Success 200 {object} handlers.ProfileResponse "Updated profile"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /user/profile [patch]
// @Security BearerAuth
func NewUpdateProfileHandler(svc Profiler, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authorize(tokener, r)
		if err != nil {
			logger.Log.Errorw("failed to authorize request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
			return
		}

		var req ProfileUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "invalid request body"})
			return
		}

		user, err := svc.UpdateProfile(r.Context(), userID, models.UserUpdate{
			Username: req.Username,
			Email:    req.Email,
		})
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserDoesNotExist):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ErrorResponse{Error: "User not found"})
			case errors.Is(err, services.ErrUserAlreadyExists):
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(ErrorResponse{Error: "User with same username or email already existed"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ProfileResponse{
			Username: user.Username,
			Email:    user.Email,
			JoinedAt: user.JoinedAt,
		})
	}
}
