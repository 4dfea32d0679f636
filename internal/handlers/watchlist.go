package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/movielog/movielog/internal/logger"
	"github.com/movielog/movielog/internal/models"
	"github.com/movielog/movielog/internal/services"
)

// Watchlister defines the interface that the watchlist service must implement.
type Watchlister interface {
	Create(ctx context.Context, userID int64, movieTitle string) (*models.WatchlistView, error)
	Update(ctx context.Context, userID int64, movieTitle string, update models.WatchlistUpdate) (*models.WatchlistDB, error)
	List(ctx context.Context, userID int64) ([]models.WatchlistView, error)
	Delete(ctx context.Context, movieTitle string) error
}

// WatchlistCreateRequest represents the JSON body for saving a movie
// swagger:model WatchlistCreateRequest
type WatchlistCreateRequest struct {
	// Movie title, resolved against the catalog
	// required: true
	// default: Inception
	MovieName string `json:"movie_name"`
}

// WatchlistUpdateRequest represents the JSON body for a partial entry update
// swagger:model WatchlistUpdateRequest
type WatchlistUpdateRequest struct {
	// Movie title, must already be in the catalog
	// required: true
	// default: Inception
	MovieName string `json:"movie_name"`

	// New status, omit to keep current
	Status *string `json:"status"`

	// New note, omit to keep current
	Note *string `json:"note"`

	// New rating, omit to keep current
	Rating *float64 `json:"rating"`
}

// WatchlistDeleteRequest represents the JSON body for removing a movie
// swagger:model WatchlistDeleteRequest
type WatchlistDeleteRequest struct {
	// Movie title
	// required: true
	// default: Inception
	MovieName string `json:"movie_name"`
}

// WatchlistMessageResponse represents a confirmation response
// swagger:model WatchlistMessageResponse
type WatchlistMessageResponse struct {
	// Confirmation message
	// default: Movie removed from watchlist successfully
	Message string `json:"message"`
}

func writeWatchlistError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrUserDoesNotExist):
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "User not found"})
	case errors.Is(err, services.ErrMovieNotFound):
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Movie not found"})
	case errors.Is(err, services.ErrWatchlistEntryNotFound):
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Movie not found in watchlist"})
	case errors.Is(err, services.ErrWatchlistEntryExists):
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Movie already saved"})
	case errors.Is(err, services.ErrMovieAlreadyStored):
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Movie already saved in catalog"})
	case errors.Is(err, services.ErrCatalogUnavailable):
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Movie catalog unavailable"})
	default:
		logger.Log.Errorw("internal server error", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal server error"})
	}
}

// NewCreateWatchlistHandler returns an HTTP handler for saving a movie to
// the watchlist.
// @Summary Save movie to watchlist
// @Description Saves a movie with the default "unwatched" status, fetching it into the catalog on first reference. One entry per movie across all users.
// @Tags watchlist
// @Accept json
// @Produce json
// @Param watchlistCreateRequest body handlers.WatchlistCreateRequest true "Watchlist create request"
// @Success 201 {object} models.WatchlistView "Created entry"
// @Failure 400 {object} handlers.ErrorResponse "Movie already saved"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Movie not found"
// @Failure 502 {object} handlers.ErrorResponse "Movie catalog unavailable"
// @Router /watchlist [post]
// @Security BearerAuth
func NewCreateWatchlistHandler(svc Watchlister, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authorize(tokener, r)
		if err != nil {
			logger.Log.Errorw("failed to authorize request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
			return
		}

		var req WatchlistCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "invalid request body"})
			return
		}

		view, err := svc.Create(r.Context(), userID, req.MovieName)
		if err != nil {
			writeWatchlistError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(view)
	}
}

// NewUpdateWatchlistHandler returns an HTTP handler for partially
// updating a watchlist entry.
// @Summary Update watchlist entry
// @Description Applies the supplied status/note/rating fields to the entry referencing the named movie
// @Tags watchlist
// @Accept json
// @Produce json
// @Param watchlistUpdateRequest body handlers.WatchlistUpdateRequest true "Watchlist update request"
// @Success 200 {object} handlers.WatchlistMessageResponse "Entry updated"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Movie or entry not found"
// @Router /watchlist [patch]
// @Security BearerAuth
func NewUpdateWatchlistHandler(svc Watchlister, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authorize(tokener, r)
		if err != nil {
			logger.Log.Errorw("failed to authorize request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
			return
		}

		var req WatchlistUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "invalid request body"})
			return
		}

		_, err = svc.Update(r.Context(), userID, req.MovieName, models.WatchlistUpdate{
			Status: req.Status,
			Note:   req.Note,
			Rating: req.Rating,
		})
		if err != nil {
			writeWatchlistError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(WatchlistMessageResponse{Message: "Movie updated successfully"})
	}
}

// NewListWatchlistHandler returns an HTTP handler listing the caller's
// watchlist.
// @Summary List watchlist
// @Description Returns the authenticated user's watchlist entries
// @Tags watchlist
// @Produce json
// @Success 200 {array} models.WatchlistView "Watchlist entries"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /watchlist [get]
// @Security BearerAuth
func NewListWatchlistHandler(svc Watchlister, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authorize(tokener, r)
		if err != nil {
			logger.Log.Errorw("failed to authorize request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
			return
		}

		views, err := svc.List(r.Context(), userID)
		if err != nil {
			writeWatchlistError(w, err)
			return
		}

		if views == nil {
			views = []models.WatchlistView{}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(views)
	}
}

// NewDeleteWatchlistHandler returns an HTTP handler for removing a movie
// from the watchlist. No ownership check is performed.
// @Summary Remove movie from watchlist
// @Description Deletes the entry referencing the named movie
// @Tags watchlist
// @Accept json
// @Produce json
// @Param watchlistDeleteRequest body handlers.WatchlistDeleteRequest true "Watchlist delete request"
// @Success 200 {object} handlers.WatchlistMessageResponse "Entry removed"
// @Failure 404 {object} handlers.ErrorResponse "Movie or entry not found"
// @Router /watchlist [delete]
func NewDeleteWatchlistHandler(svc Watchlister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req WatchlistDeleteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "invalid request body"})
			return
		}

		if err := svc.Delete(r.Context(), req.MovieName); err != nil {
			writeWatchlistError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(WatchlistMessageResponse{Message: "Movie removed from watchlist successfully"})
	}
}
