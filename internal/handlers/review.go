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

// Reviewer defines the interface that the review service must implement.
type Reviewer interface {
	Create(ctx context.Context, userID int64, movieTitle, body string, likes int) (*models.ReviewView, error)
	Update(ctx context.Context, userID int64, movieTitle string, update models.ReviewUpdate) (*models.ReviewView, error)
	List(ctx context.Context, userID int64, movieTitle *string) ([]models.ReviewView, error)
	Delete(ctx context.Context, movieTitle string) error
}

// ReviewCreateRequest represents the JSON body for creating a review
// swagger:model ReviewCreateRequest
type ReviewCreateRequest struct {
	// Movie title, resolved against the catalog
	// required: true
	// default: Inception
	MovieName string `json:"movie_name"`

	// Review body
	// required: true
	// default: great
	Review string `json:"review"`

	// Initial like count
	// default: 0
	Likes int `json:"likes"`
}

// ReviewUpdateRequest represents the JSON body for a partial review update
// swagger:model ReviewUpdateRequest
type ReviewUpdateRequest struct {
	// Movie title, must already be in the catalog
	// required: true
	// default: Inception
	MovieName string `json:"movie_name"`

	// New body, omit to keep current
	Review *string `json:"review"`

	// New like count, omit to keep current
	Likes *int `json:"likes"`
}

// ReviewDeleteRequest represents the JSON body for deleting a review
// swagger:model ReviewDeleteRequest
type ReviewDeleteRequest struct {
	// Movie title
	// required: true
	// default: Inception
	MovieName string `json:"movie_name"`
}

// ReviewDeleteResponse represents a successful deletion response
// swagger:model ReviewDeleteResponse
type ReviewDeleteResponse struct {
	// Confirmation message
	// default: Review successfully deleted
	Message string `json:"message"`
}

func writeReviewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrUserDoesNotExist):
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "User not found"})
	case errors.Is(err, services.ErrMovieNotFound):
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Movie not found"})
	case errors.Is(err, services.ErrReviewNotFound):
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Review not found"})
	case errors.Is(err, services.ErrReviewAlreadyExists):
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Review already created"})
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

// NewCreateReviewHandler returns an HTTP handler for creating a review.
// @Summary Create review
// @Description Creates a review for a movie, fetching the movie into the catalog on first reference. One review per user and movie.
// @Tags reviews
// @Accept json
// @Produce json
// @Param reviewCreateRequest body handlers.ReviewCreateRequest true "Review create request"
// @Success 201 {object} models.ReviewView "Created review"
// @Failure 400 {object} handlers.ErrorResponse "Review already created"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Movie not found"
// @Failure 502 {object} handlers.ErrorResponse "Movie catalog unavailable"
// @Router /review [post]
// @Security BearerAuth
func NewCreateReviewHandler(svc Reviewer, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authorize(tokener, r)
		if err != nil {
			logger.Log.Errorw("failed to authorize request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
			return
		}

		var req ReviewCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "invalid request body"})
			return
		}

		view, err := svc.Create(r.Context(), userID, req.MovieName, req.Review, req.Likes)
		if err != nil {
			writeReviewError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(view)
	}
}

// NewUpdateReviewHandler returns an HTTP handler for partially updating a review.
// @Summary Update review
// @Description Applies the supplied fields to the caller's review and refreshes its timestamp
// @Tags reviews
// @Accept json
// @Produce json
// @Param reviewUpdateRequest body handlers.ReviewUpdateRequest true "Review update request"
// @Success 200 {object} models.ReviewView "Updated review"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Movie or review not found"
// @Router /review [patch]
// @Security BearerAuth
func NewUpdateReviewHandler(svc Reviewer, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authorize(tokener, r)
		if err != nil {
			logger.Log.Errorw("failed to authorize request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
			return
		}

		var req ReviewUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "invalid request body"})
			return
		}

		view, err := svc.Update(r.Context(), userID, req.MovieName, models.ReviewUpdate{
			Review: req.Review,
			Likes:  req.Likes,
		})
		if err != nil {
			writeReviewError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(view)
	}
}

// NewListReviewsHandler returns an HTTP handler listing the caller's reviews.
// @Summary List reviews
// @Description Returns the authenticated user's reviews, optionally narrowed to one movie
// @Tags reviews
// @Produce json
// @Param movie_name query string false "Narrow the listing to one movie"
// @Success 200 {array} models.ReviewView "Reviews"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Movie not found"
// @Router /review [get]
// @Security BearerAuth
func NewListReviewsHandler(svc Reviewer, tokener Tokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authorize(tokener, r)
		if err != nil {
			logger.Log.Errorw("failed to authorize request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
			return
		}

		var movieTitle *string
		if name := r.URL.Query().Get("movie_name"); name != "" {
			movieTitle = &name
		}

		views, err := svc.List(r.Context(), userID, movieTitle)
		if err != nil {
			writeReviewError(w, err)
			return
		}

		if views == nil {
			views = []models.ReviewView{}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(views)
	}
}

// NewDeleteReviewHandler returns an HTTP handler for deleting a review.
// No ownership check is performed; the first review for the named movie
// is removed.
// @Summary Delete review
// @Description Deletes the first review referencing the named movie
// @Tags reviews
// @Accept json
// @Produce json
// @Param reviewDeleteRequest body handlers.ReviewDeleteRequest true "Review delete request"
// @Success 200 {object} handlers.ReviewDeleteResponse "Review deleted"
// @Failure 404 {object} handlers.ErrorResponse "Movie or review not found"
// @Router /review [delete]
func NewDeleteReviewHandler(svc Reviewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReviewDeleteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "invalid request body"})
			return
		}

		if err := svc.Delete(r.Context(), req.MovieName); err != nil {
			writeReviewError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ReviewDeleteResponse{Message: "Review successfully deleted"})
	}
}
