package services

import (
	"context"
	"errors"

	"github.com/movielog/movielog/internal/logger"
	"github.com/movielog/movielog/internal/models"
	"github.com/movielog/movielog/internal/repositories"
)

// Error variables
var (
	ErrReviewAlreadyExists = errors.New("review already created")
	ErrReviewNotFound      = errors.New("review not found")
)

// MovieResolver resolves a title against the catalog, fetching from the
// external lookup on a miss.
type MovieResolver interface {
	ResolveOrFetch(ctx context.Context, title string) (*models.MovieDB, error)
}

// ReviewReader defines read-only operations for reviews.
type ReviewReader interface {
	GetByUserAndMovie(ctx context.Context, userID, movieID int64) (*models.ReviewDB, error)
	GetFirstByUser(ctx context.Context, userID int64) (*models.ReviewDB, error)
	GetFirstByMovie(ctx context.Context, movieID int64) (*models.ReviewDB, error)
	ListViewsByUser(ctx context.Context, userID int64, movieID *int64) ([]models.ReviewView, error)
}

// ReviewWriter defines write operations for reviews.
type ReviewWriter interface {
	Save(ctx context.Context, userID, movieID int64, review string, likes int) (*models.ReviewDB, error)
	Update(ctx context.Context, reviewID int64, update models.ReviewUpdate) (*models.ReviewDB, error)
	Delete(ctx context.Context, reviewID int64) error
}

// ReviewService handles review CRUD and activity publishing.
type ReviewService struct {
	userReader  UserReader
	movieReader MovieReader
	resolver    MovieResolver
	reader      ReviewReader
	writer      ReviewWriter
	kafkaWriter KafkaWriter
}

// NewReviewService creates a new ReviewService instance.
func NewReviewService(
	userReader UserReader,
	movieReader MovieReader,
	resolver MovieResolver,
	reader ReviewReader,
	writer ReviewWriter,
	kafkaWriter KafkaWriter,
) *ReviewService {
	return &ReviewService{
		userReader:  userReader,
		movieReader: movieReader,
		resolver:    resolver,
		reader:      reader,
		writer:      writer,
		kafkaWriter: kafkaWriter,
	}
}

// Create resolves the movie (fetching it into the catalog if unseen) and
// inserts a review. A second review for the same (user, movie) pair
// yields ErrReviewAlreadyExists.
func (svc *ReviewService) Create(ctx context.Context, userID int64, movieTitle, body string, likes int) (*models.ReviewView, error) {
	user, err := svc.userReader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "user_id", userID, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserDoesNotExist
	}

	movie, err := svc.resolver.ResolveOrFetch(ctx, movieTitle)
	if err != nil {
		return nil, err
	}

	existing, err := svc.reader.GetByUserAndMovie(ctx, userID, movie.MovieID)
	if err != nil {
		logger.Log.Errorw("failed to check existing review", "user_id", userID, "movie_id", movie.MovieID, "err", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewAlreadyExists
	}

	stored, err := svc.writer.Save(ctx, userID, movie.MovieID, body, likes)
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, ErrReviewAlreadyExists
		}
		logger.Log.Errorw("failed to save review", "user_id", userID, "movie_id", movie.MovieID, "err", err)
		return nil, err
	}

	publishActivity(ctx, svc.kafkaWriter, "review_created", userID, movie.MovieID)

	return &models.ReviewView{
		MovieID:   stored.MovieID,
		UserID:    stored.UserID,
		MovieName: movie.Title,
		UserName:  user.Username,
		Review:    stored.Review,
		Likes:     stored.Likes,
		UpdatedAt: stored.UpdatedAt,
	}, nil
}

// Update applies the supplied fields to the caller's review and refreshes
// its timestamp. The named movie must already be in the catalog; the
// updated review is the caller's first one regardless of which movie it
// belongs to.
func (svc *ReviewService) Update(ctx context.Context, userID int64, movieTitle string, update models.ReviewUpdate) (*models.ReviewView, error) {
	user, err := svc.userReader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "user_id", userID, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserDoesNotExist
	}

	movie, err := svc.movieReader.GetByTitle(ctx, movieTitle)
	if err != nil {
		logger.Log.Errorw("failed to look up movie", "title", movieTitle, "err", err)
		return nil, err
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}

	review, err := svc.reader.GetFirstByUser(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get review", "user_id", userID, "err", err)
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}

	stored, err := svc.writer.Update(ctx, review.ReviewID, update)
	if err != nil {
		logger.Log.Errorw("failed to update review", "review_id", review.ReviewID, "err", err)
		return nil, err
	}
	if stored == nil {
		return nil, ErrReviewNotFound
	}

	// The review may belong to a different movie than the one named in
	// the request; the view reports the review's actual movie.
	reviewed, err := svc.movieReader.GetByID(ctx, stored.MovieID)
	if err != nil {
		logger.Log.Errorw("failed to get reviewed movie", "movie_id", stored.MovieID, "err", err)
		return nil, err
	}
	if reviewed == nil {
		return nil, ErrMovieNotFound
	}

	publishActivity(ctx, svc.kafkaWriter, "review_updated", userID, stored.MovieID)

	return &models.ReviewView{
		MovieID:   stored.MovieID,
		UserID:    stored.UserID,
		MovieName: reviewed.Title,
		UserName:  user.Username,
		Review:    stored.Review,
		Likes:     stored.Likes,
		UpdatedAt: stored.UpdatedAt,
	}, nil
}

// List returns the caller's reviews, optionally narrowed to one movie.
// A filter naming an unknown movie yields ErrMovieNotFound.
func (svc *ReviewService) List(ctx context.Context, userID int64, movieTitle *string) ([]models.ReviewView, error) {
	var movieID *int64
	if movieTitle != nil {
		movie, err := svc.movieReader.GetByTitle(ctx, *movieTitle)
		if err != nil {
			logger.Log.Errorw("failed to look up movie", "title", *movieTitle, "err", err)
			return nil, err
		}
		if movie == nil {
			return nil, ErrMovieNotFound
		}
		movieID = &movie.MovieID
	}

	views, err := svc.reader.ListViewsByUser(ctx, userID, movieID)
	if err != nil {
		logger.Log.Errorw("failed to list reviews", "user_id", userID, "err", err)
		return nil, err
	}

	return views, nil
}

// Delete removes the first review referencing the named movie regardless
// of owner.
func (svc *ReviewService) Delete(ctx context.Context, movieTitle string) error {
	movie, err := svc.movieReader.GetByTitle(ctx, movieTitle)
	if err != nil {
		logger.Log.Errorw("failed to look up movie", "title", movieTitle, "err", err)
		return err
	}
	if movie == nil {
		return ErrMovieNotFound
	}

	review, err := svc.reader.GetFirstByMovie(ctx, movie.MovieID)
	if err != nil {
		logger.Log.Errorw("failed to get review", "movie_id", movie.MovieID, "err", err)
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}

	if err := svc.writer.Delete(ctx, review.ReviewID); err != nil {
		logger.Log.Errorw("failed to delete review", "review_id", review.ReviewID, "err", err)
		return err
	}

	publishActivity(ctx, svc.kafkaWriter, "review_deleted", review.UserID, movie.MovieID)

	return nil
}
