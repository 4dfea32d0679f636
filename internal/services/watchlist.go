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
	ErrWatchlistEntryExists   = errors.New("movie already saved to a watchlist")
	ErrWatchlistEntryNotFound = errors.New("watchlist entry not found")
)

// WatchlistReader defines read-only operations for watchlist entries.
type WatchlistReader interface {
	GetByMovie(ctx context.Context, movieID int64) (*models.WatchlistDB, error)
	ListViewsByUser(ctx context.Context, userID int64) ([]models.WatchlistView, error)
}

// WatchlistWriter defines write operations for watchlist entries.
type WatchlistWriter interface {
	Save(ctx context.Context, userID, movieID int64) (*models.WatchlistDB, error)
	Update(ctx context.Context, entryID int64, update models.WatchlistUpdate) (*models.WatchlistDB, error)
	Delete(ctx context.Context, entryID int64) error
}

// WatchlistService handles watchlist CRUD and activity publishing.
type WatchlistService struct {
	userReader  UserReader
	movieReader MovieReader
	resolver    MovieResolver
	reader      WatchlistReader
	writer      WatchlistWriter
	kafkaWriter KafkaWriter
}

// NewWatchlistService creates a new WatchlistService instance.
func NewWatchlistService(
	userReader UserReader,
	movieReader MovieReader,
	resolver MovieResolver,
	reader WatchlistReader,
	writer WatchlistWriter,
	kafkaWriter KafkaWriter,
) *WatchlistService {
	return &WatchlistService{
		userReader:  userReader,
		movieReader: movieReader,
		resolver:    resolver,
		reader:      reader,
		writer:      writer,
		kafkaWriter: kafkaWriter,
	}
}

// Create resolves the movie (fetching it into the catalog if unseen) and
// inserts a watchlist entry with the default status. A movie already
// referenced by any entry, for any user, yields ErrWatchlistEntryExists.
func (svc *WatchlistService) Create(ctx context.Context, userID int64, movieTitle string) (*models.WatchlistView, error) {
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

	existing, err := svc.reader.GetByMovie(ctx, movie.MovieID)
	if err != nil {
		logger.Log.Errorw("failed to check existing entry", "movie_id", movie.MovieID, "err", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrWatchlistEntryExists
	}

	stored, err := svc.writer.Save(ctx, userID, movie.MovieID)
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, ErrWatchlistEntryExists
		}
		logger.Log.Errorw("failed to save entry", "user_id", userID, "movie_id", movie.MovieID, "err", err)
		return nil, err
	}

	publishActivity(ctx, svc.kafkaWriter, "watchlist_created", userID, movie.MovieID)

	return &models.WatchlistView{
		MovieID:   movie.MovieID,
		MovieName: movie.Title,
		UserName:  user.Username,
		Status:    stored.Status,
		Note:      stored.Note,
		Rating:    stored.Rating,
	}, nil
}

// Update applies the supplied fields to the entry referencing the named
// movie. The entry is located by movie only, not scoped to the caller.
func (svc *WatchlistService) Update(ctx context.Context, userID int64, movieTitle string, update models.WatchlistUpdate) (*models.WatchlistDB, error) {
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

	entry, err := svc.reader.GetByMovie(ctx, movie.MovieID)
	if err != nil {
		logger.Log.Errorw("failed to get entry", "movie_id", movie.MovieID, "err", err)
		return nil, err
	}
	if entry == nil {
		return nil, ErrWatchlistEntryNotFound
	}

	stored, err := svc.writer.Update(ctx, entry.EntryID, update)
	if err != nil {
		logger.Log.Errorw("failed to update entry", "entry_id", entry.EntryID, "err", err)
		return nil, err
	}
	if stored == nil {
		return nil, ErrWatchlistEntryNotFound
	}

	publishActivity(ctx, svc.kafkaWriter, "watchlist_updated", userID, movie.MovieID)

	return stored, nil
}

// List returns the caller's watchlist entries as composed views.
func (svc *WatchlistService) List(ctx context.Context, userID int64) ([]models.WatchlistView, error) {
	user, err := svc.userReader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "user_id", userID, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserDoesNotExist
	}

	views, err := svc.reader.ListViewsByUser(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to list entries", "user_id", userID, "err", err)
		return nil, err
	}

	return views, nil
}

// Delete removes the entry referencing the named movie regardless of
// owner.
func (svc *WatchlistService) Delete(ctx context.Context, movieTitle string) error {
	movie, err := svc.movieReader.GetByTitle(ctx, movieTitle)
	if err != nil {
		logger.Log.Errorw("failed to look up movie", "title", movieTitle, "err", err)
		return err
	}
	if movie == nil {
		return ErrMovieNotFound
	}

	entry, err := svc.reader.GetByMovie(ctx, movie.MovieID)
	if err != nil {
		logger.Log.Errorw("failed to get entry", "movie_id", movie.MovieID, "err", err)
		return err
	}
	if entry == nil {
		return ErrWatchlistEntryNotFound
	}

	if err := svc.writer.Delete(ctx, entry.EntryID); err != nil {
		logger.Log.Errorw("failed to delete entry", "entry_id", entry.EntryID, "err", err)
		return err
	}

	publishActivity(ctx, svc.kafkaWriter, "watchlist_deleted", entry.UserID, movie.MovieID)

	return nil
}
