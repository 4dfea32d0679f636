package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/movielog/movielog/internal/facades"
	"github.com/movielog/movielog/internal/logger"
	"github.com/movielog/movielog/internal/models"
	"github.com/movielog/movielog/internal/repositories"
)

// Error variables
var (
	ErrMovieNotFound      = errors.New("movie not found")
	ErrMovieAlreadyStored = errors.New("movie already stored in catalog")
	ErrCatalogUnavailable = errors.New("movie catalog unavailable")
)

// MovieReader defines read-only operations for the local catalog.
type MovieReader interface {
	GetByTitle(ctx context.Context, title string) (*models.MovieDB, error)
	GetByID(ctx context.Context, movieID int64) (*models.MovieDB, error)
}

// MovieWriter defines write operations for the local catalog.
type MovieWriter interface {
	Save(ctx context.Context, movie models.MovieDB) (*models.MovieDB, error)
}

// MovieFetcher fetches movie metadata from the external lookup service.
type MovieFetcher interface {
	FetchByTitle(ctx context.Context, title string) (*models.MovieLookup, error)
}

// MovieLookupCache caches external lookup payloads.
type MovieLookupCache interface {
	GetByTitle(ctx context.Context, title string) (*models.MovieLookup, error)
	SetByTitle(ctx context.Context, title string, lookup models.MovieLookup) error
}

// CatalogService resolves movies against the local catalog, lazily
// populating it from the external lookup on first reference.
type CatalogService struct {
	reader  MovieReader
	writer  MovieWriter
	fetcher MovieFetcher
	cache   MovieLookupCache
}

// NewCatalogService creates a new CatalogService instance. The cache is
// optional; a nil cache disables lookup caching.
func NewCatalogService(reader MovieReader, writer MovieWriter, fetcher MovieFetcher, cache MovieLookupCache) *CatalogService {
	return &CatalogService{
		reader:  reader,
		writer:  writer,
		fetcher: fetcher,
		cache:   cache,
	}
}

// ResolveOrFetch returns the catalog record for the exact title. On a
// catalog miss it queries the external lookup, persists the result and
// returns the fresh record. The external service is never called for a
// title already present in the catalog.
func (svc *CatalogService) ResolveOrFetch(ctx context.Context, title string) (*models.MovieDB, error) {
	movie, err := svc.reader.GetByTitle(ctx, title)
	if err != nil {
		logger.Log.Errorw("failed to look up movie in catalog", "title", title, "err", err)
		return nil, err
	}
	if movie != nil {
		return movie, nil
	}

	lookup := svc.cachedLookup(ctx, title)
	if lookup == nil {
		lookup, err = svc.fetcher.FetchByTitle(ctx, title)
		if err != nil {
			switch {
			case errors.Is(err, facades.ErrMovieNotFound):
				return nil, ErrMovieNotFound
			case errors.Is(err, facades.ErrCatalogUnavailable):
				logger.Log.Errorw("external catalog unavailable", "title", title, "err", err)
				return nil, ErrCatalogUnavailable
			default:
				logger.Log.Errorw("failed to fetch movie", "title", title, "err", err)
				return nil, err
			}
		}
		svc.cacheLookup(ctx, title, *lookup)
	}

	stored, err := svc.writer.Save(ctx, lookupToMovie(*lookup))
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			logger.Log.Errorw("movie already stored", "title", title, "imdb_id", lookup.ImdbID)
			return nil, ErrMovieAlreadyStored
		}
		logger.Log.Errorw("failed to save movie", "title", title, "err", err)
		return nil, err
	}

	return stored, nil
}

func (svc *CatalogService) cachedLookup(ctx context.Context, title string) *models.MovieLookup {
	if svc.cache == nil {
		return nil
	}
	lookup, err := svc.cache.GetByTitle(ctx, title)
	if err != nil {
		return nil
	}
	return lookup
}

func (svc *CatalogService) cacheLookup(ctx context.Context, title string, lookup models.MovieLookup) {
	if svc.cache == nil {
		return
	}
	if err := svc.cache.SetByTitle(ctx, title, lookup); err != nil {
		logger.Log.Errorw("failed to cache movie lookup", "title", title, "err", err)
	}
}

// lookupToMovie maps an external lookup payload onto a catalog record.
// Ratings arrive as strings ("8.8" or "N/A"); unparseable values store
// as zero.
func lookupToMovie(lookup models.MovieLookup) models.MovieDB {
	rating, err := strconv.ParseFloat(lookup.ImdbRating, 64)
	if err != nil {
		rating = 0
	}

	return models.MovieDB{
		ImdbID:     lookup.ImdbID,
		Title:      lookup.Title,
		Year:       lookup.Year,
		Genre:      lookup.Genre,
		Poster:     lookup.Poster,
		Plot:       lookup.Plot,
		ImdbRating: rating,
		Type:       lookup.Type,
		Awards:     lookup.Awards,
		Language:   lookup.Language,
		Runtime:    lookup.Runtime,
		Released:   lookup.Released,
	}
}
