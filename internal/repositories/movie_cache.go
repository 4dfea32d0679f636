package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/movielog/movielog/internal/logger"
	"github.com/movielog/movielog/internal/models"
)

// MovieLookupCacheRepository caches external movie-lookup payloads in
// Redis, keyed by the exact requested title. It spares the external
// service a second round trip when a fetched movie could not be persisted
// (e.g. a concurrent request won the insert).
type MovieLookupCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration for cached payloads
}

// NewMovieLookupCacheRepository creates a new repository instance with the given TTL.
func NewMovieLookupCacheRepository(client *redis.Client, expiration time.Duration) *MovieLookupCacheRepository {
	return &MovieLookupCacheRepository{
		client: client,
		exp:    expiration,
	}
}

// GetByTitle fetches a cached lookup payload for the title.
func (r *MovieLookupCacheRepository) GetByTitle(ctx context.Context, title string) (*models.MovieLookup, error) {
	key := fmt.Sprintf("movie_lookup:%s", title)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		logger.Log.Infow("cache read",
			"key", key,
			"error", err,
		)
		if err == redis.Nil {
			return nil, fmt.Errorf("movie lookup not cached for %q", title)
		}
		return nil, err
	}

	var lookup models.MovieLookup
	if err := json.Unmarshal([]byte(val), &lookup); err != nil {
		logger.Log.Infow("cache read",
			"key", key,
			"error", err,
		)
		return nil, err
	}

	logger.Log.Infow("cache read",
		"key", key,
		"imdb_id", lookup.ImdbID,
		"error", nil,
	)

	return &lookup, nil
}

// SetByTitle caches a lookup payload for the title with expiration.
func (r *MovieLookupCacheRepository) SetByTitle(ctx context.Context, title string, lookup models.MovieLookup) error {
	key := fmt.Sprintf("movie_lookup:%s", title)

	data, err := json.Marshal(lookup)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, data, r.exp).Err()

	logger.Log.Infow("cache write",
		"key", key,
		"imdb_id", lookup.ImdbID,
		"error", err,
	)

	return err
}
