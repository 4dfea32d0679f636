package facades

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/movielog/movielog/internal/logger"
	"github.com/movielog/movielog/internal/models"
)

var (
	// ErrMovieNotFound is returned when the lookup service reports no
	// match for the requested title.
	ErrMovieNotFound = errors.New("movie not found in external catalog")

	// ErrCatalogUnavailable is returned for transport failures and
	// non-success responses from the lookup service.
	ErrCatalogUnavailable = errors.New("external catalog unavailable")
)

// MovieLookupFacade queries an OMDB-style HTTP service for movie metadata
// by exact title.
type MovieLookupFacade struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewMovieLookupFacade creates a new facade. A nil client falls back to
// http.DefaultClient.
func NewMovieLookupFacade(client *http.Client, baseURL, apiKey string) *MovieLookupFacade {
	if client == nil {
		client = http.DefaultClient
	}
	return &MovieLookupFacade{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// FetchByTitle queries the lookup service for the title. A miss reported
// by the service maps to ErrMovieNotFound; transport and protocol
// failures map to ErrCatalogUnavailable.
func (f *MovieLookupFacade) FetchByTitle(ctx context.Context, title string) (*models.MovieLookup, error) {
	reqURL := fmt.Sprintf("%s?apikey=%s&t=%s", f.baseURL, f.apiKey, url.QueryEscape(title))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		logger.Log.Errorw("movie lookup request failed", "title", title, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.Errorw("movie lookup returned non-OK status", "title", title, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrCatalogUnavailable, resp.StatusCode)
	}

	var lookup models.MovieLookup
	if err := json.NewDecoder(resp.Body).Decode(&lookup); err != nil {
		logger.Log.Errorw("failed to decode movie lookup response", "title", title, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	if lookup.Response == "False" {
		logger.Log.Infow("movie lookup miss", "title", title, "detail", lookup.Error)
		return nil, ErrMovieNotFound
	}

	return &lookup, nil
}
