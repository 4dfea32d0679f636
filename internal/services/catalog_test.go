package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/movielog/movielog/internal/facades"
	"github.com/movielog/movielog/internal/models"
	"github.com/movielog/movielog/internal/repositories"
	"github.com/movielog/movielog/internal/services"
)

func TestCatalogService_ResolveOrFetch_CatalogHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockMovieReader(ctrl)
	mockWriter := services.NewMockMovieWriter(ctrl)
	mockFetcher := services.NewMockMovieFetcher(ctrl)
	mockCache := services.NewMockMovieLookupCache(ctrl)

	svc := services.NewCatalogService(mockReader, mockWriter, mockFetcher, mockCache)

	stored := &models.MovieDB{MovieID: 1, ImdbID: "tt0133093", Title: "The Matrix"}

	// neither the cache nor the external lookup may be touched on a hit
	mockReader.EXPECT().GetByTitle(gomock.Any(), "The Matrix").Return(stored, nil)

	got, err := svc.ResolveOrFetch(context.Background(), "The Matrix")
	assert.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestCatalogService_ResolveOrFetch_CatalogMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockMovieReader(ctrl)
	mockWriter := services.NewMockMovieWriter(ctrl)
	mockFetcher := services.NewMockMovieFetcher(ctrl)
	mockCache := services.NewMockMovieLookupCache(ctrl)

	svc := services.NewCatalogService(mockReader, mockWriter, mockFetcher, mockCache)

	lookup := &models.MovieLookup{
		Response:   "True",
		ImdbID:     "tt0133093",
		Title:      "The Matrix",
		Year:       "1999",
		ImdbRating: "8.7",
	}
	stored := &models.MovieDB{MovieID: 1, ImdbID: "tt0133093", Title: "The Matrix", Year: "1999", ImdbRating: 8.7}

	mockReader.EXPECT().GetByTitle(gomock.Any(), "The Matrix").Return(nil, nil)
	mockCache.EXPECT().GetByTitle(gomock.Any(), "The Matrix").Return(nil, nil)
	mockFetcher.EXPECT().FetchByTitle(gomock.Any(), "The Matrix").Return(lookup, nil)
	mockCache.EXPECT().SetByTitle(gomock.Any(), "The Matrix", *lookup).Return(nil)
	mockWriter.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, movie models.MovieDB) (*models.MovieDB, error) {
			assert.Equal(t, "tt0133093", movie.ImdbID)
			assert.Equal(t, 8.7, movie.ImdbRating)
			return stored, nil
		})

	got, err := svc.ResolveOrFetch(context.Background(), "The Matrix")
	assert.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestCatalogService_ResolveOrFetch_CachedLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockMovieReader(ctrl)
	mockWriter := services.NewMockMovieWriter(ctrl)
	mockFetcher := services.NewMockMovieFetcher(ctrl)
	mockCache := services.NewMockMovieLookupCache(ctrl)

	svc := services.NewCatalogService(mockReader, mockWriter, mockFetcher, mockCache)

	lookup := &models.MovieLookup{Response: "True", ImdbID: "tt0110912", Title: "Pulp Fiction", ImdbRating: "8.9"}
	stored := &models.MovieDB{MovieID: 2, ImdbID: "tt0110912", Title: "Pulp Fiction"}

	// cached payload short-circuits the external fetch
	mockReader.EXPECT().GetByTitle(gomock.Any(), "Pulp Fiction").Return(nil, nil)
	mockCache.EXPECT().GetByTitle(gomock.Any(), "Pulp Fiction").Return(lookup, nil)
	mockWriter.EXPECT().Save(gomock.Any(), gomock.Any()).Return(stored, nil)

	got, err := svc.ResolveOrFetch(context.Background(), "Pulp Fiction")
	assert.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestCatalogService_ResolveOrFetch_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockMovieReader(ctrl)
	mockWriter := services.NewMockMovieWriter(ctrl)
	mockFetcher := services.NewMockMovieFetcher(ctrl)

	// nil cache disables lookup caching
	svc := services.NewCatalogService(mockReader, mockWriter, mockFetcher, nil)

	lookup := &models.MovieLookup{Response: "True", ImdbID: "tt0000001", Title: "Ghost", ImdbRating: "N/A"}

	tests := []struct {
		name       string
		readerErr  error
		fetchErr   error
		saveErr    error
		expectSave bool
		wantErr    error
	}{
		{
			name:      "catalog read error",
			readerErr: errors.New("db error"),
			wantErr:   errors.New("db error"),
		},
		{
			name:     "unknown title",
			fetchErr: facades.ErrMovieNotFound,
			wantErr:  services.ErrMovieNotFound,
		},
		{
			name:     "external service unavailable",
			fetchErr: facades.ErrCatalogUnavailable,
			wantErr:  services.ErrCatalogUnavailable,
		},
		{
			name:     "fetch error",
			fetchErr: errors.New("network error"),
			wantErr:  errors.New("network error"),
		},
		{
			name:       "concurrent save conflict",
			saveErr:    repositories.ErrConflict,
			expectSave: true,
			wantErr:    services.ErrMovieAlreadyStored,
		},
		{
			name:       "save error",
			saveErr:    errors.New("db error"),
			expectSave: true,
			wantErr:    errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader.EXPECT().GetByTitle(gomock.Any(), "Ghost").Return(nil, tt.readerErr)

			if tt.readerErr == nil {
				if tt.fetchErr != nil {
					mockFetcher.EXPECT().FetchByTitle(gomock.Any(), "Ghost").Return(nil, tt.fetchErr)
				} else {
					mockFetcher.EXPECT().FetchByTitle(gomock.Any(), "Ghost").Return(lookup, nil)
				}
			}
			if tt.expectSave {
				mockWriter.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil, tt.saveErr)
			}

			got, err := svc.ResolveOrFetch(context.Background(), "Ghost")
			assert.EqualError(t, err, tt.wantErr.Error())
			assert.Nil(t, got)
		})
	}
}
