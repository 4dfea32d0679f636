package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/movielog/movielog/internal/models"
	"github.com/movielog/movielog/internal/repositories"
	"github.com/movielog/movielog/internal/services"
)

type watchlistMocks struct {
	userReader  *services.MockUserReader
	movieReader *services.MockMovieReader
	resolver    *services.MockMovieResolver
	reader      *services.MockWatchlistReader
	writer      *services.MockWatchlistWriter
	kafka       *services.MockKafkaWriter
}

func newWatchlistService(ctrl *gomock.Controller) (*services.WatchlistService, watchlistMocks) {
	m := watchlistMocks{
		userReader:  services.NewMockUserReader(ctrl),
		movieReader: services.NewMockMovieReader(ctrl),
		resolver:    services.NewMockMovieResolver(ctrl),
		reader:      services.NewMockWatchlistReader(ctrl),
		writer:      services.NewMockWatchlistWriter(ctrl),
		kafka:       services.NewMockKafkaWriter(ctrl),
	}
	svc := services.NewWatchlistService(m.userReader, m.movieReader, m.resolver, m.reader, m.writer, m.kafka)
	return svc, m
}

func TestWatchlistService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newWatchlistService(ctrl)

	user := &models.UserDB{UserID: 1, Username: "alice"}
	movie := &models.MovieDB{MovieID: 10, Title: "The Matrix"}
	stored := &models.WatchlistDB{EntryID: 100, UserID: 1, MovieID: 10, Status: models.WatchlistStatusDefault}

	m.userReader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(user, nil)
	m.resolver.EXPECT().ResolveOrFetch(gomock.Any(), "The Matrix").Return(movie, nil)
	m.reader.EXPECT().GetByMovie(gomock.Any(), int64(10)).Return(nil, nil)
	m.writer.EXPECT().Save(gomock.Any(), int64(1), int64(10)).Return(stored, nil)
	m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)

	view, err := svc.Create(context.Background(), 1, "The Matrix")
	assert.NoError(t, err)
	assert.Equal(t, &models.WatchlistView{
		MovieID:   10,
		MovieName: "The Matrix",
		UserName:  "alice",
		Status:    models.WatchlistStatusDefault,
	}, view)
}

func TestWatchlistService_Create_MovieAlreadySaved(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newWatchlistService(ctrl)

	user := &models.UserDB{UserID: 2, Username: "bob"}
	movie := &models.MovieDB{MovieID: 10, Title: "The Matrix"}

	// an entry by a different user still blocks the save
	m.userReader.EXPECT().GetByID(gomock.Any(), int64(2)).Return(user, nil)
	m.resolver.EXPECT().ResolveOrFetch(gomock.Any(), "The Matrix").Return(movie, nil)
	m.reader.EXPECT().GetByMovie(gomock.Any(), int64(10)).
		Return(&models.WatchlistDB{EntryID: 100, UserID: 1, MovieID: 10}, nil)

	view, err := svc.Create(context.Background(), 2, "The Matrix")
	assert.ErrorIs(t, err, services.ErrWatchlistEntryExists)
	assert.Nil(t, view)
}

func TestWatchlistService_Create_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{UserID: 1, Username: "alice"}
	movie := &models.MovieDB{MovieID: 10, Title: "The Matrix"}

	tests := []struct {
		name    string
		setup   func(m watchlistMocks)
		wantErr error
	}{
		{
			name: "unknown user",
			setup: func(m watchlistMocks) {
				m.userReader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, nil)
			},
			wantErr: services.ErrUserDoesNotExist,
		},
		{
			name: "unresolvable movie",
			setup: func(m watchlistMocks) {
				m.userReader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(user, nil)
				m.resolver.EXPECT().ResolveOrFetch(gomock.Any(), "The Matrix").Return(nil, services.ErrMovieNotFound)
			},
			wantErr: services.ErrMovieNotFound,
		},
		{
			name: "concurrent duplicate insert",
			setup: func(m watchlistMocks) {
				m.userReader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(user, nil)
				m.resolver.EXPECT().ResolveOrFetch(gomock.Any(), "The Matrix").Return(movie, nil)
				m.reader.EXPECT().GetByMovie(gomock.Any(), int64(10)).Return(nil, nil)
				m.writer.EXPECT().Save(gomock.Any(), int64(1), int64(10)).Return(nil, repositories.ErrConflict)
			},
			wantErr: services.ErrWatchlistEntryExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newWatchlistService(ctrl)
			tt.setup(m)

			view, err := svc.Create(context.Background(), 1, "The Matrix")
			assert.EqualError(t, err, tt.wantErr.Error())
			assert.Nil(t, view)
		})
	}
}

func TestWatchlistService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{UserID: 1, Username: "alice"}
	movie := &models.MovieDB{MovieID: 10, Title: "The Matrix"}
	entry := &models.WatchlistDB{EntryID: 100, UserID: 1, MovieID: 10, Status: "unwatched"}

	status := "watched"
	update := models.WatchlistUpdate{Status: &status}
	updated := &models.WatchlistDB{EntryID: 100, UserID: 1, MovieID: 10, Status: status}

	tests := []struct {
		name    string
		setup   func(m watchlistMocks)
		wantErr error
	}{
		{
			name: "successful update",
			setup: func(m watchlistMocks) {
				m.userReader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(user, nil)
				m.movieReader.EXPECT().GetByTitle(gomock.Any(), "The Matrix").Return(movie, nil)
				m.reader.EXPECT().GetByMovie(gomock.Any(), int64(10)).Return(entry, nil)
				m.writer.EXPECT().Update(gomock.Any(), int64(100), update).Return(updated, nil)
				m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "unknown user",
			setup: func(m watchlistMocks) {
				m.userReader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, nil)
			},
			wantErr: services.ErrUserDoesNotExist,
		},
		{
			name: "unknown movie",
			setup: func(m watchlistMocks) {
				m.userReader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(user, nil)
				m.movieReader.EXPECT().GetByTitle(gomock.Any(), "The Matrix").Return(nil, nil)
			},
			wantErr: services.ErrMovieNotFound,
		},
		{
			name: "movie not in any watchlist",
			setup: func(m watchlistMocks) {
				m.userReader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(user, nil)
				m.movieReader.EXPECT().GetByTitle(gomock.Any(), "The Matrix").Return(movie, nil)
				m.reader.EXPECT().GetByMovie(gomock.Any(), int64(10)).Return(nil, nil)
			},
			wantErr: services.ErrWatchlistEntryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newWatchlistService(ctrl)
			tt.setup(m)

			got, err := svc.Update(context.Background(), 1, "The Matrix", update)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, updated, got)
			}
		})
	}
}

func TestWatchlistService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newWatchlistService(ctrl)

	user := &models.UserDB{UserID: 1, Username: "alice"}
	views := []models.WatchlistView{
		{MovieID: 10, MovieName: "The Matrix", UserName: "alice", Status: "unwatched"},
	}

	m.userReader.EXPECT().GetByID(gomock.Any(), int64(1)).Return(user, nil)
	m.reader.EXPECT().ListViewsByUser(gomock.Any(), int64(1)).Return(views, nil)

	got, err := svc.List(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, views, got)

	m.userReader.EXPECT().GetByID(gomock.Any(), int64(2)).Return(nil, nil)

	got, err = svc.List(context.Background(), 2)
	assert.ErrorIs(t, err, services.ErrUserDoesNotExist)
	assert.Nil(t, got)
}

func TestWatchlistService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	movie := &models.MovieDB{MovieID: 10, Title: "The Matrix"}
	entry := &models.WatchlistDB{EntryID: 100, UserID: 1, MovieID: 10}

	tests := []struct {
		name    string
		setup   func(m watchlistMocks)
		wantErr error
	}{
		{
			name: "successful delete",
			setup: func(m watchlistMocks) {
				m.movieReader.EXPECT().GetByTitle(gomock.Any(), "The Matrix").Return(movie, nil)
				m.reader.EXPECT().GetByMovie(gomock.Any(), int64(10)).Return(entry, nil)
				m.writer.EXPECT().Delete(gomock.Any(), int64(100)).Return(nil)
				m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "unknown movie",
			setup: func(m watchlistMocks) {
				m.movieReader.EXPECT().GetByTitle(gomock.Any(), "The Matrix").Return(nil, nil)
			},
			wantErr: services.ErrMovieNotFound,
		},
		{
			name: "movie not in any watchlist",
			setup: func(m watchlistMocks) {
				m.movieReader.EXPECT().GetByTitle(gomock.Any(), "The Matrix").Return(movie, nil)
				m.reader.EXPECT().GetByMovie(gomock.Any(), int64(10)).Return(nil, nil)
			},
			wantErr: services.ErrWatchlistEntryNotFound,
		},
		{
			name: "delete error",
			setup: func(m watchlistMocks) {
				m.movieReader.EXPECT().GetByTitle(gomock.Any(), "The Matrix").Return(movie, nil)
				m.reader.EXPECT().GetByMovie(gomock.Any(), int64(10)).Return(entry, nil)
				m.writer.EXPECT().Delete(gomock.Any(), int64(100)).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newWatchlistService(ctrl)
			tt.setup(m)

			err := svc.Delete(context.Background(), "The Matrix")
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
