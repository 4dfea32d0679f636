package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/movielog/movielog/internal/logger"
	"github.com/movielog/movielog/internal/models"
)

const movieColumns = `movie_id, imdb_id, title, year, genre, poster, plot, imdb_rating, type, awards, language, runtime, released`

// MovieReadRepository handles catalog read operations.
type MovieReadRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewMovieReadRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *MovieReadRepository {
	return &MovieReadRepository{db: db, txGetter: txGetter}
}

func (r *MovieReadRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// GetByTitle returns the movie with the exact given title. No
// normalization or case-folding is applied. Returns nil without error on
// a catalog miss.
func (r *MovieReadRepository) GetByTitle(ctx context.Context, title string) (*models.MovieDB, error) {
	const query = `
		SELECT ` + movieColumns + `
		FROM movies
		WHERE title = $1
		LIMIT 1
	`

	var movie models.MovieDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &movie, query, title)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{title},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

// GetByID returns the movie with the given id. Returns nil without error
// when the movie does not exist.
func (r *MovieReadRepository) GetByID(ctx context.Context, movieID int64) (*models.MovieDB, error) {
	const query = `
		SELECT ` + movieColumns + `
		FROM movies
		WHERE movie_id = $1
	`

	var movie models.MovieDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &movie, query, movieID)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{movieID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

// MovieWriteRepository handles catalog write operations.
type MovieWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewMovieWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *MovieWriteRepository {
	return &MovieWriteRepository{db: db, txGetter: txGetter}
}

func (r *MovieWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a new catalog record and returns it. A duplicate external
// id surfaces as ErrConflict.
func (r *MovieWriteRepository) Save(ctx context.Context, movie models.MovieDB) (*models.MovieDB, error) {
	const query = `
		INSERT INTO movies (imdb_id, title, year, genre, poster, plot, imdb_rating, type, awards, language, runtime, released)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + movieColumns + `
	`

	var stored models.MovieDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &stored, query,
		movie.ImdbID, movie.Title, movie.Year, movie.Genre, movie.Poster, movie.Plot,
		movie.ImdbRating, movie.Type, movie.Awards, movie.Language, movie.Runtime, movie.Released,
	)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{movie.ImdbID, movie.Title},
		"error", err,
	)

	if err != nil {
		return nil, mapConstraintError(err)
	}

	return &stored, nil
}
