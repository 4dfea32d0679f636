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

const reviewColumns = `review_id, user_id, movie_id, review, likes, updated_at`

// ReviewReadRepository handles review read operations.
type ReviewReadRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewReviewReadRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *ReviewReadRepository {
	return &ReviewReadRepository{db: db, txGetter: txGetter}
}

func (r *ReviewReadRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// GetByUserAndMovie returns the user's review for the movie, or nil
// without error when none exists.
func (r *ReviewReadRepository) GetByUserAndMovie(ctx context.Context, userID, movieID int64) (*models.ReviewDB, error) {
	const query = `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE user_id = $1 AND movie_id = $2
		LIMIT 1
	`

	var review models.ReviewDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &review, query, userID, movieID)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, movieID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &review, nil
}

// GetFirstByUser returns the user's first review regardless of movie, or
// nil without error when the user has none.
func (r *ReviewReadRepository) GetFirstByUser(ctx context.Context, userID int64) (*models.ReviewDB, error) {
	const query = `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE user_id = $1
		ORDER BY review_id
		LIMIT 1
	`

	var review models.ReviewDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &review, query, userID)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &review, nil
}

// GetFirstByMovie returns the first review referencing the movie
// regardless of owner, or nil without error when none exists.
func (r *ReviewReadRepository) GetFirstByMovie(ctx context.Context, movieID int64) (*models.ReviewDB, error) {
	const query = `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE movie_id = $1
		ORDER BY review_id
		LIMIT 1
	`

	var review models.ReviewDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &review, query, movieID)

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

	return &review, nil
}

// ListViewsByUser returns the user's reviews joined with movie and user
// data, optionally narrowed to one movie.
func (r *ReviewReadRepository) ListViewsByUser(ctx context.Context, userID int64, movieID *int64) ([]models.ReviewView, error) {
	const query = `
		SELECT r.movie_id AS movie_id,
		       r.user_id AS user_id,
		       m.title AS movie_name,
		       u.username AS user_name,
		       r.review AS review,
		       r.likes AS likes,
		       r.updated_at AS updated_at
		FROM reviews r
		JOIN movies m ON m.movie_id = r.movie_id
		JOIN users u ON u.user_id = r.user_id
		WHERE r.user_id = $1
		  AND ($2::BIGINT IS NULL OR r.movie_id = $2)
		ORDER BY r.review_id
	`

	var views []models.ReviewView
	err := sqlx.SelectContext(ctx, r.executor(ctx), &views, query, userID, movieID)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, movieID},
		"result_count", len(views),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return views, nil
}

// ReviewWriteRepository handles review write operations.
type ReviewWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewReviewWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *ReviewWriteRepository {
	return &ReviewWriteRepository{db: db, txGetter: txGetter}
}

func (r *ReviewWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a new review and returns the stored record. A duplicate
// (user, movie) pair surfaces as ErrConflict.
func (r *ReviewWriteRepository) Save(ctx context.Context, userID, movieID int64, review string, likes int) (*models.ReviewDB, error) {
	const query = `
		INSERT INTO reviews (user_id, movie_id, review, likes, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING ` + reviewColumns + `
	`

	var stored models.ReviewDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &stored, query, userID, movieID, review, likes)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, movieID, likes},
		"error", err,
	)

	if err != nil {
		return nil, mapConstraintError(err)
	}

	return &stored, nil
}

// Update applies the supplied fields only and refreshes the timestamp.
// Returns nil without error when the review does not exist.
func (r *ReviewWriteRepository) Update(ctx context.Context, reviewID int64, update models.ReviewUpdate) (*models.ReviewDB, error) {
	const query = `
		UPDATE reviews
		SET review     = COALESCE($2, review),
		    likes      = COALESCE($3, likes),
		    updated_at = NOW()
		WHERE review_id = $1
		RETURNING ` + reviewColumns + `
	`

	var stored models.ReviewDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &stored, query, reviewID, update.Review, update.Likes)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{reviewID, update.Review, update.Likes},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &stored, nil
}

// Delete removes the review with the given id.
func (r *ReviewWriteRepository) Delete(ctx context.Context, reviewID int64) error {
	const query = `DELETE FROM reviews WHERE review_id = $1`

	res, err := r.executor(ctx).ExecContext(ctx, query, reviewID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("query executed",
		"query", query,
		"args", []any{reviewID},
		"rows_affected", rowsAffected,
		"error", err,
	)

	return err
}
