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

const watchlistColumns = `entry_id, user_id, movie_id, status, note, rating`

// WatchlistReadRepository handles watchlist read operations.
type WatchlistReadRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewWatchlistReadRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *WatchlistReadRepository {
	return &WatchlistReadRepository{db: db, txGetter: txGetter}
}

func (r *WatchlistReadRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// GetByMovie returns the entry referencing the movie regardless of owner,
// or nil without error when none exists. Entries are unique per movie
// across all users.
func (r *WatchlistReadRepository) GetByMovie(ctx context.Context, movieID int64) (*models.WatchlistDB, error) {
	const query = `
		SELECT ` + watchlistColumns + `
		FROM watchlist
		WHERE movie_id = $1
		LIMIT 1
	`

	var entry models.WatchlistDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &entry, query, movieID)

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

	return &entry, nil
}

// ListViewsByUser returns the user's entries joined with movie and user
// data.
func (r *WatchlistReadRepository) ListViewsByUser(ctx context.Context, userID int64) ([]models.WatchlistView, error) {
	const query = `
		SELECT w.movie_id AS movie_id,
		       m.title AS movie_name,
		       u.username AS user_name,
		       w.status AS status,
		       w.note AS note,
		       w.rating AS rating
		FROM watchlist w
		JOIN movies m ON m.movie_id = w.movie_id
		JOIN users u ON u.user_id = w.user_id
		WHERE w.user_id = $1
		ORDER BY w.entry_id
	`

	var views []models.WatchlistView
	err := sqlx.SelectContext(ctx, r.executor(ctx), &views, query, userID)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"result_count", len(views),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return views, nil
}

// WatchlistWriteRepository handles watchlist write operations.
type WatchlistWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewWatchlistWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *WatchlistWriteRepository {
	return &WatchlistWriteRepository{db: db, txGetter: txGetter}
}

func (r *WatchlistWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a new entry with the default status and returns the stored
// record. A movie already referenced by any entry surfaces as ErrConflict.
func (r *WatchlistWriteRepository) Save(ctx context.Context, userID, movieID int64) (*models.WatchlistDB, error) {
	const query = `
		INSERT INTO watchlist (user_id, movie_id, status)
		VALUES ($1, $2, $3)
		RETURNING ` + watchlistColumns + `
	`

	var stored models.WatchlistDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &stored, query, userID, movieID, models.WatchlistStatusDefault)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, movieID},
		"error", err,
	)

	if err != nil {
		return nil, mapConstraintError(err)
	}

	return &stored, nil
}

// Update applies the supplied fields only. Returns nil without error when
// the entry does not exist.
func (r *WatchlistWriteRepository) Update(ctx context.Context, entryID int64, update models.WatchlistUpdate) (*models.WatchlistDB, error) {
	const query = `
		UPDATE watchlist
		SET status = COALESCE($2, status),
		    note   = COALESCE($3, note),
		    rating = COALESCE($4, rating)
		WHERE entry_id = $1
		RETURNING ` + watchlistColumns + `
	`

	var stored models.WatchlistDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &stored, query, entryID, update.Status, update.Note, update.Rating)

	logger.Log.Infow("query executed",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{entryID, update.Status, update.Note, update.Rating},
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

// Delete removes the entry with the given id.
func (r *WatchlistWriteRepository) Delete(ctx context.Context, entryID int64) error {
	const query = `DELETE FROM watchlist WHERE entry_id = $1`

	res, err := r.executor(ctx).ExecContext(ctx, query, entryID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("query executed",
		"query", query,
		"args", []any{entryID},
		"rows_affected", rowsAffected,
		"error", err,
	)

	return err
}
