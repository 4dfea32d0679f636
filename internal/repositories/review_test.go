package repositories

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/movielog/movielog/internal/models"
)

type reviewFixture struct {
	user   *models.UserDB
	other  *models.UserDB
	movie  *models.MovieDB
	second *models.MovieDB
}

func seedReviewFixture(t *testing.T, db *sqlx.DB) reviewFixture {
	t.Helper()

	userRepo := NewUserWriteRepository(db, nil)
	movieRepo := NewMovieWriteRepository(db, nil)
	ctx := context.Background()

	user, err := userRepo.Save(ctx, "judy", "judy@example.com", "hash")
	assert.NoError(t, err)
	other, err := userRepo.Save(ctx, "karl", "karl@example.com", "hash")
	assert.NoError(t, err)
	movie, err := movieRepo.Save(ctx, testMovie("tt1375666", "Inception"))
	assert.NoError(t, err)
	second, err := movieRepo.Save(ctx, testMovie("tt0137523", "Fight Club"))
	assert.NoError(t, err)

	return reviewFixture{user: user, other: other, movie: movie, second: second}
}

func TestReviewWriteRepository_Save(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	fx := seedReviewFixture(t, db)
	repo := NewReviewWriteRepository(db, nil)
	ctx := context.Background()

	review, err := repo.Save(ctx, fx.user.UserID, fx.movie.MovieID, "Mind-bending.", 3)
	assert.NoError(t, err)
	assert.NotNil(t, review)
	assert.NotZero(t, review.ReviewID)
	assert.Equal(t, fx.user.UserID, review.UserID)
	assert.Equal(t, fx.movie.MovieID, review.MovieID)
	assert.Equal(t, "Mind-bending.", review.Review)
	assert.Equal(t, 3, review.Likes)
	assert.False(t, review.UpdatedAt.IsZero())
}

func TestReviewWriteRepository_Save_DuplicatePair(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	fx := seedReviewFixture(t, db)
	repo := NewReviewWriteRepository(db, nil)
	ctx := context.Background()

	_, err := repo.Save(ctx, fx.user.UserID, fx.movie.MovieID, "First take.", 0)
	assert.NoError(t, err)

	t.Run("SameUserSameMovie", func(t *testing.T) {
		_, err := repo.Save(ctx, fx.user.UserID, fx.movie.MovieID, "Second take.", 0)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("OtherUserSameMovie", func(t *testing.T) {
		_, err := repo.Save(ctx, fx.other.UserID, fx.movie.MovieID, "Karl's take.", 0)
		assert.NoError(t, err)
	})
}

func TestReviewReadRepository_GetByUserAndMovie(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	fx := seedReviewFixture(t, db)
	writeRepo := NewReviewWriteRepository(db, nil)
	readRepo := NewReviewReadRepository(db, nil)
	ctx := context.Background()

	saved, err := writeRepo.Save(ctx, fx.user.UserID, fx.movie.MovieID, "Great.", 1)
	assert.NoError(t, err)

	t.Run("Found", func(t *testing.T) {
		review, err := readRepo.GetByUserAndMovie(ctx, fx.user.UserID, fx.movie.MovieID)
		assert.NoError(t, err)
		assert.NotNil(t, review)
		assert.Equal(t, saved.ReviewID, review.ReviewID)
	})

	t.Run("NotFound", func(t *testing.T) {
		review, err := readRepo.GetByUserAndMovie(ctx, fx.user.UserID, fx.second.MovieID)
		assert.NoError(t, err)
		assert.Nil(t, review)
	})
}

func TestReviewReadRepository_GetFirst(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	fx := seedReviewFixture(t, db)
	writeRepo := NewReviewWriteRepository(db, nil)
	readRepo := NewReviewReadRepository(db, nil)
	ctx := context.Background()

	first, err := writeRepo.Save(ctx, fx.user.UserID, fx.movie.MovieID, "Earliest.", 0)
	assert.NoError(t, err)
	_, err = writeRepo.Save(ctx, fx.user.UserID, fx.second.MovieID, "Later.", 0)
	assert.NoError(t, err)
	_, err = writeRepo.Save(ctx, fx.other.UserID, fx.movie.MovieID, "Karl's.", 0)
	assert.NoError(t, err)

	t.Run("ByUser", func(t *testing.T) {
		review, err := readRepo.GetFirstByUser(ctx, fx.user.UserID)
		assert.NoError(t, err)
		assert.NotNil(t, review)
		assert.Equal(t, first.ReviewID, review.ReviewID)
	})

	t.Run("ByUserNone", func(t *testing.T) {
		review, err := readRepo.GetFirstByUser(ctx, 9999)
		assert.NoError(t, err)
		assert.Nil(t, review)
	})

	t.Run("ByMovie", func(t *testing.T) {
		review, err := readRepo.GetFirstByMovie(ctx, fx.movie.MovieID)
		assert.NoError(t, err)
		assert.NotNil(t, review)
		assert.Equal(t, first.ReviewID, review.ReviewID)
	})

	t.Run("ByMovieNone", func(t *testing.T) {
		review, err := readRepo.GetFirstByMovie(ctx, 9999)
		assert.NoError(t, err)
		assert.Nil(t, review)
	})
}

func TestReviewReadRepository_ListViewsByUser(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	fx := seedReviewFixture(t, db)
	writeRepo := NewReviewWriteRepository(db, nil)
	readRepo := NewReviewReadRepository(db, nil)
	ctx := context.Background()

	_, err := writeRepo.Save(ctx, fx.user.UserID, fx.movie.MovieID, "Mind-bending.", 3)
	assert.NoError(t, err)
	_, err = writeRepo.Save(ctx, fx.user.UserID, fx.second.MovieID, "Raw.", 1)
	assert.NoError(t, err)
	_, err = writeRepo.Save(ctx, fx.other.UserID, fx.movie.MovieID, "Karl's.", 0)
	assert.NoError(t, err)

	t.Run("AllForUser", func(t *testing.T) {
		views, err := readRepo.ListViewsByUser(ctx, fx.user.UserID, nil)
		assert.NoError(t, err)
		assert.Len(t, views, 2)
		assert.Equal(t, "Inception", views[0].MovieName)
		assert.Equal(t, "judy", views[0].UserName)
		assert.Equal(t, "Mind-bending.", views[0].Review)
		assert.Equal(t, 3, views[0].Likes)
		assert.Equal(t, "Fight Club", views[1].MovieName)
	})

	t.Run("FilteredByMovie", func(t *testing.T) {
		views, err := readRepo.ListViewsByUser(ctx, fx.user.UserID, &fx.second.MovieID)
		assert.NoError(t, err)
		assert.Len(t, views, 1)
		assert.Equal(t, "Fight Club", views[0].MovieName)
	})

	t.Run("NoReviews", func(t *testing.T) {
		views, err := readRepo.ListViewsByUser(ctx, 9999, nil)
		assert.NoError(t, err)
		assert.Empty(t, views)
	})
}

func TestReviewWriteRepository_Update(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	fx := seedReviewFixture(t, db)
	repo := NewReviewWriteRepository(db, nil)
	ctx := context.Background()

	saved, err := repo.Save(ctx, fx.user.UserID, fx.movie.MovieID, "Original.", 2)
	assert.NoError(t, err)

	t.Run("BodyOnly", func(t *testing.T) {
		body := "Revised."
		review, err := repo.Update(ctx, saved.ReviewID, models.ReviewUpdate{Review: &body})
		assert.NoError(t, err)
		assert.NotNil(t, review)
		assert.Equal(t, "Revised.", review.Review)
		assert.Equal(t, 2, review.Likes)
	})

	t.Run("LikesOnly", func(t *testing.T) {
		likes := 7
		review, err := repo.Update(ctx, saved.ReviewID, models.ReviewUpdate{Likes: &likes})
		assert.NoError(t, err)
		assert.NotNil(t, review)
		assert.Equal(t, "Revised.", review.Review)
		assert.Equal(t, 7, review.Likes)
	})

	t.Run("UnknownReview", func(t *testing.T) {
		body := "Nothing."
		review, err := repo.Update(ctx, 9999, models.ReviewUpdate{Review: &body})
		assert.NoError(t, err)
		assert.Nil(t, review)
	})
}

func TestReviewWriteRepository_Delete(t *testing.T) {
	db, teardown := setupPostgresContainer(t)
	defer teardown()

	fx := seedReviewFixture(t, db)
	writeRepo := NewReviewWriteRepository(db, nil)
	readRepo := NewReviewReadRepository(db, nil)
	ctx := context.Background()

	saved, err := writeRepo.Save(ctx, fx.user.UserID, fx.movie.MovieID, "Gone soon.", 0)
	assert.NoError(t, err)

	assert.NoError(t, writeRepo.Delete(ctx, saved.ReviewID))

	review, err := readRepo.GetByUserAndMovie(ctx, fx.user.UserID, fx.movie.MovieID)
	assert.NoError(t, err)
	assert.Nil(t, review)

	// Deleting an already removed review is a no-op.
	assert.NoError(t, writeRepo.Delete(ctx, saved.ReviewID))
}
