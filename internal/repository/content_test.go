package repository

import (
	"context"
	"errors"
	"testing"

	"devhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestContentRepository_LikeUnlike(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author@example.com")
	viewer := createTestUser(t, db, "viewer@example.com")
	content := createTestContent(t, db, author, models.ContentTypePost)

	t.Run("like bumps the counter", func(t *testing.T) {
		require.NoError(t, repo.Like(ctx, viewer.ID, content.ID))

		got, err := repo.GetByID(ctx, content.ID, viewer.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.LikesCount)
		assert.True(t, got.Liked)
	})

	t.Run("second like is a duplicate", func(t *testing.T) {
		err := repo.Like(ctx, viewer.ID, content.ID)
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

		// Counter untouched by the failed attempt.
		got, err := repo.GetByID(ctx, content.ID, uuid.Nil)
		require.NoError(t, err)
		assert.Equal(t, 1, got.LikesCount)
		assert.False(t, got.Liked)
	})

	t.Run("unlike restores the counter", func(t *testing.T) {
		require.NoError(t, repo.Unlike(ctx, viewer.ID, content.ID))

		got, err := repo.GetByID(ctx, content.ID, viewer.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.LikesCount)
		assert.False(t, got.Liked)
	})

	t.Run("unlike without a like", func(t *testing.T) {
		err := repo.Unlike(ctx, viewer.ID, content.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestContentRepository_IncrementViews(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author@example.com")
	content := createTestContent(t, db, author, models.ContentTypePost)

	require.NoError(t, repo.IncrementViews(ctx, content.ID))
	require.NoError(t, repo.IncrementViews(ctx, content.ID))

	got, err := repo.GetByID(ctx, content.ID, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ViewsCount)
}

func TestContentRepository_FeedFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author@example.com")
	other := createTestUser(t, db, "other@example.com")

	group := &models.Group{AuthorID: author.ID, Name: "Gophers"}
	require.NoError(t, db.Create(group).Error)

	post := createTestContent(t, db, author, models.ContentTypePost)
	meetup := createTestContent(t, db, author, models.ContentTypeMeetup)
	require.NoError(t, db.Model(meetup).UpdateColumn("group_id", group.ID).Error)
	createTestContent(t, db, other, models.ContentTypePodcast)

	t.Run("type filter pairs count and list", func(t *testing.T) {
		typ := models.ContentTypePost
		q := FeedQuery{Type: &typ}

		count, err := repo.Count(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		items, err := repo.List(ctx, q, 10, 0)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, post.ID, items[0].ID)
	})

	t.Run("group filter", func(t *testing.T) {
		q := FeedQuery{GroupID: &group.ID}

		count, err := repo.Count(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		items, err := repo.List(ctx, q, 10, 0)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, meetup.ID, items[0].ID)
	})

	t.Run("author filter", func(t *testing.T) {
		q := FeedQuery{AuthorID: &other.ID}
		count, err := repo.Count(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("following filter restricts to followed authors", func(t *testing.T) {
		viewer := createTestUser(t, db, "viewer@example.com")
		require.NoError(t, db.Create(&models.Follower{
			FollowerID:  viewer.ID,
			FollowingID: other.ID,
		}).Error)

		q := FeedQuery{ViewerID: viewer.ID, Sort: SortFollowing}
		count, err := repo.Count(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		items, err := repo.List(ctx, q, 10, 0)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, other.ID, items[0].AuthorID)
	})
}

func TestContentRepository_PopularSort(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author@example.com")

	quiet := createTestContent(t, db, author, models.ContentTypePost)
	loved := createTestContent(t, db, author, models.ContentTypePost)
	require.NoError(t, db.Model(loved).UpdateColumn("likes_count", 7).Error)

	items, err := repo.List(ctx, FeedQuery{Sort: SortPopular}, 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, loved.ID, items[0].ID)
	assert.Equal(t, quiet.ID, items[1].ID)
}

func TestContentRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	commentRepo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author@example.com")
	viewer := createTestUser(t, db, "viewer@example.com")
	content := createTestContent(t, db, author, models.ContentTypePost)

	require.NoError(t, repo.Like(ctx, viewer.ID, content.ID))
	require.NoError(t, commentRepo.Create(ctx, &models.Comment{
		Text:      "nice",
		AuthorID:  viewer.ID,
		ContentID: content.ID,
	}))

	require.NoError(t, repo.Delete(ctx, content.ID))

	_, err := repo.GetByID(ctx, content.ID, uuid.Nil)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	var likes int64
	require.NoError(t, db.Model(&models.Like{}).Where("content_id = ?", content.ID).Count(&likes).Error)
	assert.Zero(t, likes)

	var comments int64
	require.NoError(t, db.Model(&models.Comment{}).Where("content_id = ?", content.ID).Count(&comments).Error)
	assert.Zero(t, comments)
}

func TestContentRepository_ReplaceTags(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	tagRepo := NewTagRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author@example.com")
	content := createTestContent(t, db, author, models.ContentTypePost)

	first, err := tagRepo.EnsureByTitles(ctx, []string{"Go", "Redis"})
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceTags(ctx, content, first))

	second, err := tagRepo.EnsureByTitles(ctx, []string{"Redis", "Kubernetes"})
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceTags(ctx, content, second))

	got, err := repo.GetByID(ctx, content.ID, uuid.Nil)
	require.NoError(t, err)
	require.Len(t, got.Tags, 2)

	titles := make(map[string]bool, len(got.Tags))
	for _, tag := range got.Tags {
		titles[tag.Title] = true
	}
	assert.True(t, titles["Redis"])
	assert.True(t, titles["Kubernetes"])
	assert.False(t, titles["Go"])

	// Detached tag rows survive for reuse.
	var tagCount int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tagCount).Error)
	assert.Equal(t, int64(3), tagCount)
}

func TestContentRepository_Search(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author@example.com")
	match := &models.Content{
		Type:        models.ContentTypePost,
		Title:       "Scaling PostgreSQL",
		Description: "notes",
		AuthorID:    author.ID,
	}
	require.NoError(t, db.Create(match).Error)
	createTestContent(t, db, author, models.ContentTypePost)

	items, err := repo.Search(ctx, "postgres", 10, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, match.ID, items[0].ID)
}
