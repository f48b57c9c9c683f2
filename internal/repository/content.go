package repository

import (
	"context"

	"devhub/internal/cache"
	"devhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Feed sort modes.
const (
	SortRecent    = "recent"
	SortPopular   = "popular"
	SortFollowing = "following"
)

// FeedQuery describes one feed request. Count and fetch are built from the
// same query so pagination metadata always matches the returned page.
type FeedQuery struct {
	Type     *models.ContentType
	GroupID  *uuid.UUID
	AuthorID *uuid.UUID
	ViewerID uuid.UUID
	Sort     string
}

// ContentRepository defines the interface for content data operations
type ContentRepository interface {
	Create(ctx context.Context, content *models.Content) error
	GetByID(ctx context.Context, id uuid.UUID, viewerID uuid.UUID) (*models.Content, error)
	Update(ctx context.Context, content *models.Content) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, q FeedQuery) (int64, error)
	List(ctx context.Context, q FeedQuery, limit, offset int) ([]*models.Content, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*models.Content, error)
	ReplaceTags(ctx context.Context, content *models.Content, tags []models.Tag) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	Like(ctx context.Context, userID, contentID uuid.UUID) error
	Unlike(ctx context.Context, userID, contentID uuid.UUID) error
}

// contentRepository implements ContentRepository
type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) Create(ctx context.Context, content *models.Content) error {
	return r.db.WithContext(ctx).Create(content).Error
}

func (r *contentRepository) GetByID(ctx context.Context, id uuid.UUID, viewerID uuid.UUID) (*models.Content, error) {
	var content models.Content

	fetch := func() error {
		return r.applyViewerDetails(r.db.WithContext(ctx), viewerID).
			Preload("Tags").
			Preload("Author").
			First(&content, "contents.id = ?", id).Error
	}

	var err error
	if viewerID == uuid.Nil {
		err = cache.Aside(ctx, cache.ContentKey(id), &content, cache.ContentTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *contentRepository) Update(ctx context.Context, content *models.Content) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(content).Error; err != nil {
		return err
	}
	cache.InvalidateContent(ctx, content.ID)
	return nil
}

func (r *contentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM content_tags WHERE content_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("content_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Content{}, "id = ?", id).Error
	})
	if err == nil {
		cache.InvalidateContent(ctx, id)
	}
	return err
}

func (r *contentRepository) Count(ctx context.Context, q FeedQuery) (int64, error) {
	var count int64
	err := r.applyFeedFilter(r.db.WithContext(ctx).Model(&models.Content{}), q).
		Count(&count).Error
	return count, err
}

func (r *contentRepository) List(ctx context.Context, q FeedQuery, limit, offset int) ([]*models.Content, error) {
	var contents []*models.Content
	base := r.applyViewerDetails(r.db.WithContext(ctx), q.ViewerID).
		Preload("Tags").
		Preload("Author")
	base = r.applyFeedFilter(base, q)
	err := r.applySort(base, q.Sort).
		Limit(limit).
		Offset(offset).
		Find(&contents).Error
	return contents, err
}

func (r *contentRepository) Search(ctx context.Context, query string, limit, offset int) ([]*models.Content, error) {
	var contents []*models.Content
	like := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Preload("Author").
		Where("LOWER(title) LIKE LOWER(?)", like).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&contents).Error
	return contents, err
}

// applyFeedFilter appends the WHERE clauses for the feed query. Count and
// List both go through here so the two can never drift apart.
func (r *contentRepository) applyFeedFilter(db *gorm.DB, q FeedQuery) *gorm.DB {
	if q.Type != nil {
		db = db.Where("contents.type = ?", *q.Type)
	}
	if q.GroupID != nil {
		db = db.Where("contents.group_id = ?", *q.GroupID)
	}
	if q.AuthorID != nil {
		db = db.Where("contents.author_id = ?", *q.AuthorID)
	}
	if q.Sort == SortFollowing && q.ViewerID != uuid.Nil {
		db = db.Where(
			"contents.author_id IN (SELECT following_id FROM followers WHERE follower_id = ?)",
			q.ViewerID,
		)
	}
	return db
}

// applySort appends the ORDER BY clause for the requested sort mode.
func (r *contentRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case SortPopular:
		return db.Order("likes_count DESC, created_at DESC")
	case SortRecent, SortFollowing:
		return db.Order("created_at DESC")
	default:
		return db.Order("created_at DESC")
	}
}

// applyViewerDetails adds a subquery computing the liked flag for the viewer.
func (r *contentRepository) applyViewerDetails(db *gorm.DB, viewerID uuid.UUID) *gorm.DB {
	if viewerID != uuid.Nil {
		return db.Select(
			"contents.*, EXISTS(SELECT 1 FROM likes WHERE likes.content_id = contents.id AND likes.user_id = ?) as liked",
			viewerID,
		)
	}
	return db.Select("contents.*, false as liked")
}

// ReplaceTags sets the content's tag associations to exactly the given set.
func (r *contentRepository) ReplaceTags(ctx context.Context, content *models.Content, tags []models.Tag) error {
	err := r.db.WithContext(ctx).Model(content).Association("Tags").Replace(tags)
	if err == nil {
		cache.InvalidateContent(ctx, content.ID)
	}
	return err
}

func (r *contentRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&models.Content{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
	if err == nil {
		cache.InvalidateContent(ctx, id)
	}
	return err
}

// Like inserts the like row and bumps the content counter in one transaction.
// Returns gorm.ErrDuplicatedKey when the user already liked the content.
func (r *contentRepository) Like(ctx context.Context, userID, contentID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Like{UserID: userID, ContentID: contentID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrDuplicatedKey
		}
		return tx.Model(&models.Content{}).
			Where("id = ?", contentID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	})
	if err == nil {
		cache.InvalidateContent(ctx, contentID)
	}
	return err
}

// Unlike removes the like row and decrements the counter in one transaction.
// Returns gorm.ErrRecordNotFound when no like exists.
func (r *contentRepository) Unlike(ctx context.Context, userID, contentID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND content_id = ?", userID, contentID).
			Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Content{}).
			Where("id = ?", contentID).
			UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
	})
	if err == nil {
		cache.InvalidateContent(ctx, contentID)
	}
	return err
}
