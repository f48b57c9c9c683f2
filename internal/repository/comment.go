package repository

import (
	"context"

	"devhub/internal/cache"
	"devhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListByContent(ctx context.Context, contentID uuid.UUID, viewerID uuid.UUID) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
	Like(ctx context.Context, userID, commentID uuid.UUID) error
	Unlike(ctx context.Context, userID, commentID uuid.UUID) error
}

// commentRepository implements CommentRepository
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and bumps the content's comment counter in one
// transaction.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Content{}).
			Where("id = ?", comment.ContentID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error
	})
	if err == nil {
		cache.InvalidateContent(ctx, comment.ContentID)
	}
	return err
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByContent(ctx context.Context, contentID uuid.UUID, viewerID uuid.UUID) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.applyViewerDetails(r.db.WithContext(ctx), viewerID).
		Preload("Author").
		Where("comments.content_id = ?", contentID).
		Order("comments.created_at ASC").
		Find(&comments).Error
	return comments, err
}

// applyViewerDetails adds subqueries computing the like count and the
// viewer's liked flag in a single query.
func (r *commentRepository) applyViewerDetails(db *gorm.DB, viewerID uuid.UUID) *gorm.DB {
	selectQuery := "comments.*, " +
		"(SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = comments.id) as likes_count"

	if viewerID != uuid.Nil {
		return db.Select(
			selectQuery+", EXISTS(SELECT 1 FROM comment_likes WHERE comment_likes.comment_id = comments.id AND comment_likes.user_id = ?) as liked",
			viewerID,
		)
	}
	return db.Select(selectQuery + ", false as liked")
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", comment.ID).
		Update("text", comment.Text).Error
}

// Delete removes the comment, its replies and their like rows, and decrements
// the content counter by the number of removed comments, all in one
// transaction.
func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	comment, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM comment_likes WHERE comment_id = ? OR comment_id IN (SELECT id FROM comments WHERE replying_to_id = ?)",
			id, id,
		).Error; err != nil {
			return err
		}

		res := tx.Where("id = ? OR replying_to_id = ?", id, id).Delete(&models.Comment{})
		if res.Error != nil {
			return res.Error
		}

		return tx.Model(&models.Content{}).
			Where("id = ?", comment.ContentID).
			UpdateColumn("comments_count", gorm.Expr("comments_count - ?", res.RowsAffected)).Error
	})
	if err == nil {
		cache.InvalidateContent(ctx, comment.ContentID)
	}
	return err
}

// Like inserts the comment like row. Returns gorm.ErrDuplicatedKey when the
// user already liked the comment.
func (r *commentRepository) Like(ctx context.Context, userID, commentID uuid.UUID) error {
	res := r.db.WithContext(ctx).Exec(
		"INSERT INTO comment_likes (comment_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		commentID, userID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrDuplicatedKey
	}
	return nil
}

// Unlike removes the comment like row. Returns gorm.ErrRecordNotFound when no
// like exists.
func (r *commentRepository) Unlike(ctx context.Context, userID, commentID uuid.UUID) error {
	res := r.db.WithContext(ctx).Exec(
		"DELETE FROM comment_likes WHERE comment_id = ? AND user_id = ?",
		commentID, userID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
