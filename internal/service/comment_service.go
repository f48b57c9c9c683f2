package service

import (
	"context"
	"errors"

	"devhub/internal/models"
	"devhub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentService handles comments and comment likes.
type CommentService struct {
	commentRepo repository.CommentRepository
	contentRepo repository.ContentRepository
}

// NewCommentService creates a new comment service
func NewCommentService(commentRepo repository.CommentRepository, contentRepo repository.ContentRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, contentRepo: contentRepo}
}

type CreateCommentInput struct {
	AuthorID     uuid.UUID
	ContentID    uuid.UUID
	Text         string
	ReplyingToID *uuid.UUID
}

type UpdateCommentInput struct {
	CommentID uuid.UUID
	AuthorID  uuid.UUID
	Text      string
}

// CreateComment adds a comment or a reply. Replies are limited to one level:
// the parent must itself be a top-level comment on the same content.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Text == "" {
		return nil, models.NewValidationError("Text is required")
	}

	if _, err := s.contentRepo.GetByID(ctx, in.ContentID, uuid.Nil); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Content", in.ContentID)
		}
		return nil, err
	}

	if in.ReplyingToID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ReplyingToID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Comment", *in.ReplyingToID)
			}
			return nil, err
		}
		if parent.ContentID != in.ContentID {
			return nil, models.NewValidationError("Reply must target a comment on the same content")
		}
		if parent.ReplyingToID != nil {
			return nil, models.NewValidationError("Replies can only be one level deep")
		}
	}

	comment := &models.Comment{
		Text:         in.Text,
		AuthorID:     in.AuthorID,
		ContentID:    in.ContentID,
		ReplyingToID: in.ReplyingToID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// GetComments lists the comments on a content item with the viewer's like
// state.
func (s *CommentService) GetComments(ctx context.Context, contentID uuid.UUID, viewerID uuid.UUID) ([]*models.Comment, error) {
	if _, err := s.contentRepo.GetByID(ctx, contentID, uuid.Nil); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Content", contentID)
		}
		return nil, err
	}
	return s.commentRepo.ListByContent(ctx, contentID, viewerID)
}

// UpdateComment edits the comment text. Author only.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if in.Text == "" {
		return nil, models.NewValidationError("Text is required")
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", in.CommentID)
		}
		return nil, err
	}
	if comment.AuthorID != in.AuthorID {
		return nil, models.NewUnauthorizedError("You can only update your own comments")
	}

	comment.Text = in.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes the comment and its replies. Author only.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, authorID uuid.UUID) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", commentID)
		}
		return err
	}
	if comment.AuthorID != authorID {
		return models.NewUnauthorizedError("You can only delete your own comments")
	}
	return s.commentRepo.Delete(ctx, commentID)
}

// LikeComment records the like. Returns CONFLICT when already liked.
func (s *CommentService) LikeComment(ctx context.Context, userID, commentID uuid.UUID) error {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", commentID)
		}
		return err
	}
	err := s.commentRepo.Like(ctx, userID, commentID)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.NewConflictError("Comment already liked")
	}
	return err
}

// UnlikeComment removes the like. Returns NOT_FOUND when no like exists.
func (s *CommentService) UnlikeComment(ctx context.Context, userID, commentID uuid.UUID) error {
	err := s.commentRepo.Unlike(ctx, userID, commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Like", commentID)
	}
	return err
}
