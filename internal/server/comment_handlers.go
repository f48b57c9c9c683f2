package server

import (
	"devhub/internal/models"
	"devhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetComments handles GET /api/content/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	contentID, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.GetComments(c.UserContext(), contentID, viewerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/content/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	contentID, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		AuthorID     uuid.UUID  `json:"authorId"`
		Text         string     `json:"text"`
		ReplyingToID *uuid.UUID `json:"replyingTo"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.AuthorID == uuid.Nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("authorId is required"))
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		AuthorID:     req.AuthorID,
		ContentID:    contentID,
		Text:         req.Text,
		ReplyingToID: req.ReplyingToID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment handles PATCH /api/comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		AuthorID uuid.UUID `json:"authorId"`
		Text     string    `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		CommentID: id,
		AuthorID:  req.AuthorID,
		Text:      req.Text,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		AuthorID uuid.UUID `json:"authorId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.commentService.DeleteComment(c.UserContext(), id, req.AuthorID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikeComment handles POST /api/comments/:id/like
func (s *Server) LikeComment(c *fiber.Ctx) error {
	id, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		UserID uuid.UUID `json:"userId"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == uuid.Nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("userId is required"))
	}

	if err := s.commentService.LikeComment(c.UserContext(), req.UserID, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnlikeComment handles POST /api/comments/:id/unlike
func (s *Server) UnlikeComment(c *fiber.Ctx) error {
	id, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		UserID uuid.UUID `json:"userId"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == uuid.Nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("userId is required"))
	}

	if err := s.commentService.UnlikeComment(c.UserContext(), req.UserID, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
