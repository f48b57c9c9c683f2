package server

import (
	"time"

	"devhub/internal/models"
	"devhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type contentRequest struct {
	AuthorID    uuid.UUID  `json:"authorId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CoverImage  string     `json:"coverImage"`
	GroupID     *uuid.UUID `json:"groupId"`
	// Tags nil on PATCH leaves the tag set untouched.
	Tags *[]string `json:"tags"`

	MeetupLocation      string     `json:"meetupLocation"`
	MeetupLocationImage string     `json:"meetupLocationImage"`
	MeetupDate          *time.Time `json:"meetupDate"`

	PodcastFile  string `json:"podcastFile"`
	PodcastTitle string `json:"podcastTitle"`
}

// GetContentFeed handles GET /api/content
func (s *Server) GetContentFeed(c *fiber.Ctx) error {
	p := parsePagination(c, service.DefaultFeedPageSize)

	in := service.FeedInput{
		ViewerID: viewerID(c),
		Sort:     c.Query("sort"),
		Page:     p.Page,
		Size:     p.Size,
	}

	if raw := c.Query("type"); raw != "" {
		t, ok := models.ParseContentType(raw)
		if !ok {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid content type"))
		}
		in.Type = &t
	}
	if raw := c.Query("groupId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid groupId"))
		}
		in.GroupID = &id
	}
	if raw := c.Query("authorId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid authorId"))
		}
		in.AuthorID = &id
	}

	feed, err := s.contentService.GetFeed(c.UserContext(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(feed)
}

// CreateContentHandler handles POST /api/content/{post|meetup|podcast}
func (s *Server) CreateContentHandler(t models.ContentType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req contentRequest
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}

		in := service.CreateContentInput{
			AuthorID:            req.AuthorID,
			Type:                t,
			Title:               req.Title,
			Description:         req.Description,
			CoverImage:          req.CoverImage,
			GroupID:             req.GroupID,
			MeetupLocation:      req.MeetupLocation,
			MeetupLocationImage: req.MeetupLocationImage,
			MeetupDate:          req.MeetupDate,
			PodcastFile:         req.PodcastFile,
			PodcastTitle:        req.PodcastTitle,
		}
		if req.Tags != nil {
			in.Tags = *req.Tags
		}

		content, err := s.contentService.CreateContent(c.UserContext(), in)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(content)
	}
}

// UpdateContentHandler handles PATCH /api/content/{post|meetup|podcast}/:id
func (s *Server) UpdateContentHandler(t models.ContentType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := s.parseUUIDParam(c, "id")
		if err != nil {
			return nil
		}

		var req contentRequest
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}

		content, err := s.contentService.UpdateContent(c.UserContext(), service.UpdateContentInput{
			ContentID:           id,
			AuthorID:            req.AuthorID,
			Type:                t,
			Title:               req.Title,
			Description:         req.Description,
			CoverImage:          req.CoverImage,
			Tags:                req.Tags,
			MeetupLocation:      req.MeetupLocation,
			MeetupLocationImage: req.MeetupLocationImage,
			MeetupDate:          req.MeetupDate,
			PodcastFile:         req.PodcastFile,
			PodcastTitle:        req.PodcastTitle,
		})
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(content)
	}
}

// GetContent handles GET /api/content/:id
func (s *Server) GetContent(c *fiber.Ctx) error {
	id, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}

	content, err := s.contentService.GetContent(c.UserContext(), id, viewerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(content)
}

// DeleteContent handles DELETE /api/content/:id
func (s *Server) DeleteContent(c *fiber.Ctx) error {
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

	if err := s.contentService.DeleteContent(c.UserContext(), id, req.AuthorID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikeContent handles POST /api/content/:id/like
func (s *Server) LikeContent(c *fiber.Ctx) error {
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

	content, err := s.contentService.LikeContent(c.UserContext(), req.UserID, id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(content)
}

// UnlikeContent handles POST /api/content/:id/unlike
func (s *Server) UnlikeContent(c *fiber.Ctx) error {
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

	content, err := s.contentService.UnlikeContent(c.UserContext(), req.UserID, id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(content)
}

// GetTags handles GET /api/content/tags
func (s *Server) GetTags(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	tags, err := s.tagService.SearchTags(c.UserContext(), c.Query("title"), p.Size, (p.Page-1)*p.Size)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(tags)
}

// GetContentStats handles GET /api/content/stats
func (s *Server) GetContentStats(c *fiber.Ctx) error {
	stats, err := s.contentService.GetContentStats(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}
