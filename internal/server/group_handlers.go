package server

import (
	"context"

	"devhub/internal/models"
	"devhub/internal/repository"
	"devhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type groupRequest struct {
	AuthorID     uuid.UUID   `json:"authorId"`
	Name         string      `json:"name"`
	Bio          string      `json:"bio"`
	ProfileImage string      `json:"profileImage"`
	CoverImage   string      `json:"coverImage"`
	MemberIDs    []uuid.UUID `json:"memberIds"`
}

// GetGroups handles GET /api/groups
func (s *Server) GetGroups(c *fiber.Ctx) error {
	p := parsePagination(c, service.DefaultFeedPageSize)
	feed, err := s.groupService.GetGroups(c.UserContext(), c.Query("sort"), p.Page, p.Size)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(feed)
}

// CreateGroup handles POST /api/groups
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	var req groupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	group, err := s.groupService.CreateGroup(c.UserContext(), service.CreateGroupInput{
		AuthorID:     req.AuthorID,
		Name:         req.Name,
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
		CoverImage:   req.CoverImage,
		MemberIDs:    req.MemberIDs,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(group)
}

// GetGroup handles GET /api/groups/:id. Optional sections are selected with
// boolean query flags: stats, members, meetups, topRanked.
func (s *Server) GetGroup(c *fiber.Ctx) error {
	id, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}

	opts := service.GroupDetailOptions{
		IncludeStats:     c.QueryBool("stats"),
		IncludeMembers:   c.QueryBool("members"),
		IncludeMeetups:   c.QueryBool("meetups"),
		IncludeTopRanked: c.QueryBool("topRanked"),
	}

	meetups := func(ctx context.Context) ([]*models.Content, error) {
		t := models.ContentTypeMeetup
		return s.contentRepo.List(ctx, repository.FeedQuery{
			Type:    &t,
			GroupID: &id,
			Sort:    repository.SortRecent,
		}, service.DefaultFeedPageSize, 0)
	}

	detail, err := s.groupService.GetGroup(c.UserContext(), id, viewerID(c), opts, meetups)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(detail)
}

// UpdateGroup handles PATCH /api/groups/:id
func (s *Server) UpdateGroup(c *fiber.Ctx) error {
	id, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}

	var req groupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	group, err := s.groupService.UpdateGroup(c.UserContext(), service.UpdateGroupInput{
		GroupID:      id,
		ActorID:      req.AuthorID,
		Name:         req.Name,
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
		CoverImage:   req.CoverImage,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(group)
}

// DeleteGroup handles DELETE /api/groups/:id
func (s *Server) DeleteGroup(c *fiber.Ctx) error {
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

	if err := s.groupService.DeleteGroup(c.UserContext(), id, req.AuthorID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetGroupContent handles GET /api/groups/:id/content
func (s *Server) GetGroupContent(c *fiber.Ctx) error {
	id, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, service.DefaultFeedPageSize)
	in := service.FeedInput{
		GroupID:  &id,
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

	feed, err := s.contentService.GetFeed(c.UserContext(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(feed)
}

// GetGroupMembers handles GET /api/groups/:id/members
func (s *Server) GetGroupMembers(c *fiber.Ctx) error {
	id, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, 20)
	members, err := s.groupService.GetMembers(c.UserContext(), id, p.Size, (p.Page-1)*p.Size)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(members)
}

// JoinGroup handles POST /api/groups/:id/join
func (s *Server) JoinGroup(c *fiber.Ctx) error {
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

	if err := s.groupService.Join(c.UserContext(), id, req.UserID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LeaveGroup handles POST /api/groups/:id/leave
func (s *Server) LeaveGroup(c *fiber.Ctx) error {
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

	if err := s.groupService.Leave(c.UserContext(), id, req.UserID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AssignGroupAdmin handles POST /api/groups/:id/admins/:userId
func (s *Server) AssignGroupAdmin(c *fiber.Ctx) error {
	groupID, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}
	targetID, err := s.parseUUIDParam(c, "userId")
	if err != nil {
		return nil
	}

	var req struct {
		ActorID uuid.UUID `json:"actorId"`
	}
	if err := c.BodyParser(&req); err != nil || req.ActorID == uuid.Nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("actorId is required"))
	}

	if err := s.groupService.AssignAdmin(c.UserContext(), groupID, req.ActorID, targetID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveGroupAdmin handles DELETE /api/groups/:id/admins/:userId
func (s *Server) RemoveGroupAdmin(c *fiber.Ctx) error {
	groupID, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}
	targetID, err := s.parseUUIDParam(c, "userId")
	if err != nil {
		return nil
	}

	var req struct {
		ActorID uuid.UUID `json:"actorId"`
	}
	if err := c.BodyParser(&req); err != nil || req.ActorID == uuid.Nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("actorId is required"))
	}

	if err := s.groupService.RemoveAdmin(c.UserContext(), groupID, req.ActorID, targetID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveGroupMember handles DELETE /api/groups/:id/members/:userId
func (s *Server) RemoveGroupMember(c *fiber.Ctx) error {
	groupID, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}
	targetID, err := s.parseUUIDParam(c, "userId")
	if err != nil {
		return nil
	}

	var req struct {
		ActorID uuid.UUID `json:"actorId"`
	}
	if err := c.BodyParser(&req); err != nil || req.ActorID == uuid.Nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("actorId is required"))
	}

	if err := s.groupService.RemoveMember(c.UserContext(), groupID, req.ActorID, targetID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetGroupSidebarStats handles GET /api/groups/stats
func (s *Server) GetGroupSidebarStats(c *fiber.Ctx) error {
	stats, err := s.groupService.GetSidebarStats(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}
