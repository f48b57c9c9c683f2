package server

import (
	"devhub/internal/models"
	"devhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Register handles POST /api/users/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		UserName string `json:"userName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /api/users/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Login(c.UserContext(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// LoginWithProvider handles POST /api/users/login-provider
func (s *Server) LoginWithProvider(c *fiber.Ctx) error {
	var req struct {
		Email     string `json:"email"`
		UserName  string `json:"userName"`
		Name      string `json:"name"`
		AvatarImg string `json:"avatarImg"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.LoginWithProvider(c.UserContext(), service.ProviderLoginInput{
		Email:     req.Email,
		UserName:  req.UserName,
		Name:      req.Name,
		AvatarImg: req.AvatarImg,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetUserByEmail handles GET /api/users/by-email?email=
func (s *Server) GetUserByEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("email is required"))
	}

	user, err := s.userService.GetByEmail(c.UserContext(), email)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.userService.GetProfile(c.UserContext(), id, c.QueryInt("latest", 0))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// UpdateProfile handles PATCH /api/users/:id
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	id, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}

	var req service.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.UserID = id

	user, err := s.userService.UpdateProfile(c.UserContext(), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// CompleteOnboarding handles PATCH /api/users/:id/onboarding
func (s *Server) CompleteOnboarding(c *fiber.Ctx) error {
	id, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		CurrentKnowledge string   `json:"currentKnowledge"`
		CodingAmbitions  []string `json:"codingAmbitions"`
		PreferredSkills  []string `json:"preferredSkills"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.CompleteOnboarding(c.UserContext(), service.OnboardingInput{
		UserID:           id,
		CurrentKnowledge: req.CurrentKnowledge,
		CodingAmbitions:  req.CodingAmbitions,
		PreferredSkills:  req.PreferredSkills,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /api/users/:id
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}

	if err := s.userService.DeleteUser(c.UserContext(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetUserContent handles GET /api/users/:id/content
func (s *Server) GetUserContent(c *fiber.Ctx) error {
	id, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c, service.DefaultFeedPageSize)
	in := service.FeedInput{
		AuthorID: &id,
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

// GetUserGroups handles GET /api/users/:id/groups
func (s *Server) GetUserGroups(c *fiber.Ctx) error {
	id, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}

	memberships, err := s.userService.GetUserGroups(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(memberships)
}

// GetUserTags handles GET /api/users/:id/tags
func (s *Server) GetUserTags(c *fiber.Ctx) error {
	id, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}

	tags, err := s.tagService.GetAuthorTags(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(tags)
}

// FollowUser handles POST /api/users/:id/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	id, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		FollowerID uuid.UUID `json:"followerId"`
	}
	if err := c.BodyParser(&req); err != nil || req.FollowerID == uuid.Nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("followerId is required"))
	}

	if err := s.userService.Follow(c.UserContext(), req.FollowerID, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnfollowUser handles POST /api/users/:id/unfollow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	id, err := s.parseUUIDParam(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		FollowerID uuid.UUID `json:"followerId"`
	}
	if err := c.BodyParser(&req); err != nil || req.FollowerID == uuid.Nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("followerId is required"))
	}

	if err := s.userService.Unfollow(c.UserContext(), req.FollowerID, id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
