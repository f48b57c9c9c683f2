package server

import (
	"github.com/gofiber/fiber/v2"
)

// Search handles GET /api/search?q=
func (s *Server) Search(c *fiber.Ctx) error {
	result, err := s.searchService.Search(c.UserContext(), c.Query("q"), c.QueryInt("limit", 0))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}
