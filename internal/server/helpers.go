package server

import (
	"errors"

	"devhub/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed page/size query parameters.
type Pagination struct {
	Page int
	Size int
}

const maxPageSize = 100

// parsePagination extracts 1-based page and size query parameters with the
// given default size.
func parsePagination(c *fiber.Ctx, defaultSize int) Pagination {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	size := c.QueryInt("size", defaultSize)
	if size <= 0 {
		size = defaultSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	return Pagination{Page: page, Size: size}
}

// parseUUIDParam extracts a route parameter as a UUID. On failure it writes a
// 400 JSON response and returns errResponseWritten; callers should then
// return nil.
func (s *Server) parseUUIDParam(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return uuid.Nil, errResponseWritten
	}
	return id, nil
}

// viewerID extracts the optional viewerId query parameter. An absent or
// malformed value yields the nil UUID (anonymous viewer).
func viewerID(c *fiber.Ctx) uuid.UUID {
	id, err := uuid.Parse(c.Query("viewerId"))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// respondServiceError maps a service error onto the HTTP response: AppError
// codes map onto their statuses, bare record-not-found onto 404, anything
// else onto 500.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return models.RespondWithError(c, models.StatusForCode(appErr.Code), appErr)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Resource", c.Params("id")))
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}
