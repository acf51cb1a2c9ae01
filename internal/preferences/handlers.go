package preferences

import (
	"agrivest-backend/internal/middleware"
	"agrivest-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Store *Store
}

// GetPageSize GET /api/v1/preferences/page-size
func (h *Handlers) GetPageSize(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}
	size := h.Store.PageSize(c.Context(), userID)
	return response.Success(c, "Preference fetched successfully", fiber.Map{"pageSize": size}, nil)
}

// SetPageSize PUT /api/v1/preferences/page-size: body {pageSize}.
func (h *Handlers) SetPageSize(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body struct {
		PageSize int `json:"pageSize"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.Store.SetPageSize(c.Context(), userID, body.PageSize); err != nil {
		return response.BadRequest(c, err.Error())
	}
	return response.Success(c, "Preference saved successfully", fiber.Map{"pageSize": body.PageSize}, nil)
}
