package transactions

import (
	"agrivest-backend/internal/middleware"
	"agrivest-backend/internal/pkg/response"
	"agrivest-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

// Post POST /api/v1/enquiries/:id/transactions: body {amount, type}.
// Amount accepts a JSON number or a formatted string ("4,000").
func (h *Handlers) Post(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.BadRequest(c, "Invalid enquiry id")
	}

	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	amount, ok := parseAmount(body["amount"])
	if !ok {
		return response.BadRequest(c, "Amount must be a positive number")
	}
	txType, _ := body["type"].(string)

	result, err := h.Service.Post(c.Context(), PostInput{
		EnquiryID: id,
		Amount:    amount,
		Type:      txType,
		ActorRole: middleware.GetUserRole(c),
	})
	if err != nil {
		return response.FromAppError(c, err)
	}
	return response.SuccessCreated(c, "Transaction recorded successfully", result, nil)
}

func parseAmount(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case string:
		parsed, err := validation.ParseAmount(v)
		if err != nil || parsed == nil {
			return 0, false
		}
		return *parsed, true
	}
	return 0, false
}
