package enquiries

import (
	"strconv"

	"agrivest-backend/internal/middleware"
	"agrivest-backend/internal/pagination"
	"agrivest-backend/internal/pkg/response"
	"agrivest-backend/internal/preferences"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service

	// Prefs supplies the caller's persisted page size when the query carries
	// none. Optional; absent in the public submission path.
	Prefs *preferences.Store
}

// Submit POST /api/v1/enquiries: public lead submission, no auth.
func (h *Handlers) Submit(c *fiber.Ctx) error {
	var in CreateInput
	if err := c.BodyParser(&in); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	enq, err := h.Service.Create(c.Context(), in)
	if err != nil {
		return response.FromAppError(c, err)
	}
	return response.SuccessCreated(c, "Enquiry submitted successfully", enq, nil)
}

// List GET /api/v1/enquiries: filtered, paginated registry view.
func (h *Handlers) List(c *fiber.Ctx) error {
	params := h.listParamsFromQuery(c)
	page, err := h.Service.List(c.Context(), params)
	if err != nil {
		return response.FromAppError(c, err)
	}
	return response.Success(c, "Enquiries fetched successfully", page.Items, fiber.Map{
		"total":     page.Total,
		"pageCount": page.PageCount,
		"offset":    page.Offset,
		"pageSize":  params.PageSize,
	})
}

// Summary GET /api/v1/enquiries/summary: fleet-wide ledger rollup over the
// same filters as List.
func (h *Handlers) Summary(c *fiber.Ctx) error {
	totals, err := h.Service.Summary(c.Context(), h.listParamsFromQuery(c))
	if err != nil {
		return response.FromAppError(c, err)
	}
	return response.Success(c, "Summary computed successfully", totals, nil)
}

// Detail GET /api/v1/enquiries/:id: enquiry with ledger rows, audit history
// and fresh snapshot.
func (h *Handlers) Detail(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid enquiry id")
	}
	detail, err := h.Service.Detail(c.Context(), id)
	if err != nil {
		return response.FromAppError(c, err)
	}
	return response.Success(c, "Enquiry fetched successfully", detail, nil)
}

// Patch PATCH /api/v1/enquiries/:id: audited field mutation.
func (h *Handlers) Patch(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid enquiry id")
	}
	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	performedBy, _ := body["performedBy"].(string)
	delete(body, "performedBy")
	if performedBy == "" {
		performedBy = middleware.GetUserIdentity(c)
	}
	enq, err := h.Service.Patch(c.Context(), id, body, performedBy)
	if err != nil {
		return response.FromAppError(c, err)
	}
	return response.Success(c, "Enquiry updated successfully", enq, nil)
}

// MarkRead POST /api/v1/enquiries/:id/read
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid enquiry id")
	}
	enq, err := h.Service.MarkRead(c.Context(), id, middleware.GetUserIdentity(c))
	if err != nil {
		return response.FromAppError(c, err)
	}
	return response.Success(c, "Enquiry marked as read", enq, nil)
}

// Archive POST /api/v1/enquiries/:id/archive
func (h *Handlers) Archive(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid enquiry id")
	}
	enq, err := h.Service.Archive(c.Context(), id, middleware.GetUserIdentity(c))
	if err != nil {
		return response.FromAppError(c, err)
	}
	return response.Success(c, "Enquiry archived successfully", enq, nil)
}

// Restore POST /api/v1/enquiries/:id/restore
func (h *Handlers) Restore(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid enquiry id")
	}
	enq, err := h.Service.Restore(c.Context(), id, middleware.GetUserIdentity(c))
	if err != nil {
		return response.FromAppError(c, err)
	}
	return response.Success(c, "Enquiry restored successfully", enq, nil)
}

// Delete DELETE /api/v1/enquiries?id=: permanent, admin-only.
func (h *Handlers) Delete(c *fiber.Ctx) error {
	idStr := c.Query("id")
	if idStr == "" {
		return response.BadRequest(c, "Missing enquiry id")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return response.BadRequest(c, "Invalid enquiry id")
	}
	if err := h.Service.HardDelete(c.Context(), id, middleware.GetUserRole(c)); err != nil {
		return response.FromAppError(c, err)
	}
	return response.Success(c, "Enquiry permanently deleted", nil, nil)
}

// Portfolio GET /api/v1/portfolio: investor self-service view of own ledger.
func (h *Handlers) Portfolio(c *fiber.Ctx) error {
	entries, err := h.Service.Portfolio(c.Context(), middleware.GetUserEmail(c))
	if err != nil {
		return response.FromAppError(c, err)
	}
	return response.Success(c, "Portfolio fetched successfully", entries, nil)
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

// listParamsFromQuery replays the query through the list state transitions:
// filter first (resets offset, clears search), then search, page size and
// offset, so a request is interpreted under the same rules every client view
// follows. The page size defaults to the caller's persisted preference.
func (h *Handlers) listParamsFromQuery(c *fiber.Ctx) ListParams {
	state := pagination.NewListState(h.preferredPageSize(c))

	status := c.Query("status")
	if status != "" {
		state = state.SetFilter(status)
	}
	if term := c.Query("search"); term != "" {
		state = state.SetSearch(term)
	}
	if pageSize, err := strconv.Atoi(c.Query("page_size")); err == nil && pageSize > 0 {
		state = state.SetPageSize(pageSize)
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil {
		state = state.SetOffset(offset)
	}

	return ListParams{
		Status:   status,
		Category: c.Query("category"),
		Search:   state.Search,
		Archived: c.QueryBool("archived", false),
		PageSize: state.PageSize,
		Offset:   state.Offset,
	}
}

func (h *Handlers) preferredPageSize(c *fiber.Ctx) int {
	if h.Prefs == nil {
		return pagination.DefaultPageSize
	}
	return h.Prefs.PageSize(c.Context(), middleware.GetUserID(c))
}
