package health

import (
	"context"

	"agrivest-backend/internal/middleware"
	"agrivest-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Handlers serves health endpoints backed by the Redis request counters.
type Handlers struct {
	Rdb            *redis.Client
	DB             DBPinger
	HealthAdminKey string
}

// JSON GET /health/json: full health payload.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := CollectHealth(c.Context(), h.Rdb, h.DB)
	return c.Status(fiber.StatusOK).JSON(result)
}

// Errors GET /health/errors: recent 5xx log entries (admin key required).
func (h *Handlers) Errors(c *fiber.Ctx) error {
	if h.HealthAdminKey != "" && c.Query("key") != h.HealthAdminKey {
		return response.Forbidden(c, "Invalid admin key")
	}
	entries := []string{}
	if h.Rdb != nil {
		entries, _ = h.Rdb.LRange(context.Background(), middleware.KeyErrorLog, 0, 49).Result()
	}
	return response.Success(c, "Error log fetched", entries, nil)
}

// Reset GET /health/reset: zero the traffic counters (admin key required).
func (h *Handlers) Reset(c *fiber.Ctx) error {
	if h.HealthAdminKey != "" && c.Query("key") != h.HealthAdminKey {
		return response.Forbidden(c, "Invalid admin key")
	}
	if h.Rdb != nil {
		ctx := context.Background()
		h.Rdb.Del(ctx,
			middleware.KeyReqTotal,
			middleware.KeyReqErrors,
			middleware.KeyResTime,
			middleware.KeyResCount,
			middleware.KeyStartTime,
			middleware.KeyLastReq,
			middleware.KeyErrorLog,
		)
	}
	return response.Success(c, "Health counters reset", nil, nil)
}
