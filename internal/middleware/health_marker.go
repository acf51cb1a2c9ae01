package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Redis traffic counters, keyed per concern like the prefs keyspace.
// Exported for the health handlers (collect, reset, error log).
const (
	statsKeyPrefix = "stats:api:"

	KeyReqTotal  = statsKeyPrefix + "req_total"
	KeyReqErrors = statsKeyPrefix + "req_errors"
	KeyResTime   = statsKeyPrefix + "res_time_total"
	KeyResCount  = statsKeyPrefix + "res_count"
	KeyStartTime = statsKeyPrefix + "start_time"
	KeyLastReq   = statsKeyPrefix + "last_request"
	KeyErrorLog  = statsKeyPrefix + "error_log"
)

// errorLogCap bounds the retained 5xx entries.
const errorLogCap = 50

// HealthMarker records request stats in Redis (skip /, /health*, favicon).
// Responses with a 5xx status are additionally pushed onto a capped error log
// consumed by the health errors endpoint.
func HealthMarker(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/" || strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/favicon") {
			return c.Next()
		}

		start := time.Now()
		lastReq := map[string]interface{}{
			"time":   time.Now(),
			"ip":     c.IP(),
			"path":   c.OriginalURL(),
			"method": c.Method(),
		}
		b, _ := json.Marshal(lastReq)
		ctx := context.Background()
		_, _ = rdb.Set(ctx, KeyLastReq, b, 0).Result()
		_, _ = rdb.Incr(ctx, KeyReqTotal).Result()

		err := c.Next()

		ms := time.Since(start).Milliseconds()
		_, _ = rdb.Incr(ctx, KeyResCount).Result()
		_, _ = rdb.IncrByFloat(ctx, KeyResTime, float64(ms)).Result()
		if status := c.Response().StatusCode(); status >= 500 {
			_, _ = rdb.Incr(ctx, KeyReqErrors).Result()
			entry, _ := json.Marshal(map[string]interface{}{
				"time":   time.Now(),
				"path":   c.OriginalURL(),
				"method": c.Method(),
				"status": status,
			})
			_, _ = rdb.LPush(ctx, KeyErrorLog, entry).Result()
			_, _ = rdb.LTrim(ctx, KeyErrorLog, 0, errorLogCap-1).Result()
		}
		return err
	}
}
