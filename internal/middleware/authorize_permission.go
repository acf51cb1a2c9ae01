package middleware

import (
	"agrivest-backend/internal/constants"
	"agrivest-backend/internal/pkg/apperr"
	"agrivest-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthorizePermission returns a handler that checks the session user's role
// against the permission map. The same constants.AllowedRole function backs
// UI gating and service-layer re-checks, so route gating here is a convenience
// layer, not the only enforcement point.
func AuthorizePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		role := GetUserRole(c)
		if role == "" {
			return response.Error(c, string(apperr.CodeInternal), "Authorization error", fiber.StatusInternalServerError)
		}
		if roles, ok := constants.PermissionRoles[permission]; !ok || len(roles) == 0 {
			return response.Error(c, string(apperr.CodeInternal), "Permission configuration error", fiber.StatusInternalServerError)
		}
		if !constants.AllowedRole(permission, role) {
			return response.Forbidden(c, "User is forbidden from performing this action")
		}
		return c.Next()
	}
}
