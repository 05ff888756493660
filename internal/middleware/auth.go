package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/harborlight/foundation-backend/internal/dto"
	"github.com/harborlight/foundation-backend/internal/models"
)

const authLocalKey = "auth"

// AuthContext is the typed per-request identity injected by the guards.
// Handlers read it via GetAuth instead of touching the session directly.
type AuthContext struct {
	UserID   uuid.UUID
	Username string
	Role     models.Role
}

// GetAuth returns the AuthContext set by RequireAuth/RequireRole.
func GetAuth(c *fiber.Ctx) (*AuthContext, bool) {
	auth, ok := c.Locals(authLocalKey).(*AuthContext)
	return auth, ok
}

// RequireAuth admits any authenticated user, regardless of role.
func RequireAuth(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth, err := loadAuth(c, store)
		if err != nil {
			return unauthorized(c)
		}
		c.Locals(authLocalKey, auth)
		return c.Next()
	}
}

// RequireRole admits sessions whose role snapshot ranks at or above min.
// Missing session yields 401, insufficient rank 403.
func RequireRole(store *session.Store, min models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth, err := loadAuth(c, store)
		if err != nil {
			return unauthorized(c)
		}
		if !auth.Role.AtLeast(min) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: roleMessage(min),
			})
		}
		c.Locals(authLocalKey, auth)
		return c.Next()
	}
}

// RequireStaff admits staff, admin and super_admin.
func RequireStaff(store *session.Store) fiber.Handler {
	return RequireRole(store, models.RoleStaff)
}

// RequireAdminOrStaff is an alias of RequireStaff kept so route declarations
// read the same as the authorization contract they implement.
func RequireAdminOrStaff(store *session.Store) fiber.Handler {
	return RequireRole(store, models.RoleStaff)
}

// RequireAdmin admits admin and super_admin only.
func RequireAdmin(store *session.Store) fiber.Handler {
	return RequireRole(store, models.RoleAdmin)
}

// RequireSuperAdmin admits super_admin only.
func RequireSuperAdmin(store *session.Store) fiber.Handler {
	return RequireRole(store, models.RoleSuperAdmin)
}

func loadAuth(c *fiber.Ctx, store *session.Store) (*AuthContext, error) {
	sess, err := store.Get(c)
	if err != nil {
		return nil, err
	}

	rawID, _ := sess.Get(sessionKeyUserID).(string)
	if rawID == "" {
		return nil, fiber.ErrUnauthorized
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, err
	}

	username, _ := sess.Get(sessionKeyUsername).(string)
	rawRole, _ := sess.Get(sessionKeyRole).(string)
	role, err := models.ParseRole(rawRole)
	if err != nil {
		return nil, err
	}

	return &AuthContext{UserID: userID, Username: username, Role: role}, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Authentication required",
	})
}

func roleMessage(min models.Role) string {
	switch {
	case min.AtLeast(models.RoleSuperAdmin):
		return "Super admin privileges required"
	case min.AtLeast(models.RoleAdmin):
		return "Admin privileges required"
	case min.AtLeast(models.RoleStaff):
		return "Staff privileges required"
	default:
		return "Insufficient privileges"
	}
}
