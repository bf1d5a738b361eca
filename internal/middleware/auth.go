package middleware

import (
	"strings"

	"github.com/garrisonhq/garrison/internal/auth"
	"github.com/garrisonhq/garrison/internal/models"
	"github.com/garrisonhq/garrison/internal/types"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const identityKey = "identity"

// Identity is the resolved caller stored on the request context.
type Identity struct {
	UserID uint64  `json:"id"`
	Role   string  `json:"role"`
	BaseID *uint64 `json:"baseId"`
}

// RequireAuth validates the bearer token and resolves it to an existing user.
// The resolved identity is stored on the request for handlers and the role
// gate. Tokens for deleted users are rejected.
func RequireAuth(db *gorm.DB, secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Missing or invalid token",
				Type:    "auth.token",
			}
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims, err := auth.ValidateToken(secret, tokenStr)
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "Token invalid or expired",
				Type:    "auth.token",
			}
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			return &types.CustomError{
				Code:    fiber.StatusNotFound,
				Message: "User not found",
				Type:    "auth.user",
			}
		}

		c.Locals(identityKey, &Identity{
			UserID: user.ID,
			Role:   user.Role,
			BaseID: user.BaseID,
		})

		return c.Next()
	}
}

// RequireRoles gates a route to the given set of permitted roles. It must run
// after RequireAuth.
func RequireRoles(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		identity := GetIdentity(c)
		if identity == nil {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Not authenticated",
				Type:    "auth.role",
			}
		}

		if _, ok := allowed[identity.Role]; !ok {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "Access denied: insufficient role",
				Type:    "auth.role",
			}
		}

		return c.Next()
	}
}

// GetIdentity retrieves the resolved caller identity from the request, or nil
// on unauthenticated routes.
func GetIdentity(c *fiber.Ctx) *Identity {
	identity, _ := c.Locals(identityKey).(*Identity)
	return identity
}
