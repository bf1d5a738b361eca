package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// versionAliases maps shorthand API version values to their canonical form.
var versionAliases = map[string]string{
	"1":   "1.0.0",
	"1.0": "1.0.0",
}

// VersionMiddleware resolves the X-Api-Version header and stores the
// canonical version in the request context for handlers and audit logs.
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", "1.0.0")

		if canonical, ok := versionAliases[version]; ok {
			version = canonical
		}

		c.Locals("apiVersion", version)

		return c.Next()
	}
}
