package middleware

import (
	"encoding/json"
	"log"

	"github.com/garrisonhq/garrison/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog records mutating API requests to the api_logs table: method, path,
// response status, caller, and the JSON request body. Recording is a
// diagnostic side effect; a failed insert never fails the request.
func AuditLog(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			// Errored requests are shaped by the global error handler; the
			// response status is not final here, so they are not recorded.
			return err
		}

		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete:
		default:
			return nil
		}

		entry := models.APILog{
			Method: c.Method(),
			Path:   c.Path(),
			Status: c.Response().StatusCode(),
		}

		if identity := GetIdentity(c); identity != nil {
			userID := identity.UserID
			entry.UserID = &userID
		}

		if body := c.Body(); len(body) > 0 && json.Valid(body) {
			entry.Payload = models.JSON{JSON: datatypes.JSON(append([]byte(nil), body...))}
		}

		if dbErr := db.Create(&entry).Error; dbErr != nil {
			log.Printf("audit log write failed: %v", dbErr)
		}

		return nil
	}
}
