package handlers

import (
	"github.com/garrisonhq/garrison/internal/config"
	"github.com/garrisonhq/garrison/internal/services"
	"github.com/garrisonhq/garrison/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserHandler handles the admin user-management routes
type UserHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// List handles GET /api/users
// @Summary List every account
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := services.ListUsers(h.DB)
	if err != nil {
		return serviceError(c, err, "users.list")
	}

	return c.Status(fiber.StatusOK).JSON(users)
}

// RegisterUser handles POST /api/users/register
// @Summary Create an account on behalf of another user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body registerRequest true "Account details"
// @Success 201 {object} utils.MessageResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /users/register [post]
func (h *UserHandler) RegisterUser(c *fiber.Ctx) error {
	var body registerRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid input")
	}

	input := services.RegisterInput{
		Username: body.Username,
		Password: body.Password,
		Role:     body.Role,
	}
	if body.BaseID != nil {
		baseID := body.BaseID.Uint64()
		input.BaseID = &baseID
	}

	if _, err := services.Register(h.DB, h.Cfg, input); err != nil {
		return serviceError(c, err, "users.register")
	}

	return utils.MessageResponse(c, fiber.StatusCreated, "User registered successfully")
}
