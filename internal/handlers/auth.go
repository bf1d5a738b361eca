package handlers

import (
	"github.com/garrisonhq/garrison/internal/config"
	"github.com/garrisonhq/garrison/internal/middleware"
	"github.com/garrisonhq/garrison/internal/services"
	"github.com/garrisonhq/garrison/internal/types"
	"github.com/garrisonhq/garrison/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthHandler handles registration, login, and identity echo routes
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

type registerRequest struct {
	Username string            `json:"username"`
	Password string            `json:"password"`
	Role     string            `json:"role"`
	BaseID   *types.FlexUint64 `json:"baseId"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register
// @Summary Register a user
// @Description Create an account with a role and optional home base
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body registerRequest true "Account details"
// @Success 201 {object} utils.MessageResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
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
		return serviceError(c, err, "auth.register")
	}

	return utils.MessageResponse(c, fiber.StatusCreated, "User registered successfully")
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Verify credentials and issue a signed bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} services.LoginResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid input")
	}

	result, err := services.Login(h.DB, h.Cfg, body.Username, body.Password)
	if err != nil {
		return serviceError(c, err, "auth.login")
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// Me handles GET /api/auth/me
// @Summary Echo the resolved caller identity
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": identity})
}
