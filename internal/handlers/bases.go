package handlers

import (
	"github.com/garrisonhq/garrison/internal/middleware"
	"github.com/garrisonhq/garrison/internal/models"
	"github.com/garrisonhq/garrison/internal/services"
	"github.com/garrisonhq/garrison/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BaseHandler handles base CRUD routes
type BaseHandler struct {
	DB *gorm.DB
}

type baseRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// List handles GET /api/bases
// @Summary List bases
// @Description List bases; BASE_COMMANDER sees only their own base
// @Tags Bases
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Base
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /bases [get]
func (h *BaseHandler) List(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	if identity.Role == models.RoleBaseCommander {
		if identity.BaseID == nil {
			return utils.NotFoundResponse(c, "Base not found for this commander")
		}
		base, err := services.GetBase(h.DB, *identity.BaseID)
		if err != nil {
			return serviceError(c, err, "bases.list")
		}
		// Returned as a single-element array for frontend compatibility.
		return c.Status(fiber.StatusOK).JSON([]models.Base{*base})
	}

	bases, err := services.ListBases(h.DB)
	if err != nil {
		return serviceError(c, err, "bases.list")
	}

	return c.Status(fiber.StatusOK).JSON(bases)
}

// Create handles POST /api/bases
// @Summary Create a base
// @Tags Bases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body baseRequest true "Base details"
// @Success 201 {object} models.Base
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /bases [post]
func (h *BaseHandler) Create(c *fiber.Ctx) error {
	var body baseRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid input")
	}
	if body.Name == "" || body.Location == "" {
		return utils.ValidationErrorResponse(c, "Name and location are required")
	}

	base, err := services.CreateBase(h.DB, body.Name, body.Location)
	if err != nil {
		return serviceError(c, err, "bases.create")
	}

	return c.Status(fiber.StatusCreated).JSON(base)
}

// Update handles PUT /api/bases/:id
// @Summary Update a base
// @Tags Bases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Base ID"
// @Param body body baseRequest true "Base details"
// @Success 200 {object} models.Base
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /bases/{id} [put]
func (h *BaseHandler) Update(c *fiber.Ctx) error {
	baseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ValidationErrorResponse(c, err.Error())
	}

	var body baseRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid input")
	}
	if body.Name == "" || body.Location == "" {
		return utils.ValidationErrorResponse(c, "Name and location are required")
	}

	base, err := services.UpdateBase(h.DB, baseID, body.Name, body.Location)
	if err != nil {
		return serviceError(c, err, "bases.update")
	}

	return c.Status(fiber.StatusOK).JSON(base)
}

// Delete handles DELETE /api/bases/:id
// @Summary Delete a base and everything it owns
// @Description Removes the base's transfers, assignments, expenditures, purchases, and assets in one transaction, then the base itself
// @Tags Bases
// @Produce json
// @Security BearerAuth
// @Param id path int true "Base ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /bases/{id} [delete]
func (h *BaseHandler) Delete(c *fiber.Ctx) error {
	baseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ValidationErrorResponse(c, err.Error())
	}

	if err := services.DeleteBase(h.DB, baseID); err != nil {
		return serviceError(c, err, "bases.delete")
	}

	return utils.MessageResponse(c, fiber.StatusOK, "Base and related data deleted successfully")
}
