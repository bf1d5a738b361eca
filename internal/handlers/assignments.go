package handlers

import (
	"github.com/garrisonhq/garrison/internal/middleware"
	"github.com/garrisonhq/garrison/internal/models"
	"github.com/garrisonhq/garrison/internal/services"
	"github.com/garrisonhq/garrison/internal/types"
	"github.com/garrisonhq/garrison/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AssignmentHandler handles personnel assignment routes
type AssignmentHandler struct {
	DB *gorm.DB
}

type assignmentRequest struct {
	AssetID  types.FlexUint64 `json:"assetId"`
	BaseID   types.FlexUint64 `json:"baseId"`
	Assignee string           `json:"assignee"`
	Quantity types.FlexUint64 `json:"quantity"`
}

type assignmentUpdateRequest struct {
	Assignee string           `json:"assignee"`
	Quantity types.FlexUint64 `json:"quantity"`
}

// List handles GET /api/assignments
// @Summary List assignments
// @Description List assignments; BASE_COMMANDER sees only their own base
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Assignment
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	var scope *uint64
	if identity.Role == models.RoleBaseCommander {
		scope = identity.BaseID
	}

	assignments, err := services.ListAssignments(h.DB, scope)
	if err != nil {
		return serviceError(c, err, "assignments.list")
	}

	return c.Status(fiber.StatusOK).JSON(assignments)
}

// Create handles POST /api/assignments
// @Summary Assign asset quantity to a person
// @Description Creates the assignment and deducts the quantity from the asset in one transaction
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body assignmentRequest true "Assignment details"
// @Success 201 {object} models.Assignment
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *fiber.Ctx) error {
	var body assignmentRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid input")
	}

	assignment, err := services.CreateAssignment(h.DB, services.AssignmentInput{
		AssetID:  body.AssetID.Uint64(),
		BaseID:   body.BaseID.Uint64(),
		Assignee: body.Assignee,
		Quantity: body.Quantity.Int64(),
	})
	if err != nil {
		return serviceError(c, err, "assignments.create")
	}

	return c.Status(fiber.StatusCreated).JSON(assignment)
}

// Update handles PUT /api/assignments/:id
// @Summary Update an assignment
// @Description Re-derives the asset quantity delta from the new assignment quantity
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param body body assignmentUpdateRequest true "New assignee and/or quantity"
// @Success 200 {object} models.Assignment
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /assignments/{id} [put]
func (h *AssignmentHandler) Update(c *fiber.Ctx) error {
	assignmentID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ValidationErrorResponse(c, err.Error())
	}

	var body assignmentUpdateRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid input")
	}

	assignment, err := services.UpdateAssignment(h.DB, assignmentID, body.Assignee, body.Quantity.Int64())
	if err != nil {
		return serviceError(c, err, "assignments.update")
	}

	return c.Status(fiber.StatusOK).JSON(assignment)
}
