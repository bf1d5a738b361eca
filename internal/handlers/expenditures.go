package handlers

import (
	"github.com/garrisonhq/garrison/internal/config"
	"github.com/garrisonhq/garrison/internal/middleware"
	"github.com/garrisonhq/garrison/internal/models"
	"github.com/garrisonhq/garrison/internal/services"
	"github.com/garrisonhq/garrison/internal/types"
	"github.com/garrisonhq/garrison/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ExpenditureHandler handles expenditure routes
type ExpenditureHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

type expenditureRequest struct {
	AssetID  types.FlexUint64 `json:"assetId"`
	BaseID   types.FlexUint64 `json:"baseId"`
	Quantity types.FlexUint64 `json:"quantity"`
	Reason   string           `json:"reason"`
}

// List handles GET /api/expenditures
// @Summary List expenditures
// @Description List expenditures newest first; non-ADMIN callers see only their own base
// @Tags Expenditures
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Expenditure
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /expenditures [get]
func (h *ExpenditureHandler) List(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	var scope *uint64
	if identity.Role != models.RoleAdmin {
		scope = identity.BaseID
	}

	expenditures, err := services.ListExpenditures(h.DB, scope)
	if err != nil {
		return serviceError(c, err, "expenditures.list")
	}

	return c.Status(fiber.StatusOK).JSON(expenditures)
}

// Create handles POST /api/expenditures
// @Summary Record an expenditure
// @Description Records consumed quantity; non-ADMIN callers are pinned to their own base
// @Tags Expenditures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body expenditureRequest true "Expenditure details"
// @Success 201 {object} models.Expenditure
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /expenditures [post]
func (h *ExpenditureHandler) Create(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	var body expenditureRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid input")
	}

	baseID := body.BaseID.Uint64()
	if identity.Role != models.RoleAdmin {
		if identity.BaseID == nil {
			return utils.ValidationErrorResponse(c, "Caller has no home base")
		}
		baseID = *identity.BaseID
	}

	expenditure, err := services.CreateExpenditure(h.DB, services.ExpenditureInput{
		AssetID:  body.AssetID.Uint64(),
		BaseID:   baseID,
		Quantity: body.Quantity.Int64(),
		Reason:   body.Reason,
	}, h.Cfg.ExpenditureDeductsStock)
	if err != nil {
		return serviceError(c, err, "expenditures.create")
	}

	return c.Status(fiber.StatusCreated).JSON(expenditure)
}
