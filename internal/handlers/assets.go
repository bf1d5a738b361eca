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

// AssetHandler handles asset CRUD routes
type AssetHandler struct {
	DB *gorm.DB
}

type assetRequest struct {
	Name         string           `json:"name"`
	Type         string           `json:"type"`
	Quantity     types.FlexUint64 `json:"quantity"`
	PurchaseDate string           `json:"purchaseDate"`
	BaseID       types.FlexUint64 `json:"baseId"`
}

func (r assetRequest) toInput() (services.AssetInput, error) {
	date, err := parseDate(r.PurchaseDate)
	if err != nil {
		return services.AssetInput{}, err
	}
	return services.AssetInput{
		Name:         r.Name,
		Type:         r.Type,
		Quantity:     r.Quantity.Int64(),
		PurchaseDate: date,
		BaseID:       r.BaseID.Uint64(),
	}, nil
}

// List handles GET /api/assets
// @Summary List assets
// @Description List assets; BASE_COMMANDER sees only assets at their own base
// @Tags Assets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Asset
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /assets [get]
func (h *AssetHandler) List(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	var scope *uint64
	if identity.Role == models.RoleBaseCommander {
		scope = identity.BaseID
	}

	assets, err := services.ListAssets(h.DB, scope)
	if err != nil {
		return serviceError(c, err, "assets.list")
	}

	return c.Status(fiber.StatusOK).JSON(assets)
}

// Create handles POST /api/assets
// @Summary Create an asset
// @Tags Assets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body assetRequest true "Asset details"
// @Success 201 {object} models.Asset
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /assets [post]
func (h *AssetHandler) Create(c *fiber.Ctx) error {
	var body assetRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid input")
	}

	input, err := body.toInput()
	if err != nil {
		return utils.ValidationErrorResponse(c, err.Error())
	}

	asset, err := services.CreateAsset(h.DB, input)
	if err != nil {
		return serviceError(c, err, "assets.create")
	}

	return c.Status(fiber.StatusCreated).JSON(asset)
}

// Update handles PUT /api/assets/:id
// @Summary Update an asset
// @Tags Assets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Asset ID"
// @Param body body assetRequest true "Asset details"
// @Success 200 {object} models.Asset
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /assets/{id} [put]
func (h *AssetHandler) Update(c *fiber.Ctx) error {
	assetID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ValidationErrorResponse(c, err.Error())
	}

	var body assetRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid input")
	}

	input, err := body.toInput()
	if err != nil {
		return utils.ValidationErrorResponse(c, err.Error())
	}

	asset, err := services.UpdateAsset(h.DB, assetID, input)
	if err != nil {
		return serviceError(c, err, "assets.update")
	}

	return c.Status(fiber.StatusOK).JSON(asset)
}

// Delete handles DELETE /api/assets/:id
// @Summary Delete an asset
// @Tags Assets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Asset ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /assets/{id} [delete]
func (h *AssetHandler) Delete(c *fiber.Ctx) error {
	assetID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ValidationErrorResponse(c, err.Error())
	}

	if err := services.DeleteAsset(h.DB, assetID); err != nil {
		return serviceError(c, err, "assets.delete")
	}

	return utils.MessageResponse(c, fiber.StatusOK, "Asset deleted successfully")
}
