package handlers

import (
	"github.com/garrisonhq/garrison/internal/services"
	"github.com/garrisonhq/garrison/internal/types"
	"github.com/garrisonhq/garrison/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TransferHandler handles inter-base transfer routes
type TransferHandler struct {
	DB *gorm.DB
}

type transferRequest struct {
	AssetID    types.FlexUint64 `json:"assetId"`
	FromBaseID types.FlexUint64 `json:"fromBaseId"`
	ToBaseID   types.FlexUint64 `json:"toBaseId"`
	Quantity   types.FlexUint64 `json:"quantity"`
}

// List handles GET /api/transfers
// @Summary List transfers
// @Tags Transfers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Transfer
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	transfers, err := services.ListTransfers(h.DB)
	if err != nil {
		return serviceError(c, err, "transfers.list")
	}

	return c.Status(fiber.StatusOK).JSON(transfers)
}

// Create handles POST /api/transfers
// @Summary Transfer asset quantity between bases
// @Description Deducts from the source asset and credits a matching asset at the destination, creating one if needed
// @Tags Transfers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body transferRequest true "Transfer details"
// @Success 201 {object} models.Transfer
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var body transferRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid input")
	}

	transfer, err := services.CreateTransfer(h.DB, services.TransferInput{
		AssetID:    body.AssetID.Uint64(),
		FromBaseID: body.FromBaseID.Uint64(),
		ToBaseID:   body.ToBaseID.Uint64(),
		Quantity:   body.Quantity.Int64(),
	})
	if err != nil {
		return serviceError(c, err, "transfers.create")
	}

	return c.Status(fiber.StatusCreated).JSON(transfer)
}
