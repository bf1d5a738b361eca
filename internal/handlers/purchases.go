package handlers

import (
	"github.com/garrisonhq/garrison/internal/services"
	"github.com/garrisonhq/garrison/internal/types"
	"github.com/garrisonhq/garrison/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PurchaseHandler handles purchase routes
type PurchaseHandler struct {
	DB *gorm.DB
}

type purchaseRequest struct {
	Name         string           `json:"name"`
	Type         string           `json:"type"`
	Quantity     types.FlexUint64 `json:"quantity"`
	BaseID       types.FlexUint64 `json:"baseId"`
	Cost         float64          `json:"cost"`
	Supplier     string           `json:"supplier"`
	PurchaseDate string           `json:"purchaseDate"`
}

// List handles GET /api/purchases
// @Summary List purchases
// @Tags Purchases
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Purchase
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	purchases, err := services.ListPurchases(h.DB)
	if err != nil {
		return serviceError(c, err, "purchases.list")
	}

	return c.Status(fiber.StatusOK).JSON(purchases)
}

// Create handles POST /api/purchases
// @Summary Record a purchase
// @Description Creates a new asset holding the purchased quantity plus the purchase log entry
// @Tags Purchases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body purchaseRequest true "Purchase details"
// @Success 201 {object} models.Purchase
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var body purchaseRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid input")
	}

	date, err := parseDate(body.PurchaseDate)
	if err != nil {
		return utils.ValidationErrorResponse(c, err.Error())
	}

	purchase, err := services.CreatePurchase(h.DB, services.PurchaseInput{
		Name:         body.Name,
		Type:         body.Type,
		Quantity:     body.Quantity.Int64(),
		BaseID:       body.BaseID.Uint64(),
		Cost:         body.Cost,
		Supplier:     body.Supplier,
		PurchaseDate: date,
	})
	if err != nil {
		return serviceError(c, err, "purchases.create")
	}

	return c.Status(fiber.StatusCreated).JSON(purchase)
}
