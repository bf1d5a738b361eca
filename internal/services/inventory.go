package services

import (
	"fmt"
	"time"

	"github.com/garrisonhq/garrison/internal/models"
	"gorm.io/gorm"
)

// AssetInput is the request payload for creating or replacing an asset row.
type AssetInput struct {
	Name         string
	Type         string
	Quantity     int64
	PurchaseDate time.Time
	BaseID       uint64
}

func (in AssetInput) validate() error {
	if in.Name == "" || in.Type == "" || in.BaseID == 0 {
		return ErrValidation
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	return nil
}

// ListAssets returns assets, restricted to one base when baseID is non-nil.
func ListAssets(db *gorm.DB, baseID *uint64) ([]models.Asset, error) {
	var assets []models.Asset
	query := db.Order("id")
	if baseID != nil {
		query = query.Where("base_id = ?", *baseID)
	}
	err := query.Find(&assets).Error
	return assets, err
}

// CreateAsset creates an asset row directly, without a purchase log entry.
func CreateAsset(db *gorm.DB, input AssetInput) (*models.Asset, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	asset := models.Asset{
		Name:         input.Name,
		Type:         input.Type,
		Quantity:     input.Quantity,
		PurchaseDate: input.PurchaseDate,
		BaseID:       input.BaseID,
	}
	if err := db.Create(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// UpdateAsset replaces an asset's fields.
func UpdateAsset(db *gorm.DB, assetID uint64, input AssetInput) (*models.Asset, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var asset models.Asset
	if err := db.First(&asset, assetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("asset %d: %w", assetID, ErrNotFound)
		}
		return nil, err
	}

	asset.Name = input.Name
	asset.Type = input.Type
	asset.Quantity = input.Quantity
	asset.PurchaseDate = input.PurchaseDate
	asset.BaseID = input.BaseID
	if err := db.Save(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// DeleteAsset removes an asset row.
func DeleteAsset(db *gorm.DB, assetID uint64) error {
	result := db.Delete(&models.Asset{}, assetID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("asset %d: %w", assetID, ErrNotFound)
	}
	return nil
}
