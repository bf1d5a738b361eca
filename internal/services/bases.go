package services

import (
	"fmt"

	"github.com/garrisonhq/garrison/internal/models"
	"gorm.io/gorm"
)

// ListBases returns all bases.
func ListBases(db *gorm.DB) ([]models.Base, error) {
	var bases []models.Base
	err := db.Order("id").Find(&bases).Error
	return bases, err
}

// GetBase returns one base by id.
func GetBase(db *gorm.DB, baseID uint64) (*models.Base, error) {
	var base models.Base
	if err := db.First(&base, baseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("base %d: %w", baseID, ErrNotFound)
		}
		return nil, err
	}
	return &base, nil
}

// CreateBase creates a base.
func CreateBase(db *gorm.DB, name, location string) (*models.Base, error) {
	if name == "" || location == "" {
		return nil, ErrValidation
	}

	base := models.Base{Name: name, Location: location}
	if err := db.Create(&base).Error; err != nil {
		return nil, err
	}
	return &base, nil
}

// UpdateBase replaces a base's name and location.
func UpdateBase(db *gorm.DB, baseID uint64, name, location string) (*models.Base, error) {
	if name == "" || location == "" {
		return nil, ErrValidation
	}

	var base models.Base
	if err := db.First(&base, baseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("base %d: %w", baseID, ErrNotFound)
		}
		return nil, err
	}

	base.Name = name
	base.Location = location
	if err := db.Save(&base).Error; err != nil {
		return nil, err
	}
	return &base, nil
}

// DeleteBase removes a base and every record referencing it in one
// transaction. Children go first so foreign keys stay satisfied: transfers
// (either direction), assignments, expenditures, purchases, assets, then the
// base row itself.
func DeleteBase(db *gorm.DB, baseID uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var base models.Base
		if err := tx.First(&base, baseID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("base %d: %w", baseID, ErrNotFound)
			}
			return err
		}

		if err := tx.Where("from_base_id = ? OR to_base_id = ?", baseID, baseID).
			Delete(&models.Transfer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("base_id = ?", baseID).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("base_id = ?", baseID).Delete(&models.Expenditure{}).Error; err != nil {
			return err
		}
		if err := tx.Where("base_id = ?", baseID).Delete(&models.Purchase{}).Error; err != nil {
			return err
		}
		if err := tx.Where("base_id = ?", baseID).Delete(&models.Asset{}).Error; err != nil {
			return err
		}

		return tx.Delete(&base).Error
	})
}
