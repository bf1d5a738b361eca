package helpers

import (
	"testing"
	"time"

	"github.com/garrisonhq/garrison/internal/models"
	"gorm.io/gorm"
)

// CreateTestBase creates a base fixture
func CreateTestBase(t *testing.T, db *gorm.DB, name, location string) *models.Base {
	t.Helper()
	base := models.Base{
		Name:     name,
		Location: location,
	}
	if err := db.Create(&base).Error; err != nil {
		t.Fatalf("Failed to create base: %v", err)
	}
	return &base
}

// CreateTestAsset creates an asset fixture with the given on-hand quantity
func CreateTestAsset(t *testing.T, db *gorm.DB, name, assetType string, quantity int64, baseID uint64) *models.Asset {
	t.Helper()
	asset := models.Asset{
		Name:         name,
		Type:         assetType,
		Quantity:     quantity,
		PurchaseDate: time.Now(),
		BaseID:       baseID,
	}
	if err := db.Create(&asset).Error; err != nil {
		t.Fatalf("Failed to create asset: %v", err)
	}
	return &asset
}

// CreateTestUser creates a user fixture with a pre-hashed password
func CreateTestUser(t *testing.T, db *gorm.DB, username, passwordHash, role string, baseID *uint64) *models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Password: passwordHash,
		Role:     role,
		BaseID:   baseID,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return &user
}
