// reporting.go
//
// Read-only aggregation over the ledger and its movement logs. No mutation;
// every call reflects store state at read time.

package services

import (
	"github.com/garrisonhq/garrison/internal/models"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// DashboardMetrics is the admin balance summary.
type DashboardMetrics struct {
	OpeningBalance int64 `json:"openingBalance"`
	ClosingBalance int64 `json:"closingBalance"`
	NetMovement    int64 `json:"netMovement"`
	Assigned       int64 `json:"assigned"`
	Expended       int64 `json:"expended"`
}

// BaseAssetCount is one row of the assets-by-base breakdown.
type BaseAssetCount struct {
	BaseID     uint64 `json:"baseId"`
	BaseName   string `json:"baseName"`
	AssetCount int64  `json:"assetCount"`
}

// TypeAssetCount is one row of the assets-by-type breakdown.
type TypeAssetCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// RecentActivity is the dashboard feed: the five most recent rows of each kind.
type RecentActivity struct {
	Assets       []models.Asset       `json:"assets"`
	Purchases    []models.Purchase    `json:"purchases"`
	Transfers    []models.Transfer    `json:"transfers"`
	Assignments  []models.Assignment  `json:"assignments"`
	Expenditures []models.Expenditure `json:"expenditures"`
}

// capped bounds aggregate query time on MySQL; other dialects run unhinted.
func capped(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "mysql" {
		return db.Clauses(hints.New("MAX_EXECUTION_TIME(5000)"))
	}
	return db
}

func sumQuantity(db *gorm.DB, model interface{}) (int64, error) {
	var total int64
	err := capped(db).Model(model).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

// GetDashboardMetrics computes the balance summary. Transfers move quantity
// between bases without changing the system total, so the net-movement figure
// counts the transfer sum on both sides.
func GetDashboardMetrics(db *gorm.DB) (*DashboardMetrics, error) {
	assetTotal, err := sumQuantity(db, &models.Asset{})
	if err != nil {
		return nil, err
	}
	purchased, err := sumQuantity(db, &models.Purchase{})
	if err != nil {
		return nil, err
	}
	transferred, err := sumQuantity(db, &models.Transfer{})
	if err != nil {
		return nil, err
	}
	assigned, err := sumQuantity(db, &models.Assignment{})
	if err != nil {
		return nil, err
	}
	expended, err := sumQuantity(db, &models.Expenditure{})
	if err != nil {
		return nil, err
	}

	transferredIn, transferredOut := transferred, transferred

	return &DashboardMetrics{
		OpeningBalance: assetTotal + expended,
		ClosingBalance: assetTotal,
		NetMovement:    purchased + transferredIn - transferredOut,
		Assigned:       assigned,
		Expended:       expended,
	}, nil
}

// CountAssets returns the number of asset rows.
func CountAssets(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.Asset{}).Count(&count).Error
	return count, err
}

// GetAssetsByBase returns asset row counts grouped by base, joined against
// base names.
func GetAssetsByBase(db *gorm.DB) ([]BaseAssetCount, error) {
	var rows []BaseAssetCount
	err := capped(db).Model(&models.Asset{}).
		Select("assets.base_id AS base_id, bases.name AS base_name, COUNT(*) AS asset_count").
		Joins("JOIN bases ON bases.id = assets.base_id").
		Group("assets.base_id, bases.name").
		Order("assets.base_id").
		Scan(&rows).Error
	return rows, err
}

// GetAssetsByType returns asset row counts grouped by type.
func GetAssetsByType(db *gorm.DB) ([]TypeAssetCount, error) {
	var rows []TypeAssetCount
	err := capped(db).Model(&models.Asset{}).
		Select("type, COUNT(*) AS count").
		Group("type").
		Order("type").
		Scan(&rows).Error
	return rows, err
}

// GetRecentActivity returns the five most recent rows of each record kind.
func GetRecentActivity(db *gorm.DB) (*RecentActivity, error) {
	activity := &RecentActivity{}

	if err := db.Order("created_at DESC, id DESC").Limit(5).Find(&activity.Assets).Error; err != nil {
		return nil, err
	}
	if err := db.Order("created_at DESC, id DESC").Limit(5).Find(&activity.Purchases).Error; err != nil {
		return nil, err
	}
	if err := db.Order("created_at DESC, id DESC").Limit(5).Find(&activity.Transfers).Error; err != nil {
		return nil, err
	}
	if err := db.Order("created_at DESC, id DESC").Limit(5).Find(&activity.Assignments).Error; err != nil {
		return nil, err
	}
	if err := db.Order("recorded_at DESC, id DESC").Limit(5).Find(&activity.Expenditures).Error; err != nil {
		return nil, err
	}

	return activity, nil
}
