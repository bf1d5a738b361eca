package models

import (
	"time"
)

// Base represents a facility that owns assets, purchases, assignments and
// expenditures, and is referenced by transfers as source or destination.
type Base struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Location  string    `gorm:"size:255;not null" json:"location"`
	CreatedAt time.Time `json:"createdAt"`
}

// Asset represents the current on-hand count of a named/typed item at one base.
// Quantity stays non-negative; the ledger service enforces sufficiency before
// every decrement.
type Asset struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"size:255;not null;index:idx_asset_base" json:"name"`
	Type         string    `gorm:"size:255;not null;index:idx_asset_base" json:"type"`
	Quantity     int64     `gorm:"not null;default:0" json:"quantity"`
	PurchaseDate time.Time `gorm:"not null" json:"purchaseDate"`
	BaseID       uint64    `gorm:"not null;index:idx_asset_base" json:"baseId"`
	Base         *Base     `gorm:"foreignKey:BaseID" json:"base,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Purchase is an append-only log entry created alongside an asset increment.
type Purchase struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	AssetID     uint64    `gorm:"not null;index" json:"assetId"`
	Asset       *Asset    `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	BaseID      uint64    `gorm:"not null;index" json:"baseId"`
	Base        *Base     `gorm:"foreignKey:BaseID" json:"base,omitempty"`
	Quantity    int64     `gorm:"not null" json:"quantity"`
	Cost        float64   `gorm:"not null" json:"cost"`
	Supplier    string    `gorm:"size:255" json:"supplier"`
	PurchasedAt time.Time `gorm:"not null" json:"purchasedAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Transfer is an append-only log entry recording quantity moved between bases.
type Transfer struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	AssetID    uint64    `gorm:"not null;index" json:"assetId"`
	Asset      *Asset    `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	FromBaseID uint64    `gorm:"not null;index" json:"fromBaseId"`
	FromBase   *Base     `gorm:"foreignKey:FromBaseID" json:"fromBase,omitempty"`
	ToBaseID   uint64    `gorm:"not null;index" json:"toBaseId"`
	ToBase     *Base     `gorm:"foreignKey:ToBaseID" json:"toBase,omitempty"`
	Quantity   int64     `gorm:"not null" json:"quantity"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Assignment represents quantity checked out to a named individual at a base.
// Unlike the log entries it is updatable; each update re-derives the asset delta.
type Assignment struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	AssetID   uint64    `gorm:"not null;index" json:"assetId"`
	Asset     *Asset    `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	BaseID    uint64    `gorm:"not null;index" json:"baseId"`
	Base      *Base     `gorm:"foreignKey:BaseID" json:"base,omitempty"`
	Assignee  string    `gorm:"size:255;not null" json:"assignee"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Expenditure is an append-only log entry for consumed or destroyed quantity.
type Expenditure struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	AssetID    uint64    `gorm:"not null;index" json:"assetId"`
	Asset      *Asset    `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	BaseID     uint64    `gorm:"not null;index" json:"baseId"`
	Base       *Base     `gorm:"foreignKey:BaseID" json:"base,omitempty"`
	Quantity   int64     `gorm:"not null" json:"quantity"`
	Reason     string    `gorm:"size:255;not null" json:"reason"`
	RecordedAt time.Time `gorm:"autoCreateTime" json:"recordedAt"`
}

// TableName overrides the table name for Base
func (Base) TableName() string {
	return "bases"
}

// TableName overrides the table name for Asset
func (Asset) TableName() string {
	return "assets"
}

// TableName overrides the table name for Purchase
func (Purchase) TableName() string {
	return "purchases"
}

// TableName overrides the table name for Transfer
func (Transfer) TableName() string {
	return "transfers"
}

// TableName overrides the table name for Assignment
func (Assignment) TableName() string {
	return "assignments"
}

// TableName overrides the table name for Expenditure
func (Expenditure) TableName() string {
	return "expenditures"
}
