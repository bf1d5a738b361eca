// ledger.go
//
// The inventory ledger: every operation that creates, moves, or consumes asset
// quantity. Quantity is conserved across the system except at its two entry and
// exit points, purchase and expenditure. Each multi-step operation runs inside
// a single transaction, and every decrement is a conditional update guarded by
// the current quantity, so concurrent requests cannot drive stock negative.

package services

import (
	"fmt"
	"time"

	"github.com/garrisonhq/garrison/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PurchaseInput is the request payload for recording a purchase.
type PurchaseInput struct {
	Name         string
	Type         string
	Quantity     int64
	BaseID       uint64
	Cost         float64
	Supplier     string
	PurchaseDate time.Time
}

// TransferInput is the request payload for an inter-base transfer.
type TransferInput struct {
	AssetID    uint64
	FromBaseID uint64
	ToBaseID   uint64
	Quantity   int64
}

// AssignmentInput is the request payload for checking quantity out to a person.
type AssignmentInput struct {
	AssetID  uint64
	BaseID   uint64
	Assignee string
	Quantity int64
}

// ExpenditureInput is the request payload for recording consumed quantity.
type ExpenditureInput struct {
	AssetID  uint64
	BaseID   uint64
	Quantity int64
	Reason   string
}

// lockForUpdate applies row locking on dialects that support it. SQLite
// serializes writers at the transaction level, so the clause is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// decrementAsset applies a guarded decrement to an asset's quantity. The WHERE
// condition makes the sufficiency check and the write a single atomic
// statement; zero affected rows means the stock no longer covers the amount.
func decrementAsset(tx *gorm.DB, assetID uint64, amount int64) error {
	result := tx.Model(&models.Asset{}).
		Where("id = ? AND quantity >= ?", assetID, amount).
		Update("quantity", gorm.Expr("quantity - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientQuantity
	}
	return nil
}

// CreatePurchase creates a new asset row holding the purchased quantity and the
// purchase log entry referencing it. Purchases are the ledger's only
// unconditional quantity-creation event.
func CreatePurchase(db *gorm.DB, input PurchaseInput) (*models.Purchase, error) {
	if input.Name == "" || input.Type == "" || input.BaseID == 0 {
		return nil, ErrValidation
	}
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	var purchase models.Purchase

	err := db.Transaction(func(tx *gorm.DB) error {
		var base models.Base
		if err := tx.First(&base, input.BaseID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("base %d: %w", input.BaseID, ErrNotFound)
			}
			return err
		}

		asset := models.Asset{
			Name:         input.Name,
			Type:         input.Type,
			Quantity:     input.Quantity,
			PurchaseDate: input.PurchaseDate,
			BaseID:       input.BaseID,
		}
		if err := tx.Create(&asset).Error; err != nil {
			return err
		}

		purchase = models.Purchase{
			AssetID:     asset.ID,
			BaseID:      input.BaseID,
			Quantity:    input.Quantity,
			Cost:        input.Cost,
			Supplier:    input.Supplier,
			PurchasedAt: input.PurchaseDate,
		}
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}

		purchase.Asset = &asset
		purchase.Base = &base
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &purchase, nil
}

// CreateTransfer moves quantity from the source asset to the destination base,
// incrementing a matching (name, type) asset there or creating one carrying
// forward the source's purchase date. The sum across both rows is unchanged.
func CreateTransfer(db *gorm.DB, input TransferInput) (*models.Transfer, error) {
	if input.AssetID == 0 || input.FromBaseID == 0 || input.ToBaseID == 0 {
		return nil, ErrValidation
	}
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	var transfer models.Transfer

	err := db.Transaction(func(tx *gorm.DB) error {
		var source models.Asset
		if err := lockForUpdate(tx).First(&source, input.AssetID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("asset %d: %w", input.AssetID, ErrNotFound)
			}
			return err
		}

		if err := decrementAsset(tx, source.ID, input.Quantity); err != nil {
			return err
		}

		// Find a matching asset at the destination, or create one.
		var dest models.Asset
		err := lockForUpdate(tx).
			Where("name = ? AND type = ? AND base_id = ?", source.Name, source.Type, input.ToBaseID).
			First(&dest).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			dest = models.Asset{
				Name:         source.Name,
				Type:         source.Type,
				Quantity:     input.Quantity,
				PurchaseDate: source.PurchaseDate,
				BaseID:       input.ToBaseID,
			}
			if err := tx.Create(&dest).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&dest).
				Update("quantity", gorm.Expr("quantity + ?", input.Quantity)).Error; err != nil {
				return err
			}
		}

		// The log records the requested from/to pair as submitted.
		transfer = models.Transfer{
			AssetID:    input.AssetID,
			FromBaseID: input.FromBaseID,
			ToBaseID:   input.ToBaseID,
			Quantity:   input.Quantity,
		}
		return tx.Create(&transfer).Error
	})
	if err != nil {
		return nil, err
	}

	return &transfer, nil
}

// CreateAssignment checks quantity out to a named individual, deducting it from
// the asset in the same transaction.
func CreateAssignment(db *gorm.DB, input AssignmentInput) (*models.Assignment, error) {
	if input.AssetID == 0 || input.BaseID == 0 || input.Assignee == "" {
		return nil, ErrValidation
	}
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	var assignment models.Assignment

	err := db.Transaction(func(tx *gorm.DB) error {
		var asset models.Asset
		if err := lockForUpdate(tx).First(&asset, input.AssetID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("asset %d: %w", input.AssetID, ErrNotFound)
			}
			return err
		}

		if err := decrementAsset(tx, asset.ID, input.Quantity); err != nil {
			return err
		}

		assignment = models.Assignment{
			AssetID:  input.AssetID,
			BaseID:   input.BaseID,
			Assignee: input.Assignee,
			Quantity: input.Quantity,
		}
		return tx.Create(&assignment).Error
	})
	if err != nil {
		return nil, err
	}

	return &assignment, nil
}

// UpdateAssignment changes an assignment's assignee and/or quantity, applying
// the quantity delta to the underlying asset. A positive delta checks more
// stock out and must be covered by the asset's current quantity; a negative
// delta returns stock.
func UpdateAssignment(db *gorm.DB, assignmentID uint64, assignee string, quantity int64) (*models.Assignment, error) {
	if assignmentID == 0 {
		return nil, ErrValidation
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	var assignment models.Assignment

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&assignment, assignmentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("assignment %d: %w", assignmentID, ErrNotFound)
			}
			return err
		}

		var asset models.Asset
		if err := lockForUpdate(tx).First(&asset, assignment.AssetID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("asset %d: %w", assignment.AssetID, ErrNotFound)
			}
			return err
		}

		delta := quantity - assignment.Quantity
		if delta > 0 {
			if err := decrementAsset(tx, asset.ID, delta); err != nil {
				return err
			}
		} else if delta < 0 {
			if err := tx.Model(&asset).
				Update("quantity", gorm.Expr("quantity + ?", -delta)).Error; err != nil {
				return err
			}
		}

		updates := map[string]interface{}{"quantity": quantity}
		if assignee != "" {
			updates["assignee"] = assignee
		}
		if err := tx.Model(&assignment).Updates(updates).Error; err != nil {
			return err
		}

		assignment.Quantity = quantity
		if assignee != "" {
			assignment.Assignee = assignee
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &assignment, nil
}

// CreateExpenditure records consumed or destroyed quantity. When deductStock
// is set the asset's quantity is reduced in the same transaction; otherwise
// only the log entry is written, reproducing the legacy system's behavior.
func CreateExpenditure(db *gorm.DB, input ExpenditureInput, deductStock bool) (*models.Expenditure, error) {
	if input.AssetID == 0 || input.BaseID == 0 || input.Reason == "" {
		return nil, ErrValidation
	}
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	var expenditure models.Expenditure

	err := db.Transaction(func(tx *gorm.DB) error {
		var asset models.Asset
		if err := lockForUpdate(tx).First(&asset, input.AssetID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("asset %d: %w", input.AssetID, ErrNotFound)
			}
			return err
		}

		if deductStock {
			if err := decrementAsset(tx, asset.ID, input.Quantity); err != nil {
				return err
			}
		}

		expenditure = models.Expenditure{
			AssetID:  input.AssetID,
			BaseID:   input.BaseID,
			Quantity: input.Quantity,
			Reason:   input.Reason,
		}
		return tx.Create(&expenditure).Error
	})
	if err != nil {
		return nil, err
	}

	return &expenditure, nil
}

// ListPurchases returns all purchase log entries with their asset and base.
func ListPurchases(db *gorm.DB) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := db.Preload("Asset").Preload("Base").Order("id").Find(&purchases).Error
	return purchases, err
}

// ListTransfers returns all transfer log entries with their asset and both bases.
func ListTransfers(db *gorm.DB) ([]models.Transfer, error) {
	var transfers []models.Transfer
	err := db.Preload("Asset").Preload("FromBase").Preload("ToBase").Order("id").Find(&transfers).Error
	return transfers, err
}

// ListAssignments returns assignments, restricted to one base when baseID is
// non-nil.
func ListAssignments(db *gorm.DB, baseID *uint64) ([]models.Assignment, error) {
	var assignments []models.Assignment
	query := db.Preload("Asset").Preload("Base").Order("id")
	if baseID != nil {
		query = query.Where("base_id = ?", *baseID)
	}
	err := query.Find(&assignments).Error
	return assignments, err
}

// ListExpenditures returns expenditures newest first, restricted to one base
// when baseID is non-nil.
func ListExpenditures(db *gorm.DB, baseID *uint64) ([]models.Expenditure, error) {
	var expenditures []models.Expenditure
	query := db.Preload("Asset").Preload("Base").Order("recorded_at DESC")
	if baseID != nil {
		query = query.Where("base_id = ?", *baseID)
	}
	err := query.Find(&expenditures).Error
	return expenditures, err
}
