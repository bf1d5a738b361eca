package services_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/garrisonhq/garrison/internal/models"
	"github.com/garrisonhq/garrison/internal/services"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing. A single open
// connection keeps every query on the same in-memory instance.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Base{},
		&models.User{},
		&models.Asset{},
		&models.Purchase{},
		&models.Transfer{},
		&models.Assignment{},
		&models.Expenditure{},
		&models.APILog{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func createBase(t *testing.T, db *gorm.DB, name string) *models.Base {
	t.Helper()
	base := models.Base{Name: name, Location: name + " Region"}
	if err := db.Create(&base).Error; err != nil {
		t.Fatalf("Failed to create base: %v", err)
	}
	return &base
}

func createAsset(t *testing.T, db *gorm.DB, name string, quantity int64, baseID uint64) *models.Asset {
	t.Helper()
	asset := models.Asset{
		Name:         name,
		Type:         "Weapon",
		Quantity:     quantity,
		PurchaseDate: time.Now().UTC().Truncate(time.Second),
		BaseID:       baseID,
	}
	if err := db.Create(&asset).Error; err != nil {
		t.Fatalf("Failed to create asset: %v", err)
	}
	return &asset
}

func assetQuantity(t *testing.T, db *gorm.DB, assetID uint64) int64 {
	t.Helper()
	var asset models.Asset
	if err := db.First(&asset, assetID).Error; err != nil {
		t.Fatalf("Failed to reload asset %d: %v", assetID, err)
	}
	return asset.Quantity
}

// TestCreatePurchase verifies a purchase creates both an asset row and a log entry
func TestCreatePurchase(t *testing.T) {
	db := setupTestDB(t)
	base := createBase(t, db, "Base Alpha")

	purchase, err := services.CreatePurchase(db, services.PurchaseInput{
		Name:         "Rifle",
		Type:         "Weapon",
		Quantity:     100,
		BaseID:       base.ID,
		Cost:         50000,
		Supplier:     "Armory Inc",
		PurchaseDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("Failed to create purchase: %v", err)
	}

	if purchase.Quantity != 100 {
		t.Errorf("Expected purchase quantity 100, got %d", purchase.Quantity)
	}
	if purchase.AssetID == 0 {
		t.Fatal("Expected purchase to reference a created asset")
	}

	if got := assetQuantity(t, db, purchase.AssetID); got != 100 {
		t.Errorf("Expected asset quantity 100, got %d", got)
	}
}

func TestCreatePurchaseUnknownBase(t *testing.T) {
	db := setupTestDB(t)

	_, err := services.CreatePurchase(db, services.PurchaseInput{
		Name:         "Rifle",
		Type:         "Weapon",
		Quantity:     10,
		BaseID:       999,
		PurchaseDate: time.Now(),
	})
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestCreatePurchaseRejectsNonPositiveQuantity(t *testing.T) {
	db := setupTestDB(t)
	base := createBase(t, db, "Base Alpha")

	for _, quantity := range []int64{0, -5} {
		_, err := services.CreatePurchase(db, services.PurchaseInput{
			Name:         "Rifle",
			Type:         "Weapon",
			Quantity:     quantity,
			BaseID:       base.ID,
			PurchaseDate: time.Now(),
		})
		if !errors.Is(err, services.ErrValidation) {
			t.Errorf("Quantity %d: expected ErrValidation, got %v", quantity, err)
		}
	}
}

// TestCreateTransferConservesQuantity verifies the source decrement and the
// destination increment sum to the pre-transfer total
func TestCreateTransferConservesQuantity(t *testing.T) {
	db := setupTestDB(t)
	alpha := createBase(t, db, "Base Alpha")
	bravo := createBase(t, db, "Base Bravo")
	source := createAsset(t, db, "Rifle", 100, alpha.ID)

	transfer, err := services.CreateTransfer(db, services.TransferInput{
		AssetID:    source.ID,
		FromBaseID: alpha.ID,
		ToBaseID:   bravo.ID,
		Quantity:   30,
	})
	if err != nil {
		t.Fatalf("Failed to create transfer: %v", err)
	}
	if transfer.Quantity != 30 {
		t.Errorf("Expected transfer quantity 30, got %d", transfer.Quantity)
	}

	if got := assetQuantity(t, db, source.ID); got != 70 {
		t.Errorf("Expected source quantity 70, got %d", got)
	}

	var dest models.Asset
	if err := db.Where("name = ? AND type = ? AND base_id = ?", "Rifle", "Weapon", bravo.ID).
		First(&dest).Error; err != nil {
		t.Fatalf("Expected a destination asset row: %v", err)
	}
	if dest.Quantity != 30 {
		t.Errorf("Expected destination quantity 30, got %d", dest.Quantity)
	}
	if !dest.PurchaseDate.Equal(source.PurchaseDate) {
		t.Errorf("Expected destination to carry purchase date %v, got %v", source.PurchaseDate, dest.PurchaseDate)
	}

	var total int64
	db.Model(&models.Asset{}).Select("COALESCE(SUM(quantity), 0)").Scan(&total)
	if total != 100 {
		t.Errorf("Expected system total 100 after transfer, got %d", total)
	}
}

// TestCreateTransferIntoExistingAsset verifies a matching destination row is
// incremented instead of duplicated
func TestCreateTransferIntoExistingAsset(t *testing.T) {
	db := setupTestDB(t)
	alpha := createBase(t, db, "Base Alpha")
	bravo := createBase(t, db, "Base Bravo")
	source := createAsset(t, db, "Rifle", 100, alpha.ID)
	dest := createAsset(t, db, "Rifle", 20, bravo.ID)

	_, err := services.CreateTransfer(db, services.TransferInput{
		AssetID:    source.ID,
		FromBaseID: alpha.ID,
		ToBaseID:   bravo.ID,
		Quantity:   25,
	})
	if err != nil {
		t.Fatalf("Failed to create transfer: %v", err)
	}

	if got := assetQuantity(t, db, dest.ID); got != 45 {
		t.Errorf("Expected destination quantity 45, got %d", got)
	}

	var count int64
	db.Model(&models.Asset{}).Where("base_id = ?", bravo.ID).Count(&count)
	if count != 1 {
		t.Errorf("Expected a single destination row, got %d", count)
	}
}

func TestCreateTransferInsufficientQuantity(t *testing.T) {
	db := setupTestDB(t)
	alpha := createBase(t, db, "Base Alpha")
	bravo := createBase(t, db, "Base Bravo")
	source := createAsset(t, db, "Rifle", 10, alpha.ID)

	_, err := services.CreateTransfer(db, services.TransferInput{
		AssetID:    source.ID,
		FromBaseID: alpha.ID,
		ToBaseID:   bravo.ID,
		Quantity:   11,
	})
	if !errors.Is(err, services.ErrInsufficientQuantity) {
		t.Fatalf("Expected ErrInsufficientQuantity, got %v", err)
	}

	// Rejected transfer must leave no trace
	if got := assetQuantity(t, db, source.ID); got != 10 {
		t.Errorf("Expected source quantity unchanged at 10, got %d", got)
	}
	var count int64
	db.Model(&models.Transfer{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no transfer log entries, got %d", count)
	}
}

func TestCreateAssignmentDeductsStock(t *testing.T) {
	db := setupTestDB(t)
	alpha := createBase(t, db, "Base Alpha")
	asset := createAsset(t, db, "Rifle", 50, alpha.ID)

	assignment, err := services.CreateAssignment(db, services.AssignmentInput{
		AssetID:  asset.ID,
		BaseID:   alpha.ID,
		Assignee: "Sgt. Reyes",
		Quantity: 20,
	})
	if err != nil {
		t.Fatalf("Failed to create assignment: %v", err)
	}
	if assignment.Assignee != "Sgt. Reyes" {
		t.Errorf("Expected assignee Sgt. Reyes, got %s", assignment.Assignee)
	}

	if got := assetQuantity(t, db, asset.ID); got != 30 {
		t.Errorf("Expected asset quantity 30, got %d", got)
	}
}

func TestCreateAssignmentInsufficientQuantity(t *testing.T) {
	db := setupTestDB(t)
	alpha := createBase(t, db, "Base Alpha")
	asset := createAsset(t, db, "Rifle", 5, alpha.ID)

	_, err := services.CreateAssignment(db, services.AssignmentInput{
		AssetID:  asset.ID,
		BaseID:   alpha.ID,
		Assignee: "Sgt. Reyes",
		Quantity: 6,
	})
	if !errors.Is(err, services.ErrInsufficientQuantity) {
		t.Errorf("Expected ErrInsufficientQuantity, got %v", err)
	}
	if got := assetQuantity(t, db, asset.ID); got != 5 {
		t.Errorf("Expected asset quantity unchanged at 5, got %d", got)
	}
}

// TestUpdateAssignmentDelta verifies increasing and decreasing an assignment
// applies only the difference to the asset
func TestUpdateAssignmentDelta(t *testing.T) {
	db := setupTestDB(t)
	alpha := createBase(t, db, "Base Alpha")
	asset := createAsset(t, db, "Rifle", 50, alpha.ID)

	assignment, err := services.CreateAssignment(db, services.AssignmentInput{
		AssetID:  asset.ID,
		BaseID:   alpha.ID,
		Assignee: "Sgt. Reyes",
		Quantity: 20,
	})
	if err != nil {
		t.Fatalf("Failed to create assignment: %v", err)
	}
	// 50 - 20 = 30 on hand

	// Increase to 35: delta 15, leaves 15 on hand
	updated, err := services.UpdateAssignment(db, assignment.ID, "", 35)
	if err != nil {
		t.Fatalf("Failed to increase assignment: %v", err)
	}
	if updated.Quantity != 35 {
		t.Errorf("Expected assignment quantity 35, got %d", updated.Quantity)
	}
	if updated.Assignee != "Sgt. Reyes" {
		t.Errorf("Expected assignee preserved, got %s", updated.Assignee)
	}
	if got := assetQuantity(t, db, asset.ID); got != 15 {
		t.Errorf("Expected asset quantity 15, got %d", got)
	}

	// Decrease to 10: returns 25 to stock
	updated, err = services.UpdateAssignment(db, assignment.ID, "Cpl. Ona", 10)
	if err != nil {
		t.Fatalf("Failed to decrease assignment: %v", err)
	}
	if updated.Assignee != "Cpl. Ona" {
		t.Errorf("Expected reassigned to Cpl. Ona, got %s", updated.Assignee)
	}
	if got := assetQuantity(t, db, asset.ID); got != 40 {
		t.Errorf("Expected asset quantity 40, got %d", got)
	}
}

func TestUpdateAssignmentInsufficientDelta(t *testing.T) {
	db := setupTestDB(t)
	alpha := createBase(t, db, "Base Alpha")
	asset := createAsset(t, db, "Rifle", 30, alpha.ID)

	assignment, err := services.CreateAssignment(db, services.AssignmentInput{
		AssetID:  asset.ID,
		BaseID:   alpha.ID,
		Assignee: "Sgt. Reyes",
		Quantity: 20,
	})
	if err != nil {
		t.Fatalf("Failed to create assignment: %v", err)
	}
	// 10 on hand; raising the assignment to 40 needs a delta of 20

	_, err = services.UpdateAssignment(db, assignment.ID, "", 40)
	if !errors.Is(err, services.ErrInsufficientQuantity) {
		t.Errorf("Expected ErrInsufficientQuantity, got %v", err)
	}

	if got := assetQuantity(t, db, asset.ID); got != 10 {
		t.Errorf("Expected asset quantity unchanged at 10, got %d", got)
	}
	var reloaded models.Assignment
	db.First(&reloaded, assignment.ID)
	if reloaded.Quantity != 20 {
		t.Errorf("Expected assignment quantity unchanged at 20, got %d", reloaded.Quantity)
	}
}

func TestCreateExpenditureDeductsWhenConfigured(t *testing.T) {
	db := setupTestDB(t)
	alpha := createBase(t, db, "Base Alpha")
	asset := createAsset(t, db, "Ammo Crate", 40, alpha.ID)

	_, err := services.CreateExpenditure(db, services.ExpenditureInput{
		AssetID:  asset.ID,
		BaseID:   alpha.ID,
		Quantity: 15,
		Reason:   "Training exercise",
	}, true)
	if err != nil {
		t.Fatalf("Failed to create expenditure: %v", err)
	}

	if got := assetQuantity(t, db, asset.ID); got != 25 {
		t.Errorf("Expected asset quantity 25, got %d", got)
	}
}

func TestCreateExpenditureLogOnly(t *testing.T) {
	db := setupTestDB(t)
	alpha := createBase(t, db, "Base Alpha")
	asset := createAsset(t, db, "Ammo Crate", 40, alpha.ID)

	expenditure, err := services.CreateExpenditure(db, services.ExpenditureInput{
		AssetID:  asset.ID,
		BaseID:   alpha.ID,
		Quantity: 15,
		Reason:   "Training exercise",
	}, false)
	if err != nil {
		t.Fatalf("Failed to create expenditure: %v", err)
	}
	if expenditure.Reason != "Training exercise" {
		t.Errorf("Expected reason recorded, got %q", expenditure.Reason)
	}

	if got := assetQuantity(t, db, asset.ID); got != 40 {
		t.Errorf("Expected asset quantity unchanged at 40, got %d", got)
	}
}

func TestCreateExpenditureInsufficientQuantity(t *testing.T) {
	db := setupTestDB(t)
	alpha := createBase(t, db, "Base Alpha")
	asset := createAsset(t, db, "Ammo Crate", 10, alpha.ID)

	_, err := services.CreateExpenditure(db, services.ExpenditureInput{
		AssetID:  asset.ID,
		BaseID:   alpha.ID,
		Quantity: 11,
		Reason:   "Training exercise",
	}, true)
	if !errors.Is(err, services.ErrInsufficientQuantity) {
		t.Errorf("Expected ErrInsufficientQuantity, got %v", err)
	}
}

// TestConcurrentAssignments races two check-outs whose sum exceeds stock.
// Exactly one must win.
func TestConcurrentAssignments(t *testing.T) {
	db := setupTestDB(t)
	alpha := createBase(t, db, "Base Alpha")
	asset := createAsset(t, db, "Rifle", 70, alpha.ID)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = services.CreateAssignment(db, services.AssignmentInput{
				AssetID:  asset.ID,
				BaseID:   alpha.ID,
				Assignee: "Racer",
				Quantity: 60,
			})
		}(i)
	}
	wg.Wait()

	var succeeded, insufficient int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, services.ErrInsufficientQuantity):
			insufficient++
		default:
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	if succeeded != 1 || insufficient != 1 {
		t.Errorf("Expected exactly one winner, got %d successes and %d rejections", succeeded, insufficient)
	}
	if got := assetQuantity(t, db, asset.ID); got != 10 {
		t.Errorf("Expected asset quantity 10, got %d", got)
	}
}

// TestBaseDeleteCascade verifies deleting a base removes every dependent record
// but leaves other bases untouched
func TestBaseDeleteCascade(t *testing.T) {
	db := setupTestDB(t)
	alpha := createBase(t, db, "Base Alpha")
	bravo := createBase(t, db, "Base Bravo")
	asset := createAsset(t, db, "Rifle", 100, alpha.ID)
	other := createAsset(t, db, "Jeep", 10, bravo.ID)

	if _, err := services.CreateTransfer(db, services.TransferInput{
		AssetID:    asset.ID,
		FromBaseID: alpha.ID,
		ToBaseID:   bravo.ID,
		Quantity:   10,
	}); err != nil {
		t.Fatalf("Failed to create transfer: %v", err)
	}
	if _, err := services.CreateAssignment(db, services.AssignmentInput{
		AssetID:  asset.ID,
		BaseID:   alpha.ID,
		Assignee: "Sgt. Reyes",
		Quantity: 5,
	}); err != nil {
		t.Fatalf("Failed to create assignment: %v", err)
	}
	if _, err := services.CreateExpenditure(db, services.ExpenditureInput{
		AssetID:  asset.ID,
		BaseID:   alpha.ID,
		Quantity: 5,
		Reason:   "Drill",
	}, true); err != nil {
		t.Fatalf("Failed to create expenditure: %v", err)
	}

	if err := services.DeleteBase(db, alpha.ID); err != nil {
		t.Fatalf("Failed to delete base: %v", err)
	}

	var count int64
	db.Model(&models.Base{}).Where("id = ?", alpha.ID).Count(&count)
	if count != 0 {
		t.Error("Expected base row removed")
	}
	db.Model(&models.Transfer{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected transfers referencing the base removed, got %d", count)
	}
	db.Model(&models.Assignment{}).Where("base_id = ?", alpha.ID).Count(&count)
	if count != 0 {
		t.Errorf("Expected assignments removed, got %d", count)
	}
	db.Model(&models.Expenditure{}).Where("base_id = ?", alpha.ID).Count(&count)
	if count != 0 {
		t.Errorf("Expected expenditures removed, got %d", count)
	}
	db.Model(&models.Asset{}).Where("base_id = ?", alpha.ID).Count(&count)
	if count != 0 {
		t.Errorf("Expected assets removed, got %d", count)
	}

	// Bravo keeps its own records
	if got := assetQuantity(t, db, other.ID); got != 10 {
		t.Errorf("Expected unrelated asset untouched, got quantity %d", got)
	}
}

func TestDeleteBaseNotFound(t *testing.T) {
	db := setupTestDB(t)

	err := services.DeleteBase(db, 42)
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

// TestListExpendituresScoped verifies the base filter
func TestListExpendituresScoped(t *testing.T) {
	db := setupTestDB(t)
	alpha := createBase(t, db, "Base Alpha")
	bravo := createBase(t, db, "Base Bravo")
	alphaAsset := createAsset(t, db, "Ammo Crate", 50, alpha.ID)
	bravoAsset := createAsset(t, db, "Ammo Crate", 50, bravo.ID)

	for _, in := range []services.ExpenditureInput{
		{AssetID: alphaAsset.ID, BaseID: alpha.ID, Quantity: 5, Reason: "Drill"},
		{AssetID: bravoAsset.ID, BaseID: bravo.ID, Quantity: 7, Reason: "Drill"},
	} {
		if _, err := services.CreateExpenditure(db, in, false); err != nil {
			t.Fatalf("Failed to create expenditure: %v", err)
		}
	}

	all, err := services.ListExpenditures(db, nil)
	if err != nil {
		t.Fatalf("Failed to list expenditures: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 expenditures, got %d", len(all))
	}

	scoped, err := services.ListExpenditures(db, &alpha.ID)
	if err != nil {
		t.Fatalf("Failed to list scoped expenditures: %v", err)
	}
	if len(scoped) != 1 || scoped[0].BaseID != alpha.ID {
		t.Errorf("Expected only the Alpha expenditure, got %+v", scoped)
	}
}

// TestInventoryLifecycle walks the sequence of events two bases would see in a
// supply cycle and checks the running totals at each step
func TestInventoryLifecycle(t *testing.T) {
	db := setupTestDB(t)
	alpha := createBase(t, db, "Base Alpha")
	bravo := createBase(t, db, "Base Bravo")

	purchase, err := services.CreatePurchase(db, services.PurchaseInput{
		Name:         "Rifle",
		Type:         "Weapon",
		Quantity:     100,
		BaseID:       alpha.ID,
		Cost:         50000,
		Supplier:     "Armory Inc",
		PurchaseDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("Purchase failed: %v", err)
	}

	if _, err := services.CreateTransfer(db, services.TransferInput{
		AssetID:    purchase.AssetID,
		FromBaseID: alpha.ID,
		ToBaseID:   bravo.ID,
		Quantity:   30,
	}); err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	if _, err := services.CreateAssignment(db, services.AssignmentInput{
		AssetID:  purchase.AssetID,
		BaseID:   alpha.ID,
		Assignee: "Sgt. Reyes",
		Quantity: 40,
	}); err != nil {
		t.Fatalf("Assignment failed: %v", err)
	}

	if _, err := services.CreateExpenditure(db, services.ExpenditureInput{
		AssetID:  purchase.AssetID,
		BaseID:   alpha.ID,
		Quantity: 10,
		Reason:   "Live fire",
	}, true); err != nil {
		t.Fatalf("Expenditure failed: %v", err)
	}

	// 100 - 30 - 40 - 10 = 20 remaining at Alpha
	if got := assetQuantity(t, db, purchase.AssetID); got != 20 {
		t.Errorf("Expected 20 at Alpha, got %d", got)
	}

	metrics, err := services.GetDashboardMetrics(db)
	if err != nil {
		t.Fatalf("Dashboard metrics failed: %v", err)
	}
	// On hand: 20 at Alpha + 30 at Bravo
	if metrics.ClosingBalance != 50 {
		t.Errorf("Expected closing balance 50, got %d", metrics.ClosingBalance)
	}
	if metrics.OpeningBalance != 60 {
		t.Errorf("Expected opening balance 60, got %d", metrics.OpeningBalance)
	}
	if metrics.NetMovement != 100 {
		t.Errorf("Expected net movement 100, got %d", metrics.NetMovement)
	}
	if metrics.Assigned != 40 {
		t.Errorf("Expected assigned 40, got %d", metrics.Assigned)
	}
	if metrics.Expended != 10 {
		t.Errorf("Expected expended 10, got %d", metrics.Expended)
	}
}
