package main

import (
	"flag"
	"log"
	"time"

	"github.com/garrisonhq/garrison/internal/auth"
	"github.com/garrisonhq/garrison/internal/config"
	"github.com/garrisonhq/garrison/internal/database"
	"github.com/garrisonhq/garrison/internal/models"
	"gorm.io/gorm"
)

// Seeds two bases, one account per role, a starting asset on each base, and
// the purchase entries that account for the starting stock. Safe to run
// repeatedly; -reset clears existing data first.
func main() {
	reset := flag.Bool("reset", false, "delete existing data before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if *reset {
		if err := wipe(db); err != nil {
			log.Fatalf("Reset failed: %v", err)
		}
		log.Println("Existing data cleared")
	}

	if err := seed(db, cfg); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}

	log.Println("Seed data created")
}

// wipe deletes all rows, children before parents so foreign keys hold.
func wipe(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.APILog{},
			&models.Expenditure{},
			&models.Assignment{},
			&models.Transfer{},
			&models.Purchase{},
			&models.Asset{},
			&models.User{},
			&models.Base{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func seed(db *gorm.DB, cfg *config.Config) error {
	return db.Transaction(func(tx *gorm.DB) error {
		alpha := models.Base{Name: "Base Alpha", Location: "Northern Region"}
		if err := tx.Where(models.Base{Name: alpha.Name}).FirstOrCreate(&alpha).Error; err != nil {
			return err
		}

		bravo := models.Base{Name: "Base Bravo", Location: "Southern Region"}
		if err := tx.Where(models.Base{Name: bravo.Name}).FirstOrCreate(&bravo).Error; err != nil {
			return err
		}

		hash, err := auth.HashPassword("password123", cfg.BcryptCost)
		if err != nil {
			return err
		}

		users := []models.User{
			{Username: "admin", Password: hash, Role: models.RoleAdmin},
			{Username: "commander1", Password: hash, Role: models.RoleBaseCommander, BaseID: &alpha.ID},
			{Username: "logistics1", Password: hash, Role: models.RoleLogisticsOfficer, BaseID: &alpha.ID},
		}
		for i := range users {
			if err := tx.Where(models.User{Username: users[i].Username}).FirstOrCreate(&users[i]).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		assets := []models.Asset{
			{Name: "Rifle", Type: "Weapon", Quantity: 100, PurchaseDate: now, BaseID: alpha.ID},
			{Name: "Jeep", Type: "Vehicle", Quantity: 10, PurchaseDate: now, BaseID: bravo.ID},
		}
		for i := range assets {
			if err := tx.Where(models.Asset{
				Name:   assets[i].Name,
				Type:   assets[i].Type,
				BaseID: assets[i].BaseID,
			}).FirstOrCreate(&assets[i]).Error; err != nil {
				return err
			}
		}

		// Purchase log entries accounting for the starting stock.
		purchases := []models.Purchase{
			{AssetID: assets[0].ID, BaseID: alpha.ID, Quantity: 100, Cost: 120000, Supplier: "Northstar Arms", PurchasedAt: now},
			{AssetID: assets[1].ID, BaseID: bravo.ID, Quantity: 10, Cost: 450000, Supplier: "Fleet Dynamics", PurchasedAt: now},
		}
		for i := range purchases {
			if err := tx.Where(models.Purchase{
				AssetID: purchases[i].AssetID,
				BaseID:  purchases[i].BaseID,
			}).FirstOrCreate(&purchases[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
