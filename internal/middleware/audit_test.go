package middleware_test

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/garrisonhq/garrison/internal/auth"
	"github.com/garrisonhq/garrison/internal/handlers"
	"github.com/garrisonhq/garrison/internal/middleware"
	"github.com/garrisonhq/garrison/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

	if err := db.AutoMigrate(&models.User{}, &models.Base{}, &models.APILog{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func TestAuditLogRecordsMutations(t *testing.T) {
	db := setupTestDB(t)

	app := fiber.New()
	app.Use(middleware.AuditLog(db))
	app.Post("/api/things", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ok": true})
	})
	app.Get("/api/things", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	req := httptest.NewRequest("POST", "/api/things", bytes.NewReader([]byte(`{"name":"Rifle"}`)))
	req.Header.Set("Content-Type", "application/json")
	if _, err := app.Test(req, -1); err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	var logs []models.APILog
	if err := db.Find(&logs).Error; err != nil {
		t.Fatalf("Failed to read api logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(logs))
	}
	if logs[0].Method != "POST" || logs[0].Path != "/api/things" || logs[0].Status != fiber.StatusCreated {
		t.Errorf("Unexpected log entry: %+v", logs[0])
	}
	if string(logs[0].Payload.JSON) != `{"name":"Rifle"}` {
		t.Errorf("Expected payload recorded, got %s", logs[0].Payload.JSON)
	}

	// Reads are not recorded
	req = httptest.NewRequest("GET", "/api/things", nil)
	if _, err := app.Test(req, -1); err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	var count int64
	db.Model(&models.APILog{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected GET to be skipped, got %d entries", count)
	}
}

func TestRequireAuthRejectsDeletedUser(t *testing.T) {
	db := setupTestDB(t)
	secret := "test-secret"

	user := models.User{Username: "ghost", Password: "x", Role: models.RoleAdmin}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	token, err := auth.GenerateToken(secret, user.ID, user.Role, nil, time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if err := db.Delete(&user).Error; err != nil {
		t.Fatalf("Failed to delete user: %v", err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Get("/protected", middleware.RequireAuth(db, secret), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404 for deleted user, got %d", resp.StatusCode)
	}
}

func TestVersionMiddlewareAlias(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.VersionMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("apiVersion").(string))
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Api-Version", "1.0")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	body := make([]byte, 16)
	n, _ := resp.Body.Read(body)
	if string(body[:n]) != "1.0.0" {
		t.Errorf("Expected version alias 1.0.0, got %s", body[:n])
	}
}
