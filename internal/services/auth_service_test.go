package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/garrisonhq/garrison/internal/auth"
	"github.com/garrisonhq/garrison/internal/config"
	"github.com/garrisonhq/garrison/internal/models"
	"github.com/garrisonhq/garrison/internal/services"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		BcryptCost: 4,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()

	user, err := services.Register(db, cfg, services.RegisterInput{
		Username: "admin",
		Password: "password123",
		Role:     models.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Failed to register: %v", err)
	}
	if user.Password == "password123" {
		t.Error("Expected password to be hashed")
	}

	result, err := services.Login(db, cfg, "admin", "password123")
	if err != nil {
		t.Fatalf("Failed to log in: %v", err)
	}
	if result.Role != models.RoleAdmin || result.UserID != user.ID {
		t.Errorf("Unexpected login result: %+v", result)
	}

	claims, err := auth.ValidateToken(cfg.JWTSecret, result.Token)
	if err != nil {
		t.Fatalf("Issued token failed validation: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != models.RoleAdmin {
		t.Errorf("Unexpected claims: %+v", claims)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()

	input := services.RegisterInput{
		Username: "admin",
		Password: "password123",
		Role:     models.RoleAdmin,
	}
	if _, err := services.Register(db, cfg, input); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	_, err := services.Register(db, cfg, input)
	if !errors.Is(err, services.ErrConflict) {
		t.Errorf("Expected ErrConflict, got %v", err)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	db := setupTestDB(t)

	_, err := services.Register(db, testConfig(), services.RegisterInput{
		Username: "intruder",
		Password: "password123",
		Role:     "SUPREME_LEADER",
	})
	if !errors.Is(err, services.ErrValidation) {
		t.Errorf("Expected ErrValidation, got %v", err)
	}
}

func TestRegisterScopedRoleRequiresBase(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()

	for _, role := range []string{models.RoleBaseCommander, models.RoleLogisticsOfficer} {
		_, err := services.Register(db, cfg, services.RegisterInput{
			Username: "user-" + role,
			Password: "password123",
			Role:     role,
		})
		if !errors.Is(err, services.ErrValidation) {
			t.Errorf("Role %s: expected ErrValidation without base, got %v", role, err)
		}
	}

	base := createBase(t, db, "Base Alpha")
	user, err := services.Register(db, cfg, services.RegisterInput{
		Username: "commander1",
		Password: "password123",
		Role:     models.RoleBaseCommander,
		BaseID:   &base.ID,
	})
	if err != nil {
		t.Fatalf("Failed to register commander with base: %v", err)
	}
	if user.BaseID == nil || *user.BaseID != base.ID {
		t.Errorf("Expected home base %d, got %v", base.ID, user.BaseID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()

	if _, err := services.Register(db, cfg, services.RegisterInput{
		Username: "admin",
		Password: "password123",
		Role:     models.RoleAdmin,
	}); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	_, err := services.Login(db, cfg, "admin", "wrong")
	if !errors.Is(err, services.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	db := setupTestDB(t)

	_, err := services.Login(db, testConfig(), "ghost", "password123")
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListUsersPreloadsBase(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	base := createBase(t, db, "Base Alpha")

	if _, err := services.Register(db, cfg, services.RegisterInput{
		Username: "logistics1",
		Password: "password123",
		Role:     models.RoleLogisticsOfficer,
		BaseID:   &base.ID,
	}); err != nil {
		t.Fatalf("Failed to register: %v", err)
	}

	users, err := services.ListUsers(db)
	if err != nil {
		t.Fatalf("Failed to list users: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("Expected 1 user, got %d", len(users))
	}
	if users[0].Base == nil || users[0].Base.Name != "Base Alpha" {
		t.Errorf("Expected home base preloaded, got %+v", users[0].Base)
	}
}
