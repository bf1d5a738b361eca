package auth

import (
	"testing"
	"time"

	"github.com/garrisonhq/garrison/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	baseID := uint64(3)
	token, err := GenerateToken("secret", 7, models.RoleBaseCommander, &baseID, time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	claims, err := ValidateToken("secret", token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}

	if claims.UserID != 7 {
		t.Errorf("Expected user id 7, got %d", claims.UserID)
	}
	if claims.Role != models.RoleBaseCommander {
		t.Errorf("Expected role %s, got %s", models.RoleBaseCommander, claims.Role)
	}
	if claims.BaseID == nil || *claims.BaseID != baseID {
		t.Errorf("Expected base id %d, got %v", baseID, claims.BaseID)
	}
	if claims.ID == "" {
		t.Error("Expected a token id")
	}
}

func TestTokenNilBase(t *testing.T) {
	token, err := GenerateToken("secret", 1, models.RoleAdmin, nil, time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	claims, err := ValidateToken("secret", token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if claims.BaseID != nil {
		t.Errorf("Expected nil base id, got %v", claims.BaseID)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", 1, models.RoleAdmin, nil, time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := ValidateToken("other-secret", token); err == nil {
		t.Error("Expected validation to fail with a different secret")
	}
}

func TestTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", 1, models.RoleAdmin, nil, -time.Minute)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	if _, err := ValidateToken("secret", token); err == nil {
		t.Error("Expected validation to fail for an expired token")
	}
}

func TestTokenGarbage(t *testing.T) {
	if _, err := ValidateToken("secret", "not-a-token"); err == nil {
		t.Error("Expected validation to fail for malformed input")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123", 4)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if hash == "password123" {
		t.Error("Expected hash to differ from the plaintext")
	}

	if !CheckPassword(hash, "password123") {
		t.Error("Expected matching password to verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("Expected wrong password to fail")
	}
}
