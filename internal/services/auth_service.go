package services

import (
	"fmt"

	"github.com/garrisonhq/garrison/internal/auth"
	"github.com/garrisonhq/garrison/internal/config"
	"github.com/garrisonhq/garrison/internal/models"
	"gorm.io/gorm"
)

// RegisterInput is the request payload for creating an account.
type RegisterInput struct {
	Username string
	Password string
	Role     string
	BaseID   *uint64
}

// LoginResult carries the issued token and the identity it embeds.
type LoginResult struct {
	Token  string `json:"token"`
	Role   string `json:"role"`
	UserID uint64 `json:"userId"`
}

// Register creates a user with a bcrypt-hashed password. Usernames are unique;
// BASE_COMMANDER and LOGISTICS_OFFICER accounts must name a home base.
func Register(db *gorm.DB, cfg *config.Config, input RegisterInput) (*models.User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, ErrValidation
	}
	if !models.ValidRole(input.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, input.Role)
	}
	if models.RoleRequiresBase(input.Role) && input.BaseID == nil {
		return nil, fmt.Errorf("%w: role %s requires a base", ErrValidation, input.Role)
	}

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", input.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("username already exists: %w", ErrConflict)
	}

	hash, err := auth.HashPassword(input.Password, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: input.Username,
		Password: hash,
		Role:     input.Role,
		BaseID:   input.BaseID,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// Login verifies the password hash and issues a signed time-bounded token
// embedding the caller's id, role, and home base.
func Login(db *gorm.DB, cfg *config.Config, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, ErrValidation
	}

	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, fmt.Errorf("invalid password: %w", ErrUnauthorized)
	}

	token, err := auth.GenerateToken(cfg.JWTSecret, user.ID, user.Role, user.BaseID, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, Role: user.Role, UserID: user.ID}, nil
}

// GetUser returns one user by id.
func GetUser(db *gorm.DB, userID uint64) (*models.User, error) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all users with their home bases.
func ListUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	err := db.Preload("Base").Order("id").Find(&users).Error
	return users, err
}
