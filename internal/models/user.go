package models

import (
	"time"
)

// Roles understood by the authorization gate.
const (
	RoleAdmin            = "ADMIN"
	RoleBaseCommander    = "BASE_COMMANDER"
	RoleLogisticsOfficer = "LOGISTICS_OFFICER"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleBaseCommander, RoleLogisticsOfficer:
		return true
	}
	return false
}

// RoleRequiresBase reports whether a user with this role must be attached to a base.
func RoleRequiresBase(role string) bool {
	return role == RoleBaseCommander || role == RoleLogisticsOfficer
}

// User represents an API account. The password column holds a bcrypt hash.
type User struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:255;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      string    `gorm:"size:32;not null" json:"role"`
	BaseID    *uint64   `gorm:"index" json:"baseId"`
	Base      *Base     `gorm:"foreignKey:BaseID" json:"base,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
