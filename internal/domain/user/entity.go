// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"github.com/your-org/inventory-backend/internal/domain/stock"
	"gorm.io/gorm"
)

// User represents a staff account
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password    string         `gorm:"not null;size:255" json:"-"` // Don't return in JSON
	Name        string         `gorm:"size:255" json:"name"`
	Role        string         `gorm:"not null;size:20;default:'clerk'" json:"role"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook to handle business logic before user creation
func (u *User) BeforeCreate(tx *gorm.DB) error {
	// Email should be lowercase
	u.Email = strings.ToLower(u.Email)
	if u.Role == "" {
		u.Role = stock.RoleClerk
	}
	return nil
}

// Actor is the user's identity as recorded on ledger entries
func (u *User) Actor() stock.Actor {
	return stock.Actor{
		ID:   u.ID,
		Name: u.GetDisplayName(),
		Role: u.Role,
	}
}

// GetDisplayName returns display name (name or email)
func (u *User) GetDisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// ValidRole reports whether the role is one of the recognized staff roles
func ValidRole(role string) bool {
	switch role {
	case stock.RoleClerk, stock.RoleManager, stock.RoleAdmin:
		return true
	}
	return false
}
