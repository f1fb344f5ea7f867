package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Operator roles.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// User is a counter operator who can sign in to the billing API
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID    *uuid.UUID `gorm:"type:uuid;index" json:"companyId,omitempty"`
	Email        string     `gorm:"size:255;unique;not null" json:"email"`
	Name         string     `gorm:"size:255" json:"name"`
	Role         string     `gorm:"size:50;not null;default:'cashier'" json:"role"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}
