package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is the tenant root; every other record belongs to one.
type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	GSTIN     *string   `gorm:"size:15;column:gstin" json:"gstin,omitempty"`
	Address   *string   `gorm:"type:text" json:"address,omitempty"`
	City      *string   `gorm:"size:100" json:"city,omitempty"`
	State     string    `gorm:"size:100;not null" json:"state"`
	Pincode   *string   `gorm:"size:10" json:"pincode,omitempty"`
	Phone     *string   `gorm:"size:20" json:"phone,omitempty"`
	Email     *string   `gorm:"size:255" json:"email,omitempty"`
	LogoURL   *string   `gorm:"size:500;column:logo_url" json:"logoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate generates a UUID before creating a new company
func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Company model
func (Company) TableName() string {
	return "companies"
}
