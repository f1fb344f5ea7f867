package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer represents a buyer of a company
type Customer struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"companyId"`
	Name               string          `gorm:"size:255;not null" json:"name"`
	Phone              *string         `gorm:"size:20;index" json:"phone,omitempty"`
	Email              *string         `gorm:"size:255" json:"email,omitempty"`
	GSTIN              *string         `gorm:"size:15;column:gstin" json:"gstin,omitempty"`
	Address            *string         `gorm:"type:text" json:"address,omitempty"`
	City               *string         `gorm:"size:100" json:"city,omitempty"`
	State              *string         `gorm:"size:100" json:"state,omitempty"`
	Pincode            *string         `gorm:"size:10" json:"pincode,omitempty"`
	OutstandingBalance decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"outstandingBalance"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}

// StateOrEmpty returns the customer's state for tax purposes
func (c *Customer) StateOrEmpty() string {
	if c == nil || c.State == nil {
		return ""
	}
	return *c.State
}
