package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog entry. Products are deactivated, never deleted, so
// historical invoice items keep pointing at them.
type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_products_company_sku" json:"companyId"`
	SKU           string          `gorm:"size:100;not null;uniqueIndex:idx_products_company_sku;column:sku" json:"sku"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	HSN           *string         `gorm:"size:20;column:hsn" json:"hsn,omitempty"`
	Description   *string         `gorm:"type:text" json:"description,omitempty"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"purchasePrice"`
	Stock         int             `gorm:"not null;default:0" json:"stock"`
	TaxRate       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:18" json:"taxRate"`
	Barcode       *string         `gorm:"size:100" json:"barcode,omitempty"`
	IsActive      bool            `gorm:"not null;default:true;index" json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
