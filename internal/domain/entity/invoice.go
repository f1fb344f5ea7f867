package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Invoice is immutable once issued.
// TotalAmount = Subtotal + TaxAmount and CGST + SGST + IGST = TaxAmount.
type Invoice struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID   uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_invoices_company_no" json:"companyId"`
	CustomerID  *uuid.UUID         `gorm:"type:uuid;index" json:"customerId,omitempty"`
	InvoiceNo   string             `gorm:"size:50;not null;uniqueIndex:idx_invoices_company_no" json:"invoiceNo"`
	InvoiceDate time.Time          `gorm:"not null;index" json:"invoiceDate"`
	Subtotal    decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TaxRate     decimal.Decimal    `gorm:"type:decimal(7,4);not null;default:0" json:"taxRate"`
	TaxAmount   decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"taxAmount"`
	CGST        decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0;column:cgst" json:"cgst"`
	SGST        decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0;column:sgst" json:"sgst"`
	IGST        decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0;column:igst" json:"igst"`
	TotalAmount decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	PaymentMode enum.PaymentMode   `gorm:"size:20;not null" json:"paymentMode"`
	Status      enum.InvoiceStatus `gorm:"size:20;not null" json:"status"`
	Notes       *string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time          `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`

	Customer *Customer     `gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL" json:"customers,omitempty"`
	Company  *Company      `gorm:"foreignKey:CompanyID" json:"companies,omitempty"`
	Items    []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"invoice_items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem is one priced line. LineTotal = Quantity*UnitPrice*(1+TaxRate/100).
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoiceId"`
	ProductID   *uuid.UUID      `gorm:"type:uuid;index" json:"productId,omitempty"`
	ProductName string          `gorm:"size:255;not null" json:"productName"`
	HSN         *string         `gorm:"size:20;column:hsn" json:"hsn,omitempty"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"taxRate"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"taxAmount"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"lineTotal"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// BeforeCreate generates a UUID before creating a new invoice item
func (i *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// InvoiceSequence is the per-company invoice counter, advanced atomically.
type InvoiceSequence struct {
	CompanyID uuid.UUID `gorm:"type:uuid;primary_key" json:"companyId"`
	LastValue int64     `gorm:"not null;default:0" json:"lastValue"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the table name for the InvoiceSequence model
func (InvoiceSequence) TableName() string {
	return "invoice_sequences"
}
