package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Balance is the outstanding amount on a credit sale.
// PendingAmount = TotalAmount - PaidAmount; Status follows enum.BalanceStatusFor.
type Balance struct {
	ID               uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"companyId"`
	CustomerID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"customerId"`
	InvoiceID        *uuid.UUID         `gorm:"type:uuid;index" json:"invoiceId,omitempty"`
	TotalAmount      decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	PaidAmount       decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0" json:"paidAmount"`
	PendingAmount    decimal.Decimal    `gorm:"type:decimal(12,2);not null;index" json:"pendingAmount"`
	Status           enum.BalanceStatus `gorm:"size:20;not null" json:"status"`
	LastReminderSent *time.Time         `json:"lastReminderSent,omitempty"`
	Notes            *string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`

	Customer  *Customer        `gorm:"foreignKey:CustomerID" json:"customers,omitempty"`
	Invoice   *Invoice         `gorm:"foreignKey:InvoiceID" json:"invoices,omitempty"`
	Company   *Company         `gorm:"foreignKey:CompanyID" json:"-"`
	Payments  []PaymentHistory `gorm:"foreignKey:BalanceID" json:"payments,omitempty"`
	Reminders []ReminderLog    `gorm:"foreignKey:BalanceID" json:"reminders,omitempty"`
}

// BeforeCreate generates a UUID before creating a new balance
func (b *Balance) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Balance model
func (Balance) TableName() string {
	return "balances"
}

// Recompute derives PendingAmount and Status from TotalAmount and PaidAmount.
func (b *Balance) Recompute() {
	b.PendingAmount = b.TotalAmount.Sub(b.PaidAmount)
	b.Status = enum.BalanceStatusFor(b.PaidAmount, b.PendingAmount)
}

// PaymentHistory is an append-only record of money received on a balance
type PaymentHistory struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	BalanceID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"balanceId"`
	PaymentAmount decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"paymentAmount"`
	PaymentMode   enum.PaymentMode `gorm:"size:20;not null" json:"paymentMode"`
	Notes         *string          `gorm:"type:text" json:"notes,omitempty"`
	PaymentDate   time.Time        `gorm:"not null;index" json:"paymentDate"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *PaymentHistory) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentHistory model
func (PaymentHistory) TableName() string {
	return "payment_history"
}

// ReminderLog is an append-only record of one reminder attempt
type ReminderLog struct {
	ID           uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	BalanceID    uuid.UUID           `gorm:"type:uuid;not null;index" json:"balanceId"`
	CustomerID   uuid.UUID           `gorm:"type:uuid;not null;index" json:"customerId"`
	PhoneNumber  string              `gorm:"size:20" json:"phoneNumber"`
	Message      string              `gorm:"type:text;not null" json:"message"`
	Provider     string              `gorm:"size:20" json:"provider"`
	MessageID    *string             `gorm:"size:255" json:"messageId,omitempty"`
	Status       enum.ReminderStatus `gorm:"size:20;not null" json:"status"`
	ErrorMessage *string             `gorm:"type:text" json:"errorMessage,omitempty"`
	SentAt       time.Time           `gorm:"not null;index" json:"sentAt"`
}

// BeforeCreate generates a UUID before creating a new reminder log
func (r *ReminderLog) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReminderLog model
func (ReminderLog) TableName() string {
	return "reminder_logs"
}
