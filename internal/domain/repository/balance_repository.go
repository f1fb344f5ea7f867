package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
)

// BalanceRepository defines the interface for credit balance data operations
type BalanceRepository interface {
	Create(ctx context.Context, balance *entity.Balance) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Balance, error)
	// GetDetailed loads customer, invoice, payments and reminders, newest first.
	GetDetailed(ctx context.Context, id uuid.UUID) (*entity.Balance, error)
	// GetForReminder loads customer, invoice and company.
	GetForReminder(ctx context.Context, id uuid.UUID) (*entity.Balance, error)
	List(ctx context.Context, companyID uuid.UUID) ([]entity.Balance, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Balance, error)
	CountPending(ctx context.Context, companyID uuid.UUID) (int64, error)
	// ListDueForReminder returns balances with something pending that were never
	// reminded or last reminded before cutoff.
	ListDueForReminder(ctx context.Context, companyID uuid.UUID, cutoff time.Time) ([]entity.Balance, error)
	// AddPaid increments paid_amount in place; it refuses to exceed total_amount.
	AddPaid(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
	UpdateDerived(ctx context.Context, id uuid.UUID, pending decimal.Decimal, status enum.BalanceStatus) error
	MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error
}

// PaymentHistoryRepository appends payments
type PaymentHistoryRepository interface {
	Create(ctx context.Context, payment *entity.PaymentHistory) error
	CountByBalance(ctx context.Context, balanceID uuid.UUID) (int64, error)
}

// ReminderLogRepository appends reminder attempts
type ReminderLogRepository interface {
	Create(ctx context.Context, log *entity.ReminderLog) error
	ListByBalance(ctx context.Context, balanceID uuid.UUID) ([]entity.ReminderLog, error)
}
