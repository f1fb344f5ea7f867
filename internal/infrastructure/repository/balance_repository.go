package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type balanceRepository struct {
	db *gorm.DB
}

// NewBalanceRepository creates a new balance repository
func NewBalanceRepository(db *gorm.DB) domainRepo.BalanceRepository {
	return &balanceRepository{db: db}
}

func (r *balanceRepository) Create(ctx context.Context, balance *entity.Balance) error {
	return dbFrom(ctx, r.db).Omit("Customer", "Invoice", "Company", "Payments", "Reminders").Create(balance).Error
}

func (r *balanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Balance, error) {
	var balance entity.Balance
	err := dbFrom(ctx, r.db).First(&balance, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &balance, err
}

func (r *balanceRepository) GetDetailed(ctx context.Context, id uuid.UUID) (*entity.Balance, error) {
	var balance entity.Balance
	err := dbFrom(ctx, r.db).
		Preload("Customer").
		Preload("Invoice").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date DESC")
		}).
		Preload("Reminders", func(db *gorm.DB) *gorm.DB {
			return db.Order("sent_at DESC")
		}).
		First(&balance, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &balance, err
}

func (r *balanceRepository) GetForReminder(ctx context.Context, id uuid.UUID) (*entity.Balance, error) {
	var balance entity.Balance
	err := dbFrom(ctx, r.db).
		Preload("Customer").
		Preload("Invoice").
		Preload("Company").
		First(&balance, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &balance, err
}

func (r *balanceRepository) List(ctx context.Context, companyID uuid.UUID) ([]entity.Balance, error) {
	var balances []entity.Balance
	err := dbFrom(ctx, r.db).
		Scopes(CompanyScope(companyID)).
		Preload("Customer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "phone", "address", "city", "state", "pincode")
		}).
		Preload("Invoice", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "invoice_no", "invoice_date")
		}).
		Order("created_at DESC").
		Find(&balances).Error
	return balances, err
}

func (r *balanceRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.Balance, error) {
	var balances []entity.Balance
	err := dbFrom(ctx, r.db).
		Where("customer_id = ?", customerID).
		Preload("Invoice", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "invoice_no", "invoice_date")
		}).
		Order("created_at DESC").
		Find(&balances).Error
	return balances, err
}

func (r *balanceRepository) CountPending(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&entity.Balance{}).
		Scopes(CompanyScope(companyID)).
		Where("pending_amount > ?", 0).
		Count(&count).Error
	return count, err
}

func (r *balanceRepository) ListDueForReminder(ctx context.Context, companyID uuid.UUID, cutoff time.Time) ([]entity.Balance, error) {
	var balances []entity.Balance
	err := dbFrom(ctx, r.db).
		Scopes(CompanyScope(companyID)).
		Where("pending_amount > ?", 0).
		Where("(last_reminder_sent IS NULL OR last_reminder_sent < ?)", cutoff).
		Preload("Customer").
		Preload("Invoice").
		Preload("Company").
		Order("created_at ASC").
		Find(&balances).Error
	return balances, err
}

// AddPaid advances paid_amount in place. The row is only touched while the
// payment still fits under total_amount; otherwise ErrRecordNotFound.
func (r *balanceRepository) AddPaid(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	result := dbFrom(ctx, r.db).Model(&entity.Balance{}).
		Where("id = ?", id).
		Where("paid_amount + ? <= total_amount", amount).
		Update("paid_amount", gorm.Expr("paid_amount + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *balanceRepository) UpdateDerived(ctx context.Context, id uuid.UUID, pending decimal.Decimal, status enum.BalanceStatus) error {
	return dbFrom(ctx, r.db).Model(&entity.Balance{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"pending_amount": pending,
			"status":         status,
		}).Error
}

func (r *balanceRepository) MarkReminded(ctx context.Context, id uuid.UUID, at time.Time) error {
	return dbFrom(ctx, r.db).Model(&entity.Balance{}).
		Where("id = ?", id).
		Update("last_reminder_sent", at).Error
}

type paymentHistoryRepository struct {
	db *gorm.DB
}

// NewPaymentHistoryRepository creates a new payment history repository
func NewPaymentHistoryRepository(db *gorm.DB) domainRepo.PaymentHistoryRepository {
	return &paymentHistoryRepository{db: db}
}

func (r *paymentHistoryRepository) Create(ctx context.Context, payment *entity.PaymentHistory) error {
	return dbFrom(ctx, r.db).Create(payment).Error
}

func (r *paymentHistoryRepository) CountByBalance(ctx context.Context, balanceID uuid.UUID) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&entity.PaymentHistory{}).
		Where("balance_id = ?", balanceID).
		Count(&count).Error
	return count, err
}

type reminderLogRepository struct {
	db *gorm.DB
}

// NewReminderLogRepository creates a new reminder log repository
func NewReminderLogRepository(db *gorm.DB) domainRepo.ReminderLogRepository {
	return &reminderLogRepository{db: db}
}

func (r *reminderLogRepository) Create(ctx context.Context, log *entity.ReminderLog) error {
	return dbFrom(ctx, r.db).Create(log).Error
}

func (r *reminderLogRepository) ListByBalance(ctx context.Context, balanceID uuid.UUID) ([]entity.ReminderLog, error) {
	var logs []entity.ReminderLog
	err := dbFrom(ctx, r.db).
		Where("balance_id = ?", balanceID).
		Order("sent_at DESC").
		Find(&logs).Error
	return logs, err
}
