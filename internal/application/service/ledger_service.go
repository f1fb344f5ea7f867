package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/logger"
	"github.com/sangkips/billing-api/pkg/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LedgerService tracks credit balances and the payments made against them
type LedgerService struct {
	txManager    repository.TxManager
	balanceRepo  repository.BalanceRepository
	paymentRepo  repository.PaymentHistoryRepository
	customerRepo repository.CustomerRepository
	companyRepo  repository.CompanyRepository
	metrics      *metrics.Metrics
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	txManager repository.TxManager,
	balanceRepo repository.BalanceRepository,
	paymentRepo repository.PaymentHistoryRepository,
	customerRepo repository.CustomerRepository,
	companyRepo repository.CompanyRepository,
	m *metrics.Metrics,
) *LedgerService {
	return &LedgerService{
		txManager:    txManager,
		balanceRepo:  balanceRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		companyRepo:  companyRepo,
		metrics:      m,
	}
}

// CreateBalanceInput represents a manually opened balance
type CreateBalanceInput struct {
	CompanyID   uuid.UUID
	CustomerID  uuid.UUID
	InvoiceID   *uuid.UUID
	TotalAmount decimal.Decimal
	PaidAmount  decimal.Decimal
	Notes       *string
}

// CreateBalance opens a balance; pending and status are derived.
func (s *LedgerService) CreateBalance(ctx context.Context, input *CreateBalanceInput) (*entity.Balance, error) {
	if _, err := requireCompany(ctx, s.companyRepo, input.CompanyID); err != nil {
		return nil, err
	}
	if input.CustomerID == uuid.Nil {
		return nil, apperror.NewValidationError("customerId is required")
	}
	if input.TotalAmount.IsNegative() {
		return nil, apperror.NewValidationError("totalAmount must not be negative")
	}
	if input.PaidAmount.IsNegative() {
		return nil, apperror.NewValidationError("paidAmount must not be negative")
	}
	if input.PaidAmount.GreaterThan(input.TotalAmount) {
		return nil, apperror.NewValidationError("paidAmount cannot exceed totalAmount")
	}

	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	balance := &entity.Balance{
		CompanyID:   input.CompanyID,
		CustomerID:  input.CustomerID,
		InvoiceID:   input.InvoiceID,
		TotalAmount: input.TotalAmount.Round(2),
		PaidAmount:  input.PaidAmount.Round(2),
		Notes:       input.Notes,
	}
	balance.Recompute()

	if err := s.balanceRepo.Create(ctx, balance); err != nil {
		return nil, err
	}
	return balance, nil
}

// RecordPaymentInput represents a payment against a balance
type RecordPaymentInput struct {
	BalanceID   uuid.UUID
	Amount      decimal.Decimal
	PaymentMode enum.PaymentMode
	Notes       *string
}

// PaymentResult is the updated balance plus the appended history row
type PaymentResult struct {
	Balance *entity.Balance        `json:"balance"`
	Payment *entity.PaymentHistory `json:"payment"`
}

// RecordPayment applies a payment atomically: paid_amount is advanced in
// place, pending and status are recomputed, and a history row is appended,
// all in one transaction. Payments above the pending amount are rejected.
func (s *LedgerService) RecordPayment(ctx context.Context, input *RecordPaymentInput) (*PaymentResult, error) {
	amount := input.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, apperror.NewValidationError("paymentAmount must be positive")
	}
	mode := input.PaymentMode.OrDefault()
	if !mode.IsValid() {
		return nil, apperror.NewValidationError(fmt.Sprintf("invalid paymentMode %q", input.PaymentMode))
	}

	result := &PaymentResult{}
	err := s.txManager.Transaction(ctx, func(ctx context.Context) error {
		balance, err := s.balanceRepo.GetByID(ctx, input.BalanceID)
		if err != nil {
			return err
		}
		if balance == nil {
			return apperror.NewNotFoundError("Balance")
		}
		if amount.GreaterThan(balance.PendingAmount) {
			return overpaymentError(balance.PendingAmount)
		}

		if err := s.balanceRepo.AddPaid(ctx, balance.ID, amount); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// a concurrent payment consumed the remainder
				return overpaymentError(balance.PendingAmount)
			}
			return err
		}

		balance, err = s.balanceRepo.GetByID(ctx, input.BalanceID)
		if err != nil {
			return err
		}
		balance.Recompute()
		if err := s.balanceRepo.UpdateDerived(ctx, balance.ID, balance.PendingAmount, balance.Status); err != nil {
			return err
		}

		payment := &entity.PaymentHistory{
			BalanceID:     balance.ID,
			PaymentAmount: amount,
			PaymentMode:   mode,
			Notes:         input.Notes,
			PaymentDate:   time.Now().UTC(),
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}

		result.Balance = balance
		result.Payment = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.PaymentRecorded()
	logger.FromContext(ctx).Info("payment recorded",
		zap.String("balance_id", result.Balance.ID.String()),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("status", string(result.Balance.Status)))

	return result, nil
}

func overpaymentError(pending decimal.Decimal) error {
	return apperror.NewValidationError(fmt.Sprintf("Payment exceeds pending amount of %s", pending.StringFixed(2)))
}

// GetBalance retrieves a balance with customer, invoice, payments and reminders
func (s *LedgerService) GetBalance(ctx context.Context, id uuid.UUID) (*entity.Balance, error) {
	balance, err := s.balanceRepo.GetDetailed(ctx, id)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return nil, apperror.NewNotFoundError("Balance")
	}
	return balance, nil
}

// ListBalances lists a company's balances, newest first
func (s *LedgerService) ListBalances(ctx context.Context, companyID uuid.UUID) ([]entity.Balance, error) {
	if companyID == uuid.Nil {
		return nil, apperror.ErrCompanyRequired
	}
	return s.balanceRepo.List(ctx, companyID)
}

// ListCustomerBalances lists the balances owed by one customer
func (s *LedgerService) ListCustomerBalances(ctx context.Context, customerID uuid.UUID) ([]entity.Balance, error) {
	return s.balanceRepo.ListByCustomer(ctx, customerID)
}

// CountPending counts balances with money still owed
func (s *LedgerService) CountPending(ctx context.Context, companyID uuid.UUID) (int64, error) {
	if companyID == uuid.Nil {
		return 0, apperror.ErrCompanyRequired
	}
	return s.balanceRepo.CountPending(ctx, companyID)
}
