package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/application/tax"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/logger"
	"github.com/sangkips/billing-api/pkg/metrics"
	"github.com/sangkips/billing-api/pkg/spreadsheet"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	previousBalanceItem = "Previous Balance"
	importNote          = "Imported previous balance"
)

// ImportConfig carries the assumed tax rate and invoice prefix for imports
type ImportConfig struct {
	TaxRate decimal.Decimal
	Prefix  string
}

// ImportService turns rows of opening balances into customers, invoices and balances
type ImportService struct {
	txManager    repository.TxManager
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
	balanceRepo  repository.BalanceRepository
	numbers      *invoiceNumbers
	taxRate      decimal.Decimal
	metrics      *metrics.Metrics
}

// NewImportService creates a new import service
func NewImportService(
	txManager repository.TxManager,
	invoiceRepo repository.InvoiceRepository,
	sequenceRepo repository.InvoiceSequenceRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	balanceRepo repository.BalanceRepository,
	cfg ImportConfig,
	m *metrics.Metrics,
) *ImportService {
	if cfg.Prefix == "" {
		cfg.Prefix = "INV"
	}
	return &ImportService{
		txManager:    txManager,
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		balanceRepo:  balanceRepo,
		numbers:      newInvoiceNumbers(invoiceRepo, sequenceRepo, cfg.Prefix),
		taxRate:      cfg.TaxRate,
		metrics:      m,
	}
}

// ImportError describes one rejected row
type ImportError struct {
	Row          int    `json:"row"`
	CustomerName string `json:"customerName"`
	Error        string `json:"error"`
}

// ImportedBalance describes one accepted row
type ImportedBalance struct {
	Row          int             `json:"row"`
	CustomerID   uuid.UUID       `json:"customerId"`
	CustomerName string          `json:"customerName"`
	InvoiceID    uuid.UUID       `json:"invoiceId"`
	InvoiceNo    string          `json:"invoiceNo"`
	BalanceID    uuid.UUID       `json:"balanceId"`
	Amount       decimal.Decimal `json:"amount"`
}

// ImportResult aggregates a bulk import
type ImportResult struct {
	Success int               `json:"success"`
	Failed  int               `json:"failed"`
	Errors  []ImportError     `json:"errors"`
	Created []ImportedBalance `json:"created"`
}

// ImportBalances imports each row in its own transaction. A failed row is
// reported and the batch moves on.
func (s *ImportService) ImportBalances(ctx context.Context, companyID uuid.UUID, rows []spreadsheet.BalanceRow) (*ImportResult, error) {
	defer s.metrics.TrackDBOperation("import_balances")()

	company, err := requireCompany(ctx, s.companyRepo, companyID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperror.NewValidationError("No rows to import")
	}

	result := &ImportResult{
		Errors:  []ImportError{},
		Created: []ImportedBalance{},
	}
	for i, row := range rows {
		if row.Row == 0 {
			row.Row = i + 1
		}

		created, err := s.importRow(ctx, company, row)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, ImportError{
				Row:          row.Row,
				CustomerName: row.CustomerName,
				Error:        err.Error(),
			})
			s.metrics.ImportRow("failed")
			continue
		}

		result.Success++
		result.Created = append(result.Created, *created)
		s.metrics.ImportRow("success")
	}

	logger.FromContext(ctx).Info("balance import finished",
		zap.String("company_id", company.ID.String()),
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed))

	return result, nil
}

func (s *ImportService) importRow(ctx context.Context, company *entity.Company, row spreadsheet.BalanceRow) (*ImportedBalance, error) {
	name := strings.TrimSpace(row.CustomerName)
	phone := strings.TrimSpace(row.Phone)
	amount := row.Amount.Round(2)

	if name == "" {
		return nil, apperror.NewValidationError("Customer name is required")
	}
	if !amount.IsPositive() {
		return nil, apperror.NewValidationError("Amount must be greater than zero")
	}

	var created *ImportedBalance
	err := s.txManager.Transaction(ctx, func(ctx context.Context) error {
		customer, err := s.findOrCreateCustomer(ctx, company.ID, name, phone)
		if err != nil {
			return err
		}

		invoiceNo, err := s.numbers.next(ctx, company.ID)
		if err != nil {
			return err
		}

		subtotal, taxAmount := tax.ExtractInclusive(amount, s.taxRate)
		split := tax.Split(taxAmount, company.State, customer.StateOrEmpty())
		note := importNote

		invoice := &entity.Invoice{
			CompanyID:   company.ID,
			CustomerID:  &customer.ID,
			InvoiceNo:   invoiceNo,
			InvoiceDate: time.Now().UTC(),
			Subtotal:    subtotal,
			TaxRate:     s.taxRate,
			TaxAmount:   split.TaxAmount,
			CGST:        split.CGST,
			SGST:        split.SGST,
			IGST:        split.IGST,
			TotalAmount: amount,
			PaymentMode: enum.PaymentModeCredit,
			Status:      enum.InvoiceStatusPending,
			Notes:       &note,
			Items: []entity.InvoiceItem{{
				ProductName: previousBalanceItem,
				Quantity:    decimal.NewFromInt(1),
				UnitPrice:   subtotal,
				TaxRate:     s.taxRate,
				TaxAmount:   taxAmount,
				LineTotal:   amount,
			}},
		}
		if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
			return err
		}

		balance := &entity.Balance{
			CompanyID:     company.ID,
			CustomerID:    customer.ID,
			InvoiceID:     &invoice.ID,
			TotalAmount:   amount,
			PaidAmount:    decimal.Zero,
			PendingAmount: amount,
			Status:        enum.BalanceStatusPending,
			Notes:         &note,
		}
		if err := s.balanceRepo.Create(ctx, balance); err != nil {
			return err
		}

		created = &ImportedBalance{
			Row:          row.Row,
			CustomerID:   customer.ID,
			CustomerName: customer.Name,
			InvoiceID:    invoice.ID,
			InvoiceNo:    invoice.InvoiceNo,
			BalanceID:    balance.ID,
			Amount:       amount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// findOrCreateCustomer matches by phone first, then by name ignoring case.
func (s *ImportService) findOrCreateCustomer(ctx context.Context, companyID uuid.UUID, name, phone string) (*entity.Customer, error) {
	if phone != "" {
		customer, err := s.customerRepo.FindByPhone(ctx, companyID, phone)
		if err != nil || customer != nil {
			return customer, err
		}
	}

	customer, err := s.customerRepo.FindByName(ctx, companyID, name)
	if err != nil || customer != nil {
		return customer, err
	}

	customer = &entity.Customer{CompanyID: companyID, Name: name}
	if phone != "" {
		customer.Phone = &phone
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}
