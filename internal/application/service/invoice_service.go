package service

import (
	"context"
	"fmt"
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
	"github.com/sangkips/billing-api/pkg/pagination"
	"github.com/sangkips/billing-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InvoiceConfig carries the billing settings the service needs
type InvoiceConfig struct {
	RateMode  tax.RateMode
	Prefix    string
	ListLimit int
}

// InvoiceService issues and reads invoices
type InvoiceService struct {
	txManager    repository.TxManager
	invoiceRepo  repository.InvoiceRepository
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	balanceRepo  repository.BalanceRepository
	numbers      *invoiceNumbers
	cfg          InvoiceConfig
	metrics      *metrics.Metrics
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	txManager repository.TxManager,
	invoiceRepo repository.InvoiceRepository,
	sequenceRepo repository.InvoiceSequenceRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	balanceRepo repository.BalanceRepository,
	cfg InvoiceConfig,
	m *metrics.Metrics,
) *InvoiceService {
	if cfg.Prefix == "" {
		cfg.Prefix = "INV"
	}
	return &InvoiceService{
		txManager:    txManager,
		invoiceRepo:  invoiceRepo,
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		balanceRepo:  balanceRepo,
		numbers:      newInvoiceNumbers(invoiceRepo, sequenceRepo, cfg.Prefix),
		cfg:          cfg,
		metrics:      m,
	}
}

// InvoiceItemInput is one requested line
type InvoiceItemInput struct {
	ProductID   *uuid.UUID
	ProductName string
	HSN         *string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
}

// CreateInvoiceInput represents the create invoice input
type CreateInvoiceInput struct {
	CompanyID   uuid.UUID
	CustomerID  *uuid.UUID
	Items       []InvoiceItemInput
	PaymentMode enum.PaymentMode
	Notes       *string
}

// CreateInvoice prices the items, reserves the next invoice number and
// persists the invoice with its items in one transaction. Credit sales to a
// known customer also open a balance; that step runs in a savepoint so a
// failure leaves the invoice in place. Stock is decremented after commit.
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	defer s.metrics.TrackDBOperation("create_invoice")()
	log := logger.FromContext(ctx)

	mode := input.PaymentMode.OrDefault()
	if !mode.IsValid() {
		return nil, apperror.NewValidationError(fmt.Sprintf("invalid paymentMode %q", input.PaymentMode))
	}
	if len(input.Items) == 0 {
		return nil, apperror.NewValidationError("At least one item is required")
	}

	company, err := requireCompany(ctx, s.companyRepo, input.CompanyID)
	if err != nil {
		return nil, err
	}

	var customer *entity.Customer
	if input.CustomerID != nil && *input.CustomerID != uuid.Nil {
		customer, err = s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		if customer.CompanyID != company.ID {
			return nil, apperror.NewValidationError("Customer belongs to another company")
		}
	}

	items, lines, subtotal, err := s.priceItems(ctx, company.ID, input.Items)
	if err != nil {
		return nil, err
	}

	rate := tax.AverageRate(s.cfg.RateMode, lines)
	breakdown := tax.Calculate(subtotal, rate, company.State, customer.StateOrEmpty())

	invoice := &entity.Invoice{
		CompanyID:   company.ID,
		InvoiceDate: time.Now().UTC(),
		Subtotal:    subtotal,
		TaxRate:     rate.Round(4),
		TaxAmount:   breakdown.TaxAmount,
		CGST:        breakdown.CGST,
		SGST:        breakdown.SGST,
		IGST:        breakdown.IGST,
		TotalAmount: subtotal.Add(breakdown.TaxAmount),
		PaymentMode: mode,
		Status:      enum.InvoiceStatusFor(mode),
		Notes:       input.Notes,
		Items:       items,
	}
	if customer != nil {
		invoice.CustomerID = &customer.ID
	}

	err = s.txManager.Transaction(ctx, func(ctx context.Context) error {
		invoiceNo, err := s.numbers.next(ctx, company.ID)
		if err != nil {
			return err
		}
		invoice.InvoiceNo = invoiceNo

		if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
			return err
		}

		if mode != enum.PaymentModeCredit {
			return nil
		}
		if customer == nil {
			log.Warn("credit invoice without customer, no balance opened",
				zap.String("invoice_no", invoice.InvoiceNo))
			return nil
		}

		balance := &entity.Balance{
			CompanyID:     company.ID,
			CustomerID:    customer.ID,
			InvoiceID:     &invoice.ID,
			TotalAmount:   invoice.TotalAmount,
			PaidAmount:    decimal.Zero,
			PendingAmount: invoice.TotalAmount,
			Status:        enum.BalanceStatusPending,
		}
		if err := s.txManager.Transaction(ctx, func(ctx context.Context) error {
			return s.balanceRepo.Create(ctx, balance)
		}); err != nil {
			log.Error("failed to open balance for credit invoice",
				zap.String("invoice_no", invoice.InvoiceNo),
				zap.Error(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.decrementStock(ctx, items)
	s.metrics.InvoiceIssued(string(mode))

	log.Info("invoice issued",
		zap.String("invoice_no", invoice.InvoiceNo),
		zap.String("company_id", company.ID.String()),
		zap.String("total", invoice.TotalAmount.StringFixed(2)))

	return s.GetInvoice(ctx, invoice.ID)
}

// priceItems builds invoice items and the per-line inputs to the rate average.
func (s *InvoiceService) priceItems(ctx context.Context, companyID uuid.UUID, inputs []InvoiceItemInput) ([]entity.InvoiceItem, []tax.Line, decimal.Decimal, error) {
	items := make([]entity.InvoiceItem, 0, len(inputs))
	lines := make([]tax.Line, 0, len(inputs))
	subtotal := decimal.Zero

	for i, in := range inputs {
		field := fmt.Sprintf("items[%d]", i)
		if !in.Quantity.IsPositive() {
			return nil, nil, decimal.Zero, apperror.NewValidationError("Validation failed",
				apperror.FieldError{Field: field + ".quantity", Message: "quantity must be positive"})
		}
		if in.UnitPrice.IsNegative() {
			return nil, nil, decimal.Zero, apperror.NewValidationError("Validation failed",
				apperror.FieldError{Field: field + ".unitPrice", Message: "unitPrice must not be negative"})
		}
		if in.TaxRate.IsNegative() {
			return nil, nil, decimal.Zero, apperror.NewValidationError("Validation failed",
				apperror.FieldError{Field: field + ".taxRate", Message: "taxRate must not be negative"})
		}

		name, hsn := strings.TrimSpace(in.ProductName), in.HSN
		if in.ProductID != nil {
			product, err := s.productRepo.GetByID(ctx, *in.ProductID)
			if err != nil {
				return nil, nil, decimal.Zero, err
			}
			if product == nil || product.CompanyID != companyID {
				return nil, nil, decimal.Zero, apperror.NewNotFoundError("Product")
			}
			// Stock is counted in whole units.
			if !in.Quantity.Equal(in.Quantity.Truncate(0)) {
				return nil, nil, decimal.Zero, apperror.NewValidationError("Validation failed",
					apperror.FieldError{Field: field + ".quantity", Message: "quantity must be a whole number for catalog products"})
			}
			if name == "" {
				name = product.Name
			}
			if hsn == nil {
				hsn = product.HSN
			}
		}
		if name == "" {
			return nil, nil, decimal.Zero, apperror.NewValidationError("Validation failed",
				apperror.FieldError{Field: field + ".productName", Message: "productName is required"})
		}

		lineSubtotal := tax.Round2(in.Quantity.Mul(in.UnitPrice))
		lineTax := tax.Round2(lineSubtotal.Mul(in.TaxRate).Div(decimal.NewFromInt(100)))

		items = append(items, entity.InvoiceItem{
			ProductID:   in.ProductID,
			ProductName: name,
			HSN:         hsn,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			TaxRate:     in.TaxRate,
			TaxAmount:   lineTax,
			LineTotal:   lineSubtotal.Add(lineTax),
		})
		lines = append(lines, tax.Line{Subtotal: lineSubtotal, Rate: in.TaxRate})
		subtotal = subtotal.Add(lineSubtotal)
	}

	return items, lines, subtotal, nil
}

// decrementStock is best effort; failures are logged, never surfaced.
func (s *InvoiceService) decrementStock(ctx context.Context, items []entity.InvoiceItem) {
	log := logger.FromContext(ctx)
	for _, item := range items {
		if item.ProductID == nil {
			continue
		}
		qty := int(item.Quantity.IntPart())
		if err := s.productRepo.DecrementStock(ctx, *item.ProductID, qty); err != nil {
			log.Warn("stock decrement failed",
				zap.String("product_id", item.ProductID.String()),
				zap.Int("quantity", qty),
				zap.Error(err))
		}
	}
}

// GetInvoice retrieves an invoice with its customer, company and items
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices lists a company's invoices, newest first
func (s *InvoiceService) ListInvoices(ctx context.Context, companyID uuid.UUID, params *pagination.Params) ([]entity.Invoice, error) {
	if companyID == uuid.Nil {
		return nil, apperror.ErrCompanyRequired
	}
	if params == nil {
		params = &pagination.Params{}
	}
	params.Validate(s.cfg.ListLimit)
	return s.invoiceRepo.List(ctx, companyID, params)
}

// invoiceNumbers hands out "<prefix>-NNN" numbers from the per-company sequence.
type invoiceNumbers struct {
	invoiceRepo  repository.InvoiceRepository
	sequenceRepo repository.InvoiceSequenceRepository
	prefix       string
}

func newInvoiceNumbers(invoiceRepo repository.InvoiceRepository, sequenceRepo repository.InvoiceSequenceRepository, prefix string) *invoiceNumbers {
	return &invoiceNumbers{invoiceRepo: invoiceRepo, sequenceRepo: sequenceRepo, prefix: prefix}
}

// next must run inside the caller's transaction.
func (n *invoiceNumbers) next(ctx context.Context, companyID uuid.UUID) (string, error) {
	value, err := n.sequenceRepo.Next(ctx, companyID, func(ctx context.Context) (int64, error) {
		last, err := n.invoiceRepo.LatestInvoiceNo(ctx, companyID)
		if err != nil {
			return 0, err
		}
		return utils.InvoiceSuffix(last), nil
	})
	if err != nil {
		return "", err
	}
	return utils.FormatInvoiceNo(n.prefix, value), nil
}
