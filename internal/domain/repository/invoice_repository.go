package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/pkg/pagination"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	// Create inserts the invoice together with its Items.
	Create(ctx context.Context, invoice *entity.Invoice) error
	// GetByID loads the invoice with customer, company and items.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	// List returns a company's invoices newest first with customer summary.
	List(ctx context.Context, companyID uuid.UUID, params *pagination.Params) ([]entity.Invoice, error)
	// LatestInvoiceNo returns the number of the most recently created invoice, or "".
	LatestInvoiceNo(ctx context.Context, companyID uuid.UUID) (string, error)
}

// InvoiceSequenceRepository hands out invoice numbers per company.
type InvoiceSequenceRepository interface {
	// Next atomically advances the company counter and returns the new value.
	// A missing counter is created from seed, so the first value is seed+1.
	Next(ctx context.Context, companyID uuid.UUID, seed func(ctx context.Context) (int64, error)) (int64, error)
}
