package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GSTSummary totals tax collected over a period
type GSTSummary struct {
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
	Total        decimal.Decimal `json:"total"`
	TotalTax     decimal.Decimal `json:"totalTax"`
	InvoiceCount int64           `json:"invoiceCount"`
}

// ReportRepository runs aggregate queries over invoices
type ReportRepository interface {
	// SalesSince sums invoice totals dated at or after since.
	SalesSince(ctx context.Context, companyID uuid.UUID, since time.Time) (decimal.Decimal, error)
	CountInvoices(ctx context.Context, companyID uuid.UUID) (int64, error)
	// GSTSummary aggregates invoices dated in [from, to). A nil bound is open.
	GSTSummary(ctx context.Context, companyID uuid.UUID, from, to *time.Time) (*GSTSummary, error)
}
