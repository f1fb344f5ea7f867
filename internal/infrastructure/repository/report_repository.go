package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) SalesSince(ctx context.Context, companyID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := dbFrom(ctx, r.db).Model(&entity.Invoice{}).
		Scopes(CompanyScope(companyID)).
		Where("invoice_date >= ?", since).
		Select("SUM(total_amount)").
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return orZero(total), nil
}

func (r *reportRepository) CountInvoices(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&entity.Invoice{}).
		Scopes(CompanyScope(companyID)).
		Count(&count).Error
	return count, err
}

func (r *reportRepository) GSTSummary(ctx context.Context, companyID uuid.UUID, from, to *time.Time) (*domainRepo.GSTSummary, error) {
	var cgst, sgst, igst, tax, sales decimal.NullDecimal
	var count int64

	query := dbFrom(ctx, r.db).Model(&entity.Invoice{}).Scopes(CompanyScope(companyID))
	if from != nil {
		query = query.Where("invoice_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("invoice_date < ?", *to)
	}
	err := query.
		Select("SUM(cgst), SUM(sgst), SUM(igst), SUM(tax_amount), SUM(total_amount), COUNT(*)").
		Row().Scan(&cgst, &sgst, &igst, &tax, &sales, &count)
	if err != nil {
		return nil, err
	}

	return &domainRepo.GSTSummary{
		CGST:         orZero(cgst),
		SGST:         orZero(sgst),
		IGST:         orZero(igst),
		Total:        orZero(sales),
		TotalTax:     orZero(tax),
		InvoiceCount: count,
	}, nil
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal.Round(2)
}
