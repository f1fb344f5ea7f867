package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return dbFrom(ctx, r.db).Omit("Customer", "Company").Create(invoice).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := dbFrom(ctx, r.db).
		Preload("Customer").
		Preload("Company").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) List(ctx context.Context, companyID uuid.UUID, params *pagination.Params) ([]entity.Invoice, error) {
	var invoices []entity.Invoice

	query := dbFrom(ctx, r.db).
		Scopes(CompanyScope(companyID)).
		Preload("Customer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "phone", "gstin")
		}).
		Order("invoice_date DESC").
		Order("created_at DESC")

	if params != nil && params.Bounded() {
		query = query.Offset(params.Offset).Limit(params.Limit)
	}

	err := query.Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) LatestInvoiceNo(ctx context.Context, companyID uuid.UUID) (string, error) {
	var invoice entity.Invoice
	err := dbFrom(ctx, r.db).
		Scopes(CompanyScope(companyID)).
		Select("invoice_no").
		Order("created_at DESC").
		Take(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return invoice.InvoiceNo, err
}

type invoiceSequenceRepository struct {
	db *gorm.DB
}

// NewInvoiceSequenceRepository creates a new invoice sequence repository
func NewInvoiceSequenceRepository(db *gorm.DB) domainRepo.InvoiceSequenceRepository {
	return &invoiceSequenceRepository{db: db}
}

// Next runs UPDATE ... SET last_value = last_value + 1 and reads the row back.
// Called inside a transaction, the row lock serializes concurrent issuers.
// When no counter row exists it is inserted with ON CONFLICT DO NOTHING, and
// a lost insert race falls back to the increment.
func (r *invoiceSequenceRepository) Next(ctx context.Context, companyID uuid.UUID, seed func(ctx context.Context) (int64, error)) (int64, error) {
	db := dbFrom(ctx, r.db)

	for attempt := 0; attempt < 3; attempt++ {
		result := db.Model(&entity.InvoiceSequence{}).
			Where("company_id = ?", companyID).
			Update("last_value", gorm.Expr("last_value + 1"))
		if result.Error != nil {
			return 0, result.Error
		}

		if result.RowsAffected > 0 {
			var seq entity.InvoiceSequence
			if err := db.First(&seq, "company_id = ?", companyID).Error; err != nil {
				return 0, err
			}
			return seq.LastValue, nil
		}

		start, err := seed(ctx)
		if err != nil {
			return 0, err
		}

		seq := entity.InvoiceSequence{CompanyID: companyID, LastValue: start + 1}
		result = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seq)
		if result.Error != nil {
			return 0, result.Error
		}
		if result.RowsAffected > 0 {
			return seq.LastValue, nil
		}
	}

	return 0, errors.New("invoice sequence: could not reserve a number")
}
