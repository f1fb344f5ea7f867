package repository

import (
	"context"

	"github.com/google/uuid"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
	"gorm.io/gorm"
)

type ctxKey string

// txKey is the context key for an open *gorm.DB transaction
const txKey ctxKey = "gorm_tx"

// CompanyScope returns a GORM scope that filters by owning company.
// A nil company matches nothing rather than everything.
func CompanyScope(companyID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if companyID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where("company_id = ?", companyID)
	}
}

// dbFrom returns the transaction carried by ctx, or db bound to ctx.
func dbFrom(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager bound to db
func NewTxManager(db *gorm.DB) domainRepo.TxManager {
	return &txManager{db: db}
}

// Transaction begins a transaction, or a savepoint when ctx already carries one.
func (m *txManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return dbFrom(ctx, m.db).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey, tx))
	})
}
