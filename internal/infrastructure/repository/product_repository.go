package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return dbFrom(ctx, r.db).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := dbFrom(ctx, r.db).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return dbFrom(ctx, r.db).Save(product).Error
}

func (r *productRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Model(&entity.Product{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *productRepository) ListActive(ctx context.Context, companyID uuid.UUID) ([]entity.Product, error) {
	var products []entity.Product
	err := dbFrom(ctx, r.db).
		Scopes(CompanyScope(companyID)).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepository) CountActive(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&entity.Product{}).
		Scopes(CompanyScope(companyID)).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

// DecrementStock runs UPDATE products SET stock = stock - amount WHERE id = ?.
// Stock may go negative; the counter does not refuse a sale.
func (r *productRepository) DecrementStock(ctx context.Context, id uuid.UUID, amount int) error {
	return dbFrom(ctx, r.db).Model(&entity.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock - ?", amount)).Error
}
