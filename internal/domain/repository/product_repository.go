package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// Deactivate soft-deletes a product.
	Deactivate(ctx context.Context, id uuid.UUID) error
	// ListActive returns a company's active products ordered by name.
	ListActive(ctx context.Context, companyID uuid.UUID) ([]entity.Product, error)
	CountActive(ctx context.Context, companyID uuid.UUID) (int64, error)
	// DecrementStock subtracts amount from stock in a single UPDATE.
	DecrementStock(ctx context.Context, id uuid.UUID, amount int) error
}
