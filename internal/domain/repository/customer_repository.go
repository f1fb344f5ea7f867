package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns a company's customers ordered by name.
	List(ctx context.Context, companyID uuid.UUID) ([]entity.Customer, error)
	Count(ctx context.Context, companyID uuid.UUID) (int64, error)
	FindByPhone(ctx context.Context, companyID uuid.UUID, phone string) (*entity.Customer, error)
	// FindByName matches case-insensitively.
	FindByName(ctx context.Context, companyID uuid.UUID, name string) (*entity.Customer, error)
}
