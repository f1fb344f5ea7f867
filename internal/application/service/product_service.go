package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

var defaultProductTaxRate = decimal.NewFromInt(18)

// ProductService handles product-related operations
type ProductService struct {
	productRepo repository.ProductRepository
	companyRepo repository.CompanyRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, companyRepo repository.CompanyRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		companyRepo: companyRepo,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	CompanyID     uuid.UUID
	SKU           string
	Name          string
	HSN           *string
	Description   *string
	UnitPrice     decimal.Decimal
	PurchasePrice decimal.Decimal
	Stock         int
	TaxRate       *decimal.Decimal
	Barcode       *string
}

// CreateProduct creates a new product. SKUs are unique per company.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if _, err := requireCompany(ctx, s.companyRepo, input.CompanyID); err != nil {
		return nil, err
	}

	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(input.SKU) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "sku", Message: "sku is required"})
	}
	if strings.TrimSpace(input.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if input.UnitPrice.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "unitPrice", Message: "unitPrice must not be negative"})
	}
	if input.TaxRate != nil && input.TaxRate.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "taxRate", Message: "taxRate must not be negative"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError("Validation failed", fieldErrors...)
	}

	taxRate := defaultProductTaxRate
	if input.TaxRate != nil {
		taxRate = *input.TaxRate
	}

	product := &entity.Product{
		CompanyID:     input.CompanyID,
		SKU:           strings.TrimSpace(input.SKU),
		Name:          strings.TrimSpace(input.Name),
		HSN:           input.HSN,
		Description:   input.Description,
		UnitPrice:     input.UnitPrice,
		PurchasePrice: input.PurchasePrice,
		Stock:         input.Stock,
		TaxRate:       taxRate,
		Barcode:       input.Barcode,
		IsActive:      true,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct retrieves a product by ID, active or not
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists the active products of a company
func (s *ProductService) ListProducts(ctx context.Context, companyID uuid.UUID) ([]entity.Product, error) {
	if companyID == uuid.Nil {
		return nil, apperror.ErrCompanyRequired
	}
	return s.productRepo.ListActive(ctx, companyID)
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	ID            uuid.UUID
	SKU           *string
	Name          *string
	HSN           *string
	Description   *string
	UnitPrice     *decimal.Decimal
	PurchasePrice *decimal.Decimal
	Stock         *int
	TaxRate       *decimal.Decimal
	Barcode       *string
	IsActive      *bool
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.SKU != nil {
		if strings.TrimSpace(*input.SKU) == "" {
			return nil, apperror.NewValidationError("sku cannot be empty")
		}
		product.SKU = strings.TrimSpace(*input.SKU)
	}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperror.NewValidationError("name cannot be empty")
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.HSN != nil {
		product.HSN = input.HSN
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.UnitPrice != nil {
		if input.UnitPrice.IsNegative() {
			return nil, apperror.NewValidationError("unitPrice must not be negative")
		}
		product.UnitPrice = *input.UnitPrice
	}
	if input.PurchasePrice != nil {
		product.PurchasePrice = *input.PurchasePrice
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.TaxRate != nil {
		if input.TaxRate.IsNegative() {
			return nil, apperror.NewValidationError("taxRate must not be negative")
		}
		product.TaxRate = *input.TaxRate
	}
	if input.Barcode != nil {
		product.Barcode = input.Barcode
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deactivates a product. Invoice items keep referencing it.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Deactivate(ctx, id)
}
