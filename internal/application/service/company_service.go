package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/apperror"
)

// CompanyService handles company-related operations
type CompanyService struct {
	companyRepo repository.CompanyRepository
}

// NewCompanyService creates a new company service
func NewCompanyService(companyRepo repository.CompanyRepository) *CompanyService {
	return &CompanyService{companyRepo: companyRepo}
}

// CreateCompanyInput represents the create company input
type CreateCompanyInput struct {
	Name    string
	GSTIN   *string
	Address *string
	City    *string
	State   string
	Pincode *string
	Phone   *string
	Email   *string
	LogoURL *string
}

// CreateCompany creates a new company
func (s *CompanyService) CreateCompany(ctx context.Context, input *CreateCompanyInput) (*entity.Company, error) {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(input.Name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(input.State) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "state", Message: "state is required"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError("Validation failed", fieldErrors...)
	}

	company := &entity.Company{
		Name:    strings.TrimSpace(input.Name),
		GSTIN:   input.GSTIN,
		Address: input.Address,
		City:    input.City,
		State:   strings.TrimSpace(input.State),
		Pincode: input.Pincode,
		Phone:   input.Phone,
		Email:   input.Email,
		LogoURL: input.LogoURL,
	}

	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// GetCompany retrieves a company by ID
func (s *CompanyService) GetCompany(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, apperror.NewNotFoundError("Company")
	}
	return company, nil
}

// ListCompanies returns every company, newest first
func (s *CompanyService) ListCompanies(ctx context.Context) ([]entity.Company, error) {
	return s.companyRepo.List(ctx)
}

// UpdateCompanyInput represents the update company input
type UpdateCompanyInput struct {
	ID      uuid.UUID
	Name    *string
	GSTIN   *string
	Address *string
	City    *string
	State   *string
	Pincode *string
	Phone   *string
	Email   *string
	LogoURL *string
}

// UpdateCompany applies the non-nil fields of input
func (s *CompanyService) UpdateCompany(ctx context.Context, input *UpdateCompanyInput) (*entity.Company, error) {
	company, err := s.GetCompany(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperror.NewValidationError("name cannot be empty")
		}
		company.Name = strings.TrimSpace(*input.Name)
	}
	if input.State != nil {
		if strings.TrimSpace(*input.State) == "" {
			return nil, apperror.NewValidationError("state cannot be empty")
		}
		company.State = strings.TrimSpace(*input.State)
	}
	if input.GSTIN != nil {
		company.GSTIN = input.GSTIN
	}
	if input.Address != nil {
		company.Address = input.Address
	}
	if input.City != nil {
		company.City = input.City
	}
	if input.Pincode != nil {
		company.Pincode = input.Pincode
	}
	if input.Phone != nil {
		company.Phone = input.Phone
	}
	if input.Email != nil {
		company.Email = input.Email
	}
	if input.LogoURL != nil {
		company.LogoURL = input.LogoURL
	}

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// requireCompany loads the owning company or fails with 400/404.
func requireCompany(ctx context.Context, repo repository.CompanyRepository, id uuid.UUID) (*entity.Company, error) {
	if id == uuid.Nil {
		return nil, apperror.ErrCompanyRequired
	}
	company, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, apperror.NewNotFoundError("Company")
	}
	return company, nil
}
