package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/apperror"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
	companyRepo  repository.CompanyRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, companyRepo repository.CompanyRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		companyRepo:  companyRepo,
	}
}

// CreateCustomerInput represents the create customer input
type CreateCustomerInput struct {
	CompanyID uuid.UUID
	Name      string
	Phone     *string
	Email     *string
	GSTIN     *string
	Address   *string
	City      *string
	State     *string
	Pincode   *string
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	if _, err := requireCompany(ctx, s.companyRepo, input.CompanyID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperror.NewValidationError("Validation failed", apperror.FieldError{Field: "name", Message: "name is required"})
	}

	customer := &entity.Customer{
		CompanyID: input.CompanyID,
		Name:      strings.TrimSpace(input.Name),
		Phone:     trimmed(input.Phone),
		Email:     input.Email,
		GSTIN:     input.GSTIN,
		Address:   input.Address,
		City:      input.City,
		State:     trimmed(input.State),
		Pincode:   input.Pincode,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// ListCustomers lists the customers of a company by name
func (s *CustomerService) ListCustomers(ctx context.Context, companyID uuid.UUID) ([]entity.Customer, error) {
	if companyID == uuid.Nil {
		return nil, apperror.ErrCompanyRequired
	}
	return s.customerRepo.List(ctx, companyID)
}

// UpdateCustomerInput represents the update customer input
type UpdateCustomerInput struct {
	ID      uuid.UUID
	Name    *string
	Phone   *string
	Email   *string
	GSTIN   *string
	Address *string
	City    *string
	State   *string
	Pincode *string
}

// UpdateCustomer updates a customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperror.NewValidationError("name cannot be empty")
		}
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		customer.Phone = trimmed(input.Phone)
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.GSTIN != nil {
		customer.GSTIN = input.GSTIN
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.City != nil {
		customer.City = input.City
	}
	if input.State != nil {
		customer.State = trimmed(input.State)
	}
	if input.Pincode != nil {
		customer.Pincode = input.Pincode
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer permanently removes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, id)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
