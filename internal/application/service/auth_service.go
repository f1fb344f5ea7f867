package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/utils"
)

const minPasswordLength = 8

var validate = validator.New()

// AuthService handles operator sign-up and sign-in
type AuthService struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	jwtManager  *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	jwtManager *utils.JWTManager,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		jwtManager:  jwtManager,
	}
}

// RegisterInput represents the registration input
type RegisterInput struct {
	CompanyID *uuid.UUID
	Name      string
	Email     string
	Password  string
	Role      string
}

// Register creates a new operator account
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var fieldErrors []apperror.FieldError
	if err := validate.Var(email, "required,email"); err != nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "email", Message: "email is invalid"})
	}
	if len(input.Password) < minPasswordLength {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "password", Message: "password must be at least 8 characters"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError("Validation failed", fieldErrors...)
	}

	if input.CompanyID != nil {
		if _, err := requireCompany(ctx, s.companyRepo, *input.CompanyID); err != nil {
			return nil, err
		}
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = entity.RoleCashier
	}

	user := &entity.User{
		CompanyID:    input.CompanyID,
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		Role:         role,
		PasswordHash: hashed,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User        *entity.User
	AccessToken string
}

// Login checks the operator's password and issues an access token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperror.ErrInvalidCredentials
	}

	companyID := uuid.Nil
	if user.CompanyID != nil {
		companyID = *user.CompanyID
	}

	token, err := s.jwtManager.GenerateAccessToken(user.ID, companyID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{User: user, AccessToken: token}, nil
}

// GetCurrentUser returns the user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}
