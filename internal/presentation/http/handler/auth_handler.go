package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/application/service"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/billing-api/pkg/apperror"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles operator login
// @Summary Login
// @Description Authenticate an operator and return an access token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{
		"user":        output.User,
		"accessToken": output.AccessToken,
		"tokenType":   "Bearer",
	})
}

// Register handles operator registration. Only an admin caller may choose the
// role, and a company-bound admin can only add operators to its own company.
// @Summary Register
// @Description Create an operator account, optionally bound to a company
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} entity.User
// @Failure 400 {object} response.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		CompanyID string `json:"companyId"`
		Name      string `json:"name" binding:"required"`
		Email     string `json:"email" binding:"required"`
		Password  string `json:"password" binding:"required"`
		Role      string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	var companyID *uuid.UUID
	if GetTokenCompanyID(c) != uuid.Nil {
		id, ok := companyScope(c, req.CompanyID)
		if !ok {
			return
		}
		companyID = &id
	} else {
		id, err := optionalID(req.CompanyID, "companyId")
		if err != nil {
			response.Error(c, err)
			return
		}
		companyID = id
	}

	role := ""
	if c.GetString(ContextRole) == entity.RoleAdmin {
		role = req.Role
	}

	user, err := h.authService.Register(c.Request.Context(), &service.RegisterInput{
		CompanyID: companyID,
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Role:      role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, user)
}

// Me returns the signed-in operator
func (h *AuthHandler) Me(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, user)
}
