package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/application/service"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/response"
)

// CompanyHandler handles company-related HTTP requests
type CompanyHandler struct {
	companyService *service.CompanyService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyService *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// List handles listing companies
func (h *CompanyHandler) List(c *gin.Context) {
	if tokenCompany := GetTokenCompanyID(c); tokenCompany != uuid.Nil {
		company, err := h.companyService.GetCompany(c.Request.Context(), tokenCompany)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, []entity.Company{*company})
		return
	}
	companies, err := h.companyService.ListCompanies(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, companies)
}

// Get handles getting a company by ID
func (h *CompanyHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !ownsCompany(c, id) {
		return
	}
	company, err := h.companyService.GetCompany(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, company)
}

// Create handles creating a company
func (h *CompanyHandler) Create(c *gin.Context) {
	var req struct {
		Name    string  `json:"name" binding:"required"`
		GSTIN   *string `json:"gstin"`
		Address *string `json:"address"`
		City    *string `json:"city"`
		State   string  `json:"state" binding:"required"`
		Pincode *string `json:"pincode"`
		Phone   *string `json:"phone"`
		Email   *string `json:"email"`
		LogoURL *string `json:"logoUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	company, err := h.companyService.CreateCompany(c.Request.Context(), &service.CreateCompanyInput{
		Name:    req.Name,
		GSTIN:   req.GSTIN,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Pincode: req.Pincode,
		Phone:   req.Phone,
		Email:   req.Email,
		LogoURL: req.LogoURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, company)
}

// Update handles updating a company
func (h *CompanyHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !ownsCompany(c, id) {
		return
	}

	var req struct {
		Name    *string `json:"name"`
		GSTIN   *string `json:"gstin"`
		Address *string `json:"address"`
		City    *string `json:"city"`
		State   *string `json:"state"`
		Pincode *string `json:"pincode"`
		Phone   *string `json:"phone"`
		Email   *string `json:"email"`
		LogoURL *string `json:"logoUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	company, err := h.companyService.UpdateCompany(c.Request.Context(), &service.UpdateCompanyInput{
		ID:      id,
		Name:    req.Name,
		GSTIN:   req.GSTIN,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Pincode: req.Pincode,
		Phone:   req.Phone,
		Email:   req.Email,
		LogoURL: req.LogoURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, company)
}
