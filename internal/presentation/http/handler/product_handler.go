package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/application/service"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/response"
	"github.com/shopspring/decimal"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing a company's active products
func (h *ProductHandler) List(c *gin.Context) {
	companyID, ok := queryCompany(c)
	if !ok {
		return
	}
	products, err := h.productService.ListProducts(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, products)
}

// Get handles getting a product by ID
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !ownsCompany(c, product.CompanyID) {
		return
	}
	response.OK(c, product)
}

func (h *ProductHandler) ownedProduct(c *gin.Context, id uuid.UUID) bool {
	if GetTokenCompanyID(c) == uuid.Nil {
		return true
	}
	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return false
	}
	return ownsCompany(c, product.CompanyID)
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	var req struct {
		CompanyID     string           `json:"companyId"`
		SKU           string           `json:"sku" binding:"required"`
		Name          string           `json:"name" binding:"required"`
		HSN           *string          `json:"hsn"`
		Description   *string          `json:"description"`
		UnitPrice     decimal.Decimal  `json:"unitPrice"`
		PurchasePrice decimal.Decimal  `json:"purchasePrice"`
		Stock         int              `json:"stock"`
		TaxRate       *decimal.Decimal `json:"taxRate"`
		Barcode       *string          `json:"barcode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	companyID, ok := companyScope(c, req.CompanyID)
	if !ok {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &service.CreateProductInput{
		CompanyID:     companyID,
		SKU:           req.SKU,
		Name:          req.Name,
		HSN:           req.HSN,
		Description:   req.Description,
		UnitPrice:     req.UnitPrice,
		PurchasePrice: req.PurchasePrice,
		Stock:         req.Stock,
		TaxRate:       req.TaxRate,
		Barcode:       req.Barcode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, product)
}

// Update handles updating a product
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !h.ownedProduct(c, id) {
		return
	}

	var req struct {
		SKU           *string          `json:"sku"`
		Name          *string          `json:"name"`
		HSN           *string          `json:"hsn"`
		Description   *string          `json:"description"`
		UnitPrice     *decimal.Decimal `json:"unitPrice"`
		PurchasePrice *decimal.Decimal `json:"purchasePrice"`
		Stock         *int             `json:"stock"`
		TaxRate       *decimal.Decimal `json:"taxRate"`
		Barcode       *string          `json:"barcode"`
		IsActive      *bool            `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), &service.UpdateProductInput{
		ID:            id,
		SKU:           req.SKU,
		Name:          req.Name,
		HSN:           req.HSN,
		Description:   req.Description,
		UnitPrice:     req.UnitPrice,
		PurchasePrice: req.PurchasePrice,
		Stock:         req.Stock,
		TaxRate:       req.TaxRate,
		Barcode:       req.Barcode,
		IsActive:      req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, product)
}

// Delete handles deactivating a product
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !h.ownedProduct(c, id) {
		return
	}
	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"success": true})
}
