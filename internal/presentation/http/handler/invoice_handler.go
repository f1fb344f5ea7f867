package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/application/service"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

type invoiceItemRequest struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	HSN         *string         `json:"hsn"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
}

// List handles listing a company's invoices, newest first
func (h *InvoiceHandler) List(c *gin.Context) {
	companyID, ok := queryCompany(c)
	if !ok {
		return
	}
	params := pagination.FromQuery(c.Query("limit"), c.Query("offset"))

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), companyID, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, invoices)
}

// Get handles getting an invoice with its items
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !ownsCompany(c, invoice.CompanyID) {
		return
	}
	response.OK(c, invoice)
}

// Create handles issuing an invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req struct {
		CompanyID   string               `json:"companyId"`
		CustomerID  string               `json:"customerId"`
		Items       []invoiceItemRequest `json:"items" binding:"required,min=1"`
		PaymentMode enum.PaymentMode     `json:"paymentMode"`
		Notes       *string              `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	companyID, ok := companyScope(c, req.CompanyID)
	if !ok {
		return
	}

	customerID, err := optionalID(req.CustomerID, "customerId")
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]service.InvoiceItemInput, 0, len(req.Items))
	for i, item := range req.Items {
		productID, err := optionalID(item.ProductID, fmt.Sprintf("items[%d].productId", i))
		if err != nil {
			response.Error(c, err)
			return
		}
		items = append(items, service.InvoiceItemInput{
			ProductID:   productID,
			ProductName: item.ProductName,
			HSN:         item.HSN,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxRate:     item.TaxRate,
		})
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), &service.CreateInvoiceInput{
		CompanyID:   companyID,
		CustomerID:  customerID,
		Items:       items,
		PaymentMode: req.PaymentMode,
		Notes:       req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, invoice)
}

// optionalID parses an id that clients may send as "" for none.
func optionalID(raw, field string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.NewValidationError("Validation failed",
			apperror.FieldError{Field: field, Message: field + " must be a valid id"})
	}
	return &id, nil
}
