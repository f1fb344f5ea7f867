package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/application/service"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/response"
	"github.com/shopspring/decimal"
)

// BalanceHandler handles credit balances, payments and reminders
type BalanceHandler struct {
	ledgerService   *service.LedgerService
	reminderService *service.ReminderService
}

// NewBalanceHandler creates a new balance handler
func NewBalanceHandler(ledgerService *service.LedgerService, reminderService *service.ReminderService) *BalanceHandler {
	return &BalanceHandler{
		ledgerService:   ledgerService,
		reminderService: reminderService,
	}
}

// List handles listing a company's balances
func (h *BalanceHandler) List(c *gin.Context) {
	companyID, ok := queryCompany(c)
	if !ok {
		return
	}
	balances, err := h.ledgerService.ListBalances(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, balances)
}

// Get handles getting a balance with its payments and reminders
func (h *BalanceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	balance, err := h.ledgerService.GetBalance(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !ownsCompany(c, balance.CompanyID) {
		return
	}
	response.OK(c, balance)
}

// ownedBalance checks a balance against a company-bound token before it is changed.
func (h *BalanceHandler) ownedBalance(c *gin.Context, id uuid.UUID) bool {
	if GetTokenCompanyID(c) == uuid.Nil {
		return true
	}
	balance, err := h.ledgerService.GetBalance(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return false
	}
	return ownsCompany(c, balance.CompanyID)
}

// ListByCustomer handles listing the balances of one customer
func (h *BalanceHandler) ListByCustomer(c *gin.Context) {
	customerID, ok := pathID(c, "customerId")
	if !ok {
		return
	}
	balances, err := h.ledgerService.ListCustomerBalances(c.Request.Context(), customerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	// A customer belongs to one company, so its balances all share it.
	if len(balances) > 0 && !ownsCompany(c, balances[0].CompanyID) {
		return
	}
	response.OK(c, balances)
}

// PendingCount handles counting balances with money still owed
func (h *BalanceHandler) PendingCount(c *gin.Context) {
	companyID, ok := queryCompany(c)
	if !ok {
		return
	}
	count, err := h.ledgerService.CountPending(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"count": count})
}

// Create handles opening a balance directly
func (h *BalanceHandler) Create(c *gin.Context) {
	var req struct {
		CompanyID   string          `json:"companyId"`
		CustomerID  string          `json:"customerId" binding:"required,uuid"`
		InvoiceID   string          `json:"invoiceId"`
		TotalAmount decimal.Decimal `json:"totalAmount"`
		PaidAmount  decimal.Decimal `json:"paidAmount"`
		Notes       *string         `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	companyID, ok := companyScope(c, req.CompanyID)
	if !ok {
		return
	}
	invoiceID, err := optionalID(req.InvoiceID, "invoiceId")
	if err != nil {
		response.Error(c, err)
		return
	}

	balance, err := h.ledgerService.CreateBalance(c.Request.Context(), &service.CreateBalanceInput{
		CompanyID:   companyID,
		CustomerID:  uuid.MustParse(req.CustomerID),
		InvoiceID:   invoiceID,
		TotalAmount: req.TotalAmount,
		PaidAmount:  req.PaidAmount,
		Notes:       req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, balance)
}

// RecordPayment handles recording a payment against a balance
func (h *BalanceHandler) RecordPayment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if !h.ownedBalance(c, id) {
		return
	}

	var req struct {
		PaymentAmount decimal.Decimal  `json:"paymentAmount"`
		PaymentMode   enum.PaymentMode `json:"paymentMode"`
		Notes         *string          `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.ledgerService.RecordPayment(c.Request.Context(), &service.RecordPaymentInput{
		BalanceID:   id,
		Amount:      req.PaymentAmount,
		PaymentMode: req.PaymentMode,
		Notes:       req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// SendReminder handles sending a reminder for one balance
func (h *BalanceHandler) SendReminder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !h.ownedBalance(c, id) {
		return
	}
	reminder, err := h.reminderService.SendReminder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{
		"success":  true,
		"message":  "Reminder sent successfully",
		"reminder": reminder,
	})
}

// SendAutoReminders handles the batch reminder run for a company
func (h *BalanceHandler) SendAutoReminders(c *gin.Context) {
	var req struct {
		CompanyID string `json:"companyId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	companyID, ok := companyScope(c, req.CompanyID)
	if !ok {
		return
	}

	result, err := h.reminderService.SendAutoReminders(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Skipped {
		response.OK(c, gin.H{"message": result.Message})
		return
	}
	response.OK(c, result)
}
