package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/billing-api/pkg/apperror"
)

// Context keys set by the auth middleware.
const (
	ContextUserID    = "user_id"
	ContextCompanyID = "company_id"
	ContextEmail     = "user_email"
	ContextRole      = "user_role"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get(ContextUserID)
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetTokenCompanyID returns the company bound to the caller's token, or uuid.Nil
func GetTokenCompanyID(c *gin.Context) uuid.UUID {
	v, exists := c.Get(ContextCompanyID)
	if !exists {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}

// pathID parses a uuid path parameter, answering 400 when it is malformed.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// companyScope resolves the company a request acts on. An operator token
// bound to a company pins requests to it.
func companyScope(c *gin.Context, raw string) (uuid.UUID, bool) {
	tokenCompany := GetTokenCompanyID(c)

	if raw == "" {
		if tokenCompany != uuid.Nil {
			return tokenCompany, true
		}
		response.Error(c, apperror.ErrCompanyRequired)
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, "Invalid companyId")
		return uuid.Nil, false
	}
	if !ownsCompany(c, id) {
		return uuid.Nil, false
	}
	return id, true
}

// ownsCompany answers 403 when a company-bound token reaches a record that
// belongs to another company.
func ownsCompany(c *gin.Context, companyID uuid.UUID) bool {
	tokenCompany := GetTokenCompanyID(c)
	if tokenCompany != uuid.Nil && tokenCompany != companyID {
		response.ErrorWithCode(c, http.StatusForbidden, "Access denied to this company")
		return false
	}
	return true
}

// queryCompany reads ?companyId=.
func queryCompany(c *gin.Context) (uuid.UUID, bool) {
	return companyScope(c, c.Query("companyId"))
}
