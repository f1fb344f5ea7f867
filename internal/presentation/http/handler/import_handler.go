package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/billing-api/internal/application/service"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/billing-api/pkg/logger"
	"github.com/sangkips/billing-api/pkg/spreadsheet"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxUploadBytes bounds statement uploads.
const maxUploadBytes = 10 << 20

// ImportHandler handles bulk import of previous balances
type ImportHandler struct {
	importService *service.ImportService
}

// NewImportHandler creates a new import handler
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportBalances imports rows already extracted by the client
func (h *ImportHandler) ImportBalances(c *gin.Context) {
	var req struct {
		CompanyID string `json:"companyId"`
		Data      []struct {
			CustomerName string          `json:"customerName"`
			Phone        string          `json:"phone"`
			Amount       decimal.Decimal `json:"amount"`
		} `json:"data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	companyID, ok := companyScope(c, req.CompanyID)
	if !ok {
		return
	}

	rows := make([]spreadsheet.BalanceRow, 0, len(req.Data))
	for i, d := range req.Data {
		rows = append(rows, spreadsheet.BalanceRow{
			Row:          i + 1,
			CustomerName: d.CustomerName,
			Phone:        d.Phone,
			Amount:       d.Amount,
		})
	}

	result, err := h.importService.ImportBalances(c.Request.Context(), companyID, rows)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// UploadStatement parses an xlsx statement. With preview=true the
// extracted rows are returned without importing them.
func (h *ImportHandler) UploadStatement(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	companyID, ok := companyScope(c, c.PostForm("companyId"))
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Could not read uploaded file")
		return
	}
	defer file.Close()

	rows, err := spreadsheet.ParseBalances(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.ErrorWithCode(c, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		logger.FromContext(c.Request.Context()).Warn("statement parse failed",
			zap.String("filename", fileHeader.Filename), zap.Error(err))
		response.BadRequest(c, "File is not a readable xlsx workbook")
		return
	}

	if preview, _ := strconv.ParseBool(c.PostForm("preview")); preview {
		response.OK(c, gin.H{"rows": rows, "count": len(rows)})
		return
	}

	result, err := h.importService.ImportBalances(c.Request.Context(), companyID, rows)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
