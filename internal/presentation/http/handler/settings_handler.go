package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/billing-api/internal/application/service"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles messaging settings requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings returns the company's messaging settings with secrets hidden
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	companyID, ok := queryCompany(c)
	if !ok {
		return
	}

	settings, err := h.settingsService.GetSettings(c.Request.Context(), companyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, settings)
}

// SaveSettings creates or updates the company's messaging settings.
// Omitted secrets keep their stored value.
func (h *SettingsHandler) SaveSettings(c *gin.Context) {
	var req struct {
		CompanyID             string                  `json:"companyId"`
		Provider              *enum.MessagingProvider `json:"provider"`
		TwilioAccountSID      *string                 `json:"twilioAccountSid"`
		TwilioAuthToken       *string                 `json:"twilioAuthToken"`
		TwilioWhatsAppNumber  *string                 `json:"twilioWhatsappNumber"`
		MetaPhoneNumberID     *string                 `json:"metaPhoneNumberId"`
		MetaAccessToken       *string                 `json:"metaAccessToken"`
		AutoRemindersEnabled  *bool                   `json:"autoRemindersEnabled"`
		ReminderFrequencyDays *int                    `json:"reminderFrequencyDays"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	companyID, ok := companyScope(c, req.CompanyID)
	if !ok {
		return
	}

	settings, err := h.settingsService.SaveSettings(c.Request.Context(), &service.SaveSettingsInput{
		CompanyID:             companyID,
		Provider:              req.Provider,
		TwilioAccountSID:      req.TwilioAccountSID,
		TwilioAuthToken:       req.TwilioAuthToken,
		TwilioWhatsAppNumber:  req.TwilioWhatsAppNumber,
		MetaPhoneNumberID:     req.MetaPhoneNumberID,
		MetaAccessToken:       req.MetaAccessToken,
		AutoRemindersEnabled:  req.AutoRemindersEnabled,
		ReminderFrequencyDays: req.ReminderFrequencyDays,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, settings)
}
