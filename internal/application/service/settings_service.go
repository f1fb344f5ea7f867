package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/pkg/apperror"
)

// SettingsService handles per-company messaging settings
type SettingsService struct {
	settingsRepo repository.MessagingSettingsRepository
	companyRepo  repository.CompanyRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.MessagingSettingsRepository, companyRepo repository.CompanyRepository) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		companyRepo:  companyRepo,
	}
}

// MessagingSettingsView is what clients see. Tokens are replaced by flags.
type MessagingSettingsView struct {
	ID                    *uuid.UUID             `json:"id,omitempty"`
	CompanyID             uuid.UUID              `json:"companyId"`
	Provider              enum.MessagingProvider `json:"provider"`
	TwilioAccountSID      *string                `json:"twilioAccountSid,omitempty"`
	TwilioWhatsAppNumber  *string                `json:"twilioWhatsappNumber,omitempty"`
	MetaPhoneNumberID     *string                `json:"metaPhoneNumberId,omitempty"`
	AutoRemindersEnabled  bool                   `json:"autoRemindersEnabled"`
	ReminderFrequencyDays int                    `json:"reminderFrequencyDays"`
	TwilioConfigured      bool                   `json:"twilioConfigured"`
	MetaConfigured        bool                   `json:"metaConfigured"`
	UpdatedAt             *time.Time             `json:"updatedAt,omitempty"`
}

func newSettingsView(s *entity.MessagingSettings) *MessagingSettingsView {
	view := &MessagingSettingsView{
		CompanyID:             s.CompanyID,
		Provider:              s.Provider,
		TwilioAccountSID:      s.TwilioAccountSID,
		TwilioWhatsAppNumber:  s.TwilioWhatsAppNumber,
		MetaPhoneNumberID:     s.MetaPhoneNumberID,
		AutoRemindersEnabled:  s.AutoRemindersEnabled,
		ReminderFrequencyDays: s.FrequencyDays(),
		TwilioConfigured:      s.TwilioConfigured(),
		MetaConfigured:        s.MetaConfigured(),
	}
	if s.ID != uuid.Nil {
		id, updated := s.ID, s.UpdatedAt
		view.ID = &id
		view.UpdatedAt = &updated
	}
	return view
}

// GetSettings returns the company's settings, or defaults when none are saved
func (s *SettingsService) GetSettings(ctx context.Context, companyID uuid.UUID) (*MessagingSettingsView, error) {
	if companyID == uuid.Nil {
		return nil, apperror.ErrCompanyRequired
	}
	settings, err := s.settingsRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = defaultSettings(companyID)
	}
	return newSettingsView(settings), nil
}

// SaveSettingsInput represents a settings form submission. Nil fields keep
// their stored value, and so do empty secrets.
type SaveSettingsInput struct {
	CompanyID             uuid.UUID
	Provider              *enum.MessagingProvider
	TwilioAccountSID      *string
	TwilioAuthToken       *string
	TwilioWhatsAppNumber  *string
	MetaPhoneNumberID     *string
	MetaAccessToken       *string
	AutoRemindersEnabled  *bool
	ReminderFrequencyDays *int
}

// SaveSettings creates or updates the company's settings
func (s *SettingsService) SaveSettings(ctx context.Context, input *SaveSettingsInput) (*MessagingSettingsView, error) {
	if _, err := requireCompany(ctx, s.companyRepo, input.CompanyID); err != nil {
		return nil, err
	}
	if input.Provider != nil && !input.Provider.IsValid() {
		return nil, apperror.NewValidationError(fmt.Sprintf("invalid provider %q", *input.Provider))
	}
	if input.ReminderFrequencyDays != nil && *input.ReminderFrequencyDays < 1 {
		return nil, apperror.NewValidationError("reminderFrequencyDays must be at least 1")
	}

	settings, err := s.settingsRepo.GetByCompanyID(ctx, input.CompanyID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = defaultSettings(input.CompanyID)
	}

	if input.Provider != nil {
		settings.Provider = *input.Provider
	}
	if input.TwilioAccountSID != nil {
		settings.TwilioAccountSID = input.TwilioAccountSID
	}
	if input.TwilioWhatsAppNumber != nil {
		settings.TwilioWhatsAppNumber = input.TwilioWhatsAppNumber
	}
	if input.MetaPhoneNumberID != nil {
		settings.MetaPhoneNumberID = input.MetaPhoneNumberID
	}
	if input.TwilioAuthToken != nil && *input.TwilioAuthToken != "" {
		settings.TwilioAuthToken = input.TwilioAuthToken
	}
	if input.MetaAccessToken != nil && *input.MetaAccessToken != "" {
		settings.MetaAccessToken = input.MetaAccessToken
	}
	if input.AutoRemindersEnabled != nil {
		settings.AutoRemindersEnabled = *input.AutoRemindersEnabled
	}
	if input.ReminderFrequencyDays != nil {
		settings.ReminderFrequencyDays = *input.ReminderFrequencyDays
	}

	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, err
	}

	saved, err := s.settingsRepo.GetByCompanyID(ctx, input.CompanyID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, apperror.NewNotFoundError("Messaging settings")
	}
	return newSettingsView(saved), nil
}

func defaultSettings(companyID uuid.UUID) *entity.MessagingSettings {
	return &entity.MessagingSettings{
		CompanyID:             companyID,
		Provider:              enum.MessagingProviderNone,
		ReminderFrequencyDays: entity.DefaultReminderFrequencyDays,
	}
}
