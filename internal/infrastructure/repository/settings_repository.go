package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/billing-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type messagingSettingsRepository struct {
	db *gorm.DB
}

// NewMessagingSettingsRepository creates a new messaging settings repository
func NewMessagingSettingsRepository(db *gorm.DB) domainRepo.MessagingSettingsRepository {
	return &messagingSettingsRepository{db: db}
}

// GetByCompanyID retrieves settings by company ID
func (r *messagingSettingsRepository) GetByCompanyID(ctx context.Context, companyID uuid.UUID) (*entity.MessagingSettings, error) {
	var settings entity.MessagingSettings
	err := dbFrom(ctx, r.db).Where("company_id = ?", companyID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &settings, err
}

// Upsert writes every column, keyed on company_id. An existing row keeps its id.
func (r *messagingSettingsRepository) Upsert(ctx context.Context, settings *entity.MessagingSettings) error {
	row := *settings
	row.ID = uuid.Nil
	return dbFrom(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "company_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"provider",
			"twilio_account_sid",
			"twilio_auth_token",
			"twilio_whatsapp_number",
			"meta_phone_number_id",
			"meta_access_token",
			"auto_reminders_enabled",
			"reminder_frequency_days",
			"updated_at",
		}),
	}).Create(&row).Error
}
