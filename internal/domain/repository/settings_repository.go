package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
)

// MessagingSettingsRepository defines the interface for messaging settings data access
type MessagingSettingsRepository interface {
	GetByCompanyID(ctx context.Context, companyID uuid.UUID) (*entity.MessagingSettings, error)
	// Upsert inserts or replaces the company's settings row.
	Upsert(ctx context.Context, settings *entity.MessagingSettings) error
}
