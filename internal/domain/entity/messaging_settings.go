package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"gorm.io/gorm"
)

// DefaultReminderFrequencyDays applies when a company has not chosen one.
const DefaultReminderFrequencyDays = 3

// MessagingSettings holds one company's reminder backend and schedule.
// Secret fields never serialize.
type MessagingSettings struct {
	ID                    uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID             uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex" json:"companyId"`
	Provider              enum.MessagingProvider `gorm:"size:20;not null;default:'none'" json:"provider"`
	TwilioAccountSID      *string                `gorm:"size:100;column:twilio_account_sid" json:"twilioAccountSid,omitempty"`
	TwilioAuthToken       *string                `gorm:"size:255" json:"-"`
	TwilioWhatsAppNumber  *string                `gorm:"size:30;column:twilio_whatsapp_number" json:"twilioWhatsappNumber,omitempty"`
	MetaPhoneNumberID     *string                `gorm:"size:100" json:"metaPhoneNumberId,omitempty"`
	MetaAccessToken       *string                `gorm:"type:text" json:"-"`
	AutoRemindersEnabled  bool                   `gorm:"not null;default:false" json:"autoRemindersEnabled"`
	ReminderFrequencyDays int                    `gorm:"not null;default:3" json:"reminderFrequencyDays"`
	CreatedAt             time.Time              `json:"createdAt"`
	UpdatedAt             time.Time              `json:"updatedAt"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *MessagingSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the MessagingSettings model
func (MessagingSettings) TableName() string {
	return "messaging_settings"
}

// TwilioConfigured reports whether every Twilio credential is present
func (s *MessagingSettings) TwilioConfigured() bool {
	return nonEmpty(s.TwilioAccountSID) && nonEmpty(s.TwilioAuthToken) && nonEmpty(s.TwilioWhatsAppNumber)
}

// MetaConfigured reports whether every Meta credential is present
func (s *MessagingSettings) MetaConfigured() bool {
	return nonEmpty(s.MetaPhoneNumberID) && nonEmpty(s.MetaAccessToken)
}

// FrequencyDays returns the reminder interval, defaulting non-positive values.
func (s *MessagingSettings) FrequencyDays() int {
	if s.ReminderFrequencyDays <= 0 {
		return DefaultReminderFrequencyDays
	}
	return s.ReminderFrequencyDays
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}
