package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/domain/repository"
	"github.com/sangkips/billing-api/internal/infrastructure/messaging"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/sangkips/billing-api/pkg/logger"
	"github.com/sangkips/billing-api/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const notConfiguredMessage = "WhatsApp not configured. Please configure in Settings."

// ReminderService sends payment reminders for open balances
type ReminderService struct {
	txManager    repository.TxManager
	balanceRepo  repository.BalanceRepository
	reminderRepo repository.ReminderLogRepository
	settingsRepo repository.MessagingSettingsRepository
	providers    messaging.Factory
	limiter      *rate.Limiter
	metrics      *metrics.Metrics
	now          func() time.Time
}

// NewReminderService creates a new reminder service. A positive sendsPerSecond
// throttles the batch sender.
func NewReminderService(
	txManager repository.TxManager,
	balanceRepo repository.BalanceRepository,
	reminderRepo repository.ReminderLogRepository,
	settingsRepo repository.MessagingSettingsRepository,
	providers messaging.Factory,
	sendsPerSecond float64,
	m *metrics.Metrics,
) *ReminderService {
	s := &ReminderService{
		txManager:    txManager,
		balanceRepo:  balanceRepo,
		reminderRepo: reminderRepo,
		settingsRepo: settingsRepo,
		providers:    providers,
		metrics:      m,
		now:          func() time.Time { return time.Now().UTC() },
	}
	if sendsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(sendsPerSecond), 1)
	}
	return s
}

// SendReminder sends the detailed reminder for one balance. Every attempt is
// logged; a provider failure is logged as Failed and returned.
func (s *ReminderService) SendReminder(ctx context.Context, balanceID uuid.UUID) (*entity.ReminderLog, error) {
	balance, err := s.balanceRepo.GetForReminder(ctx, balanceID)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return nil, apperror.NewNotFoundError("Balance")
	}

	settings, err := s.settingsRepo.GetByCompanyID(ctx, balance.CompanyID)
	if err != nil {
		return nil, err
	}
	provider, err := s.providerFor(settings)
	if err != nil {
		return nil, err
	}

	message, err := messaging.RenderReminder(reminderData(balance))
	if err != nil {
		return nil, err
	}

	return s.deliver(ctx, provider, balance, message)
}

// ReminderOutcome is the per-balance result of a batch run
type ReminderOutcome struct {
	BalanceID uuid.UUID `json:"balanceId"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
}

// AutoReminderResult summarizes a batch run. Skipped is set when the company
// has automatic reminders turned off.
type AutoReminderResult struct {
	Skipped bool              `json:"-"`
	Message string            `json:"message,omitempty"`
	Total   int               `json:"total"`
	Sent    int               `json:"sent"`
	Failed  int               `json:"failed"`
	Results []ReminderOutcome `json:"results"`
}

// SendAutoReminders sends the short reminder to every open balance of a
// company not reminded within the configured interval. Sends run one at a
// time and a failed send does not stop the batch.
func (s *ReminderService) SendAutoReminders(ctx context.Context, companyID uuid.UUID) (*AutoReminderResult, error) {
	if companyID == uuid.Nil {
		return nil, apperror.ErrCompanyRequired
	}
	log := logger.FromContext(ctx)

	settings, err := s.settingsRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if settings == nil || !settings.AutoRemindersEnabled {
		return &AutoReminderResult{Skipped: true, Message: "Auto reminders not enabled"}, nil
	}

	provider, err := s.providerFor(settings)
	if err != nil {
		return nil, err
	}

	cutoff := s.now().AddDate(0, 0, -settings.FrequencyDays())
	balances, err := s.balanceRepo.ListDueForReminder(ctx, companyID, cutoff)
	if err != nil {
		return nil, err
	}

	result := &AutoReminderResult{Total: len(balances), Results: make([]ReminderOutcome, 0, len(balances))}
	for i := range balances {
		balance := &balances[i]

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		outcome := ReminderOutcome{BalanceID: balance.ID, Status: "sent"}
		message, err := messaging.RenderAutoReminder(reminderData(balance))
		if err == nil {
			_, err = s.deliver(ctx, provider, balance, message)
		}
		if err != nil {
			outcome.Status = "failed"
			outcome.Error = err.Error()
			result.Failed++
		} else {
			result.Sent++
		}
		result.Results = append(result.Results, outcome)
	}

	log.Info("auto reminders dispatched",
		zap.String("company_id", companyID.String()),
		zap.Int("total", result.Total),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed))

	return result, nil
}

func (s *ReminderService) providerFor(settings *entity.MessagingSettings) (messaging.Provider, error) {
	if settings == nil || settings.Provider == enum.MessagingProviderNone || settings.Provider == "" {
		return nil, apperror.NewConfigurationError(notConfiguredMessage)
	}
	provider, err := s.providers.FromSettings(settings)
	if errors.Is(err, messaging.ErrNotConfigured) {
		return nil, apperror.NewConfigurationError(notConfiguredMessage)
	}
	return provider, err
}

// deliver sends one message and records the attempt. Send failures come back
// as provider errors; log-write failures on that path are only logged.
func (s *ReminderService) deliver(ctx context.Context, provider messaging.Provider, balance *entity.Balance, message string) (*entity.ReminderLog, error) {
	log := logger.FromContext(ctx)
	phone := ""
	if balance.Customer != nil && balance.Customer.Phone != nil {
		phone = *balance.Customer.Phone
	}

	entry := &entity.ReminderLog{
		BalanceID:   balance.ID,
		CustomerID:  balance.CustomerID,
		PhoneNumber: phone,
		Message:     message,
		Provider:    provider.Name(),
	}

	messageID, sendErr := provider.Send(ctx, phone, message)
	entry.SentAt = s.now()

	if sendErr != nil {
		errMsg := sendErr.Error()
		entry.Status = enum.ReminderStatusFailed
		entry.ErrorMessage = &errMsg
		if err := s.reminderRepo.Create(ctx, entry); err != nil {
			log.Error("failed to log reminder failure", zap.String("balance_id", balance.ID.String()), zap.Error(err))
		}
		s.metrics.ReminderAttempt(provider.Name(), string(enum.ReminderStatusFailed))
		log.Warn("reminder send failed",
			zap.String("balance_id", balance.ID.String()),
			zap.String("provider", provider.Name()),
			zap.Error(sendErr))
		return nil, apperror.NewProviderError(sendErr)
	}

	entry.Status = enum.ReminderStatusSent
	if messageID != "" {
		entry.MessageID = &messageID
	}

	err := s.txManager.Transaction(ctx, func(ctx context.Context) error {
		if err := s.reminderRepo.Create(ctx, entry); err != nil {
			return err
		}
		return s.balanceRepo.MarkReminded(ctx, balance.ID, entry.SentAt)
	})
	s.metrics.ReminderAttempt(provider.Name(), string(enum.ReminderStatusSent))
	if err != nil {
		// the message is already out; report the bookkeeping failure
		return nil, err
	}
	return entry, nil
}

func reminderData(balance *entity.Balance) messaging.ReminderData {
	data := messaging.ReminderData{
		InvoiceNo:   "-",
		InvoiceDate: balance.CreatedAt,
		Total:       balance.TotalAmount,
		Paid:        balance.PaidAmount,
		Pending:     balance.PendingAmount,
	}
	if balance.Customer != nil {
		data.CustomerName = balance.Customer.Name
	}
	if balance.Company != nil {
		data.CompanyName = balance.Company.Name
	}
	if balance.Invoice != nil {
		data.InvoiceNo = balance.Invoice.InvoiceNo
		data.InvoiceDate = balance.Invoice.InvoiceDate
	}
	return data
}
