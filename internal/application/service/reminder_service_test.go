package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/billing-api/internal/application/tax"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	infraRepo "github.com/sangkips/billing-api/internal/infrastructure/repository"
	"github.com/sangkips/billing-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configureProvider(t *testing.T, env *testEnv, companyID uuid.UUID, auto bool) {
	t.Helper()
	provider := enum.MessagingProviderTwilio
	sid, token, from := "AC123", "secret", "+14155238886"
	_, err := env.settings.SaveSettings(context.Background(), &SaveSettingsInput{
		CompanyID:            companyID,
		Provider:             &provider,
		TwilioAccountSID:     &sid,
		TwilioAuthToken:      &token,
		TwilioWhatsAppNumber: &from,
		AutoRemindersEnabled: &auto,
	})
	require.NoError(t, err)
}

func reminderLogs(t *testing.T, env *testEnv, balanceID uuid.UUID) []entity.ReminderLog {
	t.Helper()
	logs, err := infraRepo.NewReminderLogRepository(env.db).ListByBalance(context.Background(), balanceID)
	require.NoError(t, err)
	return logs
}

func TestSendReminderRequiresProvider(t *testing.T) {
	env := newTestEnv(t, tax.RateModeMean)
	ctx := context.Background()
	_, balance := openBalance(t, env, "1180")

	_, err := env.reminders.SendReminder(ctx, balance.ID)
	requireKind(t, err, apperror.KindConfiguration)
	assert.Equal(t, "WhatsApp not configured. Please configure in Settings.", err.Error())
	assert.Empty(t, reminderLogs(t, env, balance.ID))

	_, err = env.reminders.SendReminder(ctx, uuid.New())
	requireKind(t, err, apperror.KindNotFound)
}

func TestSendReminderLogsAndStamps(t *testing.T) {
	env := newTestEnv(t, tax.RateModeMean)
	ctx := context.Background()
	company, balance := openBalance(t, env, "1180")
	configureProvider(t, env, company.ID, false)

	entry, err := env.reminders.SendReminder(ctx, balance.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ReminderStatusSent, entry.Status)
	assert.Equal(t, "9876543210", entry.PhoneNumber)
	require.NotNil(t, entry.MessageID)
	assert.Equal(t, "msg-1", *entry.MessageID)
	assert.Contains(t, entry.Message, "Hi Ravi Kumar")
	assert.Contains(t, entry.Message, "₹1180.00")

	reloaded, err := env.ledger.GetBalance(ctx, balance.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.LastReminderSent)
	assert.Len(t, reloaded.Reminders, 1)
}

func TestSendReminderFailureIsLogged(t *testing.T) {
	env := newTestEnv(t, tax.RateModeMean)
	ctx := context.Background()
	company, balance := openBalance(t, env, "1180")
	configureProvider(t, env, company.ID, false)
	env.provider.failOn["9876543210"] = errors.New("Twilio error: invalid number")

	_, err := env.reminders.SendReminder(ctx, balance.ID)
	requireKind(t, err, apperror.KindProvider)
	assert.Equal(t, "Twilio error: invalid number", err.Error())

	logs := reminderLogs(t, env, balance.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, enum.ReminderStatusFailed, logs[0].Status)
	require.NotNil(t, logs[0].ErrorMessage)
	assert.Equal(t, "Twilio error: invalid number", *logs[0].ErrorMessage)

	reloaded, err := env.ledger.GetBalance(ctx, balance.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.LastReminderSent)
}

func TestAutoRemindersDisabled(t *testing.T) {
	env := newTestEnv(t, tax.RateModeMean)
	company, _ := openBalance(t, env, "1180")

	result, err := env.reminders.SendAutoReminders(context.Background(), company.ID)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, "Auto reminders not enabled", result.Message)
	assert.Empty(t, env.provider.sent)
}

func TestAutoRemindersRespectCutoffAndContinueOnFailure(t *testing.T) {
	env := newTestEnv(t, tax.RateModeMean)
	ctx := context.Background()
	company := env.company(t, "Karnataka")
	configureProvider(t, env, company.ID, true)

	ravi := env.customer(t, company.ID, "Ravi Kumar", "9876543210", "")
	anil := env.customer(t, company.ID, "Anil Menon", "9847012345", "")
	meena := env.customer(t, company.ID, "Meena", "9000000001", "")
	paid := env.customer(t, company.ID, "Settled Customer", "9000000002", "")

	open := func(customer *entity.Customer, total, paidAmount string) *entity.Balance {
		balance, err := env.ledger.CreateBalance(ctx, &CreateBalanceInput{
			CompanyID:   company.ID,
			CustomerID:  customer.ID,
			TotalAmount: d(total),
			PaidAmount:  d(paidAmount),
		})
		require.NoError(t, err)
		return balance
	}
	due := open(ravi, "500", "0")
	failing := open(anil, "300", "100")
	recent := open(meena, "200", "0")
	open(paid, "100", "100")

	balanceRepo := infraRepo.NewBalanceRepository(env.db)
	require.NoError(t, balanceRepo.MarkReminded(ctx, recent.ID, time.Now().UTC().Add(-24*time.Hour)))
	require.NoError(t, balanceRepo.MarkReminded(ctx, due.ID, time.Now().UTC().Add(-5*24*time.Hour)))

	env.provider.failOn["9847012345"] = errors.New("Meta WhatsApp error: Unknown error")

	result, err := env.reminders.SendAutoReminders(ctx, company.ID)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 1, result.Failed)

	statuses := map[uuid.UUID]string{}
	for _, r := range result.Results {
		statuses[r.BalanceID] = r.Status
	}
	assert.Equal(t, "sent", statuses[due.ID])
	assert.Equal(t, "failed", statuses[failing.ID])

	require.Len(t, env.provider.sent, 1)
	assert.Contains(t, env.provider.sent[0], "Ravi Kumar")
	assert.Len(t, reminderLogs(t, env, failing.ID), 1)
	assert.Empty(t, reminderLogs(t, env, recent.ID))
}

func TestAutoRemindersRequireCompany(t *testing.T) {
	env := newTestEnv(t, tax.RateModeMean)
	_, err := env.reminders.SendAutoReminders(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, apperror.ErrCompanyRequired)
}
