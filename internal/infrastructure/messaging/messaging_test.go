package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }

func TestTwilioSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC1/Messages.json", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC1", user)
		assert.Equal(t, "tok", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "whatsapp:+14155238886", r.PostForm.Get("From"))
		assert.Equal(t, "whatsapp:9876543210", r.PostForm.Get("To"))
		assert.Equal(t, "hello", r.PostForm.Get("Body"))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM123","status":"queued"}`))
	}))
	defer srv.Close()

	client := &TwilioClient{
		BaseURL:    srv.URL,
		AccountSID: "AC1",
		AuthToken:  "tok",
		From:       "+14155238886",
		HTTPClient: srv.Client(),
		Logger:     zap.NewNop(),
	}
	id, err := client.Send(context.Background(), "9876543210", "hello")
	require.NoError(t, err)
	assert.Equal(t, "SM123", id)
}

func TestTwilioSendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"The 'To' number is not a valid phone number."}`))
	}))
	defer srv.Close()

	client := &TwilioClient{BaseURL: srv.URL, AccountSID: "AC1", AuthToken: "tok", From: "+1", HTTPClient: srv.Client(), Logger: zap.NewNop()}
	_, err := client.Send(context.Background(), "123", "hello")
	require.Error(t, err)
	assert.Equal(t, "Twilio error: The 'To' number is not a valid phone number.", err.Error())
}

func TestTwilioCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &TwilioClient{AccountSID: "AC1", AuthToken: "tok", From: "+1", Logger: zap.NewNop()}
	_, err := client.Send(ctx, "9876543210", "hello")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTwilioMissingCredentials(t *testing.T) {
	client := &TwilioClient{HTTPClient: http.DefaultClient, Logger: zap.NewNop()}
	_, err := client.Send(context.Background(), "9876543210", "hello")
	assert.EqualError(t, err, "Twilio credentials not configured")
}

func TestMetaSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/1055/messages", r.URL.Path)
		assert.Equal(t, "Bearer meta-token", r.Header.Get("Authorization"))

		var got metaSendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "whatsapp", got.MessagingProduct)
		assert.Equal(t, "9876543210", got.To)
		assert.Equal(t, "hello", got.Text.Body)

		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.ABC"}]}`))
	}))
	defer srv.Close()

	client := &MetaClient{BaseURL: srv.URL, PhoneNumberID: "1055", AccessToken: "meta-token", HTTPClient: srv.Client(), Logger: zap.NewNop()}
	id, err := client.Send(context.Background(), "9876543210", "hello")
	require.NoError(t, err)
	assert.Equal(t, "wamid.ABC", id)
}

func TestMetaSendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token.","code":190}}`))
	}))
	defer srv.Close()

	client := &MetaClient{BaseURL: srv.URL, PhoneNumberID: "1055", AccessToken: "bad", HTTPClient: srv.Client(), Logger: zap.NewNop()}
	_, err := client.Send(context.Background(), "9876543210", "hello")
	assert.EqualError(t, err, "Meta WhatsApp error: Invalid OAuth access token.")
}

func TestFactory(t *testing.T) {
	f := NewFactory(Options{Timeout: time.Second}, zap.NewNop())

	_, err := f.FromSettings(nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = f.FromSettings(&entity.MessagingSettings{Provider: enum.MessagingProviderNone})
	assert.ErrorIs(t, err, ErrNotConfigured)

	p, err := f.FromSettings(&entity.MessagingSettings{
		Provider:             enum.MessagingProviderTwilio,
		TwilioAccountSID:     strPtr("AC1"),
		TwilioAuthToken:      strPtr("tok"),
		TwilioWhatsAppNumber: strPtr("+1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "twilio", p.Name())

	p, err = f.FromSettings(&entity.MessagingSettings{Provider: enum.MessagingProviderMeta})
	require.NoError(t, err)
	assert.Equal(t, "meta", p.Name())
}

func TestRenderReminder(t *testing.T) {
	data := ReminderData{
		CustomerName: "Asha",
		CompanyName:  "Sri Lakshmi Stores",
		InvoiceNo:    "INV-004",
		InvoiceDate:  time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
		Total:        decimal.NewFromInt(1180),
		Paid:         decimal.NewFromInt(500),
		Pending:      decimal.NewFromInt(680),
	}

	msg, err := RenderReminder(data)
	require.NoError(t, err)
	assert.Equal(t, "Hi Asha,\n\nThis is a payment reminder from Sri Lakshmi Stores.\n\n"+
		"Invoice: INV-004\nDate: 09/03/2026\nTotal Amount: ₹1180.00\nPaid: ₹500.00\nPending: ₹680.00\n\n"+
		"Please clear the pending balance at your earliest convenience.\n\nThank you!", msg)

	short, err := RenderAutoReminder(data)
	require.NoError(t, err)
	assert.Equal(t, "Hi Asha,\n\nPayment Reminder from Sri Lakshmi Stores\n\nInvoice: INV-004\nPending Amount: ₹680.00\n\n"+
		"Please clear your payment. Thank you!", short)
}
