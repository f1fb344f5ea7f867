package messaging

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned by the factory when settings select no usable provider.
var ErrNotConfigured = errors.New("messaging provider not configured")

// Provider delivers a text message and returns the provider's message id.
type Provider interface {
	Name() string
	Send(ctx context.Context, phone, body string) (string, error)
}

// Options carries process-wide client settings.
type Options struct {
	Timeout       time.Duration
	TwilioBaseURL string
	MetaBaseURL   string
}

// Factory builds a Provider from a company's stored settings.
type Factory interface {
	FromSettings(settings *entity.MessagingSettings) (Provider, error)
}

type factory struct {
	opts   Options
	client *http.Client
	logger *zap.Logger
}

// NewFactory creates a provider factory sharing one HTTP client.
func NewFactory(opts Options, logger *zap.Logger) Factory {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &factory{
		opts:   opts,
		client: &http.Client{Timeout: timeout},
		logger: logger.Named("messaging"),
	}
}

func (f *factory) FromSettings(settings *entity.MessagingSettings) (Provider, error) {
	if settings == nil {
		return nil, ErrNotConfigured
	}

	switch settings.Provider {
	case enum.MessagingProviderTwilio:
		return &TwilioClient{
			BaseURL:    f.opts.TwilioBaseURL,
			AccountSID: deref(settings.TwilioAccountSID),
			AuthToken:  deref(settings.TwilioAuthToken),
			From:       deref(settings.TwilioWhatsAppNumber),
			HTTPClient: f.client,
			Logger:     f.logger,
		}, nil
	case enum.MessagingProviderMeta:
		return &MetaClient{
			BaseURL:       f.opts.MetaBaseURL,
			PhoneNumberID: deref(settings.MetaPhoneNumberID),
			AccessToken:   deref(settings.MetaAccessToken),
			HTTPClient:    f.client,
			Logger:        f.logger,
		}, nil
	default:
		return nil, ErrNotConfigured
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
