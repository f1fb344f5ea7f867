package messaging

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// TwilioClient sends WhatsApp messages through the Twilio Messages API
type TwilioClient struct {
	// BaseURL redirects SDK requests away from api.twilio.com when set.
	BaseURL    string
	AccountSID string
	AuthToken  string
	From       string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

func (c *TwilioClient) Name() string { return "twilio" }

// Send creates a WhatsApp message on the account and returns its SID.
func (c *TwilioClient) Send(ctx context.Context, phone, body string) (string, error) {
	if c.AccountSID == "" || c.AuthToken == "" || c.From == "" {
		return "", errors.New("Twilio credentials not configured")
	}
	if strings.TrimSpace(phone) == "" {
		return "", errors.New("customer has no phone number")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &openapi.CreateMessageParams{}
	params.SetPathAccountSid(c.AccountSID)
	params.SetFrom("whatsapp:" + c.From)
	params.SetTo("whatsapp:" + phone)
	params.SetBody(body)

	msg, err := c.service().CreateMessage(params)
	if err != nil {
		var restErr *twilioclient.TwilioRestError
		if errors.As(err, &restErr) {
			reason := restErr.Message
			if reason == "" {
				reason = fmt.Sprintf("HTTP %d", restErr.Status)
			}
			c.Logger.Warn("twilio rejected message",
				zap.Int("status_code", restErr.Status),
				zap.Int("code", restErr.Code),
				zap.String("reason", reason))
			return "", fmt.Errorf("Twilio error: %s", reason)
		}
		c.Logger.Error("twilio request failed", zap.Error(err))
		return "", fmt.Errorf("Twilio error: %w", err)
	}

	if msg.Sid == nil {
		return "", errors.New("Twilio error: response has no message sid")
	}
	return *msg.Sid, nil
}

func (c *TwilioClient) service() *openapi.ApiService {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if c.BaseURL != "" {
		if target, err := url.Parse(c.BaseURL); err == nil && target.Host != "" && target.Host != "api.twilio.com" {
			next := httpClient.Transport
			if next == nil {
				next = http.DefaultTransport
			}
			httpClient = &http.Client{
				Timeout:   httpClient.Timeout,
				Transport: &rehostTransport{target: target, next: next},
			}
		}
	}

	rest := &twilioclient.Client{
		Credentials: twilioclient.NewCredentials(c.AccountSID, c.AuthToken),
		HTTPClient:  httpClient,
	}
	rest.SetAccountSid(c.AccountSID)
	return openapi.NewApiServiceWithClient(rest)
}

// rehostTransport sends every request to target's scheme and host, keeping the path.
type rehostTransport struct {
	target *url.URL
	next   http.RoundTripper
}

func (t *rehostTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = t.target.Scheme
	out.URL.Host = t.target.Host
	out.Host = t.target.Host
	return t.next.RoundTrip(out)
}
