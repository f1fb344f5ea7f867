package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const defaultMetaBaseURL = "https://graph.facebook.com/v18.0"

// MetaClient sends WhatsApp messages through the Meta Cloud API
type MetaClient struct {
	BaseURL       string
	PhoneNumberID string
	AccessToken   string
	HTTPClient    *http.Client
	Logger        *zap.Logger
}

type metaTextBody struct {
	Body string `json:"body"`
}

type metaSendRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             metaTextBody `json:"text"`
}

type metaSendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (c *MetaClient) Name() string { return "meta" }

// Send posts a text message to /{phone-number-id}/messages.
func (c *MetaClient) Send(ctx context.Context, phone, body string) (string, error) {
	if c.AccessToken == "" || c.PhoneNumberID == "" {
		return "", errors.New("Meta WhatsApp credentials not configured")
	}
	if strings.TrimSpace(phone) == "" {
		return "", errors.New("customer has no phone number")
	}

	base := c.BaseURL
	if base == "" {
		base = defaultMetaBaseURL
	}
	endpoint := fmt.Sprintf("%s/%s/messages", strings.TrimRight(base, "/"), c.PhoneNumberID)

	payload, err := json.Marshal(metaSendRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               phone,
		Type:             "text",
		Text:             metaTextBody{Body: body},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Error("meta request failed", zap.Error(err))
		return "", fmt.Errorf("Meta WhatsApp error: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("Meta WhatsApp error: %w", err)
	}

	var out metaSendResponse
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode >= 300 {
		reason := "Unknown error"
		if out.Error != nil && out.Error.Message != "" {
			reason = out.Error.Message
		}
		c.Logger.Warn("meta rejected message",
			zap.Int("status_code", resp.StatusCode),
			zap.String("reason", reason))
		return "", fmt.Errorf("Meta WhatsApp error: %s", reason)
	}

	if len(out.Messages) == 0 {
		return "", nil
	}
	return out.Messages[0].ID, nil
}
