package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("whatsapp não configurado")

// Client fala com a Cloud API do WhatsApp usando templates aprovados.
type Client struct {
	http    *resty.Client
	token   string
	phoneID string
	logger  *zap.Logger
}

func NewClient(baseURL, accessToken, phoneID string, logger *zap.Logger) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:    http,
		token:   accessToken,
		phoneID: phoneID,
		logger:  logger,
	}
}

func (c *Client) SendMessage(ctx context.Context, input SendMessageInput) error {
	if c.token == "" || c.phoneID == "" {
		c.logger.Warn("WhatsApp: ACCESS_TOKEN ou PHONE_ID não configurados")
		return ErrNotConfigured
	}

	params := make([]templateParameter, 0, len(input.Parameters))
	for _, p := range input.Parameters {
		params = append(params, templateParameter{Type: "text", Text: p})
	}

	req := sendMessageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               input.PhoneNumber,
		Type:             "template",
		Template: messageTemplate{
			Name:       input.TemplateName,
			Language:   templateLanguage{Code: "pt_BR"},
			Components: []templateComponent{{Type: "body", Parameters: params}},
		},
	}

	var result SendMessageResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.token).
		SetBody(req).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("/%s/messages", c.phoneID))
	if err != nil {
		c.logger.Error("WhatsApp: erro ao enviar mensagem", zap.Error(err))
		return fmt.Errorf("whatsapp: %w", err)
	}

	if result.Error != nil {
		c.logger.Error("WhatsApp: erro na API",
			zap.String("message", result.Error.Message),
			zap.Int("code", result.Error.Code),
		)
		return fmt.Errorf("whatsapp: %s", result.Error.Message)
	}
	if resp.IsError() {
		return fmt.Errorf("whatsapp api error: %d", resp.StatusCode())
	}

	c.logger.Info("WhatsApp: mensagem enviada", zap.String("to", input.PhoneNumber))
	return nil
}
