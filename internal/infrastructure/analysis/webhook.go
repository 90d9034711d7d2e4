package analysis

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	gonanoid "github.com/matoous/go-nanoid"
	"github.com/pkg/errors"
	"github.com/vitos/crypto_trader_ai/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultWebhookURL = "https://n8n.datascienceforbusinessia.com:8445/webhook/CryptoTraderAI"
	DefaultTimeout    = 10 * time.Second

	requestIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	requestIDLength   = 9

	// JavaScript's toISOString layout.
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// webhookPayload is the wire body the analysis workflow expects.
type webhookPayload struct {
	TradingPair string `json:"tradingPair"`
	Timestamp   string `json:"timestamp"`
	RequestID   string `json:"requestId"`
}

// NewRequestID returns a short lowercase alphanumeric id.
func NewRequestID() (string, error) {
	return gonanoid.Generate(requestIDAlphabet, requestIDLength)
}

// WebhookClient posts analysis requests to the external workflow.
// It never retries.
type WebhookClient struct {
	url    string
	client *resty.Client
	logger *zap.Logger

	now   func() time.Time
	newID func() (string, error)
}

type Option func(*WebhookClient)

func WithClock(now func() time.Time) Option {
	return func(c *WebhookClient) { c.now = now }
}

func WithRequestIDs(newID func() (string, error)) Option {
	return func(c *WebhookClient) { c.newID = newID }
}

func NewWebhookClient(url string, timeout time.Duration, logger *zap.Logger, opts ...Option) *WebhookClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(0)
	client.SetHeader("Content-Type", "application/json")

	c := &WebhookClient{
		url:    url,
		client: client,
		logger: logger,
		now:    time.Now,
		newID:  NewRequestID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *WebhookClient) Dispatch(ctx context.Context, symbol domain.TradingPairSymbol) (*domain.RawResponse, error) {
	id, err := c.newID()
	if err != nil {
		return nil, &domain.TransportError{Kind: domain.TransportNetworkError, Cause: errors.Wrap(err, "generate request id")}
	}

	req := domain.AnalysisRequest{
		Symbol:    symbol,
		IssuedAt:  c.now(),
		RequestID: id,
	}

	payload := webhookPayload{
		TradingPair: symbol.String(),
		Timestamp:   req.IssuedAt.UTC().Format(timestampLayout),
		RequestID:   req.RequestID,
	}

	c.logger.Debug("Dispatching analysis request",
		zap.String("symbol", symbol.String()),
		zap.String("request_id", req.RequestID))

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.url)
	if err != nil {
		c.logger.Warn("Analysis request failed",
			zap.String("request_id", req.RequestID),
			zap.Error(err))
		return nil, &domain.TransportError{
			Kind:      domain.TransportNetworkError,
			RequestID: req.RequestID,
			Cause:     errors.Wrapf(err, "post %s", symbol),
		}
	}

	if !resp.IsSuccess() {
		c.logger.Warn("Analysis service returned non-success status",
			zap.String("request_id", req.RequestID),
			zap.Int("status", resp.StatusCode()))
		return nil, &domain.TransportError{
			Kind:       domain.TransportNonSuccessStatus,
			RequestID:  req.RequestID,
			StatusCode: resp.StatusCode(),
		}
	}

	return &domain.RawResponse{
		Request:    req,
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}
