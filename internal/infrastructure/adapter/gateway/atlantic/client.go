package atlantic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	errs "github.com/ardiansyah-dev/gamestore-bot/internal/domain/error"
	coreport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/core"
	gatewayport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/gateway"
)

// Endpoints on the aggregator's H2H API. All take form-encoded POSTs with the
// api_key as a body field.
const (
	endpointCreate   = "/deposit/create"
	endpointStatus   = "/deposit/status"
	endpointInstant  = "/deposit/instant"
	endpointCancel   = "/deposit/cancel"
	endpointValidate = "/deposit/metode"
)

// Config holds the provider connection settings
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("gateway base URL is required")
	}
	if c.APIKey == "" {
		return errors.New("gateway API key is required")
	}
	return nil
}

// Client implements gateway.PaymentGateway against the Atlantic H2H API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     coreport.Logger
}

// NewClient creates a new Atlantic API client
func NewClient(cfg Config, logger coreport.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid gateway configuration: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// envelope is the provider's uniform response wrapper
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
}

// depositData is the payload shared by the deposit endpoints
type depositData struct {
	ID        string      `json:"id"`
	ReffID    string      `json:"reff_id"`
	Nominal   json.Number `json:"nominal"`
	Status    string      `json:"status"`
	QRString  string      `json:"qr_string"`
	QRImage   string      `json:"qr_image"`
	CreatedAt string      `json:"created_at"`
	ExpiredAt string      `json:"expired_at"`
}

// CreatePayment asks the provider for a new QRIS payment intent
func (c *Client) CreatePayment(ctx context.Context, requestRef string, amount int64) (*gatewayport.PaymentIntent, error) {
	if requestRef == "" {
		return nil, errs.NewGatewayError("create", 0, "request reference is required", errs.ErrGatewayRejected)
	}
	if amount < 1 {
		return nil, errs.NewGatewayError("create", 0, "amount must be at least 1", errs.ErrGatewayRejected)
	}

	form := url.Values{}
	form.Set("api_key", c.apiKey)
	form.Set("reff_id", requestRef)
	form.Set("nominal", strconv.FormatInt(amount, 10))
	form.Set("type", "ewallet")
	form.Set("metode", "qris")

	env, raw, err := c.postForm(ctx, "create", endpointCreate, form)
	if err != nil {
		return nil, err
	}

	var data depositData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		c.logger.Error("Gateway returned undecodable create payload", map[string]any{
			"operation": "create",
			"error":     err.Error(),
		})
		return nil, errs.NewGatewayError("create", env.Code, env.Message, errs.ErrMalformedResponse)
	}
	if data.ID == "" {
		return nil, errs.NewGatewayError("create", env.Code, "response missing payment id", errs.ErrMalformedResponse)
	}

	intent := &gatewayport.PaymentIntent{
		Reference:  data.ID,
		RequestRef: requestRef,
		Amount:     amount,
		Status:     data.Status,
		QRString:   data.QRString,
		QRImageURL: data.QRImage,
		ExpiresAt:  parseProviderTime(data.ExpiredAt),
		Raw:        raw,
	}

	if echoed, err := data.Nominal.Int64(); err == nil && echoed > 0 {
		intent.Amount = echoed
	}

	c.logger.Info("Payment intent created", map[string]any{
		"reference":   intent.Reference,
		"request_ref": requestRef,
		"amount":      intent.Amount,
	})

	return intent, nil
}

// CheckStatus performs the full status check
func (c *Client) CheckStatus(ctx context.Context, providerReference string) (*gatewayport.PaymentStatus, error) {
	form := url.Values{}
	form.Set("api_key", c.apiKey)
	form.Set("id", providerReference)

	return c.statusCall(ctx, "status", endpointStatus, providerReference, form)
}

// CheckInstant performs the provider's lighter-weight poll
func (c *Client) CheckInstant(ctx context.Context, providerReference string, forceRefresh bool) (*gatewayport.PaymentStatus, error) {
	form := url.Values{}
	form.Set("api_key", c.apiKey)
	form.Set("id", providerReference)
	form.Set("action", strconv.FormatBool(forceRefresh))

	return c.statusCall(ctx, "instant", endpointInstant, providerReference, form)
}

// CancelPayment asks the provider to void the payment intent
func (c *Client) CancelPayment(ctx context.Context, providerReference string) error {
	form := url.Values{}
	form.Set("api_key", c.apiKey)
	form.Set("id", providerReference)

	_, _, err := c.postForm(ctx, "cancel", endpointCancel, form)
	if err != nil {
		return err
	}

	c.logger.Info("Payment cancelled at provider", map[string]any{
		"reference": providerReference,
	})
	return nil
}

// ValidateCredentials checks the API key against the payment method listing.
// Used at startup to gate the deposit flow.
func (c *Client) ValidateCredentials(ctx context.Context) bool {
	form := url.Values{}
	form.Set("api_key", c.apiKey)
	form.Set("type", "ewallet")

	env, _, err := c.postForm(ctx, "validate", endpointValidate, form)
	if err != nil {
		c.logger.Warn("Gateway credential validation failed", map[string]any{
			"error": err.Error(),
		})
		return false
	}

	return env.Status
}

// statusCall runs one of the status-shaped endpoints and normalizes the result
func (c *Client) statusCall(ctx context.Context, operation, endpoint, reference string, form url.Values) (*gatewayport.PaymentStatus, error) {
	if reference == "" {
		return nil, errs.NewGatewayError(operation, 0, "provider reference is required", errs.ErrGatewayRejected)
	}

	env, raw, err := c.postForm(ctx, operation, endpoint, form)
	if err != nil {
		return nil, err
	}

	var data depositData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, errs.NewGatewayError(operation, env.Code, env.Message, errs.ErrMalformedResponse)
	}
	if data.Status == "" {
		return nil, errs.NewGatewayError(operation, env.Code, "response missing status", errs.ErrMalformedResponse)
	}

	return &gatewayport.PaymentStatus{
		Reference: reference,
		Status:    data.Status,
		Raw:       raw,
	}, nil
}

// postForm issues a form-encoded POST and decodes the response envelope. All
// transport and provider-level failures come back as gateway domain errors.
func (c *Client) postForm(ctx context.Context, operation, endpoint string, form url.Values) (*envelope, string, error) {
	c.logger.Debug("Gateway request", map[string]any{
		"operation": operation,
		"endpoint":  endpoint,
		"form":      redactForm(form),
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, "", errs.NewGatewayError(operation, 0, "building request failed", errs.ErrGatewayUnreachable)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", c.transportError(operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, "", c.transportError(operation, err)
	}
	raw := string(body)

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.logger.Error("Gateway returned undecodable response", map[string]any{
			"operation":   operation,
			"http_status": resp.StatusCode,
			"error":       err.Error(),
		})
		return nil, raw, errs.NewGatewayError(operation, resp.StatusCode, "undecodable response body", errs.ErrMalformedResponse)
	}

	if !env.Status {
		message := env.Message
		if message == "" {
			message = fmt.Sprintf("provider returned status=false (http %d)", resp.StatusCode)
		}
		c.logger.Warn("Gateway rejected request", map[string]any{
			"operation":   operation,
			"http_status": resp.StatusCode,
			"message":     message,
		})
		return nil, raw, errs.NewGatewayError(operation, resp.StatusCode, message, errs.ErrGatewayRejected)
	}

	return &env, raw, nil
}

// transportError classifies a transport failure into the gateway taxonomy
func (c *Client) transportError(operation string, err error) error {
	sentinel := errs.ErrGatewayUnreachable

	var netErr net.Error
	switch {
	case errors.As(err, &netErr) && netErr.Timeout():
		sentinel = errs.ErrGatewayTimeout
	case errors.Is(err, context.DeadlineExceeded):
		sentinel = errs.ErrGatewayTimeout
	}

	c.logger.Error("Gateway transport failure", map[string]any{
		"operation": operation,
		"error":     err.Error(),
	})

	return errs.NewGatewayError(operation, 0, "", sentinel)
}

// redactForm copies the form with the credential field masked for logging
func redactForm(form url.Values) map[string]string {
	out := make(map[string]string, len(form))
	for k := range form {
		if k == "api_key" {
			out[k] = "***"
			continue
		}
		out[k] = form.Get(k)
	}
	return out
}

// parseProviderTime accepts the timestamp shapes the provider has been seen
// to emit. Returns nil when the value is absent or unparseable.
func parseProviderTime(value string) *time.Time {
	if value == "" {
		return nil
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
