package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/neoncare/neoncare-platform/pkg/logging"
)

var paystackTracer = otel.Tracer("neoncare.internal.payments.paystack")

// PaystackClient talks to the Paystack transaction API.
type PaystackClient struct {
	secretKey  string
	siteURL    string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// InitializeParams describes one checkout initialization.
type InitializeParams struct {
	Email     string
	AmountKES float64
	PlanName  string
	Reference string
	UserID    string
}

// CheckoutSession is the hosted-checkout handle returned on initialize.
type CheckoutSession struct {
	AuthorizationURL string `json:"authorizationUrl"`
	AccessCode       string `json:"accessCode"`
	Reference        string `json:"reference"`
}

// CustomField is one metadata entry attached to a Paystack transaction.
type CustomField struct {
	DisplayName  string `json:"display_name"`
	VariableName string `json:"variable_name"`
	Value        string `json:"value"`
}

// PaystackTransaction is the verified state of a transaction.
type PaystackTransaction struct {
	Status     string `json:"status"`
	Reference  string `json:"reference"`
	AmountKobo int64  `json:"amount"`
	PaidAt     string `json:"paid_at"`
	Metadata   struct {
		PlanName     string        `json:"planName"`
		CustomFields []CustomField `json:"custom_fields"`
	} `json:"metadata"`
}

// CustomField returns the value of the named metadata field, if present.
func (t *PaystackTransaction) CustomField(variableName string) (string, bool) {
	for _, f := range t.Metadata.CustomFields {
		if f.VariableName == variableName {
			return f.Value, true
		}
	}
	return "", false
}

// NewPaystackClient creates a Paystack client. Returns nil when no secret
// key is configured.
func NewPaystackClient(secretKey, siteURL string, logger *logging.Logger) *PaystackClient {
	if strings.TrimSpace(secretKey) == "" {
		return nil
	}
	if siteURL == "" {
		siteURL = "http://localhost:3000"
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PaystackClient{
		secretKey:  secretKey,
		siteURL:    strings.TrimRight(siteURL, "/"),
		baseURL:    "https://api.paystack.co",
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// WithBaseURL overrides the Paystack API host (tests).
func (c *PaystackClient) WithBaseURL(baseURL string) *PaystackClient {
	if baseURL != "" {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
	return c
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize creates a hosted checkout for the given plan. The KES amount
// is converted to kobo, Paystack's minor unit.
func (c *PaystackClient) Initialize(ctx context.Context, params InitializeParams) (*CheckoutSession, error) {
	ctx, span := paystackTracer.Start(ctx, "paystack.initialize")
	defer span.End()
	span.SetAttributes(
		attribute.String("neoncare.plan", params.PlanName),
		attribute.String("neoncare.reference", params.Reference),
	)

	amountKobo := int64(math.Round(params.AmountKES * 100))
	body := map[string]any{
		"email":     params.Email,
		"amount":    amountKobo,
		"reference": params.Reference,
		"metadata": map[string]any{
			"planName": params.PlanName,
			"custom_fields": []CustomField{
				{DisplayName: "Plan Name", VariableName: "plan_name", Value: params.PlanName},
				{DisplayName: "User ID", VariableName: "user_id", Value: params.UserID},
			},
		},
		"callback_url": c.siteURL + "/payment/callback",
	}

	var data CheckoutSessionWire
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", body, &data); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &CheckoutSession{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

// CheckoutSessionWire mirrors Paystack's snake_case initialize payload.
type CheckoutSessionWire struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// Verify fetches the gateway's view of a transaction by reference.
func (c *PaystackClient) Verify(ctx context.Context, reference string) (*PaystackTransaction, error) {
	ctx, span := paystackTracer.Start(ctx, "paystack.verify")
	defer span.End()
	span.SetAttributes(attribute.String("neoncare.reference", reference))

	var tx PaystackTransaction
	path := "/transaction/verify/" + url.PathEscape(reference)
	if err := c.do(ctx, http.MethodGet, path, nil, &tx); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &tx, nil
}

func (c *PaystackClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("payments: paystack payload: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("payments: paystack request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("payments: paystack call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var envelope paystackEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("payments: paystack decode: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := envelope.Message
		if msg == "" {
			msg = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
		c.logger.Error("paystack returned error", "status", resp.StatusCode, "message", msg, "path", path)
		return fmt.Errorf("payments: paystack: %s", msg)
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("payments: paystack decode data: %w", err)
		}
	}
	return nil
}
