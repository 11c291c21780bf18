package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/neoncare/neoncare-platform/pkg/logging"
)

// IntaSendClient creates hosted checkout sessions on IntaSend, the
// alternate gateway for M-Pesa style payments.
type IntaSendClient struct {
	secretKey      string
	publishableKey string
	siteURL        string
	baseURL        string
	httpClient     *http.Client
	logger         *logging.Logger
}

// IntaSendParams describes one checkout session.
type IntaSendParams struct {
	Email     string
	AmountKES float64
	PlanName  string
	// Host is the origin the user checks out from; the redirect goes back
	// to <host>/payments/complete.
	Host string
}

// NewIntaSendClient creates an IntaSend client. Returns nil unless both
// keys are configured. siteURL is the origin used when a request carries no
// usable one of its own.
func NewIntaSendClient(secretKey, publishableKey, siteURL string, logger *logging.Logger) *IntaSendClient {
	if strings.TrimSpace(secretKey) == "" || strings.TrimSpace(publishableKey) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if !strings.HasPrefix(siteURL, "http") {
		siteURL = "http://localhost:3000"
	}
	return &IntaSendClient{
		secretKey:      secretKey,
		publishableKey: publishableKey,
		siteURL:        strings.TrimRight(siteURL, "/"),
		baseURL:        "https://payment.intasend.com",
		httpClient:     &http.Client{Timeout: 15 * time.Second},
		logger:         logger,
	}
}

// WithBaseURL overrides the IntaSend API host (tests).
func (c *IntaSendClient) WithBaseURL(baseURL string) *IntaSendClient {
	if baseURL != "" {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
	return c
}

// CreateCheckout creates a hosted checkout and returns its URL.
func (c *IntaSendClient) CreateCheckout(ctx context.Context, params IntaSendParams) (string, error) {
	host := params.Host
	if !strings.HasPrefix(host, "http") {
		host = c.siteURL
	}

	apiRef := "upgrade-" + strings.ToLower(strings.Join(strings.Fields(params.PlanName), "-")) +
		"-" + strconv.FormatInt(time.Now().UnixMilli(), 10)

	payload, err := json.Marshal(map[string]any{
		"public_key":   c.publishableKey,
		"currency":     "KES",
		"email":        params.Email,
		"amount":       params.AmountKES,
		"host":         host,
		"redirect_url": host + "/payments/complete",
		"api_ref":      apiRef,
	})
	if err != nil {
		return "", fmt.Errorf("payments: intasend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/checkout/", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("payments: intasend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("X-IntaSend-Public-Key", c.publishableKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("payments: intasend call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("intasend checkout failed", "status", resp.StatusCode, "body", string(body))
		return "", fmt.Errorf("payments: intasend checkout failed: %d", resp.StatusCode)
	}

	var data struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("payments: intasend decode: %w", err)
	}
	if data.URL == "" {
		return "", fmt.Errorf("payments: intasend returned no checkout url")
	}
	return data.URL, nil
}
