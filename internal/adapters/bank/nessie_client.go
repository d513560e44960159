// Package bank reads the account balance from the mock "Nessie" banking API.
package bank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/medisave/internal/core/ports/gateways"
	"github.com/SscSPs/medisave/internal/utils/ledger"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2/clientcredentials"
)

const defaultTimeout = 10 * time.Second

// Config configures the bank client. OAuth fields are optional.
type Config struct {
	BaseURL   string
	APIKey    string
	AccountID string

	OAuthTokenURL     string
	OAuthClientID     string
	OAuthClientSecret string

	Timeout time.Duration
}

// Client implements gateways.BankGateway.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	accountID  string
}

var _ gateways.BankGateway = (*Client)(nil)

type accountResponse struct {
	ID      string          `json:"_id"`
	Balance json.RawMessage `json:"balance"`
}

// NewClient builds a bank client. With an OAuth token URL the requests carry
// a client-credentials bearer token in addition to the API key.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" || cfg.AccountID == "" {
		return nil, errors.New("bank API key and account id are required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := &http.Client{Timeout: timeout}
	if cfg.OAuthTokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			TokenURL:     cfg.OAuthTokenURL,
		}
		httpClient = cc.Client(ctx)
		httpClient.Timeout = timeout
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		accountID:  cfg.AccountID,
	}, nil
}

// AccountBalance fetches the configured account and returns its balance.
func (c *Client) AccountBalance(ctx context.Context) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/accounts/%s?key=%s", c.baseURL, url.PathEscape(c.accountID), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("create bank request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bank request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return decimal.Zero, fmt.Errorf("read bank response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("bank API returned status %d", resp.StatusCode)
	}

	var account accountResponse
	if err := json.Unmarshal(body, &account); err != nil {
		return decimal.Zero, fmt.Errorf("decode bank response: %w", err)
	}
	if len(account.Balance) == 0 || string(account.Balance) == "null" {
		return decimal.Zero, fmt.Errorf("account %s has no balance", c.accountID)
	}

	// Nessie returns the balance as a JSON number; accept a quoted one too.
	raw := strings.Trim(string(account.Balance), `"`)
	balance, err := ledger.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid balance %q: %w", raw, err)
	}
	return ledger.NormalizeAmount(balance), nil
}
