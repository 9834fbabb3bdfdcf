// Package payments wraps the external wallet collaborators the marketplace
// consumes: payment verification after a funding redirect, bank directory
// lookup, and account name resolution before a withdrawal. The sync core
// never calls these itself; the CLI and HTTP surfaces await them and then
// feed results back through the store.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Config holds configuration for the payments client.
type Config struct {
	// BaseURL is the payments gateway URL (e.g. "https://api.example.com").
	BaseURL string

	// Timeout for HTTP requests (default: 30s).
	Timeout time.Duration
}

// Client talks to the payments gateway.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("payments base URL is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// VerifyPaymentRequest identifies a funding transaction to confirm.
type VerifyPaymentRequest struct {
	TransactionID  string  `json:"transaction_id"`
	TxRef          string  `json:"tx_ref"`
	UserID         string  `json:"user_id"`
	ExpectedAmount float64 `json:"expected_amount"`
}

// VerifyPaymentResult carries the wallet balance after a confirmed payment.
type VerifyPaymentResult struct {
	NewBalance float64 `json:"new_balance"`
}

// Bank is one entry of the bank directory.
type Bank struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// VerifyPayment confirms a funding transaction and returns the new wallet
// balance.
func (c *Client) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (VerifyPaymentResult, error) {
	var result VerifyPaymentResult
	if err := c.postJSON(ctx, "/payments/verify", req, &result); err != nil {
		return VerifyPaymentResult{}, fmt.Errorf("verify payment %s: %w", req.TxRef, err)
	}
	return result, nil
}

// ListBanks returns the bank directory for a country code.
func (c *Client) ListBanks(ctx context.Context, country string) ([]Bank, error) {
	if country == "" {
		return nil, fmt.Errorf("country code is required")
	}
	var banks []Bank
	path := "/banks?country=" + url.QueryEscape(country)
	if err := c.getJSON(ctx, path, &banks); err != nil {
		return nil, fmt.Errorf("list banks for %s: %w", country, err)
	}
	return banks, nil
}

type resolveAccountRequest struct {
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code"`
}

type resolveAccountResponse struct {
	AccountName string `json:"account_name"`
}

// ResolveAccount verifies an account number against a bank and returns the
// holder's name.
func (c *Client) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (string, error) {
	if accountNumber == "" || bankCode == "" {
		return "", fmt.Errorf("account number and bank code are required")
	}
	var resp resolveAccountResponse
	req := resolveAccountRequest{AccountNumber: accountNumber, BankCode: bankCode}
	if err := c.postJSON(ctx, "/banks/resolve", req, &resp); err != nil {
		return "", fmt.Errorf("resolve account %s: %w", accountNumber, err)
	}
	return resp.AccountName, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && (errResp.Error != "" || errResp.Message != "") {
			msg := errResp.Error
			if msg == "" {
				msg = errResp.Message
			}
			return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("gateway returned %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
