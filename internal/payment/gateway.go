package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Gateway creates and verifies remote charges for online payments.
type Gateway interface {
	CreateCharge(ctx context.Context, amountMinor int64, currency, receipt string) (string, error)
	VerifySignature(orderRef, paymentID, signature string) bool
}

// Client talks to the payment gateway over HTTP with basic auth. Amounts
// are in the gateway's minor currency unit.
type Client struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
}

func NewClient(baseURL, keyID, keySecret string) *Client {
	return &Client{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type createChargeRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createChargeResponse struct {
	ID string `json:"id"`
}

// CreateCharge registers a charge for the given amount and returns the
// gateway's reference id.
func (c *Client) CreateCharge(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	body, err := json.Marshal(createChargeRequest{
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return "", fmt.Errorf("marshal charge request: %w", err)
	}

	url := c.baseURL + "/v1/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, raw)
	}

	var out createChargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("gateway returned empty reference id")
	}
	return out.ID, nil
}

// VerifySignature checks the HMAC-SHA256 signature the gateway attaches to
// a payment callback: hex(hmac(orderRef + "|" + paymentID, keySecret)).
func (c *Client) VerifySignature(orderRef, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderRef + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
