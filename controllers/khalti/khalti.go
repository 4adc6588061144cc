package khaltiControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pethood-np/pethood-api/config"
)

// StatusCompleted is the only lookup status that authorizes order creation.
const StatusCompleted = "Completed"

type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type InitiateRequest struct {
	ReturnURL         string       `json:"return_url"`
	WebsiteURL        string       `json:"website_url"`
	Amount            int64        `json:"amount"` // minor currency units (paisa)
	PurchaseOrderID   string       `json:"purchase_order_id"`
	PurchaseOrderName string       `json:"purchase_order_name"`
	CustomerInfo      CustomerInfo `json:"customer_info"`
}

type InitiateResponse struct {
	Pidx       string `json:"pidx"`
	PaymentURL string `json:"payment_url"`
	ExpiresAt  string `json:"expires_at"`
}

type LookupResponse struct {
	Pidx          string `json:"pidx"`
	TotalAmount   int64  `json:"total_amount"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	Refunded      bool   `json:"refunded"`
}

// Gateway is the payment-initiation and verification contract. Satisfied by
// Client against the live Khalti API and by fakes in tests.
type Gateway interface {
	Initiate(req InitiateRequest) (*InitiateResponse, error)
	Lookup(pidx string) (*LookupResponse, error)
}

type Client struct {
	cfg  config.Khalti
	http *http.Client
}

func NewClient(cfg config.Khalti) *Client {
	return &Client{cfg: cfg, http: &http.Client{}}
}

// Initiate asks Khalti for a payment URL to redirect the customer to.
func (c *Client) Initiate(req InitiateRequest) (*InitiateResponse, error) {
	var resp InitiateResponse
	if err := c.post("/epayment/initiate/", req, &resp); err != nil {
		return nil, err
	}
	if resp.PaymentURL == "" {
		return nil, fmt.Errorf("khalti returned empty payment URL")
	}
	return &resp, nil
}

// Lookup fetches the server-side payment state for a payment index.
func (c *Client) Lookup(pidx string) (*LookupResponse, error) {
	var resp LookupResponse
	if err := c.post("/epayment/lookup/", map[string]string{"pidx": pidx}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(path string, payload, out interface{}) error {
	if c.cfg.SecretKey == "" {
		return fmt.Errorf("khalti configuration missing")
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", c.cfg.APIURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+c.cfg.SecretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach khalti: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("khalti API error (%d): %s", resp.StatusCode, string(body))
	}
	return json.Unmarshal(body, out)
}
