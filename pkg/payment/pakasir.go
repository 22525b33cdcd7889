package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// PakasirClient talks to the Pakasir QRIS gateway. All endpoints are scoped by
// project slug and authenticated with an API key in the payload/query.
type PakasirClient struct {
	BaseURL     string
	ProjectSlug string
	APIKey      string
	client      *http.Client
}

func NewPakasirClient(baseURL, projectSlug, apiKey string) *PakasirClient {
	if baseURL == "" {
		baseURL = "https://app.pakasir.com/api"
	}
	return &PakasirClient{
		BaseURL:     baseURL,
		ProjectSlug: projectSlug,
		APIKey:      apiKey,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

type pakasirTxReq struct {
	Project string `json:"project"`
	OrderID string `json:"order_id"`
	Amount  int    `json:"amount"`
	APIKey  string `json:"api_key"`
}

type pakasirCreateResp struct {
	Payment *struct {
		PaymentNumber string `json:"payment_number"`
		TotalPayment  int    `json:"total_payment"`
		ExpiredAt     string `json:"expired_at"`
	} `json:"payment"`
}

func (p *PakasirClient) CreateQRIS(ctx context.Context, orderID string, amount int) (*QRISPayment, error) {
	body, _ := json.Marshal(pakasirTxReq{
		Project: p.ProjectSlug,
		OrderID: orderID,
		Amount:  amount,
		APIKey:  p.APIKey,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/transactioncreate/qris", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	log.Printf("[PAKASIR] POST /transactioncreate/qris order_id=%s amount=%d", orderID, amount)
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pakasir create: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("pakasir create: status %d", resp.StatusCode)
	}
	var out pakasirCreateResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("pakasir create: decode: %w", err)
	}
	if out.Payment == nil {
		return nil, fmt.Errorf("pakasir create: invalid response from payment gateway")
	}
	return &QRISPayment{
		QRString:    out.Payment.PaymentNumber,
		TotalAmount: out.Payment.TotalPayment,
		ExpiredAt:   out.Payment.ExpiredAt,
	}, nil
}

type pakasirDetailResp struct {
	Transaction *struct {
		Status string `json:"status"`
	} `json:"transaction"`
}

// CheckStatus degrades to "pending" on every failure. A poll must never fail
// just because the gateway hiccuped.
func (p *PakasirClient) CheckStatus(ctx context.Context, orderID string, amount int) string {
	q := url.Values{}
	q.Set("project", p.ProjectSlug)
	q.Set("amount", strconv.Itoa(amount))
	q.Set("order_id", orderID)
	q.Set("api_key", p.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/transactiondetail?"+q.Encode(), nil)
	if err != nil {
		return "pending"
	}
	resp, err := p.client.Do(req)
	if err != nil {
		log.Printf("[PAKASIR] check error: %v", err)
		return "pending"
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("[PAKASIR] check status=%d order_id=%s", resp.StatusCode, orderID)
		return "pending"
	}
	var out pakasirDetailResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.Transaction == nil {
		return "pending"
	}
	return out.Transaction.Status
}

func (p *PakasirClient) Simulate(ctx context.Context, orderID string, amount int) error {
	body, _ := json.Marshal(pakasirTxReq{
		Project: p.ProjectSlug,
		OrderID: orderID,
		Amount:  amount,
		APIKey:  p.APIKey,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/paymentsimulation", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	log.Printf("[PAKASIR] POST /paymentsimulation order_id=%s", orderID)
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("pakasir simulate: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pakasir simulate: status %d", resp.StatusCode)
	}
	return nil
}
