package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"ticket-reservation/utils"
)

// RestGateway charges through an external REST payment gateway.
type RestGateway struct {
	// baseURL is the base url of the gateway backend.
	baseURL string

	// apiKey authenticates this service with the gateway.
	apiKey string

	// hc is the http client.
	hc *http.Client
}

func NewRestGateway(_ context.Context, baseURL, apiKey string) *RestGateway {
	return &RestGateway{
		baseURL: baseURL,
		apiKey:  apiKey,

		// set http client with timeout.
		hc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (g *RestGateway) Provider() Provider {
	return ProviderRest
}

type chargeRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type chargeResponse struct {
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
	Detail    string          `json:"detail"`
}

func (g *RestGateway) Charge(ctx context.Context, amount decimal.Decimal, currency string) (*ChargeResult, error) {
	body, err := json.Marshal(chargeRequest{Amount: amount, Currency: currency})
	if err != nil {
		return nil, &GatewayError{Detail: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/charges", bytes.NewReader(body))
	if err != nil {
		return nil, &GatewayError{Detail: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	// One key per attempt; the gateway deduplicates retried charges on it.
	idemKey, _ := utils.GenerateCode(16)
	req.Header.Set("Idempotency-Key", idemKey)

	resp, err := g.hc.Do(req)
	if err != nil {
		return nil, &GatewayError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	var out chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &GatewayError{Detail: fmt.Sprintf("decoding response: %v", err)}
	}

	switch resp.StatusCode {
	case http.StatusOK:
		if out.Status != "settled" {
			return nil, &CardError{Detail: out.Detail}
		}
		return &ChargeResult{
			Reference: out.Reference,
			Amount:    out.Amount,
			Currency:  out.Currency,
		}, nil

	case http.StatusPaymentRequired:
		return nil, &CardError{Detail: out.Detail}

	case http.StatusUnprocessableEntity:
		return nil, &CurrencyError{Currency: currency}

	default:
		return nil, &GatewayError{Detail: fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, out.Detail)}
	}
}

func (g *RestGateway) Close(ctx context.Context) error {
	g.hc.CloseIdleConnections()
	return nil
}
