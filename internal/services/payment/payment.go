package payment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"ticket-reservation/config"
)

// Provider identifies a payment gateway implementation.
type Provider string

const (
	ProviderSandbox Provider = "sandbox"
	ProviderRest    Provider = "rest"
)

// ChargeResult is what a gateway reports back for a settled charge. Callers
// must verify Amount and Currency against what they asked for before
// committing anything on the strength of it.
type ChargeResult struct {
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
}

// Gateway is the external charge capability. Implementations signal failure
// with one of CardError, CurrencyError or GatewayError; the settlement engine
// treats all three as a uniform decline.
type Gateway interface {
	Provider() Provider
	Charge(ctx context.Context, amount decimal.Decimal, currency string) (*ChargeResult, error)
	Close(ctx context.Context) error
}

// CardError is a decline attributable to the card or account.
type CardError struct {
	Detail string
}

func (e *CardError) Error() string {
	return "payment: card declined: " + e.Detail
}

// CurrencyError reports a currency the gateway will not settle.
type CurrencyError struct {
	Currency string
}

func (e *CurrencyError) Error() string {
	return "payment: unsupported currency: " + e.Currency
}

// GatewayError covers everything else: transport failures, 5xx responses,
// malformed gateway replies.
type GatewayError struct {
	Detail string
}

func (e *GatewayError) Error() string {
	return "payment: gateway error: " + e.Detail
}

// NewGateway creates the gateway selected by configuration.
func NewGateway(ctx context.Context, cfg *config.Config) (Gateway, error) {
	switch Provider(cfg.PaymentProvider) {
	case ProviderSandbox:
		return NewSandbox(), nil

	case ProviderRest:
		if cfg.PaymentBaseURL == "" {
			return nil, fmt.Errorf("payment: PAYMENT_BASE_URL is required for the rest provider")
		}
		return NewRestGateway(ctx, cfg.PaymentBaseURL, cfg.PaymentAPIKey), nil

	default:
		return nil, fmt.Errorf("payment: unsupported provider: %s", cfg.PaymentProvider)
	}
}
