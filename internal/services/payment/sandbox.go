package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var sandboxCurrencies = map[string]bool{
	"EUR": true,
	"USD": true,
}

// Sandbox is an in-process gateway for development and tests. It settles any
// positive amount in a supported currency and never talks to the network.
type Sandbox struct{}

func NewSandbox() *Sandbox {
	return &Sandbox{}
}

func (s *Sandbox) Provider() Provider {
	return ProviderSandbox
}

func (s *Sandbox) Charge(ctx context.Context, amount decimal.Decimal, currency string) (*ChargeResult, error) {
	if !sandboxCurrencies[currency] {
		return nil, &CurrencyError{Currency: currency}
	}
	if !amount.IsPositive() {
		return nil, &CardError{Detail: "amount must be positive"}
	}

	return &ChargeResult{
		Reference: uuid.NewString(),
		Amount:    amount,
		Currency:  currency,
	}, nil
}

func (s *Sandbox) Close(ctx context.Context) error {
	return nil
}
