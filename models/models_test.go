package models

import (
	"testing"
	"time"

	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_IsValid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.IsValid(), "expected %s to be valid", c)
	}

	assert.False(t, Category("gold").IsValid())
	assert.False(t, Category("").IsValid())
	assert.False(t, Category("VIP").IsValid(), "categories are lower case")
}

func TestReservation_Expired(t *testing.T) {
	now := time.Date(2025, 8, 24, 12, 0, 0, 0, time.UTC)

	expiresAt, err := types.ParseDateTime(now.Add(15 * time.Minute))
	require.NoError(t, err)

	r := Reservation{
		ID:          "res-1",
		Quantity:    2,
		AmountToPay: decimal.RequireFromString("10.00"),
		ExpiresAt:   expiresAt,
	}

	assert.False(t, r.Expired(now))
	assert.False(t, r.Expired(now.Add(15*time.Minute-time.Second)))
	assert.True(t, r.Expired(now.Add(15*time.Minute)), "expiry boundary counts as expired")
	assert.True(t, r.Expired(now.Add(time.Hour)))
}
