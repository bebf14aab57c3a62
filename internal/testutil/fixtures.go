// Package testutil holds fixtures and assertions shared by the txrisk tests.
package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/riskline/txrisk/internal/domain/model"
)

// Fixed UUIDs for deterministic testing
var (
	TestRequestID1 = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestRequestID2 = uuid.MustParse("00000000-0000-0000-0000-000000000002")
)

// FlaggedParams trips the geo, UPI context and late-night rules with an
// amount below the high-value threshold.
func FlaggedParams() model.TransactionParams {
	return model.TransactionParams{
		Amount:           decimal.NewFromInt(75000),
		Location:         "Mumbai",
		DeviceType:       "Desktop",
		MerchantCategory: "Electronics",
		IPAddress:        "8.8.8.8",
		PaymentMethod:    "UPI",
		TransactionTime:  "Late Night",
	}
}

// CleanParams trips no rule under any strategy.
func CleanParams() model.TransactionParams {
	return model.TransactionParams{
		Amount:           decimal.NewFromInt(500),
		Location:         "Chennai",
		DeviceType:       "Mobile - Samsung",
		MerchantCategory: "Groceries",
		IPAddress:        "103.21.4.5",
		PaymentMethod:    "UPI",
		TransactionTime:  "Morning",
	}
}

// HardBlockParams carries an amount just above the default ceiling.
func HardBlockParams() model.TransactionParams {
	p := CleanParams()
	p.Amount = decimal.RequireFromString("1000000000001")
	return p
}

// Record builds a TransactionRecord, failing the test on invalid params.
func Record(t *testing.T, p model.TransactionParams) model.TransactionRecord {
	t.Helper()
	rec, err := model.NewTransactionRecord(p)
	require.NoError(t, err)
	return rec
}
