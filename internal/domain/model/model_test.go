package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskline/txrisk/internal/domain/model"
)

func validParams() model.TransactionParams {
	return model.TransactionParams{
		Amount:           decimal.NewFromInt(2500),
		Location:         "Pune",
		DeviceType:       "Mobile - Samsung",
		MerchantCategory: "Groceries",
		IPAddress:        "49.36.10.2",
		PaymentMethod:    "UPI",
		TransactionTime:  "Noon",
	}
}

func TestNewTransactionRecord(t *testing.T) {
	rec, err := model.NewTransactionRecord(validParams())
	require.NoError(t, err)

	assert.True(t, rec.Amount().Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, "Pune", rec.Location())
	assert.Equal(t, "Mobile - Samsung", rec.DeviceType())
	assert.Equal(t, "Groceries", rec.MerchantCategory())
	assert.Equal(t, "49.36.10.2", rec.IPAddress())
	assert.Equal(t, "UPI", rec.PaymentMethod())
	assert.Equal(t, "Noon", rec.TransactionTime())
	assert.InDelta(t, 2500.0, rec.AmountFloat(), 1e-9)
}

func TestNewTransactionRecord_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.TransactionParams)
		field  string
	}{
		{"negative amount", func(p *model.TransactionParams) { p.Amount = decimal.NewFromInt(-1) }, "amount"},
		{"missing location", func(p *model.TransactionParams) { p.Location = "" }, "location"},
		{"blank device type", func(p *model.TransactionParams) { p.DeviceType = "   " }, "deviceType"},
		{"missing merchant category", func(p *model.TransactionParams) { p.MerchantCategory = "" }, "merchantCategory"},
		{"missing ip address", func(p *model.TransactionParams) { p.IPAddress = "" }, "ipAddress"},
		{"missing payment method", func(p *model.TransactionParams) { p.PaymentMethod = "" }, "paymentMethod"},
		{"missing transaction time", func(p *model.TransactionParams) { p.TransactionTime = "" }, "transactionTime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)

			_, err := model.NewTransactionRecord(p)
			var verr *model.ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestZeroAmountIsValid(t *testing.T) {
	p := validParams()
	p.Amount = decimal.Zero
	_, err := model.NewTransactionRecord(p)
	assert.NoError(t, err)
}

func TestZeroRecordIsInvalid(t *testing.T) {
	var rec model.TransactionRecord
	assert.Error(t, rec.Validate())
}

func TestInternalComputationErrorHidesCause(t *testing.T) {
	cause := errors.New("index out of range [7] with length 5")
	err := model.NewInternalComputationError(cause)

	assert.Equal(t, "internal computation error", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Cause())
}

func TestBreakdownKeepsInsertionOrder(t *testing.T) {
	b := model.NewBreakdown(
		model.Contribution{Label: "b", Value: 0.2},
		model.Contribution{Label: "a", Value: 0.1},
	)
	b = b.With("c", 0.3)
	b = b.With("b", 0.25)

	assert.Equal(t, []string{"b", "a", "c"}, b.Labels())
	assert.Equal(t, 3, b.Len())

	v, ok := b.Get("b")
	require.True(t, ok)
	assert.Equal(t, 0.25, v)
	assert.False(t, b.Has("d"))

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, `{"b":0.25,"a":0.1,"c":0.3}`, string(raw))
}

func TestBreakdownWithDoesNotAlias(t *testing.T) {
	base := model.NewBreakdown(model.Contribution{Label: "x", Value: 1})
	_ = base.With("x", 2)
	_ = base.With("y", 3)

	v, _ := base.Get("x")
	assert.Equal(t, 1.0, v)
	assert.Equal(t, 1, base.Len())
}

func TestEmptyBreakdownMarshalsToObject(t *testing.T) {
	raw, err := json.Marshal(model.Breakdown{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(raw))
	assert.Empty(t, model.Breakdown{}.Map())
}

func TestHardBlockResult(t *testing.T) {
	r := model.HardBlockResult("Engine X")

	assert.Equal(t, 1.0, r.RiskScore)
	assert.True(t, r.FraudFlag)
	assert.True(t, r.HardBlocked)
	assert.Equal(t, "Engine X [HARD-BLOCK]", r.EngineLabel)
	assert.Equal(t, map[string]float64{model.HardBlockLabel: 1.0}, r.Breakdown.Map())
}
