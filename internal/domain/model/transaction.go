package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionParams carries the raw fields of a transaction before validation.
type TransactionParams struct {
	Amount           decimal.Decimal
	Location         string
	DeviceType       string
	MerchantCategory string
	IPAddress        string
	PaymentMethod    string
	TransactionTime  string
}

// TransactionRecord is the immutable, validated input to the scoring engine.
type TransactionRecord struct {
	amount           decimal.Decimal
	location         string
	deviceType       string
	merchantCategory string
	ipAddress        string
	paymentMethod    string
	transactionTime  string
}

// NewTransactionRecord validates params and builds a TransactionRecord.
// Every field is required and the amount must not be negative.
func NewTransactionRecord(p TransactionParams) (TransactionRecord, error) {
	t := TransactionRecord{
		amount:           p.Amount,
		location:         p.Location,
		deviceType:       p.DeviceType,
		merchantCategory: p.MerchantCategory,
		ipAddress:        p.IPAddress,
		paymentMethod:    p.PaymentMethod,
		transactionTime:  p.TransactionTime,
	}
	if err := t.Validate(); err != nil {
		return TransactionRecord{}, err
	}
	return t, nil
}

// Validate reports the first missing or malformed field as a
// *ValidationError. A zero TransactionRecord is never valid.
func (t TransactionRecord) Validate() error {
	if t.amount.IsNegative() {
		return NewValidationError("amount", "transaction amount cannot be negative")
	}

	required := []struct {
		field string
		value string
	}{
		{"location", t.location},
		{"deviceType", t.deviceType},
		{"merchantCategory", t.merchantCategory},
		{"ipAddress", t.ipAddress},
		{"paymentMethod", t.paymentMethod},
		{"transactionTime", t.transactionTime},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return NewValidationError(r.field, "is required")
		}
	}
	return nil
}

// --- Accessors ---

func (t TransactionRecord) Amount() decimal.Decimal  { return t.amount }
func (t TransactionRecord) Location() string         { return t.location }
func (t TransactionRecord) DeviceType() string       { return t.deviceType }
func (t TransactionRecord) MerchantCategory() string { return t.merchantCategory }
func (t TransactionRecord) IPAddress() string        { return t.ipAddress }
func (t TransactionRecord) PaymentMethod() string    { return t.paymentMethod }
func (t TransactionRecord) TransactionTime() string  { return t.transactionTime }

// AmountFloat returns the amount as a float64 for scoring arithmetic.
func (t TransactionRecord) AmountFloat() float64 {
	return t.amount.InexactFloat64()
}
