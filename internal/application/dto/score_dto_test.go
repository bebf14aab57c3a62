package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskline/txrisk/internal/application/dto"
	"github.com/riskline/txrisk/internal/domain/model"
	"github.com/riskline/txrisk/internal/testutil"
)

const validBody = `{
	"amount": 75000,
	"location": "Mumbai",
	"deviceType": "Desktop",
	"merchantCategory": "Electronics",
	"ipAddress": "8.8.8.8",
	"paymentMethod": "UPI",
	"transactionTime": "Late Night"
}`

func decode(t *testing.T, body string) dto.ScoreTransactionRequest {
	t.Helper()
	var req dto.ScoreTransactionRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestScoreTransactionRequest_Valid(t *testing.T) {
	req := decode(t, validBody)
	require.NoError(t, req.Validate())

	p := req.Params()
	assert.Equal(t, "75000", p.Amount.String())
	assert.Equal(t, "Late Night", p.TransactionTime)
}

func TestScoreTransactionRequest_AmountAsString(t *testing.T) {
	req := decode(t, `{"amount":"1000000000001.50","location":"a","deviceType":"b","merchantCategory":"c","ipAddress":"d","paymentMethod":"e","transactionTime":"f"}`)
	require.NoError(t, req.Validate())
	assert.Equal(t, "1000000000001.5", req.Params().Amount.String())
}

func TestScoreTransactionRequest_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing amount", `{"location":"a","deviceType":"b","merchantCategory":"c","ipAddress":"d","paymentMethod":"e","transactionTime":"f"}`, "amount"},
		{"negative amount", `{"amount":-5,"location":"a","deviceType":"b","merchantCategory":"c","ipAddress":"d","paymentMethod":"e","transactionTime":"f"}`, "amount"},
		{"missing device", `{"amount":5,"location":"a","merchantCategory":"c","ipAddress":"d","paymentMethod":"e","transactionTime":"f"}`, "deviceType"},
		{"blank time", `{"amount":5,"location":"a","deviceType":"b","merchantCategory":"c","ipAddress":"d","paymentMethod":"e","transactionTime":"  "}`, "transactionTime"},
		{"bad request id", `{"requestId":"nope","amount":5,"location":"a","deviceType":"b","merchantCategory":"c","ipAddress":"d","paymentMethod":"e","transactionTime":"f"}`, "requestId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.RequireValidationError(t, decode(t, tt.body).Validate(), tt.field)
		})
	}
}

func TestFromResult(t *testing.T) {
	id := uuid.New()
	res := model.ScoringResult{
		RiskScore:   0.123456,
		FraudFlag:   false,
		Breakdown:   model.NewBreakdown(model.Contribution{Label: "Irregular Activity Window", Value: 0.18}),
		EngineLabel: "Additive Rule Engine v1",
	}

	resp := dto.FromResult(id, "additive", "APPROVE", res)

	assert.Equal(t, dto.StatusSuccess, resp.Status)
	assert.Equal(t, id, resp.RequestID)
	assert.Equal(t, 0.1235, resp.RiskScore)
	assert.Equal(t, "Additive Rule Engine v1", resp.Engine)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"risk_breakdown":{"Irregular Activity Window":0.18}`)
	assert.Contains(t, string(raw), `"fraud_prediction":false`)
}

func TestRoundScore(t *testing.T) {
	assert.Equal(t, 1.0, dto.RoundScore(0.999996))
	assert.Equal(t, 0.0, dto.RoundScore(0.00004))
	assert.Equal(t, 0.48, dto.RoundScore(0.48))
}
