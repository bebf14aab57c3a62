package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/riskline/txrisk/internal/domain/model"
)

// StatusSuccess is reported on every successfully scored response.
const StatusSuccess = "success"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names so errors match what the caller sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ScoreTransactionRequest is the input DTO for the ScoreTransaction use case.
// Field names follow the camelCase wire format accepted by the HTTP route.
type ScoreTransactionRequest struct {
	Amount           *decimal.Decimal `json:"amount" validate:"required"`
	RequestID        string           `json:"requestId,omitempty" validate:"omitempty,uuid"`
	Location         string           `json:"location" validate:"required"`
	DeviceType       string           `json:"deviceType" validate:"required"`
	MerchantCategory string           `json:"merchantCategory" validate:"required"`
	IPAddress        string           `json:"ipAddress" validate:"required"`
	PaymentMethod    string           `json:"paymentMethod" validate:"required"`
	TransactionTime  string           `json:"transactionTime" validate:"required"`
}

// Validate checks the request and reports the first problem as a
// *model.ValidationError.
func (r ScoreTransactionRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return model.NewValidationError(fe.Field(), describeTag(fe.Tag()))
		}
		return model.NewValidationError("request", err.Error())
	}
	_, err := model.NewTransactionRecord(r.Params())
	return err
}

// Params maps the request to domain transaction parameters. Callers must
// validate first; a missing amount maps to zero.
func (r ScoreTransactionRequest) Params() model.TransactionParams {
	var amount decimal.Decimal
	if r.Amount != nil {
		amount = *r.Amount
	}
	return model.TransactionParams{
		Amount:           amount,
		Location:         r.Location,
		DeviceType:       r.DeviceType,
		MerchantCategory: r.MerchantCategory,
		IPAddress:        r.IPAddress,
		PaymentMethod:    r.PaymentMethod,
		TransactionTime:  r.TransactionTime,
	}
}

func describeTag(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "uuid":
		return "must be a UUID"
	default:
		return "failed " + tag + " check"
	}
}

// ScoreTransactionResponse is the output DTO returned after scoring.
type ScoreTransactionResponse struct {
	RiskBreakdown   model.Breakdown `json:"risk_breakdown"`
	Status          string          `json:"status"`
	Engine          string          `json:"engine"`
	Strategy        string          `json:"strategy"`
	Action          string          `json:"action"`
	RequestID       uuid.UUID       `json:"request_id"`
	RiskScore       float64         `json:"risk_score"`
	FraudPrediction bool            `json:"fraud_prediction"`
	HardBlocked     bool            `json:"hard_blocked"`
}

// FromResult maps a scoring result to the response DTO. The risk score is
// rounded to four decimal places; the engine itself keeps full precision.
func FromResult(requestID uuid.UUID, strategy, action string, r model.ScoringResult) ScoreTransactionResponse {
	return ScoreTransactionResponse{
		Status:          StatusSuccess,
		RequestID:       requestID,
		RiskScore:       RoundScore(r.RiskScore),
		FraudPrediction: r.FraudFlag,
		RiskBreakdown:   r.Breakdown,
		Engine:          r.EngineLabel,
		Strategy:        strategy,
		Action:          action,
		HardBlocked:     r.HardBlocked,
	}
}

// RoundScore rounds a score half away from zero to four decimal places.
func RoundScore(score float64) float64 {
	return decimal.NewFromFloat(score).Round(4).InexactFloat64()
}
