package grpc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/riskline/txrisk/internal/application/dto"
	"github.com/riskline/txrisk/internal/application/usecase"
	"github.com/riskline/txrisk/internal/domain/model"
	"github.com/riskline/txrisk/pkg/auth"
)

// Compile-time assertion that RiskServiceHandler implements RiskServiceServer.
var _ RiskServiceServer = (*RiskServiceHandler)(nil)

// RiskServiceHandler implements the gRPC RiskServiceServer interface.
type RiskServiceHandler struct {
	UnimplementedRiskServiceServer
	scoreTransaction *usecase.ScoreTransaction
	logger           *slog.Logger
	requireAuth      bool
}

// NewRiskServiceHandler creates a new gRPC handler. When requireAuth is set,
// callers must carry one of auth.ScoringRoles.
func NewRiskServiceHandler(scoreTransaction *usecase.ScoreTransaction, logger *slog.Logger, requireAuth bool) *RiskServiceHandler {
	return &RiskServiceHandler{
		scoreTransaction: scoreTransaction,
		logger:           logger,
		requireAuth:      requireAuth,
	}
}

// Proto-aligned request/response message types.

// ScoreTransactionRequest represents the proto ScoreTransactionRequest message.
type ScoreTransactionRequest struct {
	RequestID        string `json:"request_id"`
	Amount           string `json:"amount"`
	Location         string `json:"location"`
	DeviceType       string `json:"device_type"`
	MerchantCategory string `json:"merchant_category"`
	IPAddress        string `json:"ip_address"`
	PaymentMethod    string `json:"payment_method"`
	TransactionTime  string `json:"transaction_time"`
}

// BreakdownEntryMsg represents the proto BreakdownEntry message.
type BreakdownEntryMsg struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ScoreTransactionResponse represents the proto ScoreTransactionResponse message.
type ScoreTransactionResponse struct {
	RequestID   string              `json:"request_id"`
	Strategy    string              `json:"strategy"`
	EngineLabel string              `json:"engine_label"`
	Action      string              `json:"action"`
	Breakdown   []BreakdownEntryMsg `json:"breakdown"`
	RiskScore   float64             `json:"risk_score"`
	FraudFlag   bool                `json:"fraud_flag"`
	HardBlocked bool                `json:"hard_blocked"`
}

// ScoreTransaction handles a scoring request.
func (h *RiskServiceHandler) ScoreTransaction(ctx context.Context, req *ScoreTransactionRequest) (*ScoreTransactionResponse, error) {
	if h.requireAuth {
		if err := auth.RequireAnyRole(ctx, auth.ScoringRoles...); err != nil {
			return nil, err
		}
	}

	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	var amount *decimal.Decimal
	if req.Amount != "" {
		a, err := decimal.NewFromString(req.Amount)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid amount: %v", err)
		}
		amount = &a
	}

	result, err := h.scoreTransaction.Execute(ctx, dto.ScoreTransactionRequest{
		RequestID:        req.RequestID,
		Amount:           amount,
		Location:         req.Location,
		DeviceType:       req.DeviceType,
		MerchantCategory: req.MerchantCategory,
		IPAddress:        req.IPAddress,
		PaymentMethod:    req.PaymentMethod,
		TransactionTime:  req.TransactionTime,
	})
	if err != nil {
		return nil, h.toStatus(err)
	}

	breakdown := make([]BreakdownEntryMsg, 0, result.RiskBreakdown.Len())
	for _, e := range result.RiskBreakdown.Entries() {
		breakdown = append(breakdown, BreakdownEntryMsg{Label: e.Label, Value: e.Value})
	}

	return &ScoreTransactionResponse{
		RequestID:   result.RequestID.String(),
		Strategy:    result.Strategy,
		EngineLabel: result.Engine,
		Action:      result.Action,
		Breakdown:   breakdown,
		RiskScore:   result.RiskScore,
		FraudFlag:   result.FraudPrediction,
		HardBlocked: result.HardBlocked,
	}, nil
}

func (h *RiskServiceHandler) toStatus(err error) error {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return status.Error(codes.InvalidArgument, verr.Error())
	}

	h.logger.Error("failed to score transaction", slog.String("error", err.Error()))

	var ierr *model.InternalComputationError
	if errors.As(err, &ierr) {
		return status.Error(codes.Internal, ierr.Error())
	}
	return status.Error(codes.Internal, "internal error")
}
