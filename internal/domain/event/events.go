package event

import (
	"github.com/google/uuid"

	"github.com/riskline/txrisk/pkg/events"
)

const (
	// EventTypeTransactionScored is emitted for every scored transaction.
	EventTypeTransactionScored = "risk.transaction.scored"

	// EventTypeTransactionFlagged is emitted when the fraud flag is raised.
	EventTypeTransactionFlagged = "risk.transaction.flagged"

	aggregateType = "ScoringRequest"
)

// TransactionScored is published after a transaction has been scored.
type TransactionScored struct {
	events.BaseEvent
	Breakdown   map[string]float64 `json:"breakdown"`
	Strategy    string             `json:"strategy"`
	EngineLabel string             `json:"engine_label"`
	Action      string             `json:"action"`
	RiskScore   float64            `json:"risk_score"`
	FraudFlag   bool               `json:"fraud_flag"`
	HardBlocked bool               `json:"hard_blocked"`
}

// NewTransactionScored creates a TransactionScored event for requestID.
func NewTransactionScored(
	requestID uuid.UUID,
	strategy, engineLabel, action string,
	riskScore float64,
	fraudFlag, hardBlocked bool,
	breakdown map[string]float64,
) TransactionScored {
	return TransactionScored{
		BaseEvent:   events.NewBaseEvent(EventTypeTransactionScored, requestID, aggregateType),
		Strategy:    strategy,
		EngineLabel: engineLabel,
		Action:      action,
		RiskScore:   riskScore,
		FraudFlag:   fraudFlag,
		HardBlocked: hardBlocked,
		Breakdown:   breakdown,
	}
}

// TransactionFlagged is published when a transaction is flagged as fraud,
// so downstream consumers can block or alert without re-scoring.
type TransactionFlagged struct {
	events.BaseEvent
	Rules     []string `json:"rules"`
	RiskScore float64  `json:"risk_score"`
}

// NewTransactionFlagged creates a TransactionFlagged event for requestID.
func NewTransactionFlagged(requestID uuid.UUID, riskScore float64, rules []string) TransactionFlagged {
	return TransactionFlagged{
		BaseEvent: events.NewBaseEvent(EventTypeTransactionFlagged, requestID, aggregateType),
		RiskScore: riskScore,
		Rules:     rules,
	}
}
