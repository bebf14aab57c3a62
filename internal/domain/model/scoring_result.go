package model

// HardBlockLabel is the only breakdown entry of a hard-blocked result.
const HardBlockLabel = "NON-PHYSICAL AMOUNT"

// ScoringResult is the outcome of scoring one transaction.
type ScoringResult struct {
	Breakdown   Breakdown `json:"breakdown"`
	EngineLabel string    `json:"engine_label"`
	RiskScore   float64   `json:"risk_score"`
	FraudFlag   bool      `json:"fraud_flag"`
	HardBlocked bool      `json:"hard_blocked"`
}

// HardBlockResult is returned for physically implausible amounts.
func HardBlockResult(engineLabel string) ScoringResult {
	return ScoringResult{
		RiskScore:   1.0,
		FraudFlag:   true,
		Breakdown:   NewBreakdown(Contribution{Label: HardBlockLabel, Value: 1.0}),
		EngineLabel: engineLabel + " [HARD-BLOCK]",
		HardBlocked: true,
	}
}
