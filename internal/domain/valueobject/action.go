package valueobject

// Action is an immutable value object for what the caller should do with a
// scored transaction.
type Action struct {
	value string
}

var (
	ActionApprove   = Action{value: "APPROVE"}
	ActionChallenge = Action{value: "CHALLENGE"}
	ActionBlock     = Action{value: "BLOCK"}
)

// ActionFor derives the action for a scored transaction. Flagged
// transactions are blocked; anything above challengeThreshold must pass a
// one-time-password step.
func ActionFor(riskScore float64, fraudFlag bool, challengeThreshold float64) Action {
	switch {
	case fraudFlag:
		return ActionBlock
	case riskScore > challengeThreshold:
		return ActionChallenge
	default:
		return ActionApprove
	}
}

// String returns the string representation.
func (a Action) String() string {
	return a.value
}

// Equal checks equality with another Action.
func (a Action) Equal(other Action) bool {
	return a.value == other.value
}

// IsBlocked reports whether the transaction must be refused outright.
func (a Action) IsBlocked() bool {
	return a == ActionBlock
}
