package valueobject

import (
	"fmt"
	"strings"
)

// Strategy is an immutable value object selecting how extracted risk signals
// are combined into a score.
type Strategy struct {
	value string
}

var (
	// StrategyAdditive sums fixed per-rule points and caps at 1.
	StrategyAdditive = Strategy{value: "additive"}
	// StrategyLogistic applies a sigmoid over a weighted feature vector.
	StrategyLogistic = Strategy{value: "logistic"}
	// StrategyBlended mixes the logistic and additive scores.
	StrategyBlended = Strategy{value: "blended"}
)

// StrategyFromString reconstructs a Strategy from its string representation.
func StrategyFromString(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "additive":
		return StrategyAdditive, nil
	case "logistic":
		return StrategyLogistic, nil
	case "blended":
		return StrategyBlended, nil
	default:
		return Strategy{}, fmt.Errorf("invalid scoring strategy: %q", s)
	}
}

// String returns the string representation.
func (s Strategy) String() string {
	return s.value
}

// IsZero returns true if the Strategy has not been set.
func (s Strategy) IsZero() bool {
	return s.value == ""
}

// Equal checks equality with another Strategy.
func (s Strategy) Equal(other Strategy) bool {
	return s.value == other.value
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := StrategyFromString(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
