package valueobject

import (
	"fmt"
	"strings"
)

// Profile names a decision threshold calibration for the additive strategy.
type Profile struct {
	value     string
	threshold float64
}

var (
	ProfileStrict   = Profile{value: "strict", threshold: 0.60}
	ProfileBalanced = Profile{value: "balanced", threshold: 0.65}
	ProfileLenient  = Profile{value: "lenient", threshold: 0.70}
)

// ProfileFromString reconstructs a Profile from its string representation.
func ProfileFromString(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return ProfileStrict, nil
	case "balanced":
		return ProfileBalanced, nil
	case "lenient":
		return ProfileLenient, nil
	default:
		return Profile{}, fmt.Errorf("invalid threshold profile: %q", s)
	}
}

// String returns the string representation.
func (p Profile) String() string {
	return p.value
}

// Threshold is the risk score above which a transaction is flagged.
func (p Profile) Threshold() float64 {
	return p.threshold
}

// IsZero returns true if the Profile has not been set.
func (p Profile) IsZero() bool {
	return p.value == ""
}
