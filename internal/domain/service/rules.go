package service

import (
	"fmt"
	"slices"
)

// Rule labels attached to the breakdown when a rule triggers.
const (
	LabelGeoMismatch      = "Regional IP/City Mismatch"
	LabelForeignIndianIP  = "Foreign Transaction / Indian IP"
	LabelEmulatorSpoofing = "Virtual/Emulator Spoofing"
	LabelUPIContext       = "UPI Protocol Constraint Violation"
	LabelIrregularWindow  = "Irregular Activity Window"

	highValueLabelFormat = "High Value Velocity (%s)"
)

// HighValueLabel returns the amount rule label for a payment method.
func HighValueLabel(paymentMethod string) string {
	return fmt.Sprintf(highValueLabelFormat, paymentMethod)
}

// Default classifier tables and point values.
const (
	DefaultLoopbackAddress = "127.0.0.1"
	DefaultEmulatorKeyword = "Emulator"
	DefaultUPIMethod       = "UPI"
	DefaultLateNightBucket = "Late Night"

	DefaultGeoMismatchPoints     = 0.48
	DefaultForeignIndianIPPoints = 0.22
	DefaultEmulatorPoints        = 0.65
	DefaultUPIContextPoints      = 0.85
	DefaultIrregularWindowPoints = 0.18

	DefaultGeoMismatchIntensity     = 1.0
	DefaultForeignIndianIPIntensity = 0.4
	DefaultEmulatorIntensity        = 1.0
	DefaultUPIContextIntensity      = 1.0
	DefaultLateNightIntensity       = 0.6

	DefaultAmountLogDivisor    = 7.0
	DefaultAmountLogCap        = 1.2
	DefaultAmountLinearDivisor = 200000.0
	DefaultAmountLinearCap     = 0.2
)

var (
	// DefaultIndianIPPrefixes are dotted-decimal prefixes allocated to Indian networks.
	DefaultIndianIPPrefixes = []string{"49.", "103.", "106.", "117.", "122.", "157.", "182."}

	// DefaultIndianCities are matched as case-sensitive substrings of the location.
	DefaultIndianCities = []string{"Chennai", "Mumbai", "Delhi", "Bangalore", "Hyderabad", "Kolkata", "Pune", "Ahmedabad"}

	// DefaultMobileKeywords identify a mobile device class in the device type.
	DefaultMobileKeywords = []string{"Mobile", "iPhone", "Samsung", "OnePlus"}
)

// RulePoints are the fixed per-rule contributions. The additive strategy
// sums them; the logistic strategy reports them as approximate attribution.
type RulePoints struct {
	GeoMismatch     float64 `yaml:"geo_mismatch"`
	ForeignIndianIP float64 `yaml:"foreign_indian_ip"`
	Emulator        float64 `yaml:"emulator"`
	UPIContext      float64 `yaml:"upi_context"`
	IrregularWindow float64 `yaml:"irregular_window"`
}

// RuleIntensities are the logistic feature values set when a rule triggers.
type RuleIntensities struct {
	GeoMismatch     float64 `yaml:"geo_mismatch"`
	ForeignIndianIP float64 `yaml:"foreign_indian_ip"`
	Emulator        float64 `yaml:"emulator"`
	UPIContext      float64 `yaml:"upi_context"`
	LateNight       float64 `yaml:"late_night"`
}

// AmountScaling holds the two saturating amount mappings.
type AmountScaling struct {
	LogDivisor    float64 `yaml:"log_divisor"`
	LogCap        float64 `yaml:"log_cap"`
	LinearDivisor float64 `yaml:"linear_divisor"`
	LinearCap     float64 `yaml:"linear_cap"`
}

// RuleSet is the data that drives feature extraction.
type RuleSet struct {
	IndianIPPrefixes  []string        `yaml:"indian_ip_prefixes"`
	IndianCities      []string        `yaml:"indian_cities"`
	MobileKeywords    []string        `yaml:"mobile_keywords"`
	LoopbackAddress   string          `yaml:"loopback_address"`
	EmulatorKeyword   string          `yaml:"emulator_keyword"`
	UPIMethod         string          `yaml:"upi_method"`
	LateNightBucket   string          `yaml:"late_night_bucket"`
	Points            RulePoints      `yaml:"points"`
	Intensities       RuleIntensities `yaml:"intensities"`
	Amount            AmountScaling   `yaml:"amount"`
	InverseGeoEnabled bool            `yaml:"inverse_geo_enabled"`
}

// DefaultRuleSet returns the calibrated rule tables.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		IndianIPPrefixes: slices.Clone(DefaultIndianIPPrefixes),
		IndianCities:     slices.Clone(DefaultIndianCities),
		MobileKeywords:   slices.Clone(DefaultMobileKeywords),
		LoopbackAddress:  DefaultLoopbackAddress,
		EmulatorKeyword:  DefaultEmulatorKeyword,
		UPIMethod:        DefaultUPIMethod,
		LateNightBucket:  DefaultLateNightBucket,
		Points: RulePoints{
			GeoMismatch:     DefaultGeoMismatchPoints,
			ForeignIndianIP: DefaultForeignIndianIPPoints,
			Emulator:        DefaultEmulatorPoints,
			UPIContext:      DefaultUPIContextPoints,
			IrregularWindow: DefaultIrregularWindowPoints,
		},
		Intensities: RuleIntensities{
			GeoMismatch:     DefaultGeoMismatchIntensity,
			ForeignIndianIP: DefaultForeignIndianIPIntensity,
			Emulator:        DefaultEmulatorIntensity,
			UPIContext:      DefaultUPIContextIntensity,
			LateNight:       DefaultLateNightIntensity,
		},
		Amount: AmountScaling{
			LogDivisor:    DefaultAmountLogDivisor,
			LogCap:        DefaultAmountLogCap,
			LinearDivisor: DefaultAmountLinearDivisor,
			LinearCap:     DefaultAmountLinearCap,
		},
	}
}

// Validate checks the rule set for values that would break scoring bounds
// or monotonicity.
func (r RuleSet) Validate() error {
	if len(r.IndianIPPrefixes) == 0 {
		return fmt.Errorf("rule set: indian_ip_prefixes must not be empty")
	}
	if len(r.IndianCities) == 0 {
		return fmt.Errorf("rule set: indian_cities must not be empty")
	}
	if len(r.MobileKeywords) == 0 {
		return fmt.Errorf("rule set: mobile_keywords must not be empty")
	}
	if r.EmulatorKeyword == "" || r.UPIMethod == "" || r.LateNightBucket == "" {
		return fmt.Errorf("rule set: emulator_keyword, upi_method and late_night_bucket are required")
	}

	for name, v := range map[string]float64{
		"points.geo_mismatch":           r.Points.GeoMismatch,
		"points.foreign_indian_ip":      r.Points.ForeignIndianIP,
		"points.emulator":               r.Points.Emulator,
		"points.upi_context":            r.Points.UPIContext,
		"points.irregular_window":       r.Points.IrregularWindow,
		"intensities.geo_mismatch":      r.Intensities.GeoMismatch,
		"intensities.foreign_indian_ip": r.Intensities.ForeignIndianIP,
		"intensities.emulator":          r.Intensities.Emulator,
		"intensities.upi_context":       r.Intensities.UPIContext,
		"intensities.late_night":        r.Intensities.LateNight,
		"amount.log_cap":                r.Amount.LogCap,
		"amount.linear_cap":             r.Amount.LinearCap,
	} {
		if v < 0 {
			return fmt.Errorf("rule set: %s must not be negative, got %v", name, v)
		}
	}

	if r.Amount.LogDivisor <= 0 || r.Amount.LinearDivisor <= 0 {
		return fmt.Errorf("rule set: amount divisors must be positive")
	}

	return nil
}
