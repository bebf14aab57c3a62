package service

import (
	"math"
	"strings"

	"github.com/riskline/txrisk/internal/domain/model"
)

// Slot is the position of a signal in the logistic feature vector.
type Slot int

const (
	SlotGeo Slot = iota
	SlotDevice
	SlotContext
	SlotTemporal
	SlotAmount

	// FeatureCount is the length of the feature and weight vectors.
	FeatureCount
)

// RiskSignal is one named rule evaluated against a transaction.
type RiskSignal struct {
	Label     string
	Slot      Slot
	Intensity float64
	Points    float64
	Triggered bool
}

// AmountSignal carries both saturating mappings of the transaction amount.
type AmountSignal struct {
	Label        string
	Value        float64
	LogImpact    float64
	LinearImpact float64
}

// Signals is everything the aggregators need from one transaction.
type Signals struct {
	// Rules holds every evaluated boolean rule in evaluation order,
	// triggered or not.
	Rules  []RiskSignal
	Amount AmountSignal
}

// Triggered returns the rules whose predicate evaluated true, in order.
func (s Signals) Triggered() []RiskSignal {
	out := make([]RiskSignal, 0, len(s.Rules))
	for _, r := range s.Rules {
		if r.Triggered {
			out = append(out, r)
		}
	}
	return out
}

// FeatureExtractor derives risk signals from a transaction record.
// It holds no mutable state and is safe for concurrent use.
type FeatureExtractor struct {
	rules RuleSet
}

// NewFeatureExtractor creates a FeatureExtractor over the given rule tables.
func NewFeatureExtractor(rules RuleSet) *FeatureExtractor {
	return &FeatureExtractor{rules: rules}
}

// Rules returns the rule tables in use.
func (e *FeatureExtractor) Rules() RuleSet {
	return e.rules
}

// Extract evaluates every rule against tx. No rule short-circuits another.
func (e *FeatureExtractor) Extract(tx model.TransactionRecord) Signals {
	r := e.rules

	indianIP := IsIndianIP(tx.IPAddress(), r.IndianIPPrefixes, r.LoopbackAddress)
	indianCity := containsAny(tx.Location(), r.IndianCities)
	mobile := containsAny(tx.DeviceType(), r.MobileKeywords)

	rules := make([]RiskSignal, 0, 5)
	rules = append(rules, RiskSignal{
		Label:     LabelGeoMismatch,
		Slot:      SlotGeo,
		Intensity: r.Intensities.GeoMismatch,
		Points:    r.Points.GeoMismatch,
		Triggered: indianCity && !indianIP,
	})
	if r.InverseGeoEnabled {
		rules = append(rules, RiskSignal{
			Label:     LabelForeignIndianIP,
			Slot:      SlotGeo,
			Intensity: r.Intensities.ForeignIndianIP,
			Points:    r.Points.ForeignIndianIP,
			Triggered: !indianCity && indianIP,
		})
	}
	rules = append(rules,
		RiskSignal{
			Label:     LabelEmulatorSpoofing,
			Slot:      SlotDevice,
			Intensity: r.Intensities.Emulator,
			Points:    r.Points.Emulator,
			Triggered: strings.Contains(tx.DeviceType(), r.EmulatorKeyword),
		},
		RiskSignal{
			Label:     LabelUPIContext,
			Slot:      SlotContext,
			Intensity: r.Intensities.UPIContext,
			Points:    r.Points.UPIContext,
			Triggered: tx.PaymentMethod() == r.UPIMethod && !mobile,
		},
		RiskSignal{
			Label:     LabelIrregularWindow,
			Slot:      SlotTemporal,
			Intensity: r.Intensities.LateNight,
			Points:    r.Points.IrregularWindow,
			Triggered: tx.TransactionTime() == r.LateNightBucket,
		},
	)

	amount := tx.AmountFloat()
	return Signals{
		Rules: rules,
		Amount: AmountSignal{
			Label:        HighValueLabel(tx.PaymentMethod()),
			Value:        amount,
			LogImpact:    LogAmountImpact(amount, r.Amount),
			LinearImpact: LinearAmountImpact(amount, r.Amount),
		},
	}
}

// IsIndianIP reports whether ip starts with one of prefixes or equals loopback.
func IsIndianIP(ip string, prefixes []string, loopback string) bool {
	if loopback != "" && ip == loopback {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(ip, p) {
			return true
		}
	}
	return false
}

// LogAmountImpact is min(log10(max(amount,1)) / divisor, cap).
func LogAmountImpact(amount float64, s AmountScaling) float64 {
	return math.Min(math.Log10(math.Max(amount, 1))/s.LogDivisor, s.LogCap)
}

// LinearAmountImpact is min(amount / divisor, cap), never negative.
func LinearAmountImpact(amount float64, s AmountScaling) float64 {
	return math.Min(math.Max(amount, 0)/s.LinearDivisor, s.LinearCap)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
