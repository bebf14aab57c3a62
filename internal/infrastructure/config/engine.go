package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/riskline/txrisk/internal/domain/service"
	"github.com/riskline/txrisk/internal/domain/valueobject"
)

// EngineFile is the YAML layout of the engine tables. Fields left out of a
// file keep their compiled-in defaults.
type EngineFile struct {
	Strategy           string                 `yaml:"strategy"`
	Profile            string                 `yaml:"profile,omitempty"`
	HardBlockCeiling   string                 `yaml:"hard_block_ceiling"`
	ChallengeThreshold float64                `yaml:"challenge_threshold"`
	Rules              service.RuleSet        `yaml:"rules"`
	Additive           service.AdditiveConfig `yaml:"additive"`
	Logistic           service.LogisticConfig `yaml:"logistic"`
	Blend              service.BlendConfig    `yaml:"blend"`
	Noise              service.NoiseConfig    `yaml:"noise"`
}

// NewEngineFile renders c in file layout. The profile is written only
// while it still accounts for the additive threshold, so a rendered file
// loads back to the same configuration.
func NewEngineFile(c service.EngineConfig) EngineFile {
	var profile string
	if !c.Profile.IsZero() && c.Additive.Threshold == c.Profile.Threshold() {
		profile = c.Profile.String()
	}
	return EngineFile{
		Strategy:           c.Strategy.String(),
		Profile:            profile,
		HardBlockCeiling:   c.HardBlockCeiling.String(),
		ChallengeThreshold: c.ChallengeThreshold,
		Rules:              c.Rules,
		Additive:           c.Additive,
		Logistic:           c.Logistic,
		Blend:              c.Blend,
		Noise:              c.Noise,
	}
}

// EngineConfig converts the file into a domain configuration. A profile,
// when named, replaces the additive threshold.
func (f EngineFile) EngineConfig() (service.EngineConfig, error) {
	strategy, err := valueobject.StrategyFromString(f.Strategy)
	if err != nil {
		return service.EngineConfig{}, fmt.Errorf("config: %w", err)
	}

	ceiling, err := decimal.NewFromString(f.HardBlockCeiling)
	if err != nil {
		return service.EngineConfig{}, fmt.Errorf("config: hard_block_ceiling: %w", err)
	}

	c := service.EngineConfig{
		Strategy:           strategy,
		Profile:            valueobject.ProfileBalanced,
		Rules:              f.Rules,
		Additive:           f.Additive,
		Logistic:           f.Logistic,
		Blend:              f.Blend,
		HardBlockCeiling:   ceiling,
		ChallengeThreshold: f.ChallengeThreshold,
		Noise:              f.Noise,
	}

	if f.Profile != "" {
		profile, err := valueobject.ProfileFromString(f.Profile)
		if err != nil {
			return service.EngineConfig{}, fmt.Errorf("config: %w", err)
		}
		c.Profile = profile
		c.Additive.Threshold = profile.Threshold()
	}

	return c, nil
}

// ParseEngineConfig decodes YAML over the defaults and validates the result.
func ParseEngineConfig(data []byte) (service.EngineConfig, error) {
	defaults := NewEngineFile(service.DefaultEngineConfig())
	defaults.Profile = ""

	file := defaults
	if err := yaml.Unmarshal(data, &file); err != nil {
		return service.EngineConfig{}, fmt.Errorf("config: decode engine tables: %w", err)
	}

	c, err := file.EngineConfig()
	if err != nil {
		return service.EngineConfig{}, err
	}
	if err := c.Validate(); err != nil {
		return service.EngineConfig{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// LoadEngineConfig reads the engine tables at path. An empty path yields
// the defaults.
func LoadEngineConfig(path string) (service.EngineConfig, error) {
	if path == "" {
		return service.DefaultEngineConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return service.EngineConfig{}, fmt.Errorf("config: read engine tables: %w", err)
	}
	return ParseEngineConfig(data)
}

// MarshalEngineConfig renders c as YAML.
func MarshalEngineConfig(c service.EngineConfig) ([]byte, error) {
	return yaml.Marshal(NewEngineFile(c))
}

// ApplyEngineOverrides applies the RISK_* environment overrides to c.
// RISK_THRESHOLD replaces the threshold of the selected strategy and so is
// applied after RISK_PROFILE.
func ApplyEngineOverrides(c *service.EngineConfig) error {
	if v, ok := os.LookupEnv("RISK_STRATEGY"); ok {
		s, err := valueobject.StrategyFromString(v)
		if err != nil {
			return fmt.Errorf("config: RISK_STRATEGY: %w", err)
		}
		c.Strategy = s
	}

	if v, ok := os.LookupEnv("RISK_PROFILE"); ok {
		p, err := valueobject.ProfileFromString(v)
		if err != nil {
			return fmt.Errorf("config: RISK_PROFILE: %w", err)
		}
		c.Profile = p
		c.Additive.Threshold = p.Threshold()
	}

	if v, ok := os.LookupEnv("RISK_THRESHOLD"); ok {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: RISK_THRESHOLD: %w", err)
		}
		switch {
		case c.Strategy.Equal(valueobject.StrategyAdditive):
			c.Additive.Threshold = t
		case c.Strategy.Equal(valueobject.StrategyLogistic):
			c.Logistic.Threshold = t
		case c.Strategy.Equal(valueobject.StrategyBlended):
			c.Blend.Threshold = t
		}
	}

	if v, ok := os.LookupEnv("RISK_HARD_BLOCK_CEILING"); ok {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("config: RISK_HARD_BLOCK_CEILING: %w", err)
		}
		c.HardBlockCeiling = d
	}

	if v, ok := os.LookupEnv("RISK_INVERSE_GEO"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: RISK_INVERSE_GEO: %w", err)
		}
		c.Rules.InverseGeoEnabled = b
	}

	if v, ok := os.LookupEnv("RISK_NOISE_SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: RISK_NOISE_SEED: %w", err)
		}
		c.Noise.Seed = seed
	}

	if v, ok := os.LookupEnv("RISK_NOISE_AMPLITUDE"); ok {
		a, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: RISK_NOISE_AMPLITUDE: %w", err)
		}
		c.Noise.Amplitude = a
		c.Noise.Enabled = a > 0
	}

	return nil
}
