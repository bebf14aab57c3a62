package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/riskline/txrisk/internal/domain/service"
	pkgkafka "github.com/riskline/txrisk/pkg/kafka"
)

// Config holds all configuration for the risk service.
type Config struct {
	GRPCPort       string
	HTTPPort       string
	Environment    string
	LogLevel       string
	LogFormat      string
	GRPCReflection bool

	KafkaBrokers       []string
	KafkaTopic         string
	KafkaClientID      string
	KafkaSASLMechanism string
	KafkaSASLUsername  string
	KafkaSASLPassword  string
	KafkaTLS           bool

	OTLPEndpoint string
	OTLPInsecure bool

	TLSCertFile string
	TLSKeyFile  string

	JWTSecret        string
	JWTPublicKeyFile string
	JWTIssuer        string

	EngineConfigPath string
	Engine           service.EngineConfig

	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables with sensible
// defaults, then loads the engine tables from RISK_ENGINE_CONFIG when set
// and applies the RISK_* overrides.
func Load() (*Config, error) {
	cfg := &Config{
		GRPCPort:       getEnv("GRPC_PORT", "8090"),
		HTTPPort:       getEnv("HTTP_PORT", "9090"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		GRPCReflection: getEnvBool("GRPC_REFLECTION", false),

		KafkaBrokers:       pkgkafka.ParseBrokers(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "txrisk.scoring.events"),
		KafkaClientID:      getEnv("KAFKA_CLIENT_ID", "txrisk"),
		KafkaSASLMechanism: getEnv("KAFKA_SASL_MECHANISM", ""),
		KafkaSASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
		KafkaSASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
		KafkaTLS:           getEnvBool("KAFKA_TLS", false),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),

		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTPublicKeyFile: getEnv("JWT_PUBLIC_KEY_FILE", ""),
		JWTIssuer:        getEnv("JWT_ISSUER", ""),

		EngineConfigPath: getEnv("RISK_ENGINE_CONFIG", ""),
	}

	timeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("config: SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout = timeout

	engine, err := LoadEngineConfig(cfg.EngineConfigPath)
	if err != nil {
		return nil, err
	}
	if err := ApplyEngineOverrides(&engine); err != nil {
		return nil, err
	}
	if err := engine.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Engine = engine

	return cfg, nil
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

// KafkaConfig returns the producer configuration. SASL is enabled when a
// username is set.
func (c *Config) KafkaConfig() pkgkafka.Config {
	return pkgkafka.Config{
		Brokers:       c.KafkaBrokers,
		ClientID:      c.KafkaClientID,
		SASLEnabled:   c.KafkaSASLUsername != "",
		SASLMechanism: c.KafkaSASLMechanism,
		SASLUsername:  c.KafkaSASLUsername,
		SASLPassword:  c.KafkaSASLPassword,
		TLS:           c.KafkaTLS,
	}
}

// TLSEnabled reports whether both a certificate and a key were configured.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
