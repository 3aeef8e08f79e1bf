package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guildbank/lending/internal/domain/port"
	"github.com/guildbank/lending/pkg/kafka"
	"github.com/guildbank/lending/pkg/postgres"
)

// Config is the full deployment configuration, loaded from the environment.
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string
	LogFormat   string

	GRPCPort int
	HTTPPort int

	DB    postgres.Config
	Kafka kafka.Config

	KafkaTopic string

	JWTSecret string

	OTLPEndpoint   string
	TracingEnabled bool

	Engine EngineSettings
}

// EngineSettings holds the tunable parameters of the lifecycle and scoring
// engines. It implements port.Settings.
type EngineSettings struct {
	snapshot port.SettingsSnapshot
}

// Snapshot returns the engine parameters as one consistent value.
func (s EngineSettings) Snapshot() port.SettingsSnapshot { return s.snapshot }

// Load reads configuration from the environment, applying defaults suitable
// for local development.
func Load() Config {
	return Config{
		ServiceName: "lendingd",
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),

		GRPCPort: getEnvInt("GRPC_PORT", 9090),
		HTTPPort: getEnvInt("HTTP_PORT", 8080),

		DB: postgres.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "lending"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "lending"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
		},
		Kafka: kafka.Config{
			Brokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			SASLEnabled:   getEnvBool("KAFKA_SASL_ENABLED", false),
			SASLMechanism: getEnv("KAFKA_SASL_MECHANISM", "PLAIN"),
			SASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
			TLS:           getEnvBool("KAFKA_TLS", false),
		},
		KafkaTopic: getEnv("KAFKA_TOPIC", "lending-events"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		OTLPEndpoint:   getEnv("OTLP_ENDPOINT", "localhost:4317"),
		TracingEnabled: getEnvBool("TRACING_ENABLED", false),

		Engine: EngineSettings{snapshot: port.SettingsSnapshot{
			InterestReportingPeriod: getEnvDuration("INTEREST_REPORTING_PERIOD", 24*time.Hour),
			SweepInterval:           getEnvDuration("SWEEP_INTERVAL", time.Minute),
			SweepJitter:             getEnvDuration("SWEEP_JITTER", 5*time.Second),
			SweepWorkers:            getEnvInt("SWEEP_WORKERS", 8),
			OfferTTL:                getEnvDuration("OFFER_TTL", 24*time.Hour),
			Alpha:                   getEnvDecimal("SCORE_ALPHA", "0.3"),
			NoHistoryScore:          getEnvDecimal("SCORE_NO_HISTORY", "0.5"),
			SubprimeScore:           getEnvDecimal("SCORE_SUBPRIME", "0.4"),
			BankruptcyScore:         getEnvDecimal("SCORE_BANKRUPTCY", "0"),
			InactivityPeriod:        getEnvDuration("SCORE_INACTIVITY_PERIOD", 30*24*time.Hour),
			InactivityFactor:        getEnvDecimal("SCORE_INACTIVITY_FACTOR", "0.95"),
			CreditLimitFactor:       getEnvDecimal("SCORE_CREDIT_LIMIT_FACTOR", "0.98"),
			UtilizationFactor:       getEnvDecimal("SCORE_UTILIZATION_FACTOR", "0.5"),
			UtilizationGoal:         getEnvDecimal("SCORE_UTILIZATION_GOAL", "0.3"),
			OverpaymentPenalty:      getEnvDecimal("SCORE_OVERPAYMENT_PENALTY", "2"),
			ScoreRangeMin:           getEnvDecimal("SCORE_RANGE_MIN", "300"),
			ScoreRangeMax:           getEnvDecimal("SCORE_RANGE_MAX", "850"),
			SigFigs:                 int32(getEnvInt("SCORE_SIG_FIGS", 3)),
		}},
	}
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	if c.DB.Password == "" {
		return port.NewConfigurationError("DB_PASSWORD is required")
	}
	if c.JWTSecret == "" {
		return port.NewConfigurationError("JWT_SECRET is required")
	}
	if c.GRPCPort == c.HTTPPort {
		return port.NewConfigurationError("gRPC and HTTP ports must differ")
	}
	return c.Engine.snapshot.Validate()
}

func (c Config) GRPCAddr() string { return fmt.Sprintf(":%d", c.GRPCPort) }
func (c Config) HTTPAddr() string { return fmt.Sprintf(":%d", c.HTTPPort) }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvDecimal(key, fallback string) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(fallback)
}
