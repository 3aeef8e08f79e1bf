package kafka

// Config holds Kafka connection parameters.
type Config struct {
	Brokers []string

	// SASL configuration for authentication.
	SASLMechanism string // "PLAIN", "SCRAM-SHA-256" or "SCRAM-SHA-512"
	SASLUsername  string
	SASLPassword  string

	// TLS enables TLS for broker connections.
	TLS         bool
	SASLEnabled bool
}
