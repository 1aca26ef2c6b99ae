package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration for the authorization core.
type Server struct {
	Addr          string
	JWTSigningKey string
	TokenIssuer   string

	// MISP license key forwarded on every KYC verification call.
	LicenseKey string

	// Path to the acr/amr mapping document, loaded once at startup.
	ACRMappingPath string

	// Path to the UI config blob returned verbatim on detail resolution.
	UIConfigPath string

	// Scopes the relying party may be granted during consent.
	AuthorizeScopes []string

	// ScopeClaims maps a scope token to the claim names it implies.
	ScopeClaims map[string][]string

	Redis    RedisConfig
	Postgres PostgresConfig
	Gateway  GatewayConfig
	Kafka    KafkaConfig
}

// RedisConfig captures connection settings for the transaction cache backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig captures the client registry database connection.
type PostgresConfig struct {
	DSN string
}

// GatewayConfig bounds calls to the external authentication backend.
type GatewayConfig struct {
	BaseURL        string
	Timeout        time.Duration
	MaxConcurrency int64
}

// KafkaConfig captures the audit sink brokers; empty means in-memory audit.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// TransactionTTL bounds how long a pre-auth transaction may live in the cache.
var TransactionTTL = 10 * time.Minute

// AuthCodeTTL bounds the window between code issuance and token exchange.
var AuthCodeTTL = 2 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:           envOr("IDP_GATEWAY_ADDR", ":8080"),
		JWTSigningKey:  envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		TokenIssuer:    envOr("IDP_TOKEN_ISSUER", "http://localhost:8080"),
		LicenseKey:     os.Getenv("IDP_MISP_LICENSE_KEY"),
		ACRMappingPath: envOr("IDP_ACR_MAPPING_PATH", "configs/amr_acr_mapping.json"),
		UIConfigPath:   os.Getenv("IDP_UI_CONFIG_PATH"),
		Redis: RedisConfig{
			URL:          os.Getenv("IDP_REDIS_URL"),
			PoolSize:     envIntOr("IDP_REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("IDP_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("IDP_POSTGRES_DSN"),
		},
		Gateway: GatewayConfig{
			BaseURL:        os.Getenv("IDP_AUTHN_GATEWAY_URL"),
			Timeout:        time.Duration(envIntOr("IDP_AUTHN_GATEWAY_TIMEOUT_SECONDS", 10)) * time.Second,
			MaxConcurrency: int64(envIntOr("IDP_AUTHN_GATEWAY_MAX_CONCURRENCY", 32)),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("IDP_KAFKA_BROKERS")),
			Topic:   envOr("IDP_KAFKA_AUDIT_TOPIC", "idp.audit.events"),
		},
	}

	cfg.AuthorizeScopes = splitNonEmpty(envOr("IDP_AUTHORIZE_SCOPES", "resident-service"))

	scopeClaims, err := loadScopeClaims(os.Getenv("IDP_SCOPE_CLAIMS_PATH"))
	if err != nil {
		return Server{}, err
	}
	cfg.ScopeClaims = scopeClaims
	return cfg, nil
}

// DefaultScopeClaims is the mapping used when no override file is configured.
// Claim names follow the standard OIDC claim registry.
func DefaultScopeClaims() map[string][]string {
	return map[string][]string{
		"profile": {"name", "given_name", "middle_name", "preferred_username",
			"picture", "gender", "birthdate", "locale"},
		"email": {"email", "email_verified"},
		"phone": {"phone_number", "phone_number_verified"},
	}
}

func loadScopeClaims(path string) (map[string][]string, error) {
	if path == "" {
		return DefaultScopeClaims(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scope claims config: %w", err)
	}
	var mapping map[string][]string
	if err := json.Unmarshal(raw, &mapping); err != nil {
		return nil, fmt.Errorf("parse scope claims config: %w", err)
	}
	return mapping, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitNonEmpty(csv string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(csv); i++ {
		if i == len(csv) || csv[i] == ',' {
			if token := csv[start:i]; token != "" {
				out = append(out, token)
			}
			start = i + 1
		}
	}
	return out
}
