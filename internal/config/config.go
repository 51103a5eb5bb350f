// Package config loads the definition engine's YAML configuration file
// into named, strictly validated structs. Missing file yields
// defaults with a warning; an empty section yields defaults with a warning;
// any out-of-range value is a fatal, aggregated load error.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

func init() {
	// Error messages should name fields the way the YAML document does
	// (gpt4_timeout), not the way Go does (GPT4TimeoutSeconds).
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// Policy is the synonym governance policy.
type Policy string

const (
	PolicyStrict     Policy = "strict"
	PolicyPragmatic  Policy = "pragmatic"
)

// SynonymConfig mirrors the synonym_configuration block exactly.
type SynonymConfig struct {
	Policy              Policy        `yaml:"policy" validate:"oneof=strict pragmatic"`
	MinSynonyms         int           `yaml:"min_synonyms"`
	GPT4TimeoutSeconds   int           `yaml:"gpt4_timeout" validate:"gte=5,lte=300"`
	GPT4MaxRetries       int           `yaml:"gpt4_max_retries" validate:"gte=0,lte=10"`
	CacheTTLSeconds      int           `yaml:"cache_ttl" validate:"gte=60,lte=86400"`
	CacheMaxSize         int           `yaml:"cache_max_size" validate:"gte=10,lte=100000"`
	MinWeight            float64       `yaml:"min_weight" validate:"gte=0,lte=1"`
	PreferredThreshold   float64       `yaml:"preferred_threshold" validate:"gte=0,lte=1,gtefield=MinWeight"`
	// RedisAddr, when set, mirrors the cache into Redis so a second
	// process instance shares warm cache state. Empty disables the
	// mirror and the orchestrator runs on its in-process cache alone.
	RedisAddr string `yaml:"redis_addr"`
}

func (c SynonymConfig) TTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c SynonymConfig) GPT4Timeout() time.Duration {
	return time.Duration(c.GPT4TimeoutSeconds) * time.Second
}

func defaultSynonymConfig() SynonymConfig {
	return SynonymConfig{
		Policy:             PolicyStrict,
		MinSynonyms:        5,
		GPT4TimeoutSeconds: 30,
		GPT4MaxRetries:     3,
		CacheTTLSeconds:    3600,
		CacheMaxSize:       1000,
		MinWeight:          0.7,
		PreferredThreshold: 0.95,
	}
}

// AIConfig configures the AI provider collaborator (opaque
// "provider credentials"; the core only needs endpoint/model/timeout shape).
type AIConfig struct {
	Provider           string        `yaml:"provider" validate:"oneof=anthropic bedrock"`
	Model              string        `yaml:"model"`
	Endpoint           string        `yaml:"endpoint"`
	Timeout            time.Duration `yaml:"timeout"`
	Temperature        float32       `yaml:"temperature"`
	EnhancementTemp    float32       `yaml:"enhancement_temperature"`
	MaxTokens          int           `yaml:"max_tokens" validate:"gte=1"`
	APIKeyEnv          string        `yaml:"api_key_env"`
	BedrockRegion      string        `yaml:"bedrock_region"`
}

func defaultAIConfig() AIConfig {
	return AIConfig{
		Provider:        "anthropic",
		Model:           "claude-sonnet-4-5",
		Timeout:         30 * time.Second,
		Temperature:     0.3,
		EnhancementTemp: 0.15,
		MaxTokens:       500,
		APIKeyEnv:       "ANTHROPIC_API_KEY",
		BedrockRegion:   "eu-central-1",
	}
}

// WebLookupConfig configures the web lookup collaborator. OAuth2 client
// credentials are optional: when ClientID is empty the client skips
// authentication entirely, which is the local/test deployment shape.
type WebLookupConfig struct {
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
	MaxResults       int    `yaml:"max_results"`
	BaseURL          string `yaml:"base_url"`
	OAuthTokenURL    string `yaml:"oauth_token_url"`
	OAuthClientID    string `yaml:"oauth_client_id"`
	OAuthClientSecretEnv string `yaml:"oauth_client_secret_env"`
}

func (c WebLookupConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func defaultWebLookupConfig() WebLookupConfig {
	return WebLookupConfig{TimeoutSeconds: 10, MaxResults: 5}
}

// ValidationConfig configures ValidationOrchestrator's bounds-checking
// rules and where its Rego policy packages live on disk.
type ValidationConfig struct {
	PolicyDir         string   `yaml:"policy_dir" validate:"required"`
	MinLength         int      `yaml:"min_length" validate:"gte=1"`
	MaxLength         int      `yaml:"max_length" validate:"gtfield=MinLength"`
	ForbiddenStarters []string `yaml:"forbidden_starters"`
	SubjectiveWords   []string `yaml:"subjective_words"`
}

func defaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		PolicyDir: "pkg/validation/policies",
		MinLength: 20,
		MaxLength: 500,
		ForbiddenStarters: []string{
			"is een", "is de", "is het", "zijn", "wordt", "deze", "dit", "dat",
		},
		SubjectiveWords: []string{
			"belangrijk", "essentieel", "cruciaal", "uitstekend", "goed", "slecht",
		},
	}
}

// ServerConfig configures the HTTP entrypoint.
type ServerConfig struct {
	Port string `yaml:"port"`
}

func defaultServerConfig() ServerConfig {
	return ServerConfig{Port: "8080"}
}

// AuditConfig configures the monitoring event sinks. SlackChannel empty
// disables the Slack sink; the log sink is always active.
type AuditConfig struct {
	SlackTokenEnv string `yaml:"slack_token_env"`
	SlackChannel  string `yaml:"slack_channel"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaultLoggingConfig() LoggingConfig {
	return LoggingConfig{Level: "info", Format: "json"}
}

// DatabaseConfig configures the Postgres connection pool, with connection
// defaults generalized from MySQL to Postgres.
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

func defaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:            "localhost",
		Port:            5432,
		User:            "definitie_user",
		Database:        "definities",
		SSLMode:         "disable",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// Config is the top-level configuration document.
type Config struct {
	Synonym   SynonymConfig   `yaml:"synonym_configuration"`
	AI        AIConfig        `yaml:"ai"`
	WebLookup WebLookupConfig `yaml:"web_lookup"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Database   DatabaseConfig   `yaml:"database"`
	Validation ValidationConfig `yaml:"validation"`
	Audit      AuditConfig      `yaml:"audit"`

	// Warnings accumulates non-fatal load notices (missing file, empty
	// section) so the caller can log them after Load returns.
	Warnings []string `yaml:"-"`
}

func Default() *Config {
	return &Config{
		Synonym:    defaultSynonymConfig(),
		AI:         defaultAIConfig(),
		WebLookup:  defaultWebLookupConfig(),
		Server:     defaultServerConfig(),
		Logging:    defaultLoggingConfig(),
		Database:   defaultDatabaseConfig(),
		Validation: defaultValidationConfig(),
	}
}

type rawDocument struct {
	Synonym    *SynonymConfig    `yaml:"synonym_configuration"`
	AI         *AIConfig         `yaml:"ai"`
	WebLookup  *WebLookupConfig  `yaml:"web_lookup"`
	Server     *ServerConfig     `yaml:"server"`
	Logging    *LoggingConfig    `yaml:"logging"`
	Database   *DatabaseConfig   `yaml:"database"`
	Validation *ValidationConfig `yaml:"validation"`
	Audit      *AuditConfig      `yaml:"audit"`
}

// Load reads path and returns a fully-validated Config. A missing file
// yields Default() plus a warning; an empty/absent section yields that
// section's defaults plus a warning. Any out-of-range value across all
// sections is aggregated into a single fatal error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("config file %s not found, using defaults", path))
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if raw.Synonym != nil {
		cfg.Synonym = *raw.Synonym
		fillSynonymDefaults(&cfg.Synonym)
	} else {
		cfg.Warnings = append(cfg.Warnings, "synonym_configuration section empty, using defaults")
	}
	if raw.AI != nil {
		cfg.AI = *raw.AI
	} else {
		cfg.Warnings = append(cfg.Warnings, "ai section empty, using defaults")
	}
	if raw.WebLookup != nil {
		cfg.WebLookup = *raw.WebLookup
	} else {
		cfg.Warnings = append(cfg.Warnings, "web_lookup section empty, using defaults")
	}
	if raw.Server != nil {
		cfg.Server = *raw.Server
	}
	if raw.Logging != nil {
		cfg.Logging = *raw.Logging
	}
	if raw.Database != nil {
		cfg.Database = *raw.Database
	}
	if raw.Validation != nil {
		cfg.Validation = *raw.Validation
	} else {
		cfg.Warnings = append(cfg.Warnings, "validation section empty, using defaults")
	}
	if raw.Audit != nil {
		cfg.Audit = *raw.Audit
	}

	if errs := Validate(cfg); len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return cfg, nil
}

// fillSynonymDefaults fills zero-valued fields left absent by a partial
// synonym_configuration section with their documented defaults, so that
// "policy: pragmatic" alone does not zero out every other field.
func fillSynonymDefaults(c *SynonymConfig) {
	d := defaultSynonymConfig()
	if c.Policy == "" {
		c.Policy = d.Policy
	}
	if c.MinSynonyms == 0 {
		c.MinSynonyms = d.MinSynonyms
	}
	if c.GPT4TimeoutSeconds == 0 {
		c.GPT4TimeoutSeconds = d.GPT4TimeoutSeconds
	}
	if c.CacheTTLSeconds == 0 {
		c.CacheTTLSeconds = d.CacheTTLSeconds
	}
	if c.CacheMaxSize == 0 {
		c.CacheMaxSize = d.CacheMaxSize
	}
	if c.MinWeight == 0 {
		c.MinWeight = d.MinWeight
	}
	if c.PreferredThreshold == 0 {
		c.PreferredThreshold = d.PreferredThreshold
	}
}

// Validate aggregates every range/enum violation across the document,
// mirroring the "ValueError with aggregated messages" convention. Range,
// enum, and cross-field bounds are expressed as struct tags and checked by
// go-playground/validator; the one rule it cannot tag (PolicyDir must not be
// blank, not just present) stays hand-checked.
func Validate(c *Config) []string {
	var errs []string

	if err := validate.Struct(c); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			errs = append(errs, formatFieldError(fe))
		}
	}

	if strings.TrimSpace(c.Validation.PolicyDir) == "" {
		errs = append(errs, "validation.policy_dir must not be blank")
	}

	return errs
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be >= %s, got %v", field, fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s must be <= %s, got %v", field, fe.Param(), fe.Value())
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "required":
		return fmt.Sprintf("%s must not be empty", field)
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}
