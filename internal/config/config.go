package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Mailgun   MailgunConfig   `yaml:"mailgun"`
	Mailchimp MailchimpConfig `yaml:"mailchimp"`
	Forms     FormsConfig     `yaml:"forms"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with ECS detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// Addr returns host:port for net/http.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.GetHost(), c.Port)
}

// LogConfig controls the process logger
type LogConfig struct {
	Environment string `yaml:"environment"` // "production" selects JSON output
	RedactPII   *bool  `yaml:"redact_pii"`
}

// Redact reports whether email addresses are masked in log output. Defaults to true.
func (c LogConfig) Redact() bool {
	return c.RedactPII == nil || *c.RedactPII
}

// MailgunConfig holds Mailgun API configuration
type MailgunConfig struct {
	APIKey         string `yaml:"api_key"`
	Domain         string `yaml:"domain"`
	BaseURL        string `yaml:"base_url"` // https://api.eu.mailgun.net for EU domains
	From           string `yaml:"from"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration
func (c MailgunConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MailchimpConfig holds Mailchimp Marketing API configuration
type MailchimpConfig struct {
	APIKey         string `yaml:"api_key"`
	Server         string `yaml:"server"`   // data center, e.g. "us21"
	BaseURL        string `yaml:"base_url"` // derived from Server when empty
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration
func (c MailchimpConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// FormsConfig holds the per-form literals the submission endpoints use
type FormsConfig struct {
	NotifyTo          string `yaml:"notify_to"`
	CampaignSubject   string `yaml:"campaign_subject"`
	Timezone          string `yaml:"timezone"`
	FailOnPartial     bool   `yaml:"fail_on_partial"`
	ListingPipelineID string `yaml:"listing_pipeline_id"`
	BuyerPipelineID   string `yaml:"buyer_pipeline_id"`
}

// Location resolves the timezone used for campaign title dates.
func (c FormsConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Form describes one submission endpoint.
type Form struct {
	Path     string // route, e.g. "/listings"
	Name     string // short name used in logs and metrics
	Label    string // human-readable heading and notification subject
	ListID   string // Mailchimp audience id
	Pipeline string // pipeline type used in the campaign title
}

// Pipeline type labels.
const (
	ListingPipeline = "Listing Pipeline"
	BuyerPipeline   = "Buyer Pipeline"
)

// Forms returns the three submission endpoints. The buyer audience is shared
// by /buyers and /sde.
func (c FormsConfig) Forms() []Form {
	return []Form{
		{Path: "/listings", Name: "listings", Label: "Small Business Deal Analyzer", ListID: c.ListingPipelineID, Pipeline: ListingPipeline},
		{Path: "/buyers", Name: "buyers", Label: "Small Business Loan Purchase Price Calculator", ListID: c.BuyerPipelineID, Pipeline: BuyerPipeline},
		{Path: "/sde", Name: "sde", Label: "SDE Valuation Calculator", ListID: c.BuyerPipelineID, Pipeline: BuyerPipeline},
	}
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// readFile parses the YAML file without applying defaults, so derived
// values can still follow environment overrides.
func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Log.Environment == "" {
		cfg.Log.Environment = "development"
	}
	if cfg.Mailgun.TimeoutSeconds == 0 {
		cfg.Mailgun.TimeoutSeconds = 15
	}
	if cfg.Mailgun.BaseURL == "" {
		cfg.Mailgun.BaseURL = "https://api.mailgun.net"
	}
	if cfg.Mailgun.From == "" && cfg.Mailgun.Domain != "" {
		cfg.Mailgun.From = "Form Relay <postmaster@" + cfg.Mailgun.Domain + ">"
	}
	if cfg.Mailchimp.TimeoutSeconds == 0 {
		cfg.Mailchimp.TimeoutSeconds = 15
	}
	if cfg.Mailchimp.Server == "" {
		cfg.Mailchimp.Server = ServerFromAPIKey(cfg.Mailchimp.APIKey)
	}
	if cfg.Mailchimp.BaseURL == "" && cfg.Mailchimp.Server != "" {
		cfg.Mailchimp.BaseURL = fmt.Sprintf("https://%s.api.mailchimp.com/3.0", cfg.Mailchimp.Server)
	}
	if cfg.Forms.CampaignSubject == "" {
		cfg.Forms.CampaignSubject = "Business Purchase Info"
	}
}

// ServerFromAPIKey extracts the data-center suffix from a Mailchimp API key
// ("abc123-us21" -> "us21"). Returns "" when the key has no suffix.
func ServerFromAPIKey(apiKey string) string {
	i := strings.LastIndex(apiKey, "-")
	if i < 0 || i == len(apiKey)-1 {
		return ""
	}
	return apiKey[i+1:]
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars on ECS.
// A missing config file is not an error: the service can run from env alone.
// Defaults are applied after the overrides: a Mailchimp server or base URL
// set explicitly (file or env) is kept, and only missing ones are derived
// from the API key.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := readFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = &Config{}
	} else if err != nil {
		return nil, err
	}

	overrides := []struct {
		env string
		dst *string
	}{
		{"MAILGUN_API_KEY", &cfg.Mailgun.APIKey},
		{"MAILGUN_DOMAIN", &cfg.Mailgun.Domain},
		{"MAILGUN_BASE_URL", &cfg.Mailgun.BaseURL},
		{"MAILGUN_FROM", &cfg.Mailgun.From},
		{"MAILCHIMP_API_KEY", &cfg.Mailchimp.APIKey},
		{"MAILCHIMP_SERVER", &cfg.Mailchimp.Server},
		{"LISTING_PIPELINE_ID", &cfg.Forms.ListingPipelineID},
		{"BUYER_PIPELINE_ID", &cfg.Forms.BuyerPipelineID},
		{"NOTIFY_TO", &cfg.Forms.NotifyTo},
		{"CAMPAIGN_SUBJECT", &cfg.Forms.CampaignSubject},
		{"FORMS_TIMEZONE", &cfg.Forms.Timezone},
		{"ENVIRONMENT", &cfg.Log.Environment},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Validate checks that every value the submission endpoints depend on is
// present. It is called once at startup, before the server accepts traffic.
func (cfg *Config) Validate() error {
	var missing []string
	check := func(name, val string) {
		if strings.TrimSpace(val) == "" {
			missing = append(missing, name)
		}
	}
	check("mailgun.api_key", cfg.Mailgun.APIKey)
	check("mailgun.domain", cfg.Mailgun.Domain)
	check("mailgun.from", cfg.Mailgun.From)
	check("mailchimp.api_key", cfg.Mailchimp.APIKey)
	check("mailchimp.server", cfg.Mailchimp.Server)
	check("forms.notify_to", cfg.Forms.NotifyTo)
	check("forms.listing_pipeline_id", cfg.Forms.ListingPipelineID)
	check("forms.buyer_pipeline_id", cfg.Forms.BuyerPipelineID)

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrMissingValue, strings.Join(missing, ", ")))
	}
	if _, err := cfg.Forms.Location(); err != nil {
		errs = append(errs, fmt.Errorf("forms.timezone: %w", err))
	}
	return errors.Join(errs...)
}

// ErrMissingValue is returned by Validate when required settings are empty.
var ErrMissingValue = errors.New("missing required configuration")
