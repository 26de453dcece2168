package config

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// Config holds every runtime knob the planner and executor read. Values come
// from a `.env` file in the working directory when present, with real
// environment variables taking precedence.
type Config struct {
	AWS         AWSConfig
	Credentials CredentialConfig
	Browser     BrowserConfig
	Retry       RetryConfig
	Artifacts   ArtifactConfig
}

type AWSConfig struct {
	Region  string
	ModelID string
}

// CredentialConfig carries the test account injected into `{{USERNAME}}` and
// `{{PASSWORD}}` placeholders. Real credentials never appear in plans.
type CredentialConfig struct {
	Username string
	Password string
}

type BrowserConfig struct {
	AllowedDomains      []string
	DefaultTimeoutMs    int
	NavigationTimeoutMs int
	AutocompleteWaitMs  int
}

type RetryConfig struct {
	MaxRetries   int
	RetryDelayMs int
}

type ArtifactConfig struct {
	Dir                 string
	ScreenshotOnFailure bool
}

func setDefaults() {
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("BEDROCK_MODEL", "anthropic.claude-3-5-haiku-20241022-v1:0")

	viper.SetDefault("TEST_USERNAME", "demo_user")
	viper.SetDefault("TEST_PASSWORD", "demo_pass")

	viper.SetDefault("ALLOWED_DOMAINS", "localhost,127.0.0.1,oraclecloudapps.com")
	viper.SetDefault("DEFAULT_TIMEOUT", 30000)
	viper.SetDefault("DEFAULT_NAVIGATION_TIMEOUT", 60000)
	viper.SetDefault("AUTOCOMPLETE_WAIT_MS", 1000)

	viper.SetDefault("MAX_RETRIES", 3)
	viper.SetDefault("RETRY_DELAY_MS", 1000)

	viper.SetDefault("ARTIFACTS_DIR", "artifacts")
	viper.SetDefault("SCREENSHOT_ON_FAILURE", true)
}

// Load reads configuration from `.env` and the process environment.
func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Debug("no .env file found, using environment and defaults")
		} else {
			log.Warnf("failed to read .env file: %s", err)
		}
	}

	return &Config{
		AWS: AWSConfig{
			Region:  viper.GetString("AWS_REGION"),
			ModelID: viper.GetString("BEDROCK_MODEL"),
		},
		Credentials: CredentialConfig{
			Username: viper.GetString("TEST_USERNAME"),
			Password: viper.GetString("TEST_PASSWORD"),
		},
		Browser: BrowserConfig{
			AllowedDomains:      SplitDomainList(viper.GetString("ALLOWED_DOMAINS")),
			DefaultTimeoutMs:    viper.GetInt("DEFAULT_TIMEOUT"),
			NavigationTimeoutMs: viper.GetInt("DEFAULT_NAVIGATION_TIMEOUT"),
			AutocompleteWaitMs:  viper.GetInt("AUTOCOMPLETE_WAIT_MS"),
		},
		Retry: RetryConfig{
			MaxRetries:   viper.GetInt("MAX_RETRIES"),
			RetryDelayMs: viper.GetInt("RETRY_DELAY_MS"),
		},
		Artifacts: ArtifactConfig{
			Dir:                 viper.GetString("ARTIFACTS_DIR"),
			ScreenshotOnFailure: viper.GetBool("SCREENSHOT_ON_FAILURE"),
		},
	}
}

// SplitDomainList splits a comma separated domain list, trimming whitespace
// and lowercasing every entry. Empty entries are dropped.
func SplitDomainList(raw string) []string {
	parts := strings.Split(raw, ",")
	domains := make([]string, 0, len(parts))
	for _, part := range parts {
		domain := strings.ToLower(strings.TrimSpace(part))
		if domain != "" {
			domains = append(domains, domain)
		}
	}
	return domains
}
