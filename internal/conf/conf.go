package conf

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Default fetch endpoints
var (
	DefaultNitterInstances = []string{
		"https://nitter.privacydev.net",
		"https://nitter.poast.org",
		"https://nitter.moomoo.me",
	}
	DefaultRSSHubBaseURL       = "https://rsshub.app"
	DefaultTruthSocialBaseURL  = "https://truthsocial.com"
	DefaultTwitterAPIIOBaseURL = "https://api.twitterapi.io"
	DefaultXAPIBaseURL         = "https://api.x.com"
)

// Config represents application configuration
type Config struct {
	// Discord bot configuration
	Discord DiscordConfig

	// HTTP API configuration
	HTTP HTTPConfig

	// Storage configuration
	Store StoreConfig

	// AI provider credentials
	AI AIConfig

	// Social fetch configuration
	Fetch FetchConfig

	// Log viewer configuration
	Log LogConfig

	// Summary scheduling configuration
	Summary SummaryConfig

	// Prompts configuration (loaded from YAML)
	Prompts *PromptsConfig

	// Debug mode
	Debug bool
}

// DiscordConfig contains Discord configuration
type DiscordConfig struct {
	Token string
}

// HTTPConfig contains HTTP server configuration
type HTTPConfig struct {
	Addr string
}

// StoreConfig contains database configuration
type StoreConfig struct {
	DBPath string
}

// AIConfig contains AI provider credentials
type AIConfig struct {
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	MoonshotAPIKey string
}

// FetchConfig contains social fetch configuration
type FetchConfig struct {
	Timeout             time.Duration
	MaxRetries          int
	XBearerToken        string // Fallback when settings carry no token
	TwitterAPIIOKey     string // Fallback when settings carry no key
	TwitterAPIIOBaseURL string
	XAPIBaseURL         string
	NitterInstances     []string
	RSSHubBaseURL       string
	TruthSocialBaseURL  string
}

// LogConfig contains logging configuration
type LogConfig struct {
	Capacity int
	Level    string
}

// SummaryConfig contains summary scheduling configuration
type SummaryConfig struct {
	Timezone string
}

// MCPConfig contains configuration for the MCP tool server
type MCPConfig struct {
	APIURL string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Database path
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		homeDir, _ := os.UserHomeDir()
		dbPath = filepath.Join(homeDir, ".digestbot", "digestbot.db")
	}

	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		httpAddr = ":5000"
	}

	// Per-request fetch timeout
	fetchTimeout := 15
	if val := os.Getenv("FETCH_TIMEOUT_SECONDS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			fetchTimeout = parsed
		}
	}

	fetchRetries := 2
	if val := os.Getenv("FETCH_MAX_RETRIES"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			fetchRetries = parsed
		}
	}

	logCapacity := 500
	if val := os.Getenv("LOG_CAPACITY"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			logCapacity = parsed
		}
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	nitter := DefaultNitterInstances
	if val := os.Getenv("NITTER_INSTANCES"); val != "" {
		nitter = splitList(val)
	}

	timezone := os.Getenv("SUMMARY_TIMEZONE")
	if timezone == "" {
		timezone = "Local"
	}

	// Load prompts from YAML
	promptsConfig, _ := LoadPromptsConfig(os.Getenv("PROMPTS_CONFIG_PATH"))

	return &Config{
		Discord: DiscordConfig{
			Token: os.Getenv("DISCORD_TOKEN"),
		},
		HTTP: HTTPConfig{
			Addr: httpAddr,
		},
		Store: StoreConfig{
			DBPath: dbPath,
		},
		AI: AIConfig{
			OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
			OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),
			MoonshotAPIKey: os.Getenv("MOONSHOT_API_KEY"),
		},
		Fetch: FetchConfig{
			Timeout:             time.Duration(fetchTimeout) * time.Second,
			MaxRetries:          fetchRetries,
			XBearerToken:        os.Getenv("X_BEARER_TOKEN"),
			TwitterAPIIOKey:     os.Getenv("TWITTERAPI_IO_KEY"),
			TwitterAPIIOBaseURL: envOr("TWITTERAPI_IO_BASE_URL", DefaultTwitterAPIIOBaseURL),
			XAPIBaseURL:         envOr("X_API_BASE_URL", DefaultXAPIBaseURL),
			NitterInstances:     nitter,
			RSSHubBaseURL:       envOr("RSSHUB_BASE_URL", DefaultRSSHubBaseURL),
			TruthSocialBaseURL:  envOr("TRUTHSOCIAL_BASE_URL", DefaultTruthSocialBaseURL),
		},
		Log: LogConfig{
			Capacity: logCapacity,
			Level:    logLevel,
		},
		Summary: SummaryConfig{
			Timezone: timezone,
		},
		Prompts: promptsConfig,
		Debug:   os.Getenv("DEBUG") == "true",
	}
}

// LoadMCPFromEnv loads the MCP server configuration
func LoadMCPFromEnv() *MCPConfig {
	return &MCPConfig{
		APIURL: envOr("DIGESTBOT_API_URL", "http://127.0.0.1:5000"),
	}
}

// Location resolves the summary timezone
func (c *SummaryConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// LogLevel returns the logrus level, forced to debug in debug mode
func (c *Config) LogLevel() logrus.Level {
	if c.Debug {
		return logrus.DebugLevel
	}
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Discord.Token == "" {
		return &ConfigError{Field: "DISCORD_TOKEN", Message: "required"}
	}
	if _, err := c.Summary.Location(); err != nil {
		return &ConfigError{Field: "SUMMARY_TIMEZONE", Message: err.Error()}
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return &ConfigError{Field: "LOG_LEVEL", Message: err.Error()}
	}
	if c.Fetch.Timeout <= 0 {
		return &ConfigError{Field: "FETCH_TIMEOUT_SECONDS", Message: "must be positive"}
	}
	if c.Fetch.MaxRetries < 0 {
		return &ConfigError{Field: "FETCH_MAX_RETRIES", Message: "must not be negative"}
	}
	if c.Log.Capacity <= 0 {
		return &ConfigError{Field: "LOG_CAPACITY", Message: "must be positive"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(val string) []string {
	var result []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, strings.TrimRight(part, "/"))
		}
	}
	return result
}
