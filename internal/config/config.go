package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Databases   map[string]DatabaseConfig `json:"databases"`
	Redis       RedisConfig               `json:"redis"`
	Chatbot     ChatbotConfig             `json:"chatbot"`
	Providers   map[string]ProviderConfig `json:"providers"`
}

type BasicConfig struct {
	ServerAddress  string   `json:"server_address"`
	Database       string   `json:"database"`
	LogLevel       string   `json:"log_level"`
	LogPretty      bool     `json:"log_pretty"`
	AllowedOrigins []string `json:"allowed_origins"`
	RateLimit      float64  `json:"rate_limit"`
	RateBurst      int      `json:"rate_burst"`
	TokenTTLHours  int      `json:"token_ttl_hours"`
}

// DatabaseConfig holds either a full DSN or the parts needed to build one.
type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Username string `json:"username"`
	Password string `json:"password"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	DBName   string `json:"db_name"`
	Params   string `json:"params"`
}

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// ChatbotConfig drives the assistant pipeline. Provider selects the single
// text generator used for replies; empty or "none" keeps replies on templates.
type ChatbotConfig struct {
	Provider            string `json:"provider"`
	TimeoutSeconds      int    `json:"timeout_seconds"`
	RecommendationLimit int    `json:"recommendation_limit"`
	WebFallback         *bool  `json:"web_fallback"`
	HistoryWindow       int    `json:"history_window"`
}

type ProviderConfig struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	APIKey  string `json:"api_key"`
}

const (
	ProviderNone        = "none"
	ProviderOpenAI      = "openai"
	ProviderClaude      = "claude"
	ProviderGemini      = "gemini"
	ProviderHuggingFace = "huggingface"
)

const (
	defaultAddress             = ":8090"
	defaultDriver              = "sqlite3"
	defaultSQLitePath          = "traveltodo.db"
	defaultTimeoutSeconds      = 10
	defaultRecommendationLimit = 3
	defaultHistoryWindow       = 5
	defaultRateLimit           = 5
	defaultRateBurst           = 10
	defaultTokenTTLHours       = 24
)

// Default returns a configuration usable without any config file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the provided path (defaults to config.json),
// after loading a .env file if present, then applies environment overrides.
// A missing default config file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	explicit := path != ""
	if path == "" {
		path = os.Getenv("TRAVELTODO_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	cfg := &Config{}
	base := ""
	file, err := os.Open(absPath)
	switch {
	case err == nil:
		defer file.Close()
		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
		base = filepath.Dir(absPath)
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}

	cfg.applyDefaults()
	if base != "" {
		cfg.resolveSQLitePaths(base)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolveSQLitePaths(base string) {
	for _, key := range []string{"sqlite", "sqlite3"} {
		db, ok := c.Databases[key]
		if !ok || db.DSN == "" || db.DSN == ":memory:" || strings.HasPrefix(db.DSN, "file:") {
			continue
		}
		if !filepath.IsAbs(db.DSN) {
			db.DSN = filepath.Join(base, db.DSN)
			c.Databases[key] = db
		}
	}
}

func (c *Config) applyDefaults() {
	if c.BasicConfig.ServerAddress == "" {
		c.BasicConfig.ServerAddress = defaultAddress
	}
	if c.BasicConfig.Database == "" {
		c.BasicConfig.Database = defaultDriver
	}
	if c.BasicConfig.LogLevel == "" {
		c.BasicConfig.LogLevel = "info"
	}
	if len(c.BasicConfig.AllowedOrigins) == 0 {
		c.BasicConfig.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	if c.BasicConfig.RateLimit == 0 {
		c.BasicConfig.RateLimit = defaultRateLimit
	}
	if c.BasicConfig.RateBurst == 0 {
		c.BasicConfig.RateBurst = defaultRateBurst
	}
	if c.BasicConfig.TokenTTLHours == 0 {
		c.BasicConfig.TokenTTLHours = defaultTokenTTLHours
	}
	if c.Databases == nil {
		c.Databases = make(map[string]DatabaseConfig)
	}
	if _, ok := c.Databases[defaultDriver]; !ok {
		c.Databases[defaultDriver] = DatabaseConfig{DSN: defaultSQLitePath}
	}
	if c.Providers == nil {
		c.Providers = make(map[string]ProviderConfig)
	}
	if c.Chatbot.TimeoutSeconds == 0 {
		c.Chatbot.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.Chatbot.RecommendationLimit == 0 {
		c.Chatbot.RecommendationLimit = defaultRecommendationLimit
	}
	if c.Chatbot.HistoryWindow == 0 {
		c.Chatbot.HistoryWindow = defaultHistoryWindow
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TRAVELTODO_ADDR"); v != "" {
		c.BasicConfig.ServerAddress = v
	}
	if v := os.Getenv("TRAVELTODO_DB"); v != "" {
		c.BasicConfig.Database = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		pg := c.Databases["postgres"]
		pg.DSN = v
		c.Databases["postgres"] = pg
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.BasicConfig.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("TRAVELTODO_LLM_PROVIDER"); v != "" {
		c.Chatbot.Provider = strings.ToLower(v)
	}

	providerKeys := map[string]string{
		ProviderOpenAI:      "OPENAI_API_KEY",
		ProviderClaude:      "ANTHROPIC_API_KEY",
		ProviderGemini:      "GEMINI_API_KEY",
		ProviderHuggingFace: "HUGGINGFACE_API_KEY",
	}
	for provider, env := range providerKeys {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		pc := c.Providers[provider]
		if pc.APIKey == "" {
			pc.APIKey = v
			c.Providers[provider] = pc
		}
	}
	if v := os.Getenv("TRAVELTODO_LLM_API_KEY"); v != "" && c.Chatbot.Provider != "" && c.Chatbot.Provider != ProviderNone {
		pc := c.Providers[c.Chatbot.Provider]
		pc.APIKey = v
		c.Providers[c.Chatbot.Provider] = pc
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, portStr, err := net.SplitHostPort(v)
		if err != nil {
			return fmt.Errorf("parse REDIS_ADDR: %w", err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("parse REDIS_ADDR port: %w", err)
		}
		c.Redis.Enabled = true
		c.Redis.Host = host
		c.Redis.Port = port
	}
	return nil
}

// Validate reports configuration values the service cannot start with.
func (c *Config) Validate() error {
	driver := NormalizeDriver(c.BasicConfig.Database)
	switch driver {
	case "sqlite3", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.BasicConfig.Database)
	}
	if _, ok := c.DatabaseFor(driver); !ok {
		return fmt.Errorf("database config for %s not found", c.BasicConfig.Database)
	}
	switch c.Chatbot.Provider {
	case "", ProviderNone, ProviderOpenAI, ProviderClaude, ProviderGemini, ProviderHuggingFace:
	default:
		return fmt.Errorf("unknown chatbot provider: %s", c.Chatbot.Provider)
	}
	if c.Chatbot.RecommendationLimit < 0 {
		return errors.New("recommendation_limit must not be negative")
	}
	if c.Chatbot.HistoryWindow < 0 {
		return errors.New("history_window must not be negative")
	}
	if c.Chatbot.TimeoutSeconds < 0 {
		return errors.New("timeout_seconds must not be negative")
	}
	if c.BasicConfig.RateLimit < 0 || c.BasicConfig.RateBurst < 0 {
		return errors.New("rate limit must not be negative")
	}
	return nil
}

// DatabaseFor looks up the database section for a driver, accepting the
// common aliases used in config files.
func (c *Config) DatabaseFor(driver string) (DatabaseConfig, bool) {
	normalized := NormalizeDriver(driver)
	for key, db := range c.Databases {
		if NormalizeDriver(key) == normalized {
			return db, true
		}
	}
	return DatabaseConfig{}, false
}

// NormalizeDriver maps driver aliases to the database/sql driver name.
func NormalizeDriver(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3":
		return "sqlite3"
	case "mysql":
		return "mysql"
	case "postgres", "postgresql", "pg":
		return "postgres"
	default:
		return strings.ToLower(driver)
	}
}

// Timeout is the per-call deadline for the reply generator.
func (c ChatbotConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// WebFallbackEnabled reports whether recommendation shortfalls get padded.
func (c ChatbotConfig) WebFallbackEnabled() bool {
	return c.WebFallback == nil || *c.WebFallback
}

// TokenTTL returns the auth token lifetime.
func (c BasicConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}
