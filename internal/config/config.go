package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"DocStructurer/internal/domain"
)

const (
	configPathEnv  = "DOCSTRUCTURER_CONFIG"
	dotEnvPathEnv  = "DOCSTRUCTURER_DOTENV"
	environmentEnv = "ENVIRONMENT"
	renderEnv      = "RENDER"

	openAIKeyEnv   = "OPENAI_API_KEY"
	openAIModelEnv = "OPENAI_MODEL"
	geminiKeyEnv   = "GEMINI_API_KEY"
	braveKeyEnv    = "BRAVE_API_KEY"

	apiTimeoutEnv             = "API_TIMEOUT"
	maxRetriesEnv             = "MAX_RETRIES"
	maxTokensConciseEnv       = "MAX_TOKENS_CONCISE"
	maxTokensDetailedEnv      = "MAX_TOKENS_DETAILED"
	maxTokensComprehensiveEnv = "MAX_TOKENS_COMPREHENSIVE"

	httpAddrEnv  = "HTTP_ADDR"
	logLevelEnv  = "LOG_LEVEL"
	logFormatEnv = "LOG_FORMAT"
)

// Environment profiles.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

// DefaultUserAgent mimics a desktop browser so article hosts serve full pages.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// ErrMissingOpenAIKey is returned by Validate when the primary provider has no credential.
var ErrMissingOpenAIKey = errors.New("OPENAI_API_KEY is required")

// Config holds every setting the service needs; it is built once at startup.
type Config struct {
	Environment string           `yaml:"-"`
	Server      ServerConfig     `yaml:"server"`
	Logging     LoggingConfig    `yaml:"logging"`
	OpenAI      OpenAIConfig     `yaml:"openai"`
	Gemini      GeminiConfig     `yaml:"gemini"`
	Search      SearchConfig     `yaml:"search"`
	Rates       RatesConfig      `yaml:"rates"`
	Fetcher     FetcherConfig    `yaml:"fetcher"`
	Completion  CompletionConfig `yaml:"completion"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	StaticDir       string        `yaml:"staticDir"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// LoggingConfig selects slog level and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// OpenAIConfig configures the primary provider.
type OpenAIConfig struct {
	BaseURL string `yaml:"baseUrl"`
	APIKey  string `yaml:"apiKey"`
	Model   string `yaml:"model"`
}

// GeminiConfig configures the optional secondary provider.
type GeminiConfig struct {
	BaseURL string `yaml:"baseUrl"`
	APIKey  string `yaml:"apiKey"`
}

// SearchConfig configures the Brave web search client.
type SearchConfig struct {
	Endpoint string        `yaml:"endpoint"`
	APIKey   string        `yaml:"apiKey"`
	Timeout  time.Duration `yaml:"timeout"`
}

// RatesConfig configures the exchange-rate lookup.
type RatesConfig struct {
	Endpoint string             `yaml:"endpoint"`
	Timeout  time.Duration      `yaml:"timeout"`
	Fallback map[string]float64 `yaml:"fallback"`
}

// FetcherConfig configures article downloads.
type FetcherConfig struct {
	UserAgent string        `yaml:"userAgent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// CompletionConfig tunes the main completion call and the helper calls.
type CompletionConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	HelperTimeout time.Duration `yaml:"helperTimeout"`
	MaxRetries    int           `yaml:"maxRetries"`
	RetryDelay    time.Duration `yaml:"retryDelay"`
	MaxTokens     TokenLimits   `yaml:"maxTokens"`
}

// TokenLimits is the verbosity to max-output-tokens table.
type TokenLimits struct {
	Concise       int `yaml:"concise"`
	Detailed      int `yaml:"detailed"`
	Comprehensive int `yaml:"comprehensive"`
}

// For returns the ceiling for a verbosity tier.
func (t TokenLimits) For(v domain.Verbosity) int {
	switch v {
	case domain.VerbosityConcise:
		return t.Concise
	case domain.VerbosityComprehensive:
		return t.Comprehensive
	default:
		return t.Detailed
	}
}

// Load reads .env, the YAML file (if present) and applies environment overrides.
func Load() Config {
	loadDotEnv()

	cfg := defaultConfig(resolveEnvironment())

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

// Validate reports configuration the service cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		return ErrMissingOpenAIKey
	}
	return nil
}

func loadDotEnv() {
	path := os.Getenv(dotEnvPathEnv)
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("config: cannot load %s: %v", path, err)
	}
}

func resolveEnvironment() string {
	env := strings.ToLower(strings.TrimSpace(os.Getenv(environmentEnv)))
	switch env {
	case EnvDevelopment, EnvProduction, EnvTesting:
		return env
	case "":
		if os.Getenv(renderEnv) != "" {
			return EnvProduction
		}
		return EnvDevelopment
	default:
		log.Printf("config: unknown environment %s, reverting to %s", env, EnvDevelopment)
		return EnvDevelopment
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}
	if v := os.Getenv(geminiKeyEnv); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv(braveKeyEnv); v != "" {
		c.Search.APIKey = v
	}

	if v, ok := envInt(apiTimeoutEnv); ok && v > 0 {
		c.Completion.Timeout = time.Duration(v) * time.Second
	}
	if v, ok := envInt(maxRetriesEnv); ok && v > 0 {
		c.Completion.MaxRetries = v
	}
	if v, ok := envInt(maxTokensConciseEnv); ok && v > 0 {
		c.Completion.MaxTokens.Concise = v
	}
	if v, ok := envInt(maxTokensDetailedEnv); ok && v > 0 {
		c.Completion.MaxTokens.Detailed = v
	}
	if v, ok := envInt(maxTokensComprehensiveEnv); ok && v > 0 {
		c.Completion.MaxTokens.Comprehensive = v
	}

	if v := os.Getenv(httpAddrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(logFormatEnv); v != "" {
		c.Logging.Format = v
	}
}

func envInt(key string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config: ignoring %s=%q: %v", key, raw, err)
		return 0, false
	}
	return v, true
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Server.StaticDir != "" {
		base.Server.StaticDir = override.Server.StaticDir
	}
	if override.Server.ShutdownTimeout > 0 {
		base.Server.ShutdownTimeout = override.Server.ShutdownTimeout
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.OpenAI.BaseURL != "" {
		base.OpenAI.BaseURL = override.OpenAI.BaseURL
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}

	if override.Gemini.BaseURL != "" {
		base.Gemini.BaseURL = override.Gemini.BaseURL
	}
	if override.Gemini.APIKey != "" {
		base.Gemini.APIKey = override.Gemini.APIKey
	}

	if override.Search.Endpoint != "" {
		base.Search.Endpoint = override.Search.Endpoint
	}
	if override.Search.APIKey != "" {
		base.Search.APIKey = override.Search.APIKey
	}
	if override.Search.Timeout > 0 {
		base.Search.Timeout = override.Search.Timeout
	}

	if override.Rates.Endpoint != "" {
		base.Rates.Endpoint = override.Rates.Endpoint
	}
	if override.Rates.Timeout > 0 {
		base.Rates.Timeout = override.Rates.Timeout
	}
	if len(override.Rates.Fallback) > 0 {
		base.Rates.Fallback = override.Rates.Fallback
	}

	if override.Fetcher.UserAgent != "" {
		base.Fetcher.UserAgent = override.Fetcher.UserAgent
	}
	if override.Fetcher.Timeout > 0 {
		base.Fetcher.Timeout = override.Fetcher.Timeout
	}

	if override.Completion.Timeout > 0 {
		base.Completion.Timeout = override.Completion.Timeout
	}
	if override.Completion.HelperTimeout > 0 {
		base.Completion.HelperTimeout = override.Completion.HelperTimeout
	}
	if override.Completion.MaxRetries > 0 {
		base.Completion.MaxRetries = override.Completion.MaxRetries
	}
	if override.Completion.RetryDelay > 0 {
		base.Completion.RetryDelay = override.Completion.RetryDelay
	}
	if override.Completion.MaxTokens.Concise > 0 {
		base.Completion.MaxTokens.Concise = override.Completion.MaxTokens.Concise
	}
	if override.Completion.MaxTokens.Detailed > 0 {
		base.Completion.MaxTokens.Detailed = override.Completion.MaxTokens.Detailed
	}
	if override.Completion.MaxTokens.Comprehensive > 0 {
		base.Completion.MaxTokens.Comprehensive = override.Completion.MaxTokens.Comprehensive
	}

	return base
}

func defaultConfig(env string) Config {
	cfg := Config{
		Environment: env,
		Server: ServerConfig{
			Addr:            ":5000",
			StaticDir:       "web",
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		OpenAI: OpenAIConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
		},
		Gemini: GeminiConfig{},
		Search: SearchConfig{
			Endpoint: "https://api.search.brave.com/res/v1/web/search",
			Timeout:  5 * time.Second,
		},
		Rates: RatesConfig{
			Endpoint: "https://open.er-api.com/v6/latest/USD",
			Timeout:  3 * time.Second,
			Fallback: domain.FallbackRates(),
		},
		Fetcher: FetcherConfig{
			UserAgent: DefaultUserAgent,
			Timeout:   10 * time.Second,
		},
		Completion: CompletionConfig{
			HelperTimeout: 10 * time.Second,
			RetryDelay:    2 * time.Second,
		},
	}

	switch env {
	case EnvProduction:
		cfg.Completion.Timeout = 20 * time.Second
		cfg.Completion.MaxRetries = 1
		cfg.Completion.MaxTokens = TokenLimits{Concise: 1000, Detailed: 1500, Comprehensive: 2000}
	case EnvTesting:
		cfg.Completion.Timeout = 10 * time.Second
		cfg.Completion.MaxRetries = 1
		cfg.Completion.MaxTokens = TokenLimits{Concise: 500, Detailed: 1000, Comprehensive: 1500}
	default:
		cfg.Logging.Level = "debug"
		cfg.Completion.Timeout = 60 * time.Second
		cfg.Completion.MaxRetries = 3
		cfg.Completion.MaxTokens = TokenLimits{Concise: 2000, Detailed: 3500, Comprehensive: 4500}
	}

	return cfg
}
