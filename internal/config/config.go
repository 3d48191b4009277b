package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kbjinsurance/advisor/backend/internal/model/site"
)

// Provider names the external chat-completion backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderArk    Provider = "ark"
	ProviderGemini Provider = "gemini"
)

const (
	defaultOpenAIModel  = "gpt-4o-mini"
	defaultGeminiModel  = "gemini-2.5-flash"
	defaultTemperature  = 0.2
	defaultModelTimeout = 10 * time.Second
)

// Config aggregates every setting of the service.
type Config struct {
	Server  ServerConfig
	Site    SiteConfig
	AI      AIConfig
	Log     LogConfig
	Metrics MetricsConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	metricsEnabled, err := parseBoolEnv("METRICS_ENABLED", true)
	if err != nil {
		return nil, err
	}

	logCfg := LogConfig{
		Level:  strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		Format: strings.ToLower(getEnvOrDefault("LOG_FORMAT", "json")),
	}
	if logCfg.Format != "json" && logCfg.Format != "console" {
		return nil, fmt.Errorf("invalid LOG_FORMAT value %q: want json or console", logCfg.Format)
	}

	return &Config{
		Server: server,
		Site: SiteConfig{
			BaseURL: getEnvOrDefault("SITE_BASE_URL", site.DefaultBaseURL),
			FAQFile: strings.TrimSpace(os.Getenv("FAQ_FILE")),
		},
		AI:      ai,
		Log:     logCfg,
		Metrics: MetricsConfig{Enabled: metricsEnabled},
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	origins := splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"))

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port, AllowedOrigins: origins}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, AllowedOrigins: origins}, nil
}

// SiteConfig points generated links at the public site.
type SiteConfig struct {
	BaseURL string
	// FAQFile replaces the embedded FAQ bank when set.
	FAQFile string
}

// Routes returns the site routes derived from BaseURL.
func (c SiteConfig) Routes() site.Routes {
	return site.NewRoutes(c.BaseURL)
}

// LogConfig selects the zap logger flavour.
type LogConfig struct {
	Level  string
	Format string
}

// NewLogger builds the process logger.
func (c LogConfig) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL value %q: %w", c.Level, err)
	}

	zapCfg := zap.NewProductionConfig()
	if c.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// MetricsConfig toggles the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// AIConfig describes the external model collaborator.
type AIConfig struct {
	Provider    Provider
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   *int
	Timeout     time.Duration
	Ark         ArkConfig
}

// ArkConfig holds the Volcengine Ark credentials used by the eino chain.
type ArkConfig struct {
	APIKey    string
	AccessKey string
	SecretKey string
	Model     string
	BaseURL   string
	Region    string
}

// Enabled reports whether the selected provider has what it needs to be called.
func (c AIConfig) Enabled() bool {
	switch c.Provider {
	case ProviderOpenAI:
		return c.BaseURL != "" && c.APIKey != ""
	case ProviderGemini:
		return c.APIKey != ""
	case ProviderArk:
		return c.Ark.Model != "" && (c.Ark.APIKey != "" || (c.Ark.AccessKey != "" && c.Ark.SecretKey != ""))
	default:
		return false
	}
}

// NewChatModel builds the Ark chat model used by the eino chain.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if c.Provider != ProviderArk || !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: need ARK_API_KEY + ARK_MODEL or an AK/SK pair")
	}

	temperature := float32(c.Temperature)

	var maxTokens *int
	if c.MaxTokens != nil {
		val := *c.MaxTokens
		maxTokens = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.Ark.BaseURL,
		Region:      c.Ark.Region,
		APIKey:      c.Ark.APIKey,
		AccessKey:   c.Ark.AccessKey,
		SecretKey:   c.Ark.SecretKey,
		Model:       c.Ark.Model,
		MaxTokens:   maxTokens,
		Temperature: &temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	provider := Provider(strings.ToLower(getEnvOrDefault("LLM_PROVIDER", string(ProviderOpenAI))))
	switch provider {
	case ProviderOpenAI, ProviderArk, ProviderGemini:
	default:
		return AIConfig{}, fmt.Errorf("invalid LLM_PROVIDER value %q: want openai, ark or gemini", provider)
	}

	temperature, err := parseOptionalFloatEnv("LLM_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}
	temp := defaultTemperature
	if temperature != nil {
		temp = *temperature
	}

	maxTokens, err := parseOptionalIntEnv("LLM_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	timeout, err := parseDurationEnv("LLM_TIMEOUT", defaultModelTimeout)
	if err != nil {
		return AIConfig{}, err
	}

	defaultModel := defaultOpenAIModel
	if provider == ProviderGemini {
		defaultModel = defaultGeminiModel
	}

	return AIConfig{
		Provider:    provider,
		BaseURL:     strings.TrimRight(strings.TrimSpace(os.Getenv("LLM_API_BASE")), "/"),
		APIKey:      strings.TrimSpace(os.Getenv("LLM_API_KEY")),
		Model:       getEnvOrDefault("LLM_MODEL", defaultModel),
		Temperature: temp,
		MaxTokens:   maxTokens,
		Timeout:     timeout,
		Ark: ArkConfig{
			APIKey:    strings.TrimSpace(os.Getenv("ARK_API_KEY")),
			AccessKey: strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
			SecretKey: strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
			Model:     strings.TrimSpace(os.Getenv("ARK_MODEL")),
			BaseURL:   getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
			Region:    getEnvOrDefault("ARK_REGION", "cn-beijing"),
		},
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

// parseDurationEnv accepts Go durations ("1500ms") or whole seconds ("10").
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	if seconds, err := strconv.Atoi(raw); err == nil {
		if seconds <= 0 {
			return 0, fmt.Errorf("invalid %s value %q: must be positive", key, raw)
		}
		return time.Duration(seconds) * time.Second, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if val <= 0 {
		return 0, fmt.Errorf("invalid %s value %q: must be positive", key, raw)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
