// README: Config loader; viper defaults, optional config.yaml, environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type LLMConfig struct {
	Provider  string // gemini | ollama | openai | none
	Model     string
	GeminiKey string
	OllamaURL string
	OpenAIKey string
	Timeout   time.Duration
	// MonthlyQuota caps completion calls per subject and month; 0 disables the cap.
	MonthlyQuota int
}

type Config struct {
	Env  string
	HTTP struct {
		Addr            string
		APIKey          string
		RateLimitPerMin int
		RateLimitBurst  int
		ExtractTimeout  time.Duration
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	LLM LLMConfig
	NLP struct {
		Enabled bool
	}
}

// IsProduction reports whether the service runs with production logging.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration. Keys are environment-variable names; a config.yaml
// in "." or "./config" may set the same keys.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("CHATBOOK_HTTP_ADDR", ":8080")
	v.SetDefault("CHATBOOK_API_KEY", "")
	v.SetDefault("CHATBOOK_RATE_LIMIT_PER_MIN", 120)
	v.SetDefault("CHATBOOK_RATE_LIMIT_BURST", 20)
	v.SetDefault("CHATBOOK_REDIS_ADDR", "localhost:6379")
	v.SetDefault("CHATBOOK_REDIS_PASSWORD", "")
	v.SetDefault("CHATBOOK_REDIS_DB", 0)
	v.SetDefault("LLM_PROVIDER", "ollama")
	v.SetDefault("LLM_MODEL", "")
	v.SetDefault("LLM_TIMEOUT", "30s")
	v.SetDefault("LLM_MONTHLY_QUOTA", 100)
	v.SetDefault("OLLAMA_URL", "http://localhost:11434")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("NLP_ENABLED", true)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	cfg.Env = v.GetString("APP_ENV")
	cfg.HTTP.Addr = v.GetString("CHATBOOK_HTTP_ADDR")
	cfg.HTTP.APIKey = v.GetString("CHATBOOK_API_KEY")
	cfg.HTTP.RateLimitPerMin = v.GetInt("CHATBOOK_RATE_LIMIT_PER_MIN")
	cfg.HTTP.RateLimitBurst = v.GetInt("CHATBOOK_RATE_LIMIT_BURST")
	cfg.Redis.Addr = v.GetString("CHATBOOK_REDIS_ADDR")
	cfg.Redis.Password = v.GetString("CHATBOOK_REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("CHATBOOK_REDIS_DB")
	cfg.LLM.Provider = strings.ToLower(v.GetString("LLM_PROVIDER"))
	cfg.LLM.Model = v.GetString("LLM_MODEL")
	cfg.LLM.Timeout = v.GetDuration("LLM_TIMEOUT")
	cfg.LLM.MonthlyQuota = v.GetInt("LLM_MONTHLY_QUOTA")
	cfg.LLM.OllamaURL = v.GetString("OLLAMA_URL")
	cfg.LLM.GeminiKey = v.GetString("GEMINI_API_KEY")
	cfg.LLM.OpenAIKey = v.GetString("OPENAI_API_KEY")
	cfg.NLP.Enabled = v.GetBool("NLP_ENABLED")
	// Extraction waits for the LLM plus a little slack for the rule pass.
	cfg.HTTP.ExtractTimeout = cfg.LLM.Timeout + 5*time.Second

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.LLM.Provider {
	case "gemini":
		if c.LLM.GeminiKey == "" {
			return errors.New("config: GEMINI_API_KEY is required for LLM_PROVIDER=gemini")
		}
	case "openai":
		if c.LLM.OpenAIKey == "" {
			return errors.New("config: OPENAI_API_KEY is required for LLM_PROVIDER=openai")
		}
	case "ollama", "none":
	default:
		return fmt.Errorf("config: unsupported LLM_PROVIDER %q", c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("config: LLM_TIMEOUT must be positive, got %s", c.LLM.Timeout)
	}
	if c.LLM.MonthlyQuota < 0 {
		return fmt.Errorf("config: LLM_MONTHLY_QUOTA must not be negative")
	}
	return nil
}
