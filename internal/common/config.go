package common

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/joseph-ayodele/poster-outreach/constants"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	OCR       OCRConfig       `mapstructure:"ocr"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Store     StoreConfig     `mapstructure:"store"`
	Mail      MailConfig      `mapstructure:"mail"`
	Events    EventsConfig    `mapstructure:"events"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr       string        `mapstructure:"http_addr"`
	GRPCAddr       string        `mapstructure:"grpc_addr"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Tesseract   string `mapstructure:"tesseract"`
	Lang        string `mapstructure:"lang"`
	TessdataDir string `mapstructure:"tessdata_dir"`
	OEM         int    `mapstructure:"oem"`
	PSM         int    `mapstructure:"psm"`
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"` // openai | gemini
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Temperature float32       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// StoreConfig selects and configures the record store backend
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // xlsx | sqlite | postgres | memory
	Name    string `mapstructure:"name"`
	Path    string `mapstructure:"path"` // xlsx workbook path or sqlite file
	DSN     string `mapstructure:"dsn"`  // postgres
}

// MailConfig holds SMTP relay configuration
type MailConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	From     string        `mapstructure:"from"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// EventsConfig holds event bus configuration; empty NATSURL disables publishing
type EventsConfig struct {
	NATSURL       string `mapstructure:"nats_url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

// CacheConfig holds the categorization cache; empty RedisAddr disables it
type CacheConfig struct {
	RedisAddr string        `mapstructure:"redis_addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// TemplatesConfig points at an optional YAML or TOML file of extra templates
type TemplatesConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds log level and handler format
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// legacyEnv maps config keys to the environment names the service has always read.
var legacyEnv = map[string][]string{
	"mail.username": {"EMAIL_ADDRESS"},
	"mail.password": {"EMAIL_PASSWORD"},
	"mail.from":     {"EMAIL_ADDRESS"},
}

// LoadConfig reads defaults, an optional YAML file at path, then POSTER_* environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/poster-outreach")
	}

	v.SetEnvPrefix("POSTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		if err := v.BindEnv(append([]string{key, "POSTER_" + envName(key)}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = providerAPIKey(cfg.LLM.Provider)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_addr", ":6100")
	v.SetDefault("server.grpc_addr", ":6101")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.max_upload_bytes", constants.MaxUploadBytes)

	v.SetDefault("ocr.tesseract", "tesseract")
	v.SetDefault("ocr.lang", "eng")
	v.SetDefault("ocr.oem", 3)
	v.SetDefault("ocr.psm", 6)
	v.SetDefault("ocr.tessdata_dir", "")

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.timeout", "45s")

	v.SetDefault("store.backend", "xlsx")
	v.SetDefault("store.name", "Event Poster Data")
	v.SetDefault("store.path", "./event-poster-data.xlsx")
	v.SetDefault("store.dsn", "")

	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.timeout", "30s")

	// Keys without a default are invisible to AutomaticEnv during Unmarshal.
	v.SetDefault("events.nats_url", "")
	v.SetDefault("events.subject_prefix", "poster")

	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", "24h")

	v.SetDefault("templates.path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

func providerAPIKey(provider string) string {
	switch provider {
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	default:
		return os.Getenv("OPENAI_API_KEY")
	}
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "server.http_addr is required", ErrInvalidInput)
	}
	switch c.LLM.Provider {
	case "openai", "gemini":
	default:
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown llm.provider %q", c.LLM.Provider), ErrInvalidInput)
	}
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "llm.api_key (or OPENAI_API_KEY / GEMINI_API_KEY) is required", ErrInvalidInput)
	}
	switch c.Store.Backend {
	case "xlsx", "sqlite":
		if c.Store.Path == "" {
			return NewAppError("CONFIG_ERROR", "store.path is required for "+c.Store.Backend, ErrInvalidInput)
		}
	case "postgres":
		if c.Store.DSN == "" {
			return NewAppError("CONFIG_ERROR", "store.dsn is required for postgres", ErrInvalidInput)
		}
	case "memory":
	default:
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown store.backend %q", c.Store.Backend), ErrInvalidInput)
	}
	if c.Cache.RedisAddr != "" && c.Cache.TTL <= 0 {
		return NewAppError("CONFIG_ERROR", "cache.ttl must be positive", ErrInvalidInput)
	}
	if c.Mail.Host == "" || c.Mail.Port <= 0 {
		return NewAppError("CONFIG_ERROR", "mail.host and mail.port are required", ErrInvalidInput)
	}
	return nil
}
