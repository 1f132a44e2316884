package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Insight  InsightConfig  `mapstructure:"insight"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Database DatabaseConfig `mapstructure:"database"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Qdrant   QdrantConfig   `mapstructure:"qdrant"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Publish  PublishConfig  `mapstructure:"publish"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

// InsightConfig gates the remote paths of the insight pipeline.
type InsightConfig struct {
	DefaultLanguage    string   `mapstructure:"default_language"`
	SupportedLanguages []string `mapstructure:"supported_languages"`
	RemoteGeneration   bool     `mapstructure:"remote_generation"`
	RemoteTranslation  bool     `mapstructure:"remote_translation"`
}

type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Backend string `mapstructure:"backend"` // memory, database
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite, postgres
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN builds the driver-specific connection string.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	}
	return c.Path
}

type ArchiveConfig struct {
	Enabled   bool            `mapstructure:"enabled"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
}

type EmbeddingConfig struct {
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Dimensions int    `mapstructure:"dimensions"`
}

type QdrantConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Collection string `mapstructure:"collection"`
	APIKey     string `mapstructure:"api_key"`
	UseTLS     bool   `mapstructure:"use_tls"`
}

type StorageConfig struct {
	Type      string `mapstructure:"type"` // s3, r2, s3compatible
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

type PublishConfig struct {
	Prefix    string `mapstructure:"prefix"`
	Addressee string `mapstructure:"addressee"`
	Workers   int    `mapstructure:"workers"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Legacy variable names used by existing deployments
	v.BindEnv("server.port", "PORT")
	v.BindEnv("insight.default_language", "DEFAULT_LANGUAGE")
	v.BindEnv("cache.enabled", "ENABLE_CACHING")
	v.BindEnv("cache.backend", "CACHE_BACKEND")
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.format", "LOG_FORMAT")
	v.BindEnv("llm.provider", "LLM_PROVIDER")
	v.BindEnv("llm.model", "LLM_MODEL")
	v.BindEnv("llm.api_key", "LLM_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY")
	v.BindEnv("llm.base_url", "OPENAI_BASE_URL")
	v.BindEnv("llm.temperature", "LLM_TEMPERATURE")
	v.BindEnv("archive.embedding.api_key", "EMBEDDING_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("qdrant.host", "QDRANT_HOST")
	v.BindEnv("qdrant.port", "QDRANT_PORT")
	v.BindEnv("qdrant.api_key", "QDRANT_API_KEY")
	v.BindEnv("storage.endpoint", "S3_ENDPOINT")
	v.BindEnv("storage.access_key", "S3_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "S3_SECRET_KEY")
	v.BindEnv("storage.bucket", "S3_BUCKET")
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.path", "DATABASE_PATH")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = inferProvider()
	}

	cfg.Insight.DefaultLanguage = strings.ToLower(strings.TrimSpace(cfg.Insight.DefaultLanguage))
	for i, lang := range cfg.Insight.SupportedLanguages {
		cfg.Insight.SupportedLanguages[i] = strings.ToLower(strings.TrimSpace(lang))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("insight.default_language", "en")
	v.SetDefault("insight.supported_languages", []string{"en", "hi"})
	v.SetDefault("insight.remote_generation", true)
	v.SetDefault("insight.remote_translation", true)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/insights.db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.embedding.model", "text-embedding-3-small")
	v.SetDefault("archive.embedding.base_url", "https://api.openai.com/v1")
	v.SetDefault("archive.embedding.dimensions", 1536)
	v.SetDefault("qdrant.port", 6334)
	v.SetDefault("qdrant.collection", "insights")
	v.SetDefault("storage.type", "")
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.bucket", "almanac")
	v.SetDefault("publish.prefix", "almanac")
	v.SetDefault("publish.addressee", "Stargazer")
	v.SetDefault("publish.workers", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// inferProvider picks gemini when GEMINI_API_KEY is the only language model
// credential in the environment, openai otherwise.
func inferProvider() string {
	if os.Getenv("GEMINI_API_KEY") != "" && os.Getenv("OPENAI_API_KEY") == "" && os.Getenv("LLM_API_KEY") == "" {
		return "gemini"
	}
	return "openai"
}

// Validate checks cross-field constraints that defaults cannot express.
func (c *Config) Validate() error {
	if len(c.Insight.SupportedLanguages) == 0 {
		return fmt.Errorf("insight.supported_languages must not be empty")
	}
	supported := false
	for _, lang := range c.Insight.SupportedLanguages {
		if lang == c.Insight.DefaultLanguage {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("insight.default_language %q is not in supported_languages %v",
			c.Insight.DefaultLanguage, c.Insight.SupportedLanguages)
	}

	switch c.Cache.Backend {
	case "memory", "database":
	default:
		return fmt.Errorf("cache.backend: unknown backend %q (valid: memory, database)", c.Cache.Backend)
	}

	return c.LLM.Validate()
}

// ArchiveEnabled reports whether the vector archive should be wired.
func (c *Config) ArchiveEnabled() bool {
	return c.Archive.Enabled && c.Qdrant.Host != ""
}
