package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration.
type Config struct {
	Server      ServerConfig
	Logger      LoggerConfig
	DB          DBConfig
	Redis       RedisConfig
	JWT         JWTConfig
	GoogleOAuth GoogleOAuthConfig
	LLM         LLMConfig
	Generation  GenerationConfig
	Cleanup     CleanupConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type JWTConfig struct {
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// LLMConfig configures the upstream chat-completion endpoint.
type LLMConfig struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// GenerationConfig carries the tunables of the question-generation pipeline.
// The two legacy generator implementations disagreed on several of these;
// they are configuration now so there is a single source of truth.
type GenerationConfig struct {
	MinBatchSize      int
	MaxBatchSize      int
	Concurrency       int
	MaxAttempts       int
	BaseBackoff       time.Duration
	MaxFillIterations int
	BaseTokens        int
	TokensPerQuestion int
	MaxTokens         int
}

type CleanupConfig struct {
	Interval   time.Duration
	SessionTTL time.Duration
}

// LoadConfig reads configuration from config.yaml and the environment.
// Environment variables override file values for deployment-sensitive keys.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  time.Duration(viper.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(viper.GetInt("server.write_timeout")) * time.Second,
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		DB: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetInt("db.port"),
			User:     viper.GetString("db.user"),
			Password: viper.GetString("db.password"),
			DBName:   viper.GetString("db.name"),
			SSLMode:  viper.GetString("db.sslmode"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			SecretKey:       viper.GetString("jwt.secret_key"),
			AccessTokenTTL:  viper.GetDuration("jwt.access_token_ttl"),
			RefreshTokenTTL: viper.GetDuration("jwt.refresh_token_ttl"),
		},
		GoogleOAuth: GoogleOAuthConfig{
			ClientID:     viper.GetString("google_oauth.client_id"),
			ClientSecret: viper.GetString("google_oauth.client_secret"),
			RedirectURL:  viper.GetString("google_oauth.redirect_url"),
		},
		LLM: LLMConfig{
			BaseURL: viper.GetString("llm.base_url"),
			Model:   viper.GetString("llm.model"),
			APIKey:  viper.GetString("llm.api_key"),
			Timeout: viper.GetDuration("llm.timeout"),
		},
		Generation: GenerationConfig{
			MinBatchSize:      viper.GetInt("generation.min_batch_size"),
			MaxBatchSize:      viper.GetInt("generation.max_batch_size"),
			Concurrency:       viper.GetInt("generation.concurrency"),
			MaxAttempts:       viper.GetInt("generation.max_attempts"),
			BaseBackoff:       viper.GetDuration("generation.base_backoff"),
			MaxFillIterations: viper.GetInt("generation.max_fill_iterations"),
			BaseTokens:        viper.GetInt("generation.base_tokens"),
			TokensPerQuestion: viper.GetInt("generation.tokens_per_question"),
			MaxTokens:         viper.GetInt("generation.max_tokens"),
		},
		Cleanup: CleanupConfig{
			Interval:   viper.GetDuration("cleanup.interval"),
			SessionTTL: viper.GetDuration("cleanup.session_ttl"),
		},
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("db.sslmode", "disable")
	viper.SetDefault("jwt.access_token_ttl", 15*time.Minute)
	viper.SetDefault("jwt.refresh_token_ttl", 7*24*time.Hour)
	viper.SetDefault("llm.timeout", 60*time.Second)
	viper.SetDefault("generation.min_batch_size", 3)
	viper.SetDefault("generation.max_batch_size", 10)
	viper.SetDefault("generation.concurrency", 3)
	viper.SetDefault("generation.max_attempts", 3)
	viper.SetDefault("generation.base_backoff", 2*time.Second)
	viper.SetDefault("generation.max_fill_iterations", 5)
	viper.SetDefault("generation.base_tokens", 500)
	viper.SetDefault("generation.tokens_per_question", 350)
	viper.SetDefault("generation.max_tokens", 4000)
	viper.SetDefault("cleanup.interval", 1*time.Hour)
	viper.SetDefault("cleanup.session_ttl", 24*time.Hour)
}

func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.DB.Host = host
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.DB.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		cfg.DB.DBName = dbname
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		cfg.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}
	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("LLM_BASE_URL"); baseURL != "" {
		cfg.LLM.BaseURL = baseURL
	}
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		cfg.JWT.SecretKey = secret
	}
}

// GetDSN returns the Postgres connection string for pgx.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
		c.DB.SSLMode,
	)
}
