package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/jwalitptl/salon-api/pkg/validator"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Email    EmailConfig    `mapstructure:"email"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	TimeoutSeconds int           `mapstructure:"timeoutSeconds"`
	RateLimitRPS   float64       `mapstructure:"rateLimitRps"`
	RateLimitBurst int           `mapstructure:"rateLimitBurst"`
	ShutdownGrace  time.Duration `mapstructure:"shutdownGrace"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

type EmailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	Enabled  bool   `mapstructure:"enabled"`
}

type WorkerConfig struct {
	BatchSize     int           `mapstructure:"batch_size" envconfig:"WORKER_BATCH_SIZE" default:"100"`
	PollInterval  time.Duration `mapstructure:"poll_interval" envconfig:"WORKER_POLL_INTERVAL" default:"5s"`
	RetryAttempts int           `mapstructure:"retry_attempts" envconfig:"WORKER_RETRY_ATTEMPTS" default:"3"`
	RetryDelay    time.Duration `mapstructure:"retry_delay" envconfig:"WORKER_RETRY_DELAY" default:"5s"`
	HealthPort    int           `mapstructure:"health_port" envconfig:"WORKER_HEALTH_PORT" default:"8081"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadWorkerConfig layers WORKER_* environment variables over the file
// config, so the worker deployment can be tuned without editing the
// shared config.yaml.
func LoadWorkerConfig() (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := envconfig.Process("", &cfg.Worker); err != nil {
		return nil, fmt.Errorf("failed to process worker env config: %w", err)
	}
	return cfg, nil
}
