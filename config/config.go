package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RabbitMQ  RabbitMQConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Port            string
	Env             string
	MetroRegionName string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// RabbitMQConfig controls publishing of referral status events.
// Publishing is skipped entirely when Enabled is false.
type RabbitMQConfig struct {
	Enabled   bool
	Host      string
	Port      string
	Username  string
	Password  string
	QueueName string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig limits anonymous referral submissions per client IP.
type RateLimitConfig struct {
	SubmitRequests int
	SubmitWindow   time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	return fromViper(), nil
}

func fromViper() *Config {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("METRO_REGION_NAME", "Davao City")
	viper.SetDefault("RABBITMQ_QUEUE", "referral.events")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("RATE_LIMIT_SUBMIT_REQUESTS", 10)

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	submitWindow, err := time.ParseDuration(viper.GetString("RATE_LIMIT_SUBMIT_WINDOW"))
	if err != nil {
		submitWindow = time.Minute
	}

	return &Config{
		App: AppConfig{
			Port:            viper.GetString("APP_PORT"),
			Env:             viper.GetString("APP_ENV"),
			MetroRegionName: viper.GetString("METRO_REGION_NAME"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		RabbitMQ: RabbitMQConfig{
			Enabled:   viper.GetBool("RABBITMQ_ENABLED"),
			Host:      viper.GetString("RABBITMQ_HOST"),
			Port:      viper.GetString("RABBITMQ_PORT"),
			Username:  viper.GetString("RABBITMQ_USERNAME"),
			Password:  viper.GetString("RABBITMQ_PASSWORD"),
			QueueName: viper.GetString("RABBITMQ_QUEUE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		RateLimit: RateLimitConfig{
			SubmitRequests: viper.GetInt("RATE_LIMIT_SUBMIT_REQUESTS"),
			SubmitWindow:   submitWindow,
		},
	}
}

// splitList parses a comma separated env value, dropping empty items.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
