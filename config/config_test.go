package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, splitList(" http://a, ,http://b "))
	assert.Nil(t, splitList(""))
}

func TestFromViper_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg := fromViper()

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "Davao City", cfg.App.MetroRegionName)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry)
	assert.Equal(t, 10, cfg.RateLimit.SubmitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimit.SubmitWindow)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.RabbitMQ.Enabled)
	assert.Equal(t, "referral.events", cfg.RabbitMQ.QueueName)
}

func TestFromViper_Overrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("JWT_ACCESS_EXPIRY", "30m")
	viper.Set("RABBITMQ_ENABLED", true)
	viper.Set("CORS_ALLOWED_ORIGINS", "https://edcc.example.org")

	cfg := fromViper()

	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessExpiry)
	assert.True(t, cfg.RabbitMQ.Enabled)
	assert.Equal(t, []string{"https://edcc.example.org"}, cfg.CORS.AllowedOrigins)
}
