package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "release", cfg.App.Mode)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.False(t, cfg.MQTT.Enabled)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
	assert.Equal(t, 1, cfg.MQTT.QoS)
	assert.Equal(t, "demo-token", cfg.FHIR.BearerToken)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("MQTT_ENABLED", "true")
	t.Setenv("MQTT_QOS", "2")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg := Load()

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, 2, cfg.MQTT.QoS)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("MQTT_QOS", "not-a-number")
	t.Setenv("MQTT_ENABLED", "not-a-bool")

	cfg := Load()

	assert.Equal(t, 1, cfg.MQTT.QoS)
	assert.False(t, cfg.MQTT.Enabled)
}
