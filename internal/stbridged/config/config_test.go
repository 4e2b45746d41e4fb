package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `
server:
  port: 9090
broker:
  url: wss://broker.example:443/mqtt
  username: "1234567_nl"
  password: secret-token
metadata:
  baseUrl: https://api.example/listing-service/v2
household:
  id: "1234567_nl"
  friendlyName: Living Room Bridge
  boxes:
    - id: 3C36E4-EOSSTB-003656579806
      name: Living room
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, "wss://broker.example:443/mqtt", cfg.Broker.URL)
	assert.Equal(t, "1234567_nl", cfg.Household.ID)
	assert.Equal(t, "Living Room Bridge", cfg.Household.FriendlyName)
	require.Len(t, cfg.Household.Boxes, 1)
	assert.Equal(t, "3C36E4-EOSSTB-003656579806", cfg.Household.Boxes[0].ID)

	// Defaults survive a partial file
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Minute, cfg.Metadata.CacheTTL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("STBRIDGE_BROKER_URL", "wss://other.example/mqtt")
	t.Setenv("STBRIDGE_SERVER_PORT", "7070")

	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)
	assert.Equal(t, "wss://other.example/mqtt", cfg.Broker.URL)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing broker url",
			mutate:  func(c *Config) { c.Broker.URL = "" },
			wantErr: "broker.url",
		},
		{
			name:    "missing household id",
			mutate:  func(c *Config) { c.Household.ID = "" },
			wantErr: "household.id",
		},
		{
			name:    "no boxes",
			mutate:  func(c *Config) { c.Household.Boxes = nil },
			wantErr: "household.boxes",
		},
		{
			name:    "box without id",
			mutate:  func(c *Config) { c.Household.Boxes[0].ID = "" },
			wantErr: "household.boxes[0].id",
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, validConfig))
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
