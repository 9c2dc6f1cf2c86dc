// ABOUTME: Tests for backend YAML config loading and validation
// ABOUTME: Covers env var expansion and required-field checks

package botd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "botd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
addr: "localhost:9000"
db_path: "/tmp/test.db"
jwt_secret: "secret"
bots:
  - name: "Support Bot"
    webhook_key: "abc123"
    replies_path: "replies.toml"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:9000", cfg.Addr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	require.Len(t, cfg.Bots, 1)
	assert.Equal(t, "abc123", cfg.Bots[0].WebhookKey)
	assert.Equal(t, "Support Bot", cfg.Bots[0].Name)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
bots:
  - webhook_key: "abc123"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost:8000", cfg.Addr)
	assert.Equal(t, ":memory:", cfg.DBPath)
}

func TestLoadConfig_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_BOTD_KEY", "expanded-key")

	path := writeConfig(t, `
bots:
  - webhook_key: "${TEST_BOTD_KEY}"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "expanded-key", cfg.Bots[0].WebhookKey)
}

func TestLoadConfig_UnsetEnvVarPreserved(t *testing.T) {
	path := writeConfig(t, `
bots:
  - webhook_key: "${TEST_BOTD_UNSET_VAR}"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "${TEST_BOTD_UNSET_VAR}", cfg.Bots[0].WebhookKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing addr",
			cfg:     Config{Bots: []BotConfig{{WebhookKey: "k"}}},
			wantErr: "addr is required",
		},
		{
			name:    "no bots",
			cfg:     Config{Addr: "localhost:8000"},
			wantErr: "at least one bot is required",
		},
		{
			name:    "missing webhook key",
			cfg:     Config{Addr: "localhost:8000", Bots: []BotConfig{{Name: "x"}}},
			wantErr: "webhook_key is required",
		},
		{
			name: "duplicate webhook key",
			cfg: Config{Addr: "localhost:8000", Bots: []BotConfig{
				{WebhookKey: "k"}, {WebhookKey: "k"},
			}},
			wantErr: "duplicate webhook_key",
		},
		{
			name: "valid",
			cfg:  Config{Addr: "localhost:8000", Bots: []BotConfig{{WebhookKey: "k"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
