package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  address: ":9090"
  readTimeout: 5s
logging:
  level: debug
  format: console
catalog:
  path: ./catalog.yaml
settings:
  store: file
  file:
    path: ./settings.yaml
    watch: true
`

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sos.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(validConfigYAML), 0o644))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout.Duration())
	assert.Equal(t, DefaultWriteTimeout, cfg.Server.WriteTimeout.Duration())
	assert.Equal(t, DefaultServicePath, cfg.Server.ServicePath)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "./catalog.yaml", cfg.Catalog.Path)
	require.NotNil(t, cfg.Settings.File)
	assert.True(t, cfg.Settings.File.Watch)
	assert.Equal(t, DefaultWatchDebounce, cfg.Settings.File.Debounce.Duration())
	assert.Equal(t, []string{ContentTypeJSON, ContentTypeXML}, cfg.Encoding.SupportedContentTypes)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig("/nonexistent/path/sos.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfigFromReader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "empty document uses defaults",
			content: "",
		},
		{
			name:    "invalid yaml",
			content: "server: [",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "unknown store",
			content: "settings:\n  store: etcd\n",
			wantErr: "unknown store",
		},
		{
			name:    "redis without address",
			content: "settings:\n  store: redis\n  redis: {}\n",
			wantErr: "settings.redis.address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := LoadConfigFromReader(strings.NewReader(tt.content))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultAddress, cfg.Server.Address)
			assert.Equal(t, StoreMemory, cfg.Settings.Store)
		})
	}
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("SOS_TEST_ADDR", ":7000")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "set variable", input: "address: ${SOS_TEST_ADDR}", want: "address: :7000"},
		{name: "default used", input: "dsn: ${SOS_TEST_UNSET:-postgres://localhost}", want: "dsn: postgres://localhost"},
		{name: "unset without default", input: "x: ${SOS_TEST_UNSET}", want: "x: "},
		{name: "escaped dollar", input: "password: $${NOT_A_VAR}", want: "password: ${NOT_A_VAR}"},
		{name: "no pattern", input: "plain: text", want: "plain: text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubstituteEnvVars(tt.input))
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, DefaultAddress, cfg.Server.Address)
	assert.Equal(t, "sos", cfg.Metrics.Namespace)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestDuration(t *testing.T) {
	t.Parallel()

	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`"1m30s"`)))
	assert.Equal(t, 90*time.Second, d.Duration())

	require.NoError(t, d.UnmarshalJSON([]byte(`null`)))
	assert.Equal(t, time.Duration(0), d.Duration())

	assert.Error(t, d.UnmarshalJSON([]byte(`"soon"`)))

	out, err := Duration(2 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2s"`, string(out))
}
