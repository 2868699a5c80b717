package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/52North/SOS-sub013/internal/sos"
	"github.com/52North/SOS-sub013/internal/sosjson"
)

const testCatalog = "../../internal/catalog/testdata/catalog.yaml"

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.RunContext(context.Background(), append([]string{"sosctl"}, args...))
	return out.String(), err
}

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr bool
	}{
		{
			name: "capabilities",
			args: []string{"encode", "capabilities"},
			want: []string{`"serviceIdentification"`, `"contents"`},
		},
		{
			name: "template",
			args: []string{
				"encode", "template",
				"--offering", "http://www.52north.org/test/offering/2",
				"--observed-property", "http://www.52north.org/test/observableProperty/2",
			},
			want: []string{`"resultStructure"`, `"resultEncoding"`},
		},
		{
			name:    "unknown procedure",
			args:    []string{"encode", "sensor", "--procedure", "http://example.org/unknown"},
			wantErr: true,
		},
		{
			name:    "invalid phenomenon time",
			args:    []string{"encode", "observations", "--phenomenon-time", "yesterday"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := runApp(t, append([]string{"--catalog", testCatalog}, tt.args...)...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestEncodeCapabilitiesSections(t *testing.T) {
	t.Parallel()

	out, err := runApp(t, "--catalog", testCatalog, "encode", "capabilities", "--sections", "ServiceIdentification")
	require.NoError(t, err)
	assert.NotContains(t, out, `"contents"`)
}

func TestEncodePretty(t *testing.T) {
	t.Parallel()

	compact, err := runApp(t, "--catalog", testCatalog, "encode", "capabilities")
	require.NoError(t, err)
	pretty, err := runApp(t, "--catalog", testCatalog, "encode", "capabilities", "--pretty")
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(compact, "\n"))
	assert.Greater(t, strings.Count(pretty, "\n"), 1)
}

func TestSettingsCommands(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	const url = "https://sos.example.org/service"

	out, err := runApp(t, "--settings", path, "settings", "get", sos.SettingServiceURL)
	require.NoError(t, err)
	assert.Equal(t, sos.DefaultServiceURL, strings.TrimSpace(out))

	_, err = runApp(t, "--settings", path, "settings", "set", sos.SettingServiceURL, url)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), url)

	out, err = runApp(t, "--settings", path, "settings", "get", sos.SettingServiceURL)
	require.NoError(t, err)
	assert.Equal(t, url, strings.TrimSpace(out))

	out, err = runApp(t, "--settings", path, "settings", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, sosjson.SettingPrettyPrint)

	_, err = runApp(t, "--settings", path, "settings", "delete", sos.SettingServiceURL)
	require.NoError(t, err)

	out, err = runApp(t, "--settings", path, "settings", "get", sos.SettingServiceURL)
	require.NoError(t, err)
	assert.Equal(t, sos.DefaultServiceURL, strings.TrimSpace(out))
}

func TestSettingsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "get without key", args: []string{"settings", "get"}},
		{name: "set without value", args: []string{"settings", "set", sos.SettingServiceURL}},
		{name: "unknown key", args: []string{"settings", "set", "unknown.key", "x"}},
		{name: "invalid value", args: []string{"settings", "set", sosjson.SettingPrettyPrint, "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := runApp(t, tt.args...)
			require.Error(t, err)
		})
	}
}
