package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		modify    func(cfg *ServiceConfig)
		wantPaths []string
	}{
		{
			name:   "default config is valid",
			modify: func(cfg *ServiceConfig) {},
		},
		{
			name: "bad log level and format",
			modify: func(cfg *ServiceConfig) {
				cfg.Logging.Level = "verbose"
				cfg.Logging.Format = "xml"
			},
			wantPaths: []string{"logging.level", "logging.format"},
		},
		{
			name: "service path without slash",
			modify: func(cfg *ServiceConfig) {
				cfg.Server.ServicePath = "service"
			},
			wantPaths: []string{"server.servicePath"},
		},
		{
			name: "sampling rate out of range",
			modify: func(cfg *ServiceConfig) {
				cfg.Tracing.SamplingRate = 1.5
			},
			wantPaths: []string{"tracing.samplingRate"},
		},
		{
			name: "file store without path",
			modify: func(cfg *ServiceConfig) {
				cfg.Settings.Store = StoreFile
			},
			wantPaths: []string{"settings.file.path"},
		},
		{
			name: "postgres store without dsn",
			modify: func(cfg *ServiceConfig) {
				cfg.Settings.Store = StorePostgres
				cfg.Settings.Postgres = &PostgresConfig{}
			},
			wantPaths: []string{"settings.postgres.dsn"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.modify(cfg)

			err := ValidateConfig(cfg)
			if len(tt.wantPaths) == 0 {
				assert.NoError(t, err)
				return
			}

			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, len(tt.wantPaths))
			for i, p := range tt.wantPaths {
				assert.Equal(t, p, verrs[i].Path)
			}
		})
	}
}

func TestValidateConfig_Nil(t *testing.T) {
	t.Parallel()

	err := ValidateConfig(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration is nil")
}

func TestValidationErrors_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "no validation errors", ValidationErrors{}.Error())
	assert.Equal(t, "a: b", ValidationErrors{{Path: "a", Message: "b"}}.Error())

	multi := ValidationErrors{{Path: "a", Message: "b"}, {Message: "c"}}
	assert.Contains(t, multi.Error(), "2 validation errors")
	assert.Contains(t, multi.Error(), "2. c")
}
