package sqlstore

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/52North/SOS-sub013/internal/config"
	"github.com/52North/SOS-sub013/internal/settings"
	"github.com/52North/SOS-sub013/internal/settings/storetest"
)

func TestNew_TableName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		table   string
		wantErr bool
	}{
		{name: "default", table: config.DefaultSettingsTable},
		{name: "mixed case", table: "SosSettings_2"},
		{name: "empty", table: "", wantErr: true},
		{name: "leading digit", table: "1settings", wantErr: true},
		{name: "injection", table: "s; DROP TABLE users", wantErr: true},
		{name: "schema qualified", table: "public.settings", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, err := New(sqlx.NewDb(nil, "postgres"), tt.table, nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTable)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, s.getOne, `"`+tt.table+`"`)
			assert.Contains(t, s.upsert, "ON CONFLICT (key)")
		})
	}
}

var tableCounter atomic.Int32

// postgresStore connects to SOS_TEST_POSTGRES_DSN using a fresh table.
func postgresStore(t *testing.T) settings.Store {
	t.Helper()

	dsn := os.Getenv("SOS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SOS_TEST_POSTGRES_DSN not set")
	}

	table := fmt.Sprintf("sos_settings_test_%d_%d", os.Getpid(), tableCounter.Add(1))
	ctx := context.Background()
	s, err := Connect(ctx, &config.PostgresConfig{DSN: dsn, Table: table}, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DROP TABLE IF EXISTS `+table)
		_ = s.Close()
	})
	return s
}

func TestStore_Conformance(t *testing.T) {
	if os.Getenv("SOS_TEST_POSTGRES_DSN") == "" {
		t.Skip("SOS_TEST_POSTGRES_DSN not set")
	}
	storetest.Run(t, postgresStore)
}
