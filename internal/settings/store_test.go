package settings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/52North/SOS-sub013/internal/settings"
	"github.com/52North/SOS-sub013/internal/settings/storetest"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	storetest.Run(t, func(t *testing.T) settings.Store {
		return settings.NewMemoryStore(nil)
	})
}

func TestMemoryStore_CopiesInitialValues(t *testing.T) {
	t.Parallel()

	initial := map[string]string{"a": "1"}
	s := settings.NewMemoryStore(initial)
	initial["a"] = "2"

	v, err := s.GetSettingValue(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	values, err := s.GetSettingValues(context.Background())
	require.NoError(t, err)
	values["a"] = "3"

	v, _ = s.GetSettingValue(context.Background(), "a")
	assert.Equal(t, "1", v)
	assert.NoError(t, s.Close())
}
