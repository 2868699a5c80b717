// Package storetest provides a conformance suite for settings.Store
// implementations.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/52North/SOS-sub013/internal/settings"
)

// Run exercises the Store contract against stores returned by newStore.
// Every call must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) settings.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetSettingValue(ctx, "missing")
		assert.ErrorIs(t, err, settings.ErrNotFound)
	})

	t.Run("save and get", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveSettingValue(ctx, "misc.defaultSrid", "4326"))
		require.NoError(t, s.SaveSettingValue(ctx, "misc.defaultSrid", "31467"))

		v, err := s.GetSettingValue(ctx, "misc.defaultSrid")
		require.NoError(t, err)
		assert.Equal(t, "31467", v)
	})

	t.Run("empty and multiline values", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveSettingValue(ctx, "a", ""))
		require.NoError(t, s.SaveSettingValue(ctx, "b", "line 1\nline 2"))

		values, err := s.GetSettingValues(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"a": "", "b": "line 1\nline 2"}, values)
	})

	t.Run("keys are sorted", func(t *testing.T) {
		s := newStore(t)
		for _, k := range []string{"c", "a", "b"} {
			require.NoError(t, s.SaveSettingValue(ctx, k, k))
		}

		keys, err := s.GetSettingKeys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, keys)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveSettingValue(ctx, "a", "1"))
		require.NoError(t, s.DeleteSettingValue(ctx, "a"))
		require.NoError(t, s.DeleteSettingValue(ctx, "a"))

		_, err := s.GetSettingValue(ctx, "a")
		assert.ErrorIs(t, err, settings.ErrNotFound)
	})

	t.Run("delete all", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SaveSettingValue(ctx, "a", "1"))
		require.NoError(t, s.SaveSettingValue(ctx, "b", "2"))
		require.NoError(t, s.DeleteAll(ctx))

		values, err := s.GetSettingValues(ctx)
		require.NoError(t, err)
		assert.Empty(t, values)
	})
}
