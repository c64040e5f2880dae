package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fittrackapp/fittrack/internal/model"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preferences.json")
	return NewStore(path, zerolog.Nop()), path
}

func TestInitializeMissingFileWritesDefaults(t *testing.T) {
	store, path := newTestStore(t)

	got, err := store.Initialize()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPreferences(), got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk model.Preferences
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, got, onDisk)
}

func TestInitializeHealsCorruptFile(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	got, err := store.Initialize()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPreferences(), got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk model.Preferences
	assert.NoError(t, json.Unmarshal(data, &onDisk), "file rewritten as valid JSON")
}

func TestInitializeReplacesInvalidFieldsKeepsValid(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`{
		"theme": "dark",
		"dailyReminderTime": "99:99",
		"notificationEnabled": false
	}`), 0o644))

	got, err := store.Initialize()
	require.NoError(t, err)

	assert.Equal(t, model.ThemeDark, got.Theme)
	assert.False(t, got.NotificationEnabled)
	assert.Equal(t, "09:00", got.DailyReminderTime, "invalid time silently defaulted")
}

func TestSetAppliesPartialPatch(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Initialize()
	require.NoError(t, err)

	theme := model.ThemeLight
	timeStr := "18:45"
	got, err := store.Set(Patch{Theme: &theme, DailyReminderTime: &timeStr})
	require.NoError(t, err)

	assert.Equal(t, model.ThemeLight, got.Theme)
	assert.Equal(t, "18:45", got.DailyReminderTime)
	assert.True(t, got.NotificationEnabled, "untouched fields keep their values")
}

func TestSetDropsInvalidValues(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Initialize()
	require.NoError(t, err)

	bad := model.Theme("neon")
	badTime := "25:00"
	negative := int64(-1)
	got, err := store.Set(Patch{Theme: &bad, DailyReminderTime: &badTime, LastSyncTime: &negative})
	require.NoError(t, err)

	assert.Equal(t, model.ThemeSystem, got.Theme)
	assert.Equal(t, "09:00", got.DailyReminderTime)
	assert.Equal(t, int64(0), got.LastSyncTime)
}

func TestSetPersistsAcrossStores(t *testing.T) {
	store, path := newTestStore(t)
	_, err := store.Initialize()
	require.NoError(t, err)

	off := false
	_, err = store.Set(Patch{NotificationEnabled: &off})
	require.NoError(t, err)

	reopened := NewStore(path, zerolog.Nop())
	got, err := reopened.Get()
	require.NoError(t, err)
	assert.False(t, got.NotificationEnabled)
}

func TestResetRestoresDefaults(t *testing.T) {
	store, _ := newTestStore(t)
	theme := model.ThemeDark
	_, err := store.Set(Patch{Theme: &theme})
	require.NoError(t, err)

	got, err := store.Reset()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPreferences(), got)
}
