package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePreferencesNilInput(t *testing.T) {
	assert.Equal(t, DefaultPreferences(), SanitizePreferences(nil))
}

func TestSanitizePreferencesKeepsValidFields(t *testing.T) {
	got := SanitizePreferences(map[string]any{
		"theme":               "dark",
		"notificationEnabled": false,
		"dailyReminderTime":   "21:30",
		"autoSaveProgress":    false,
		"firstLaunch":         false,
		"lastSyncTime":        float64(1724900000000),
		"appVersion":          "1.2.0",
	})

	assert.Equal(t, ThemeDark, got.Theme)
	assert.False(t, got.NotificationEnabled)
	assert.Equal(t, "21:30", got.DailyReminderTime)
	assert.False(t, got.AutoSaveProgress)
	assert.False(t, got.FirstLaunch)
	assert.Equal(t, int64(1724900000000), got.LastSyncTime)
	assert.Equal(t, "1.2.0", got.AppVersion)
}

func TestSanitizePreferencesReplacesInvalidFields(t *testing.T) {
	got := SanitizePreferences(map[string]any{
		"theme":               "neon",
		"notificationEnabled": "yes",
		"dailyReminderTime":   "25:99",
		"lastSyncTime":        float64(-5),
	})

	defaults := DefaultPreferences()
	assert.Equal(t, defaults.Theme, got.Theme)
	assert.Equal(t, defaults.NotificationEnabled, got.NotificationEnabled)
	assert.Equal(t, defaults.DailyReminderTime, got.DailyReminderTime)
	assert.Equal(t, defaults.LastSyncTime, got.LastSyncTime)
}

func TestSanitizePreferencesTimeFormats(t *testing.T) {
	valid := []string{"0:00", "00:00", "9:05", "09:05", "23:59"}
	for _, v := range valid {
		got := SanitizePreferences(map[string]any{"dailyReminderTime": v})
		assert.Equal(t, v, got.DailyReminderTime, "expected %q to be accepted", v)
	}

	invalid := []string{"24:00", "12:60", "noon", "7", "07:5", ""}
	for _, v := range invalid {
		got := SanitizePreferences(map[string]any{"dailyReminderTime": v})
		assert.Equal(t, "09:00", got.DailyReminderTime, "expected %q to be rejected", v)
	}
}
