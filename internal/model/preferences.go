package model

import "regexp"

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func (t Theme) IsValid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	default:
		return false
	}
}

// Preferences is the single flat settings record. Exactly one logical
// instance exists; every read and write passes through SanitizePreferences
// so the persisted form is always a full, defaulted object.
type Preferences struct {
	Theme               Theme  `json:"theme"`
	NotificationEnabled bool   `json:"notificationEnabled"`
	DailyReminderTime   string `json:"dailyReminderTime"`
	AutoSaveProgress    bool   `json:"autoSaveProgress"`
	FirstLaunch         bool   `json:"firstLaunch"`
	LastSyncTime        int64  `json:"lastSyncTime"`
	AppVersion          string `json:"appVersion,omitempty"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Theme:               ThemeSystem,
		NotificationEnabled: true,
		DailyReminderTime:   "09:00",
		AutoSaveProgress:    true,
		FirstLaunch:         true,
		LastSyncTime:        0,
	}
}

var dailyTimeRe = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// SanitizePreferences rebuilds a full preferences object from an untrusted
// decoded value. Unknown or invalid fields are silently replaced with
// defaults, never errored; valid fields are kept.
func SanitizePreferences(raw map[string]any) Preferences {
	out := DefaultPreferences()
	if raw == nil {
		return out
	}
	if v, ok := raw["theme"].(string); ok && Theme(v).IsValid() {
		out.Theme = Theme(v)
	}
	if v, ok := raw["notificationEnabled"].(bool); ok {
		out.NotificationEnabled = v
	}
	if v, ok := raw["dailyReminderTime"].(string); ok && dailyTimeRe.MatchString(v) {
		out.DailyReminderTime = v
	}
	if v, ok := raw["autoSaveProgress"].(bool); ok {
		out.AutoSaveProgress = v
	}
	if v, ok := raw["firstLaunch"].(bool); ok {
		out.FirstLaunch = v
	}
	if v, ok := raw["lastSyncTime"].(float64); ok && v >= 0 {
		out.LastSyncTime = int64(v)
	}
	if v, ok := raw["appVersion"].(string); ok && v != "" {
		out.AppVersion = v
	}
	return out
}
