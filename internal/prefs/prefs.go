// Package prefs persists the single user preferences record as a JSON
// file next to the database. Every load passes through sanitization, so a
// corrupt or hand-edited file self-heals to defaults on the next boot.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/fittrackapp/fittrack/internal/model"
)

// Patch is a partial preferences update. Nil fields are left unchanged.
type Patch struct {
	Theme               *model.Theme
	NotificationEnabled *bool
	DailyReminderTime   *string
	AutoSaveProgress    *bool
	FirstLaunch         *bool
	LastSyncTime        *int64
	AppVersion          *string
}

// Store owns the preferences file. All access is serialized; the in-memory
// copy is authoritative after Initialize.
type Store struct {
	path string
	log  zerolog.Logger

	mu      sync.Mutex
	current model.Preferences
	loaded  bool
}

func NewStore(path string, logger zerolog.Logger) *Store {
	return &Store{
		path: path,
		log:  logger.With().Str("component", "prefs").Logger(),
	}
}

// Initialize loads, sanitizes, and rewrites the preferences file. A missing
// or unreadable file yields defaults; invalid fields are silently replaced.
// The sanitized result is always persisted back so later boots read a
// clean record.
func (s *Store) Initialize() (model.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.load()
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("preferences unreadable, using defaults")
		raw = nil
	}
	s.current = model.SanitizePreferences(raw)
	s.loaded = true

	if err := s.persist(); err != nil {
		return model.Preferences{}, err
	}
	s.log.Debug().Str("path", s.path).Msg("preferences initialized")
	return s.current, nil
}

// Get returns the current preferences, initializing from disk on first use.
func (s *Store) Get() (model.Preferences, error) {
	s.mu.Lock()
	loaded := s.loaded
	current := s.current
	s.mu.Unlock()
	if loaded {
		return current, nil
	}
	return s.Initialize()
}

// Set applies a partial update and persists the merged record. Invalid
// values in the patch are dropped, not errored, matching load behavior.
func (s *Store) Set(patch Patch) (model.Preferences, error) {
	if _, err := s.Get(); err != nil {
		return model.Preferences{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	if patch.Theme != nil && patch.Theme.IsValid() {
		next.Theme = *patch.Theme
	}
	if patch.NotificationEnabled != nil {
		next.NotificationEnabled = *patch.NotificationEnabled
	}
	if patch.DailyReminderTime != nil {
		candidate := next
		candidate.DailyReminderTime = *patch.DailyReminderTime
		next.DailyReminderTime = resanitize(candidate).DailyReminderTime
	}
	if patch.AutoSaveProgress != nil {
		next.AutoSaveProgress = *patch.AutoSaveProgress
	}
	if patch.FirstLaunch != nil {
		next.FirstLaunch = *patch.FirstLaunch
	}
	if patch.LastSyncTime != nil && *patch.LastSyncTime >= 0 {
		next.LastSyncTime = *patch.LastSyncTime
	}
	if patch.AppVersion != nil {
		next.AppVersion = *patch.AppVersion
	}

	s.current = next
	if err := s.persist(); err != nil {
		return model.Preferences{}, err
	}
	return s.current, nil
}

// Reset restores defaults and persists them.
func (s *Store) Reset() (model.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = model.DefaultPreferences()
	s.loaded = true
	if err := s.persist(); err != nil {
		return model.Preferences{}, err
	}
	s.log.Info().Msg("preferences reset to defaults")
	return s.current, nil
}

func (s *Store) load() (map[string]any, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode preferences: %w", err)
	}
	return raw, nil
}

// persist writes via a temp file and rename so a crash mid-write cannot
// leave a truncated preferences file. Caller holds s.mu.
func (s *Store) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create preferences directory: %w", err)
	}
	data, err := json.MarshalIndent(s.current, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}

// resanitize round-trips a candidate record through the sanitizer, letting
// field-level rules reject bad patch values the same way bad file values
// are rejected.
func resanitize(p model.Preferences) model.Preferences {
	raw := map[string]any{
		"theme":               string(p.Theme),
		"notificationEnabled": p.NotificationEnabled,
		"dailyReminderTime":   p.DailyReminderTime,
		"autoSaveProgress":    p.AutoSaveProgress,
		"firstLaunch":         p.FirstLaunch,
		"lastSyncTime":        float64(p.LastSyncTime),
		"appVersion":          p.AppVersion,
	}
	return model.SanitizePreferences(raw)
}
