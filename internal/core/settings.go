package core

import (
	"sync"
	"time"
)

const (
	// DefaultAutoSaveDelay is how long the auto-save controller waits after the last edit.
	DefaultAutoSaveDelay = 1500 * time.Millisecond

	// DefaultMaxBackups is the per-file snapshot retention count.
	DefaultMaxBackups = 20
)

// Settings are the engine-wide knobs shared by the auto-save controller,
// the backup store and the session.
type Settings struct {
	AutoSave     bool
	Delay        time.Duration
	BackupOnSave bool
	MaxBackups   int
	Reload       bool
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		AutoSave:     true,
		Delay:        DefaultAutoSaveDelay,
		BackupOnSave: true,
		MaxBackups:   DefaultMaxBackups,
		Reload:       true,
	}
}

// SettingsHandle is a shared, concurrency-safe reference to Settings.
// Components read the current value on every use, so updates apply immediately.
type SettingsHandle struct {
	mu sync.RWMutex
	s  Settings
}

// NewSettingsHandle creates a handle holding s.
func NewSettingsHandle(s Settings) *SettingsHandle {
	return &SettingsHandle{s: s}
}

// Get returns a copy of the current settings with zero values replaced by defaults.
func (h *SettingsHandle) Get() Settings {
	h.mu.RLock()
	s := h.s
	h.mu.RUnlock()

	if s.Delay <= 0 {
		s.Delay = DefaultAutoSaveDelay
	}
	if s.MaxBackups <= 0 {
		s.MaxBackups = DefaultMaxBackups
	}
	return s
}

// Update applies fn to the settings under the write lock.
func (h *SettingsHandle) Update(fn func(*Settings)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(&h.s)
}
