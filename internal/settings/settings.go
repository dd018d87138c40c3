// Package settings keeps player preferences in the per-user data directory.
// Without a data directory the manager runs in memory only.
package settings

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/difficulty"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/numberset"
	"github.com/quasilyte/gdata/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// AppName is the data directory name.
const AppName = "numfind"

const (
	settingsObject   = "settings"
	settingsProperty = "player"
)

var (
	ErrUnknownKey   = errors.New("unknown setting")
	ErrInvalidValue = errors.New("invalid setting value")
)

// Settings are the player preferences.
type Settings struct {
	Language     string  `yaml:"language" json:"language"`
	SoundEnabled bool    `yaml:"soundEnabled" json:"sound_enabled"`
	Volume       float64 `yaml:"volume" json:"volume"` // 0.0 ~ 1.0
	Difficulty   string  `yaml:"difficulty" json:"difficulty"`
	Layout       string  `yaml:"layout" json:"layout"`
	ClientSeed   string  `yaml:"clientSeed" json:"client_seed"`
	PlayerName   string  `yaml:"playerName" json:"player_name"`
}

// Defaults returns the settings used before anything is saved.
func Defaults() Settings {
	return Settings{
		Language:     "en",
		SoundEnabled: true,
		Volume:       0.8,
		Difficulty:   difficulty.Normal.String(),
		Layout:       string(numberset.KindGrid),
		ClientSeed:   "numfind",
		PlayerName:   "player",
	}
}

// Manager loads, edits and saves Settings. A nil gdata manager is allowed.
type Manager struct {
	data     *gdata.Manager
	settings Settings
	logger   *zap.Logger
}

// Open opens the user data directory for appName. If that fails the manager
// keeps working in memory and the failure is logged.
func Open(appName string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		logger.Warn("settings storage unavailable, using in-memory settings", zap.Error(err))
		data = nil
	}
	return NewManager(data, logger)
}

// NewManager wraps data and loads saved settings. Load failures fall back to
// the defaults.
func NewManager(data *gdata.Manager, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{data: data, settings: Defaults(), logger: logger}
	if err := m.Load(); err != nil {
		logger.Warn("failed to load settings, using defaults", zap.Error(err))
	}
	return m
}

// Persistent reports whether settings survive a restart.
func (m *Manager) Persistent() bool {
	return m.data != nil
}

// Load reads saved settings. Missing settings leave the defaults in place.
func (m *Manager) Load() error {
	if m.data == nil || !m.data.ObjectPropExists(settingsObject, settingsProperty) {
		m.settings = Defaults()
		return nil
	}

	raw, err := m.data.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		m.settings = Defaults()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// start from defaults so fields added later keep a sane value
	loaded := Defaults()
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		m.settings = Defaults()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	m.settings = loaded
	return nil
}

// Save writes the current settings. In memory-only mode it does nothing.
func (m *Manager) Save() error {
	if m.data == nil {
		return nil
	}
	raw, err := yaml.Marshal(m.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := m.data.SaveObjectProp(settingsObject, settingsProperty, raw); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	m.logger.Debug("settings saved")
	return nil
}

// Get returns the current settings.
func (m *Manager) Get() Settings {
	return m.settings
}

type setter func(s *Settings, value string) error

var setters = map[string]setter{
	"language": func(s *Settings, v string) error {
		v = strings.ToLower(v)
		if v != "en" && v != "vi" {
			return fmt.Errorf("%w: language must be en or vi", ErrInvalidValue)
		}
		s.Language = v
		return nil
	},
	"sound": func(s *Settings, v string) error {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: sound must be true or false", ErrInvalidValue)
		}
		s.SoundEnabled = on
		return nil
	},
	"volume": func(s *Settings, v string) error {
		vol, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: volume must be a number", ErrInvalidValue)
		}
		s.Volume = clampVolume(vol)
		return nil
	},
	"difficulty": func(s *Settings, v string) error {
		level, ok := difficulty.Parse(v)
		if !ok {
			return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidValue, v)
		}
		s.Difficulty = level.String()
		return nil
	},
	"layout": func(s *Settings, v string) error {
		kind := numberset.Kind(strings.ToLower(v))
		if kind != numberset.KindGrid && kind != numberset.KindFree {
			return fmt.Errorf("%w: layout must be grid or free", ErrInvalidValue)
		}
		s.Layout = string(kind)
		return nil
	},
	"client_seed": func(s *Settings, v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: client seed cannot be empty", ErrInvalidValue)
		}
		s.ClientSeed = v
		return nil
	},
	"player": func(s *Settings, v string) error {
		s.PlayerName = strings.TrimSpace(v)
		return nil
	},
}

// Keys lists the names accepted by Set.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set parses value into the setting named key. Nothing changes on error.
// Call Save to persist.
func (m *Manager) Set(key, value string) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("%w: %q (known: %s)", ErrUnknownKey, key, strings.Join(Keys(), ", "))
	}
	next := m.settings
	if err := set(&next, value); err != nil {
		return err
	}
	m.settings = next
	return nil
}

func clampVolume(volume float64) float64 {
	if volume < 0 {
		return 0
	}
	if volume > 1 {
		return 1
	}
	return volume
}
