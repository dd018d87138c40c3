package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quasilyte/gdata/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestData(t *testing.T) *gdata.Manager {
	t.Helper()
	appName := fmt.Sprintf("numfind_test_%d", time.Now().UnixNano())
	data, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Skipf("gdata unavailable: %v", err)
	}
	t.Cleanup(func() {
		if home, err := os.UserHomeDir(); err == nil {
			os.RemoveAll(filepath.Join(home, ".local", "share", appName))
		}
	})
	return data
}

func TestDegradedMode(t *testing.T) {
	m := NewManager(nil, zap.NewNop())

	assert.False(t, m.Persistent())
	assert.Equal(t, Defaults(), m.Get())

	require.NoError(t, m.Set("volume", "0.25"))
	require.NoError(t, m.Save())
	assert.Equal(t, 0.25, m.Get().Volume)

	require.NoError(t, m.Load())
	assert.Equal(t, Defaults(), m.Get(), "in-memory settings reset on load")
}

func TestSet(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    error
		check      func(t *testing.T, s Settings)
	}{
		{"language", "VI", nil, func(t *testing.T, s Settings) { assert.Equal(t, "vi", s.Language) }},
		{"language", "fr", ErrInvalidValue, nil},
		{"sound", "false", nil, func(t *testing.T, s Settings) { assert.False(t, s.SoundEnabled) }},
		{"sound", "loud", ErrInvalidValue, nil},
		{"volume", "7", nil, func(t *testing.T, s Settings) { assert.Equal(t, 1.0, s.Volume) }},
		{"volume", "-1", nil, func(t *testing.T, s Settings) { assert.Equal(t, 0.0, s.Volume) }},
		{"volume", "high", ErrInvalidValue, nil},
		{"difficulty", "medium", nil, func(t *testing.T, s Settings) { assert.Equal(t, "normal", s.Difficulty) }},
		{"difficulty", "insane", ErrInvalidValue, nil},
		{"layout", "free", nil, func(t *testing.T, s Settings) { assert.Equal(t, "free", s.Layout) }},
		{"layout", "hex", ErrInvalidValue, nil},
		{"client_seed", "  ", ErrInvalidValue, nil},
		{"client_seed", "lucky", nil, func(t *testing.T, s Settings) { assert.Equal(t, "lucky", s.ClientSeed) }},
		{"player", " ana ", nil, func(t *testing.T, s Settings) { assert.Equal(t, "ana", s.PlayerName) }},
		{"colour", "red", ErrUnknownKey, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			m := NewManager(nil, nil)
			err := m.Set(tt.key, tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, Defaults(), m.Get(), "failed Set must not change settings")
				return
			}
			require.NoError(t, err)
			tt.check(t, m.Get())
		})
	}
}

func TestPersistRoundTrip(t *testing.T) {
	data := newTestData(t)

	m := NewManager(data, zap.NewNop())
	require.True(t, m.Persistent())
	require.NoError(t, m.Set("language", "vi"))
	require.NoError(t, m.Set("difficulty", "hard"))
	require.NoError(t, m.Save())

	reopened := NewManager(data, zap.NewNop())
	got := reopened.Get()
	assert.Equal(t, "vi", got.Language)
	assert.Equal(t, "hard", got.Difficulty)
	assert.Equal(t, Defaults().Volume, got.Volume)
}

func TestLoadCorruptFallsBack(t *testing.T) {
	data := newTestData(t)
	require.NoError(t, data.SaveObjectProp(settingsObject, settingsProperty, []byte("volume: [")))

	m := &Manager{data: data, settings: Defaults(), logger: zap.NewNop()}
	assert.Error(t, m.Load())
	assert.Equal(t, Defaults(), m.Get())
}
