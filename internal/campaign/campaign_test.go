package campaign

import (
	"testing"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/difficulty"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/numberset"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBuiltin(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	require.Len(t, c.Levels, 12)

	for i, l := range c.Levels {
		assert.Equal(t, i+1, l.Number)
		assert.NotEmpty(t, l.Name)
	}
	assert.Equal(t, difficulty.Easy, c.Levels[0].Difficulty)
	assert.Equal(t, difficulty.Hard, c.Levels[11].Difficulty)
}

func TestRoundConfig(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	l, err := c.Level(3)
	require.NoError(t, err)
	cfg, err := l.RoundConfig()
	require.NoError(t, err)

	assert.Equal(t, difficulty.Classic, cfg.Mode)
	assert.Equal(t, 3, cfg.Level)
	assert.Equal(t, l.Time, cfg.TotalTime)
	assert.Equal(t, numberset.FreeConfig{Min: 1, Max: 40, Count: 12}, cfg.Layout)
}

func TestUnlockRules(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	t.Run("fresh player", func(t *testing.T) {
		status := c.Status(nil)
		assert.True(t, status[0].Unlocked)
		assert.False(t, status[1].Unlocked)

		_, err := c.Start(1, nil)
		assert.NoError(t, err)
		_, err = c.Start(2, nil)
		assert.ErrorIs(t, err, ErrLevelLocked)
	})

	t.Run("failed attempt keeps next locked", func(t *testing.T) {
		progress := []store.Progress{{Level: 1, Attempts: 2}}
		_, err := c.Start(2, progress)
		assert.ErrorIs(t, err, ErrLevelLocked)
	})

	t.Run("cleared level unlocks the next", func(t *testing.T) {
		progress := []store.Progress{
			{Level: 1, Completed: true, BestStars: 3, BestScore: 90, Attempts: 1},
			{Level: 2, Completed: true, BestStars: 1, Attempts: 4},
		}
		status := c.Status(progress)
		assert.True(t, status[1].Unlocked)
		assert.True(t, status[2].Unlocked)
		assert.False(t, status[3].Unlocked)
		assert.Equal(t, 3, status[0].BestStars)
		assert.Equal(t, 4, status[1].Attempts)

		cfg, err := c.Start(3, progress)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Level)
	})

	t.Run("unknown level", func(t *testing.T) {
		_, err := c.Start(13, nil)
		assert.ErrorIs(t, err, ErrLevelNotFound)
		_, err = c.Level(0)
		assert.ErrorIs(t, err, ErrLevelNotFound)
	})
}

func TestParseRejectsBadCampaigns(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "levels: []"},
		{"gap in numbering", `
levels:
  - {level: 2, name: x, difficulty: easy, layout: grid, min: 1, max: 20, cells: 9, time: 30}
`},
		{"range too small", `
levels:
  - {level: 1, name: x, difficulty: easy, layout: grid, min: 1, max: 5, cells: 9, time: 30}
`},
		{"no time", `
levels:
  - {level: 1, name: x, difficulty: easy, layout: grid, min: 1, max: 20, cells: 9}
`},
		{"bad layout", `
levels:
  - {level: 1, name: x, difficulty: easy, layout: hex, min: 1, max: 20, cells: 9, time: 30}
`},
		{"not yaml", "levels: ["},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}
