// Package campaign loads the built-in level sequence and decides which levels
// a player may start.
package campaign

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/difficulty"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/numberset"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/round"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/store"
	"gopkg.in/yaml.v3"
)

//go:embed levels.yaml
var builtin []byte

var (
	ErrLevelNotFound = errors.New("campaign level not found")
	ErrLevelLocked   = errors.New("campaign level is locked")
)

// UnlockStars is the minimum star count on level N-1 that unlocks level N.
const UnlockStars = 1

// Level is one campaign entry.
type Level struct {
	Number     int              `yaml:"level" json:"level"`
	Name       string           `yaml:"name" json:"name"`
	Difficulty difficulty.Level `yaml:"difficulty" json:"difficulty"`
	Layout     numberset.Kind   `yaml:"layout" json:"layout"`
	Min        int              `yaml:"min" json:"min"`
	Max        int              `yaml:"max" json:"max"`
	Cells      int              `yaml:"cells" json:"cells"`
	Time       int              `yaml:"time" json:"time"`
}

// RoundConfig returns the Classic round configuration for the level.
func (l Level) RoundConfig() (round.Config, error) {
	layout, err := numberset.NewConfig(l.Layout, l.Min, l.Max, l.Cells)
	if err != nil {
		return round.Config{}, fmt.Errorf("level %d: %w", l.Number, err)
	}
	return round.Config{
		Mode:       difficulty.Classic,
		Difficulty: l.Difficulty,
		Layout:     layout,
		TotalTime:  l.Time,
		Level:      l.Number,
	}, nil
}

// Campaign is an ordered list of levels numbered from 1.
type Campaign struct {
	Levels []Level `yaml:"levels"`
}

// Load parses the built-in campaign.
func Load() (*Campaign, error) {
	return Parse(builtin)
}

// Parse decodes and validates a campaign document.
func Parse(data []byte) (*Campaign, error) {
	var c Campaign
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse campaign YAML: %w", err)
	}
	if len(c.Levels) == 0 {
		return nil, errors.New("campaign has no levels")
	}
	for i, l := range c.Levels {
		if l.Number != i+1 {
			return nil, fmt.Errorf("level at position %d is numbered %d", i+1, l.Number)
		}
		cfg, err := l.RoundConfig()
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("level %d: %w", l.Number, err)
		}
	}
	return &c, nil
}

// Level returns the level numbered n.
func (c *Campaign) Level(n int) (Level, error) {
	if n < 1 || n > len(c.Levels) {
		return Level{}, fmt.Errorf("%w: %d", ErrLevelNotFound, n)
	}
	return c.Levels[n-1], nil
}

// LevelStatus is a level with the player's progress on it.
type LevelStatus struct {
	Level
	Unlocked  bool `json:"unlocked"`
	Completed bool `json:"completed"`
	BestStars int  `json:"best_stars"`
	BestScore int  `json:"best_score"`
	Attempts  int  `json:"attempts"`
}

func index(progress []store.Progress) map[int]store.Progress {
	m := make(map[int]store.Progress, len(progress))
	for _, p := range progress {
		m[p.Level] = p
	}
	return m
}

func unlocked(n int, byLevel map[int]store.Progress) bool {
	if n == 1 {
		return true
	}
	prev, ok := byLevel[n-1]
	return ok && prev.Completed && prev.BestStars >= UnlockStars
}

// Status merges progress into the level list.
func (c *Campaign) Status(progress []store.Progress) []LevelStatus {
	byLevel := index(progress)
	out := make([]LevelStatus, len(c.Levels))
	for i, l := range c.Levels {
		p := byLevel[l.Number]
		out[i] = LevelStatus{
			Level:     l,
			Unlocked:  unlocked(l.Number, byLevel),
			Completed: p.Completed,
			BestStars: p.BestStars,
			BestScore: p.BestScore,
			Attempts:  p.Attempts,
		}
	}
	return out
}

// Start returns the round configuration for level n if it is unlocked.
func (c *Campaign) Start(n int, progress []store.Progress) (round.Config, error) {
	l, err := c.Level(n)
	if err != nil {
		return round.Config{}, err
	}
	if !unlocked(n, index(progress)) {
		return round.Config{}, fmt.Errorf("%w: level %d needs level %d cleared with %d star(s)",
			ErrLevelLocked, n, n-1, UnlockStars)
	}
	return l.RoundConfig()
}
