package round

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/difficulty"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/numberset"
)

// Free play defaults for fields left at zero.
const (
	DefaultMin   = 1
	DefaultMax   = 99
	DefaultCells = 25
	DefaultTime  = 60
)

var (
	ErrUnknownMode       = errors.New("unknown mode")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// Options are flat free play settings as they arrive from flags or JSON.
type Options struct {
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
	Layout     string `json:"layout"`
	Min        int    `json:"min"`
	Max        int    `json:"max"`
	Cells      int    `json:"cells"`
	Time       int    `json:"time"`
	Lives      int    `json:"lives"`
}

// Config resolves names and defaults and validates the result.
func (o Options) Config() (Config, error) {
	mode, ok := difficulty.ParseMode(o.Mode)
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownMode, o.Mode)
	}
	level := difficulty.Normal
	if strings.TrimSpace(o.Difficulty) != "" {
		if level, ok = difficulty.Parse(o.Difficulty); !ok {
			return Config{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, o.Difficulty)
		}
	}

	if o.Min == 0 && o.Max == 0 {
		o.Min, o.Max = DefaultMin, DefaultMax
	}
	if o.Cells == 0 {
		o.Cells = DefaultCells
	}
	if o.Time == 0 {
		o.Time = DefaultTime
	}

	layout, err := numberset.NewConfig(numberset.Kind(strings.ToLower(o.Layout)), o.Min, o.Max, o.Cells)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Mode:       mode,
		Difficulty: level,
		Layout:     layout,
		TotalTime:  o.Time,
		Lives:      o.Lives,
	}.withDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
