package round

import (
	"errors"
	"fmt"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/difficulty"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/numberset"
)

var (
	ErrInvalidTime  = errors.New("time budget must be positive")
	ErrInvalidLives = errors.New("lives must be positive")
	ErrNoSource     = errors.New("no random source")
)

// Config is everything needed to start a round.
type Config struct {
	Mode       difficulty.Mode
	Difficulty difficulty.Level
	Layout     numberset.Config
	// TotalTime is the countdown in seconds. Ignored in Zen.
	TotalTime int
	// Lives is the Zen life count. Zero means difficulty.ZenLives.
	Lives int
	// Level is the campaign level, or zero for a free round.
	Level int
}

func (c Config) withDefaults() Config {
	if c.Mode == "" {
		c.Mode = difficulty.Classic
	}
	if c.Mode.IsZen() && c.Lives == 0 {
		c.Lives = difficulty.ZenLives
	}
	return c
}

// Validate reports configuration errors. Nothing is generated or started for
// an invalid config.
func (c Config) Validate() error {
	c = c.withDefaults()
	if c.Mode.IsZen() {
		if c.Lives < 0 {
			return fmt.Errorf("%w: %d", ErrInvalidLives, c.Lives)
		}
	} else if c.TotalTime <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTime, c.TotalTime)
	}
	p := difficulty.For(c.Difficulty)
	if err := numberset.Validate(c.Layout, p.DecoyCount); err != nil {
		return fmt.Errorf("invalid layout: %w", err)
	}
	return nil
}
