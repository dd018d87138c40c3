package numberset

import (
	"errors"
	"fmt"
)

// Configuration errors. These are fatal to round setup.
var (
	ErrInvalidRange  = errors.New("min must be less than max")
	ErrNoCells       = errors.New("cell count out of range")
	ErrRangeTooSmall = errors.New("range too small for requested cell count")
	ErrUnknownLayout = errors.New("unknown layout")
)

const (
	// MaxCells bounds the size of a single set.
	MaxCells = 100
	// ValueLimit bounds |min| and |max|. Decoys sit up to decoySpread past
	// either end and the span max-min+1 must fit in an int.
	ValueLimit = 1_000_000_000
)

// Kind discriminates the layout variants.
type Kind string

const (
	KindGrid Kind = "grid"
	KindFree Kind = "free"
)

// Config describes a set to generate. It is implemented by GridConfig and
// FreeConfig only.
type Config interface {
	Kind() Kind
	Range() (min, max int)
	Total() int
	isConfig()
}

// GridConfig lays Cells values out on a square-ish grid.
type GridConfig struct {
	Min   int `json:"min" yaml:"min"`
	Max   int `json:"max" yaml:"max"`
	Cells int `json:"cells" yaml:"cells"`
}

func (GridConfig) Kind() Kind { return KindGrid }
func (c GridConfig) Range() (int, int) { return c.Min, c.Max }
func (c GridConfig) Total() int { return c.Cells }
func (GridConfig) isConfig() {}
func (c GridConfig) String() string { return fmt.Sprintf("grid[%d..%d]x%d", c.Min, c.Max, c.Cells) }

// FreeConfig scatters Count values over the unit square.
type FreeConfig struct {
	Min   int `json:"min" yaml:"min"`
	Max   int `json:"max" yaml:"max"`
	Count int `json:"count" yaml:"count"`
}

func (FreeConfig) Kind() Kind { return KindFree }
func (c FreeConfig) Range() (int, int) { return c.Min, c.Max }
func (c FreeConfig) Total() int { return c.Count }
func (FreeConfig) isConfig() {}
func (c FreeConfig) String() string { return fmt.Sprintf("free[%d..%d]x%d", c.Min, c.Max, c.Count) }

// NewConfig builds the variant selected by kind from flat settings.
func NewConfig(kind Kind, min, max, n int) (Config, error) {
	switch kind {
	case KindGrid, "":
		return GridConfig{Min: min, Max: max, Cells: n}, nil
	case KindFree:
		return FreeConfig{Min: min, Max: max, Count: n}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, kind)
}

// EffectiveDecoys returns how many decoys a set with the given minimum can
// hold. Decoys are only placed when min > 10.
func EffectiveDecoys(min, requested int) int {
	if min <= 10 || requested <= 0 {
		return 0
	}
	if requested > 2*decoySpread {
		return 2 * decoySpread
	}
	return requested
}

// Validate checks cfg before any generation. decoys is the requested decoy count.
func Validate(cfg Config, decoys int) error {
	if cfg == nil {
		return ErrUnknownLayout
	}
	min, max := cfg.Range()
	if min >= max {
		return fmt.Errorf("%w: min=%d max=%d", ErrInvalidRange, min, max)
	}
	if min < -ValueLimit || max > ValueLimit {
		return fmt.Errorf("%w: values must lie within [%d, %d]", ErrInvalidRange, -ValueLimit, ValueLimit)
	}
	total := cfg.Total()
	if total < 1 || total > MaxCells {
		return fmt.Errorf("%w: %d (want 1..%d)", ErrNoCells, total, MaxCells)
	}
	mains := total - EffectiveDecoys(min, decoys)
	if mains < 1 {
		return fmt.Errorf("%w: %d cells leave no room after %d decoys", ErrNoCells, total, decoys)
	}
	if max-min+1 < mains {
		return fmt.Errorf("%w: [%d, %d] holds %d values, need %d", ErrRangeTooSmall, min, max, max-min+1, mains)
	}
	return nil
}
