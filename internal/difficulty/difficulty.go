// Package difficulty holds the per-tier rule tables. Everything here is a
// pure function of the tier.
package difficulty

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Level is a difficulty tier.
type Level int

const (
	Easy Level = iota
	Normal
	Hard
)

var levelNames = map[Level]string{
	Easy:   "easy",
	Normal: "normal",
	Hard:   "hard",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "normal"
}

// Levels lists every tier in ascending order.
func Levels() []Level {
	return []Level{Easy, Normal, Hard}
}

// Parse maps a tier name to a Level. Unknown names return Normal and false.
func Parse(name string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "easy":
		return Easy, true
	case "normal", "medium":
		return Normal, true
	case "hard":
		return Hard, true
	}
	return Normal, false
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode to Normal.
func (l *Level) UnmarshalText(text []byte) error {
	*l, _ = Parse(string(text))
	return nil
}

// Visibility controls when the current target is shown to the player.
type Visibility struct {
	// HideAfter is the number of finds after which the target is hidden.
	// Zero means always visible.
	HideAfter int `json:"hide_after"`
}

// Always is the visibility rule that never hides the target.
var Always = Visibility{}

// HideAfterN hides the target once n numbers have been found in the round.
func HideAfterN(n int) Visibility {
	return Visibility{HideAfter: n}
}

// Visible reports whether the target is shown after found finds.
func (v Visibility) Visible(found int) bool {
	return v.HideAfter <= 0 || found < v.HideAfter
}

// StarThresholds are the minimum percentages for each star count, highest first.
type StarThresholds []int

// Policy is the rule record for one tier.
type Policy struct {
	Level                    Level           `json:"level"`
	ScoreMultiplier          decimal.Decimal `json:"score_multiplier"`
	PenaltyMultiplier        decimal.Decimal `json:"penalty_multiplier"`
	DecoyCount               int             `json:"decoy_count"`
	Visibility               Visibility      `json:"visibility"`
	ReshuffleOnWrongAfter    int             `json:"reshuffle_on_wrong_after"`
	ResetWrongAfterReshuffle bool            `json:"reset_wrong_after_reshuffle"`
	RegenerateOnCorrect      bool            `json:"regenerate_on_correct"`
	ReshuffleOnCorrectEveryN int             `json:"reshuffle_on_correct_every_n"`
	FreeJitter               float64         `json:"free_jitter"`
	// CompleteStars holds the 3, 2 and 1 star cutoffs for a completed round.
	CompleteStars StarThresholds `json:"complete_stars"`
	// TimeoutStars holds the 2 and 1 star cutoffs for a timed out round.
	TimeoutStars StarThresholds `json:"timeout_stars"`
}

// TargetVisible applies the visibility rule.
func (p Policy) TargetVisible(numbersFound int) bool {
	return p.Visibility.Visible(numbersFound)
}

var policies = map[Level]Policy{
	Easy: {
		Level:             Easy,
		ScoreMultiplier:   decimal.NewFromInt(1),
		PenaltyMultiplier: decimal.RequireFromString("0.5"),
		Visibility:        Always,
		FreeJitter:        0.30,
		CompleteStars:     StarThresholds{90, 80, 70},
		TimeoutStars:      StarThresholds{90, 60},
	},
	Normal: {
		Level:                    Normal,
		ScoreMultiplier:          decimal.RequireFromString("1.5"),
		PenaltyMultiplier:        decimal.NewFromInt(1),
		Visibility:               HideAfterN(3),
		ReshuffleOnWrongAfter:    2,
		ResetWrongAfterReshuffle: true,
		ReshuffleOnCorrectEveryN: 3,
		FreeJitter:               0.30,
		CompleteStars:            StarThresholds{85, 77, 70},
		TimeoutStars:             StarThresholds{80, 50},
	},
	Hard: {
		Level:                 Hard,
		ScoreMultiplier:       decimal.NewFromInt(2),
		PenaltyMultiplier:     decimal.RequireFromString("1.5"),
		DecoyCount:            3,
		Visibility:            HideAfterN(1),
		ReshuffleOnWrongAfter: 1,
		RegenerateOnCorrect:   true,
		FreeJitter:            0.40,
		CompleteStars:         StarThresholds{80, 75, 70},
		TimeoutStars:          StarThresholds{70, 40},
	},
}

// For returns the policy for level. Unknown levels get the Normal policy.
func For(level Level) Policy {
	p, ok := policies[level]
	if !ok {
		p = policies[Normal]
	}
	// copy the slices so callers cannot mutate the shared table
	p.CompleteStars = append(StarThresholds(nil), p.CompleteStars...)
	p.TimeoutStars = append(StarThresholds(nil), p.TimeoutStars...)
	return p
}
