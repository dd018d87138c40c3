package difficulty

import "strings"

// Mode selects between the timed game and the endless lives-based game.
type Mode string

const (
	Classic Mode = "classic"
	Zen     Mode = "zen"
)

const (
	// ZenLives is the default number of lives in Zen mode.
	ZenLives = 3
	// ZenBase is the flat base award for a Zen find.
	ZenBase = 10
	// ComboUnit is the bonus per three consecutive finds in Classic.
	ComboUnit = 5
	// ZenComboUnit is the bonus per three consecutive finds in Zen.
	ZenComboUnit = 2
)

// ParseMode maps a mode name to a Mode. Unknown names return Classic and false.
func ParseMode(name string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(name))) {
	case Classic, "":
		return Classic, true
	case Zen, "endless":
		return Zen, true
	}
	return Classic, false
}

// IsZen reports whether m is the lives-based endless mode.
func (m Mode) IsZen() bool { return m == Zen }
