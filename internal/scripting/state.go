package scripting

import (
	"github.com/fralcy/find-smallest-number-game-sub000/internal/round"
)

// CellState is a cell as a bot sees it. Decoys are not marked.
type CellState struct {
	Index int  `json:"index"`
	Value int  `json:"value"`
	Found bool `json:"found"`
}

// State is the argument of pick(state).
type State struct {
	Mode         string      `json:"mode"`
	Difficulty   string      `json:"difficulty"`
	Cells        []CellState `json:"cells"`
	Target       *int        `json:"target"`
	TargetHidden bool        `json:"targetHidden"`
	Score        int         `json:"score"`
	TimeLeft     int         `json:"timeLeft"`
	Lives        int         `json:"lives"`
	Combo        int         `json:"combo"`
	NumbersFound int         `json:"numbersFound"`
	Clicks       int         `json:"clicks"`
}

// StateFrom builds the bot view of a snapshot.
func StateFrom(snap round.Snapshot, clicks int) State {
	cells := make([]CellState, len(snap.Cells))
	for i, c := range snap.Cells {
		cells[i] = CellState{Index: c.Index, Value: c.Value, Found: c.Found}
	}
	return State{
		Mode:         string(snap.Mode),
		Difficulty:   snap.Difficulty.String(),
		Cells:        cells,
		Target:       snap.Target,
		TargetHidden: snap.TargetHidden,
		Score:        snap.State.Score,
		TimeLeft:     snap.State.TimeLeft,
		Lives:        snap.State.Lives,
		Combo:        snap.State.Combo,
		NumbersFound: snap.State.NumbersFound,
		Clicks:       clicks,
	}
}

// object converts s to plain maps and slices so scripts get real arrays.
func (s State) object() map[string]interface{} {
	cells := make([]interface{}, len(s.Cells))
	for i, c := range s.Cells {
		cells[i] = map[string]interface{}{
			"index": c.Index,
			"value": c.Value,
			"found": c.Found,
		}
	}
	var target interface{}
	if s.Target != nil {
		target = *s.Target
	}
	return map[string]interface{}{
		"mode":         s.Mode,
		"difficulty":   s.Difficulty,
		"cells":        cells,
		"target":       target,
		"targetHidden": s.TargetHidden,
		"score":        s.Score,
		"timeLeft":     s.TimeLeft,
		"lives":        s.Lives,
		"combo":        s.Combo,
		"numbersFound": s.NumbersFound,
		"clicks":       s.Clicks,
	}
}
