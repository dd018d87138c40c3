package round

import (
	"github.com/fralcy/find-smallest-number-game-sub000/internal/difficulty"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/numberset"
)

// CellView is a cell as the rendering layer sees it.
type CellView struct {
	Index  int     `json:"index"`
	Value  int     `json:"value"`
	Slot   int     `json:"slot"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Found  bool    `json:"found"`
	Target bool    `json:"target"`
	Decoy  bool    `json:"decoy,omitempty"`
}

// Snapshot is a consistent copy of everything the HUD and board display.
type Snapshot struct {
	ID         string           `json:"id"`
	Mode       difficulty.Mode  `json:"mode"`
	Difficulty difficulty.Level `json:"difficulty"`
	Level      int              `json:"level,omitempty"`
	Layout     numberset.Kind   `json:"layout"`
	Columns    int              `json:"columns"`
	Generation uint64           `json:"generation"`
	Cells      []CellView       `json:"cells"`
	// Target is nil when hidden by the visibility rule or when nothing is left.
	Target       *int    `json:"target"`
	TargetHidden bool    `json:"target_hidden"`
	Goal         int     `json:"goal"`
	TotalTime    int     `json:"total_time,omitempty"`
	State        State   `json:"state"`
	Started      bool    `json:"started"`
	Paused       bool    `json:"paused"`
	Pending      bool    `json:"pending"`
	Result       *Result `json:"result,omitempty"`
}

func (r *Round) snapshotLocked() Snapshot {
	target, ok := CurrentTarget(r.set.Cells, r.found)
	visible := r.policy.TargetVisible(r.state.NumbersFound)

	cells := make([]CellView, len(r.set.Cells))
	for i, c := range r.set.Cells {
		cells[i] = CellView{
			Index:  i,
			Value:  c.Value,
			Slot:   c.Pos.Slot,
			X:      c.Pos.X,
			Y:      c.Pos.Y,
			Found:  r.found.Has(i),
			Target: ok && visible && !c.Decoy && c.Value == target && !r.found.Has(i),
			Decoy:  c.Decoy,
		}
	}

	snap := Snapshot{
		ID:         r.id,
		Mode:       r.cfg.Mode,
		Difficulty: r.cfg.Difficulty,
		Level:      r.cfg.Level,
		Layout:     r.set.Kind,
		Columns:    r.set.Columns,
		Generation: r.generation,
		Cells:      cells,
		Goal:       r.goal,
		State:      r.state,
		Started:    r.started,
		Paused:     r.paused,
		Pending:    r.effect != nil,
	}
	if !r.cfg.Mode.IsZen() {
		snap.TotalTime = r.cfg.TotalTime
	}
	if ok {
		if visible {
			t := target
			snap.Target = &t
		} else {
			snap.TargetHidden = true
		}
	}
	if r.result != nil {
		res := *r.result
		snap.Result = &res
	}
	return snap
}
