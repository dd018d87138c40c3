package numberset

// Position places a cell. Grid cells use Slot; free cells use X and Y as
// percentages of the play area.
type Position struct {
	Slot int     `json:"slot"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
}

// Cell is one displayed number.
type Cell struct {
	Value int      `json:"value"`
	Pos   Position `json:"pos"`
	Decoy bool     `json:"decoy,omitempty"`
}

// Set is a generated board. Cell indices are stable until the next
// regenerate or reshuffle.
type Set struct {
	Kind    Kind   `json:"kind"`
	Columns int    `json:"columns"`
	Cells   []Cell `json:"cells"`
}

// Len returns the number of cells.
func (s Set) Len() int { return len(s.Cells) }

// Mains counts the non-decoy cells.
func (s Set) Mains() int {
	n := 0
	for _, c := range s.Cells {
		if !c.Decoy {
			n++
		}
	}
	return n
}

// Values returns the cell values in index order.
func (s Set) Values() []int {
	out := make([]int, len(s.Cells))
	for i, c := range s.Cells {
		out[i] = c.Value
	}
	return out
}

// Clone returns a deep copy.
func (s Set) Clone() Set {
	out := s
	out.Cells = append([]Cell(nil), s.Cells...)
	return out
}
