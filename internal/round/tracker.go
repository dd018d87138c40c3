package round

import "github.com/fralcy/find-smallest-number-game-sub000/internal/numberset"

// CurrentTarget returns the smallest value among unfound non-decoy cells.
// It is a linear scan and is recomputed on every call.
func CurrentTarget(cells []numberset.Cell, found *numberset.FoundSet) (int, bool) {
	target, ok := 0, false
	for i, c := range cells {
		if c.Decoy || found.Has(i) {
			continue
		}
		if !ok || c.Value < target {
			target, ok = c.Value, true
		}
	}
	return target, ok
}

// RemainingMains counts unfound non-decoy cells.
func RemainingMains(cells []numberset.Cell, found *numberset.FoundSet) int {
	n := 0
	for i, c := range cells {
		if !c.Decoy && !found.Has(i) {
			n++
		}
	}
	return n
}
