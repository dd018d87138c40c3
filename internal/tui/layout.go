package tui

import (
	"strconv"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/numberset"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/round"
)

// Rect is a screen rectangle in character cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Box is where one board cell is drawn.
type Box struct {
	Index int
	Rect  Rect
}

const (
	hudRows    = 2
	footerRows = 1
	minBoxW    = 4
)

// BoardArea is the part of a w x h screen left for the board.
func BoardArea(w, h int) Rect {
	area := Rect{X: 0, Y: hudRows, W: w, H: h - hudRows - footerRows}
	if area.W < 0 {
		area.W = 0
	}
	if area.H < 0 {
		area.H = 0
	}
	return area
}

// Layout places every cell of snap inside area. Grid cells fill equal slots
// row by row; free cells are centred on their percentage position.
func Layout(snap round.Snapshot, area Rect) []Box {
	if len(snap.Cells) == 0 || area.W <= 0 || area.H <= 0 {
		return nil
	}
	if snap.Layout == numberset.KindFree {
		return freeLayout(snap.Cells, area)
	}
	return gridLayout(snap.Cells, snap.Columns, area)
}

func gridLayout(cells []round.CellView, cols int, area Rect) []Box {
	if cols <= 0 {
		cols = numberset.Columns(len(cells))
	}
	rows := (len(cells) + cols - 1) / cols
	slotW := area.W / cols
	slotH := area.H / rows
	if slotW < 1 || slotH < 1 {
		return nil
	}

	boxes := make([]Box, len(cells))
	for i, c := range cells {
		row, col := c.Slot/cols, c.Slot%cols
		r := Rect{
			X: area.X + col*slotW,
			Y: area.Y + row*slotH,
			W: slotW,
			H: slotH,
		}
		// one column of gap between neighbours
		if r.W > minBoxW {
			r.W--
		}
		boxes[i] = Box{Index: c.Index, Rect: r}
	}
	return boxes
}

func freeLayout(cells []round.CellView, area Rect) []Box {
	boxes := make([]Box, len(cells))
	for i, c := range cells {
		w := len(Label(c.Value)) + 2
		if w < minBoxW {
			w = minBoxW
		}
		cx := area.X + int(c.X/100*float64(area.W))
		cy := area.Y + int(c.Y/100*float64(area.H))
		r := Rect{X: cx - w/2, Y: cy, W: w, H: 1}
		boxes[i] = Box{Index: c.Index, Rect: clamp(r, area)}
	}
	return boxes
}

func clamp(r, area Rect) Rect {
	if r.X < area.X {
		r.X = area.X
	}
	if r.X+r.W > area.X+area.W {
		r.X = area.X + area.W - r.W
	}
	if r.Y < area.Y {
		r.Y = area.Y
	}
	if r.Y >= area.Y+area.H {
		r.Y = area.Y + area.H - 1
	}
	return r
}

// HitTest returns the cell index under (x, y). Boxes drawn later sit on
// top, so they are checked first.
func HitTest(boxes []Box, x, y int) (int, bool) {
	for i := len(boxes) - 1; i >= 0; i-- {
		if boxes[i].Rect.Contains(x, y) {
			return boxes[i].Index, true
		}
	}
	return -1, false
}

// Label is the text drawn for a value.
func Label(v int) string {
	return strconv.Itoa(v)
}

// Stars renders a star rating out of three.
func Stars(n int) string {
	out := make([]rune, 3)
	for i := range out {
		if i < n {
			out[i] = '★'
		} else {
			out[i] = '☆'
		}
	}
	return string(out)
}
