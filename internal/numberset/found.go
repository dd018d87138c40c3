package numberset

import (
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// FoundSet records the indices of correctly resolved cells in the current set.
// It tracks indices rather than values since values repeat across generations.
type FoundSet struct {
	idx mapset.Set[int]
}

// NewFoundSet returns an empty set.
func NewFoundSet() *FoundSet {
	return &FoundSet{idx: mapset.New[int]()}
}

func (f *FoundSet) Add(index int) { f.idx.Put(index) }

func (f *FoundSet) Has(index int) bool { return f.idx.Has(index) }

func (f *FoundSet) Len() int { return f.idx.Size() }

// Reset empties the set. Called whenever the board is regenerated or reshuffled.
func (f *FoundSet) Reset() {
	f.idx = mapset.New[int]()
}

// Indices returns the members in ascending order.
func (f *FoundSet) Indices() []int {
	out := make([]int, 0, f.idx.Size())
	f.idx.Each(func(i int) {
		out = append(out, i)
	})
	sort.Ints(out)
	return out
}
