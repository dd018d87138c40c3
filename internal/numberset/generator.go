package numberset

import (
	"math"

	"github.com/zyedidia/generic/mapset"
)

// Source supplies the randomness for generation. engine.Stream satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}

const (
	decoySpread  = 10
	decoyJitter  = 0.40
	edgeMargin   = 5.0
	edgeMaxPct   = 95.0
	playAreaSize = 100.0
)

// Generator builds and reshuffles number sets.
type Generator struct {
	src    Source
	decoys int
	jitter float64
}

// NewGenerator returns a generator drawing from src. decoys is the requested
// decoy count and jitter the free-layout jitter fraction of a bucket.
func NewGenerator(src Source, decoys int, jitter float64) *Generator {
	return &Generator{src: src, decoys: decoys, jitter: jitter}
}

// Generate draws a fresh set for cfg. It validates cfg first and never loops
// on an unsatisfiable range.
func (g *Generator) Generate(cfg Config) (Set, error) {
	if err := Validate(cfg, g.decoys); err != nil {
		return Set{}, err
	}

	lo, hi := cfg.Range()
	total := cfg.Total()
	decoys := EffectiveDecoys(lo, g.decoys)

	seen := mapset.New[int]()
	cells := make([]Cell, 0, total)

	for len(cells) < total-decoys {
		v := lo + g.src.Intn(hi-lo+1)
		if seen.Has(v) {
			continue
		}
		seen.Put(v)
		cells = append(cells, Cell{Value: v})
	}

	for placed := 0; placed < decoys; {
		var v int
		if g.src.Float64() < 0.5 {
			v = lo - decoySpread + g.src.Intn(decoySpread)
		} else {
			v = hi + 1 + g.src.Intn(decoySpread)
		}
		if seen.Has(v) {
			continue
		}
		seen.Put(v)
		cells = append(cells, Cell{Value: v, Decoy: true})
		placed++
	}

	g.shuffle(cells)

	set := Set{Kind: cfg.Kind(), Cells: cells}
	g.layout(&set)
	return set, nil
}

// Reshuffle re-derives positions for set while keeping every value. Cell
// indices no longer refer to the same values afterwards, so the caller must
// rebuild its FoundSet by value.
func (g *Generator) Reshuffle(set Set) Set {
	out := set.Clone()
	g.shuffle(out.Cells)
	g.layout(&out)
	return out
}

// shuffle is an in-place Fisher-Yates permutation.
func (g *Generator) shuffle(cells []Cell) {
	for i := len(cells) - 1; i > 0; i-- {
		j := g.src.Intn(i + 1)
		cells[i], cells[j] = cells[j], cells[i]
	}
}

func (g *Generator) layout(set *Set) {
	n := len(set.Cells)
	set.Columns = Columns(n)

	if set.Kind != KindFree {
		for i := range set.Cells {
			set.Cells[i].Pos = Position{Slot: i}
		}
		return
	}

	k := set.Columns
	buckets := make([]int, k*k)
	for i := range buckets {
		buckets[i] = i
	}
	// partial Fisher-Yates: the first n entries become the chosen buckets
	for i := 0; i < n; i++ {
		j := i + g.src.Intn(len(buckets)-i)
		buckets[i], buckets[j] = buckets[j], buckets[i]
	}

	size := playAreaSize / float64(k)
	for i := range set.Cells {
		row, col := buckets[i]/k, buckets[i]%k
		frac := g.jitter
		if set.Cells[i].Decoy {
			frac = decoyJitter
		}
		x := (float64(col)+0.5)*size + (g.src.Float64()*2-1)*frac*size
		y := (float64(row)+0.5)*size + (g.src.Float64()*2-1)*frac*size
		set.Cells[i].Pos = Position{Slot: buckets[i], X: clampPct(x), Y: clampPct(y)}
	}
}

// Columns returns ceil(sqrt(n)), the grid width and the free-layout bucket
// count per axis.
func Columns(n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Ceil(math.Sqrt(float64(n))))
}

func clampPct(v float64) float64 {
	return math.Max(edgeMargin, math.Min(edgeMaxPct, v))
}
