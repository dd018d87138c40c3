package numberset

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/engine"
	"github.com/google/go-cmp/cmp"
)

func testSource(nonce uint64) Source {
	return engine.NewStream(engine.Seeds{Server: "numberset-test", Client: "client"}, nonce)
}

func TestGenerateUniqueValues(t *testing.T) {
	configs := []Config{
		GridConfig{Min: 1, Max: 25, Cells: 25},
		GridConfig{Min: 1, Max: 100, Cells: 36},
		FreeConfig{Min: 20, Max: 60, Count: 30},
		FreeConfig{Min: 50, Max: 100, Count: 12},
	}

	for nonce := uint64(0); nonce < 20; nonce++ {
		for _, cfg := range configs {
			for _, decoys := range []int{0, 3} {
				g := NewGenerator(testSource(nonce), decoys, 0.3)
				set, err := g.Generate(cfg)
				if err != nil {
					t.Fatalf("%v: unexpected error: %v", cfg, err)
				}
				if set.Len() != cfg.Total() {
					t.Errorf("%v: expected %d cells, got %d", cfg, cfg.Total(), set.Len())
				}
				seen := make(map[int]bool)
				for _, c := range set.Cells {
					if seen[c.Value] {
						t.Errorf("%v nonce %d: duplicate value %d", cfg, nonce, c.Value)
					}
					seen[c.Value] = true
				}
			}
		}
	}
}

func TestHardDecoysOutsideRange(t *testing.T) {
	cfg := GridConfig{Min: 50, Max: 100, Cells: 25}

	for nonce := uint64(0); nonce < 50; nonce++ {
		set, err := NewGenerator(testSource(nonce), 3, 0.4).Generate(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		decoys := 0
		for _, c := range set.Cells {
			if c.Decoy {
				decoys++
				if c.Value >= 50 && c.Value <= 100 {
					t.Errorf("nonce %d: decoy %d inside [50, 100]", nonce, c.Value)
				}
				if c.Value < 40 || c.Value > 110 {
					t.Errorf("nonce %d: decoy %d beyond the decoy band", nonce, c.Value)
				}
			} else if c.Value < 50 || c.Value > 100 {
				t.Errorf("nonce %d: main value %d outside [50, 100]", nonce, c.Value)
			}
		}
		if decoys != 3 {
			t.Errorf("nonce %d: expected 3 decoys, got %d", nonce, decoys)
		}
		if set.Mains() != 22 {
			t.Errorf("nonce %d: expected 22 mains, got %d", nonce, set.Mains())
		}
	}
}

func TestDecoysSkippedForSmallMinimum(t *testing.T) {
	set, err := NewGenerator(testSource(1), 3, 0.4).Generate(GridConfig{Min: 10, Max: 60, Cells: 16})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range set.Cells {
		if c.Decoy {
			t.Fatalf("expected no decoys when min <= 10, got %d", c.Value)
		}
	}
	if set.Len() != 16 {
		t.Errorf("Expected 16 cells, got %d", set.Len())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		decoys int
		want   error
	}{
		{"ok grid", GridConfig{Min: 1, Max: 25, Cells: 25}, 0, nil},
		{"inverted range", GridConfig{Min: 30, Max: 10, Cells: 5}, 0, ErrInvalidRange},
		{"equal bounds", FreeConfig{Min: 5, Max: 5, Count: 1}, 0, ErrInvalidRange},
		{"too small", GridConfig{Min: 1, Max: 20, Cells: 25}, 0, ErrRangeTooSmall},
		{"decoys free up range", GridConfig{Min: 11, Max: 32, Cells: 25}, 3, nil},
		{"decoys ignored below 11", GridConfig{Min: 10, Max: 31, Cells: 25}, 3, ErrRangeTooSmall},
		{"no cells", GridConfig{Min: 1, Max: 10, Cells: 0}, 0, ErrNoCells},
		{"too many cells", FreeConfig{Min: 1, Max: 1000, Count: MaxCells + 1}, 0, ErrNoCells},
		{"nil config", nil, 0, ErrUnknownLayout},
		{"max at limit", GridConfig{Min: ValueLimit - 30, Max: ValueLimit, Cells: 25}, 3, nil},
		{"max past limit", GridConfig{Min: math.MaxInt - 100, Max: math.MaxInt, Cells: 8}, 3, ErrInvalidRange},
		{"min past limit", FreeConfig{Min: math.MinInt, Max: math.MinInt + 100, Count: 8}, 0, ErrInvalidRange},
		{"span overflows", GridConfig{Min: math.MinInt / 2, Max: math.MaxInt / 2, Cells: 4}, 0, ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg, tt.decoys)
			if tt.want == nil {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDecoysNearValueLimit(t *testing.T) {
	cfg := GridConfig{Min: ValueLimit - 30, Max: ValueLimit, Cells: 16}
	set, err := NewGenerator(testSource(4), 3, 0.3).Generate(cfg)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	for _, c := range set.Cells {
		if !c.Decoy {
			continue
		}
		below := c.Value >= cfg.Min-decoySpread && c.Value < cfg.Min
		above := c.Value > cfg.Max && c.Value <= cfg.Max+decoySpread
		if !below && !above {
			t.Errorf("decoy %d outside its bands around [%d, %d]", c.Value, cfg.Min, cfg.Max)
		}
	}
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	_, err := NewGenerator(testSource(1), 0, 0.3).Generate(GridConfig{Min: 1, Max: 5, Cells: 9})
	if !errors.Is(err, ErrRangeTooSmall) {
		t.Fatalf("Expected ErrRangeTooSmall, got %v", err)
	}
}

func TestFreeLayoutBounds(t *testing.T) {
	for _, n := range []int{1, 7, 16, 30, 80} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			set, err := NewGenerator(testSource(uint64(n)), 0, 0.4).Generate(FreeConfig{Min: 1, Max: 200, Count: n})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			k := Columns(n)
			slots := make(map[int]bool)
			for _, c := range set.Cells {
				if c.Pos.X < 5 || c.Pos.X > 95 || c.Pos.Y < 5 || c.Pos.Y > 95 {
					t.Errorf("cell %d at (%.2f, %.2f) outside [5, 95]", c.Value, c.Pos.X, c.Pos.Y)
				}
				if c.Pos.Slot < 0 || c.Pos.Slot >= k*k {
					t.Errorf("bucket %d out of range for k=%d", c.Pos.Slot, k)
				}
				if slots[c.Pos.Slot] {
					t.Errorf("bucket %d used twice", c.Pos.Slot)
				}
				slots[c.Pos.Slot] = true
			}
		})
	}
}

func TestReshufflePreservesValues(t *testing.T) {
	for _, cfg := range []Config{
		GridConfig{Min: 1, Max: 50, Cells: 25},
		FreeConfig{Min: 1, Max: 50, Count: 20},
	} {
		g := NewGenerator(testSource(3), 0, 0.3)
		set, err := g.Generate(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		shuffled := g.Reshuffle(set)

		before, after := set.Values(), shuffled.Values()
		sort.Ints(before)
		sort.Ints(after)
		if diff := cmp.Diff(before, after); diff != "" {
			t.Errorf("%v: reshuffle changed the value multiset (-before +after):\n%s", cfg, diff)
		}
		if cfg.Kind() == KindGrid {
			for i, c := range shuffled.Cells {
				if c.Pos.Slot != i {
					t.Errorf("grid cell %d has slot %d", i, c.Pos.Slot)
				}
			}
		}
	}
}

func TestReshuffleDoesNotAliasOriginal(t *testing.T) {
	g := NewGenerator(testSource(9), 0, 0.3)
	set, err := g.Generate(GridConfig{Min: 1, Max: 30, Cells: 16})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	orig := set.Values()

	g.Reshuffle(set)

	if diff := cmp.Diff(orig, set.Values()); diff != "" {
		t.Errorf("reshuffle mutated its input (-want +got):\n%s", diff)
	}
}

func TestGenerateDeterministicForSeeds(t *testing.T) {
	cfg := GridConfig{Min: 1, Max: 99, Cells: 25}
	a, _ := NewGenerator(testSource(77), 0, 0.3).Generate(cfg)
	b, _ := NewGenerator(testSource(77), 0, 0.3).Generate(cfg)

	if diff := cmp.Diff(a.Values(), b.Values()); diff != "" {
		t.Errorf("same seeds produced different sets (-a +b):\n%s", diff)
	}
}

func TestFoundSet(t *testing.T) {
	f := NewFoundSet()
	f.Add(4)
	f.Add(1)
	f.Add(4)

	if f.Len() != 2 {
		t.Errorf("Expected 2 members, got %d", f.Len())
	}
	if !f.Has(1) || f.Has(2) {
		t.Error("Has() returned wrong membership")
	}
	if diff := cmp.Diff([]int{1, 4}, f.Indices()); diff != "" {
		t.Errorf("Indices() mismatch (-want +got):\n%s", diff)
	}

	f.Reset()
	if f.Len() != 0 {
		t.Errorf("Expected empty set after Reset, got %d", f.Len())
	}
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(KindFree, 1, 50, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cfg.(FreeConfig); !ok {
		t.Errorf("Expected FreeConfig, got %T", cfg)
	}

	if _, err := NewConfig("hex", 1, 50, 10); !errors.Is(err, ErrUnknownLayout) {
		t.Errorf("Expected ErrUnknownLayout, got %v", err)
	}
}
