package session

import (
	"fmt"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/difficulty"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/engine"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/numberset"
)

// Replay rebuilds the opening set a round started with. The result matches
// the board of any round created with the same seeds, nonce, tier and layout.
func Replay(seeds engine.Seeds, nonce uint64, level difficulty.Level, layout numberset.Config) (numberset.Set, error) {
	if seeds.Server == "" {
		return numberset.Set{}, fmt.Errorf("replay: server seed is required")
	}
	p := difficulty.For(level)
	gen := numberset.NewGenerator(engine.NewStream(seeds, nonce), p.DecoyCount, p.FreeJitter)
	set, err := gen.Generate(layout)
	if err != nil {
		return numberset.Set{}, fmt.Errorf("replay: %w", err)
	}
	return set, nil
}
