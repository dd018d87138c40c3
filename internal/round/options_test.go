package round

import (
	"errors"
	"testing"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/difficulty"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/numberset"
)

func TestOptionsConfig(t *testing.T) {
	cfg, err := Options{}.Config()
	if err != nil {
		t.Fatalf("zero options: %v", err)
	}
	if cfg.Mode != difficulty.Classic || cfg.Difficulty != difficulty.Normal {
		t.Errorf("got %s/%s, want classic/normal", cfg.Mode, cfg.Difficulty)
	}
	want := numberset.GridConfig{Min: DefaultMin, Max: DefaultMax, Cells: DefaultCells}
	if cfg.Layout != want {
		t.Errorf("layout = %v, want %v", cfg.Layout, want)
	}
	if cfg.TotalTime != DefaultTime {
		t.Errorf("time = %d, want %d", cfg.TotalTime, DefaultTime)
	}

	cfg, err = Options{Mode: "zen", Difficulty: "hard", Layout: "FREE", Min: 20, Max: 80, Cells: 12}.Config()
	if err != nil {
		t.Fatalf("zen options: %v", err)
	}
	if cfg.Lives != difficulty.ZenLives {
		t.Errorf("lives = %d, want %d", cfg.Lives, difficulty.ZenLives)
	}
	if _, ok := cfg.Layout.(numberset.FreeConfig); !ok {
		t.Errorf("layout = %T, want FreeConfig", cfg.Layout)
	}
}

func TestOptionsConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"mode", Options{Mode: "arcade"}, ErrUnknownMode},
		{"difficulty", Options{Difficulty: "insane"}, ErrUnknownDifficulty},
		{"layout", Options{Layout: "hex"}, numberset.ErrUnknownLayout},
		{"range", Options{Min: 1, Max: 5, Cells: 10}, numberset.ErrRangeTooSmall},
		{"inverted", Options{Min: 9, Max: 2}, numberset.ErrInvalidRange},
		{"time", Options{Time: -5}, ErrInvalidTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.opts.Config()
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
