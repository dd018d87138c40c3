package round

import (
	"testing"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/difficulty"
)

func TestStars(t *testing.T) {
	easy := difficulty.For(difficulty.Easy)
	normal := difficulty.For(difficulty.Normal)
	hard := difficulty.For(difficulty.Hard)

	tests := []struct {
		name string
		in   RatingInput
		want int
	}{
		{"complete instantly", RatingInput{Outcome: StatusComplete, Policy: easy, TimeLeft: 60, TotalTime: 60}, 3},
		// 70 + 0.3*50 = 85
		{"complete half time easy", RatingInput{Outcome: StatusComplete, Policy: easy, TimeLeft: 30, TotalTime: 60}, 2},
		{"complete half time normal", RatingInput{Outcome: StatusComplete, Policy: normal, TimeLeft: 30, TotalTime: 60}, 3},
		{"complete last second", RatingInput{Outcome: StatusComplete, Policy: hard, TimeLeft: 0, TotalTime: 60}, 1},
		{"timeout all found", RatingInput{Outcome: StatusTimeout, Policy: easy, NumbersFound: 25, Goal: 25}, 3},
		{"timeout 90 percent", RatingInput{Outcome: StatusTimeout, Policy: easy, NumbersFound: 9, Goal: 10}, 2},
		{"timeout 60 percent", RatingInput{Outcome: StatusTimeout, Policy: easy, NumbersFound: 6, Goal: 10}, 1},
		{"timeout below cut", RatingInput{Outcome: StatusTimeout, Policy: easy, NumbersFound: 5, Goal: 10}, 0},
		{"timeout hard 40 percent", RatingInput{Outcome: StatusTimeout, Policy: hard, NumbersFound: 4, Goal: 10}, 1},
		{"timeout empty goal", RatingInput{Outcome: StatusTimeout, Policy: easy}, 0},
		{"lifeout", RatingInput{Outcome: StatusLifeOut, Policy: easy, NumbersFound: 10, Goal: 10}, 0},
		{"zen", RatingInput{Mode: difficulty.Zen, Outcome: StatusComplete, Policy: easy, TimeLeft: 60, TotalTime: 60}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stars(tt.in); got != tt.want {
				t.Errorf("Stars() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStarsNeverExceedThree(t *testing.T) {
	for _, level := range difficulty.Levels() {
		p := difficulty.For(level)
		for left := 0; left <= 120; left++ {
			got := Stars(RatingInput{Outcome: StatusComplete, Policy: p, TimeLeft: left, TotalTime: 120})
			if got < 1 || got > 3 {
				t.Fatalf("%s: complete with %ds left gave %d stars", level, left, got)
			}
		}
		for found := 0; found <= 20; found++ {
			got := Stars(RatingInput{Outcome: StatusTimeout, Policy: p, NumbersFound: found, Goal: 20})
			if got < 0 || got > 3 {
				t.Fatalf("%s: timeout with %d found gave %d stars", level, found, got)
			}
			if found < 20 && got > 2 {
				t.Fatalf("%s: partial timeout earned %d stars", level, got)
			}
		}
	}
}
