package round

import (
	"github.com/fralcy/find-smallest-number-game-sub000/internal/difficulty"
	"github.com/shopspring/decimal"
)

var (
	completionWeight = decimal.RequireFromString("0.7")
	timeWeight       = decimal.RequireFromString("0.3")
	hundred          = decimal.NewFromInt(100)
)

// Result is the immutable summary produced at the terminal transition.
type Result struct {
	Score         int    `json:"score"`
	Stars         int    `json:"stars"`
	Outcome       Status `json:"outcome"`
	UsedTime      int    `json:"used_time"`
	TimeRemaining int    `json:"time_remaining"`
	NumbersFound  int    `json:"numbers_found"`
	Completed     bool   `json:"completed"`
	Title         string `json:"title,omitempty"`
}

// RatingInput carries what Stars needs from a finished round.
type RatingInput struct {
	Mode         difficulty.Mode
	Outcome      Status
	Policy       difficulty.Policy
	NumbersFound int
	Goal         int
	TimeLeft     int
	TotalTime    int
}

// Stars rates a finished round from 0 to 3. Zen rounds and life-outs earn none.
func Stars(in RatingInput) int {
	if in.Mode.IsZen() {
		return 0
	}

	switch in.Outcome {
	case StatusComplete:
		rate := percent(in.TimeLeft, in.TotalTime)
		perf := completionWeight.Mul(hundred).Add(timeWeight.Mul(rate))
		return starsFor(perf, in.Policy.CompleteStars, 3)

	case StatusTimeout:
		if in.Goal > 0 && in.NumbersFound >= in.Goal {
			return 3
		}
		return starsFor(percent(in.NumbersFound, in.Goal), in.Policy.TimeoutStars, 2)
	}
	return 0
}

// starsFor returns top for the first threshold met, top-1 for the next, and so on.
func starsFor(score decimal.Decimal, thresholds difficulty.StarThresholds, top int) int {
	for i, cut := range thresholds {
		if score.GreaterThanOrEqual(decimal.NewFromInt(int64(cut))) {
			return top - i
		}
	}
	return 0
}

func percent(part, whole int) decimal.Decimal {
	if whole <= 0 {
		return decimal.Zero
	}
	if part < 0 {
		part = 0
	}
	return decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(whole)))
}
