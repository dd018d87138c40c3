// Package scoring computes the points awarded for a find and the points
// deducted for a miss. All functions are deterministic in their inputs.
package scoring

import (
	"github.com/fralcy/find-smallest-number-game-sub000/internal/difficulty"
	"github.com/shopspring/decimal"
)

// BasePenalty is the default deduction before multipliers.
const BasePenalty = 10

var (
	ten           = decimal.NewFromInt(10)
	one           = decimal.NewFromInt(1)
	escalateTwice = decimal.RequireFromString("1.2")
	escalateMore  = decimal.RequireFromString("1.5")
	decoyFactor   = decimal.RequireFromString("1.5")
)

// AwardCorrect returns the points for a correct find. combo is the combo count
// after this find has been counted.
func AwardCorrect(timeLeft int, p difficulty.Policy, mode difficulty.Mode, combo int) int {
	base := decimal.NewFromInt(difficulty.ZenBase)
	unit := difficulty.ZenComboUnit
	if !mode.IsZen() {
		if timeLeft < 0 {
			timeLeft = 0
		}
		base = decimal.NewFromInt(int64(timeLeft)).Div(ten).Ceil()
		unit = difficulty.ComboUnit
	}

	points := base.Mul(p.ScoreMultiplier).Ceil().IntPart()
	if combo > 0 {
		points += int64(combo/3) * int64(unit)
	}
	return int(points)
}

// ApplyPenalty returns the points to subtract for a wrong click. consecutiveWrong
// is the streak before this click.
func ApplyPenalty(base int, p difficulty.Policy, consecutiveWrong int, wasDecoy bool) int {
	consecutive := one
	switch {
	case consecutiveWrong >= 3:
		consecutive = escalateMore
	case consecutiveWrong >= 2:
		consecutive = escalateTwice
	}

	decoy := one
	if wasDecoy {
		decoy = decoyFactor
	}

	total := decimal.NewFromInt(int64(base)).
		Mul(p.PenaltyMultiplier).
		Mul(consecutive).
		Mul(decoy)
	// half rounds up; all inputs are positive
	return int(total.Add(decimal.RequireFromString("0.5")).Floor().IntPart())
}

// Deduct subtracts penalty from score without going below zero.
func Deduct(score, penalty int) int {
	if penalty >= score {
		return 0
	}
	return score - penalty
}
