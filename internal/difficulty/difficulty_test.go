package difficulty

import (
	"testing"
)

func TestPolicyTable(t *testing.T) {
	tests := []struct {
		level          Level
		score, penalty string
		decoys         int
		hideAfter      int
		wrongAfter     int
		regenerate     bool
		correctEveryN  int
	}{
		{Easy, "1", "0.5", 0, 0, 0, false, 0},
		{Normal, "1.5", "1", 0, 3, 2, false, 3},
		{Hard, "2", "1.5", 3, 1, 1, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			p := For(tt.level)
			if p.ScoreMultiplier.String() != tt.score {
				t.Errorf("Expected score multiplier %s, got %s", tt.score, p.ScoreMultiplier)
			}
			if p.PenaltyMultiplier.String() != tt.penalty {
				t.Errorf("Expected penalty multiplier %s, got %s", tt.penalty, p.PenaltyMultiplier)
			}
			if p.DecoyCount != tt.decoys {
				t.Errorf("Expected %d decoys, got %d", tt.decoys, p.DecoyCount)
			}
			if p.Visibility.HideAfter != tt.hideAfter {
				t.Errorf("Expected hide after %d, got %d", tt.hideAfter, p.Visibility.HideAfter)
			}
			if p.ReshuffleOnWrongAfter != tt.wrongAfter {
				t.Errorf("Expected reshuffle on wrong after %d, got %d", tt.wrongAfter, p.ReshuffleOnWrongAfter)
			}
			if p.RegenerateOnCorrect != tt.regenerate {
				t.Errorf("Expected regenerate %v, got %v", tt.regenerate, p.RegenerateOnCorrect)
			}
			if p.ReshuffleOnCorrectEveryN != tt.correctEveryN {
				t.Errorf("Expected reshuffle every %d, got %d", tt.correctEveryN, p.ReshuffleOnCorrectEveryN)
			}
		})
	}
}

func TestUnknownLevelFallsBackToNormal(t *testing.T) {
	p := For(Level(42))
	if p.Level != Normal {
		t.Errorf("Expected Normal fallback, got %v", p.Level)
	}

	l, ok := Parse("nightmare")
	if ok || l != Normal {
		t.Errorf("Expected (Normal, false), got (%v, %v)", l, ok)
	}
}

func TestTargetVisibility(t *testing.T) {
	tests := []struct {
		level Level
		found int
		want  bool
	}{
		{Easy, 0, true},
		{Easy, 50, true},
		{Normal, 2, true},
		{Normal, 3, false},
		{Hard, 0, true},
		{Hard, 1, false},
	}

	for _, tt := range tests {
		if got := For(tt.level).TargetVisible(tt.found); got != tt.want {
			t.Errorf("%v with %d found: expected visible=%v, got %v", tt.level, tt.found, tt.want, got)
		}
	}
}

func TestForReturnsIndependentCopies(t *testing.T) {
	p := For(Easy)
	p.CompleteStars[0] = 1

	if For(Easy).CompleteStars[0] != 90 {
		t.Error("Expected policy table to be unaffected by caller mutation")
	}
}

func TestParseMode(t *testing.T) {
	if m, ok := ParseMode("ZEN"); !ok || m != Zen {
		t.Errorf("Expected Zen, got %v %v", m, ok)
	}
	if m, ok := ParseMode(""); !ok || m != Classic {
		t.Errorf("Expected Classic default, got %v %v", m, ok)
	}
	if _, ok := ParseMode("arcade"); ok {
		t.Error("Expected unknown mode to be rejected")
	}
}
