package round

import (
	"github.com/fralcy/find-smallest-number-game-sub000/internal/difficulty"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/scoring"
)

// Status is the round state machine position.
type Status string

const (
	StatusPlaying  Status = "playing"
	StatusComplete Status = "complete"
	StatusTimeout  Status = "timeout"
	StatusLifeOut  Status = "lifeout"
)

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s != StatusPlaying
}

// State is the HUD-visible round aggregate. It only changes through the
// reduce functions below.
type State struct {
	Score            int    `json:"score"`
	TimeLeft         int    `json:"time_left"`
	Lives            int    `json:"lives"`
	Combo            int    `json:"combo"`
	ConsecutiveWrong int    `json:"consecutive_wrong"`
	NumbersFound     int    `json:"numbers_found"`
	Elapsed          int    `json:"elapsed"`
	Status           Status `json:"status"`
}

func newState(cfg Config) State {
	s := State{Status: StatusPlaying}
	if cfg.Mode.IsZen() {
		s.Lives = cfg.Lives
	} else {
		s.TimeLeft = cfg.TotalTime
	}
	return s
}

// reduceCorrect counts a find. The combo is incremented before scoring.
func reduceCorrect(s State, p difficulty.Policy, mode difficulty.Mode) (State, int) {
	s.Combo++
	s.ConsecutiveWrong = 0
	s.NumbersFound++
	points := scoring.AwardCorrect(s.TimeLeft, p, mode, s.Combo)
	s.Score += points
	return s, points
}

// reduceWrong counts a miss. In Classic the penalty uses the streak before
// this miss; in Zen a life is lost instead.
func reduceWrong(s State, p difficulty.Policy, mode difficulty.Mode, decoy bool) (State, int) {
	s.Combo = 0
	if mode.IsZen() {
		s.ConsecutiveWrong++
		if s.Lives > 0 {
			s.Lives--
		}
		if s.Lives == 0 {
			s.Status = StatusLifeOut
		}
		return s, 0
	}

	penalty := scoring.ApplyPenalty(scoring.BasePenalty, p, s.ConsecutiveWrong, decoy)
	s.ConsecutiveWrong++
	s.Score = scoring.Deduct(s.Score, penalty)
	return s, penalty
}

// reduceTick advances one second.
func reduceTick(s State, mode difficulty.Mode) State {
	s.Elapsed++
	if mode.IsZen() {
		return s
	}
	if s.TimeLeft > 0 {
		s.TimeLeft--
	}
	if s.TimeLeft == 0 {
		s.Status = StatusTimeout
	}
	return s
}
