package round

// Outcome classifies a click.
type Outcome string

const (
	OutcomeCorrect Outcome = "correct"
	OutcomeWrong   Outcome = "wrong"
	OutcomeIgnored Outcome = "ignored"
)

// ClickResult reports what a click did.
type ClickResult struct {
	Outcome  Outcome  `json:"outcome"`
	Points   int      `json:"points,omitempty"`
	Penalty  int      `json:"penalty,omitempty"`
	Decoy    bool     `json:"decoy,omitempty"`
	Snapshot Snapshot `json:"snapshot"`
}

// Click resolves a click on the cell at index showing value. Clicks that
// arrive while paused, while a board effect is pending, within the debounce
// window, on stale cells or on found cells are ignored without any change.
func (r *Round) Click(index, value int) ClickResult {
	r.mu.Lock()
	res, o := r.resolveLocked(index, value)
	res.Snapshot = r.snapshotLocked()
	if res.Outcome != OutcomeIgnored {
		snap := res.Snapshot
		o.snapshot = &snap
	}
	r.mu.Unlock()

	r.dispatch(o)
	return res
}

func (r *Round) acceptingLocked() bool {
	return r.started && !r.paused && !r.closed && r.effect == nil &&
		r.state.Status == StatusPlaying
}

func (r *Round) resolveLocked(index, value int) (ClickResult, outbox) {
	var o outbox
	ignored := ClickResult{Outcome: OutcomeIgnored}

	if !r.acceptingLocked() {
		return ignored, o
	}
	now := r.clock.Now()
	if now.Before(r.latchUntil) {
		return ignored, o
	}
	if index < 0 || index >= len(r.set.Cells) {
		return ignored, o
	}
	cell := r.set.Cells[index]
	if cell.Value != value || r.found.Has(index) {
		return ignored, o
	}
	r.latchUntil = now.Add(r.debounce)

	target, ok := CurrentTarget(r.set.Cells, r.found)
	if ok && !cell.Decoy && cell.Value == target {
		return r.correctLocked(index, &o), o
	}
	return r.wrongLocked(cell.Decoy, &o), o
}

func (r *Round) correctLocked(index int, o *outbox) ClickResult {
	r.found.Add(index)

	var points int
	r.state, points = reduceCorrect(r.state, r.policy, r.cfg.Mode)
	o.sounds = append(o.sounds, SoundCorrect)
	res := ClickResult{Outcome: OutcomeCorrect, Points: points}

	if !r.cfg.Mode.IsZen() &&
		(r.state.NumbersFound >= r.goal || RemainingMains(r.set.Cells, r.found) == 0) {
		r.finishLocked(StatusComplete, o)
		return res
	}

	switch {
	case r.cfg.Mode.IsZen() || r.policy.RegenerateOnCorrect:
		r.scheduleEffectLocked(effectRegenerate, RegenerateDelay)
	case r.policy.ReshuffleOnCorrectEveryN > 0 && r.state.Combo%r.policy.ReshuffleOnCorrectEveryN == 0:
		r.scheduleEffectLocked(effectReshuffle, ReshuffleDelay)
	}
	return res
}

func (r *Round) wrongLocked(decoy bool, o *outbox) ClickResult {
	var penalty int
	r.state, penalty = reduceWrong(r.state, r.policy, r.cfg.Mode, decoy)
	if decoy {
		o.sounds = append(o.sounds, SoundDecoy)
	} else {
		o.sounds = append(o.sounds, SoundWrong)
	}
	res := ClickResult{Outcome: OutcomeWrong, Penalty: penalty, Decoy: decoy}

	if r.cfg.Mode.IsZen() {
		if r.state.Status == StatusLifeOut {
			r.finishLocked(StatusLifeOut, o)
		}
		return res
	}

	after := r.policy.ReshuffleOnWrongAfter
	if after > 0 && r.state.ConsecutiveWrong >= after {
		r.reshuffleLocked()
		o.sounds = append(o.sounds, SoundReshuffle)
		if r.policy.ResetWrongAfterReshuffle {
			r.state.ConsecutiveWrong = 0
		}
	}
	return res
}
