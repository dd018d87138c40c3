package round

import (
	"time"

	"go.uber.org/zap"
)

type effectKind int

const (
	effectRegenerate effectKind = iota + 1
	effectReshuffle
)

func (k effectKind) String() string {
	if k == effectRegenerate {
		return "regenerate"
	}
	return "reshuffle"
}

// deferredEffect is a board change scheduled after a correct find. It is
// keyed by the board generation it was scheduled against and does nothing
// once that generation has passed.
type deferredEffect struct {
	kind       effectKind
	generation uint64
	remaining  time.Duration
	due        time.Time
	timer      Timer
	seq        uint64
}

func (r *Round) scheduleEffectLocked(kind effectKind, delay time.Duration) {
	e := &deferredEffect{kind: kind, generation: r.generation, remaining: delay}
	r.effect = e
	r.armEffectLocked(e)
}

func (r *Round) armEffectLocked(e *deferredEffect) {
	e.seq++
	seq := e.seq
	e.due = r.clock.Now().Add(e.remaining)
	e.timer = r.clock.AfterFunc(e.remaining, func() { r.onEffect(e, seq) })
}

// suspendEffectLocked stops the effect timer and keeps the delay left.
func (r *Round) suspendEffectLocked() {
	e := r.effect
	if e == nil || e.timer == nil {
		return
	}
	e.timer.Stop()
	e.timer = nil
	e.seq++
	e.remaining = e.due.Sub(r.clock.Now())
	if e.remaining < 0 {
		e.remaining = 0
	}
}

func (r *Round) cancelEffectLocked() {
	e := r.effect
	if e == nil {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.seq++
	r.effect = nil
}

func (r *Round) onEffect(e *deferredEffect, seq uint64) {
	r.mu.Lock()
	if r.effect != e || e.seq != seq || e.generation != r.generation ||
		r.paused || r.closed || r.state.Status.Terminal() {
		r.mu.Unlock()
		return
	}
	r.effect = nil

	var o outbox
	switch e.kind {
	case effectRegenerate:
		set, err := r.gen.Generate(r.cfg.Layout)
		if err != nil {
			// the layout was validated in New, so this is unreachable in practice
			r.logger.Error("regenerate failed", zap.String("round_id", r.id), zap.Error(err))
			break
		}
		r.replaceSetLocked(set)
		o.sounds = append(o.sounds, SoundRegenerate)
	case effectReshuffle:
		r.reshuffleLocked()
		o.sounds = append(o.sounds, SoundReshuffle)
	}
	snap := r.snapshotLocked()
	o.snapshot = &snap
	r.mu.Unlock()

	r.dispatch(o)
}
