// Package round runs a single play session: the countdown or lives, click
// resolution, deferred board effects and the final rating.
package round

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/difficulty"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/numberset"
	"go.uber.org/zap"
)

const (
	TickInterval    = time.Second
	DefaultDebounce = 100 * time.Millisecond
	RegenerateDelay = 500 * time.Millisecond
	ReshuffleDelay  = 400 * time.Millisecond

	warningSeconds = 5
	recordTimeout  = 5 * time.Second
)

// Deps are the collaborators of a round. Source is required; everything else
// has a no-op default.
type Deps struct {
	ID         string
	Clock      Clock
	Source     numberset.Source
	Audio      AudioSink
	Translator Translator
	Recorder   Recorder
	Listener   Listener
	Logger     *zap.Logger
	Seed       SeedRef
	// Debounce is the click latch window. Zero means DefaultDebounce.
	Debounce time.Duration
}

// Round is one play session. All methods are safe for concurrent use.
type Round struct {
	mu sync.Mutex

	id     string
	cfg    Config
	policy difficulty.Policy
	gen    *numberset.Generator
	set    numberset.Set
	found  *numberset.FoundSet
	goal   int
	state  State

	started bool
	paused  bool
	closed  bool

	// generation advances whenever the board is replaced and on teardown.
	generation uint64
	tick       Timer
	tickSeq    uint64
	effect     *deferredEffect
	latchUntil time.Time

	result   *Result
	recorded bool
	done     chan struct{}
	doneSet  bool

	clock      Clock
	audio      AudioSink
	translator Translator
	recorder   Recorder
	listener   Listener
	logger     *zap.Logger
	debounce   time.Duration
	seed       SeedRef
}

// outbox collects notifications made under the lock and delivered after it
// is released.
type outbox struct {
	sounds   []Sound
	record   *Record
	snapshot *Snapshot
}

// New validates cfg and generates the opening board. The round does not tick
// until Start is called.
func New(cfg Config, deps Deps) (*Round, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Source == nil {
		return nil, ErrNoSource
	}

	policy := difficulty.For(cfg.Difficulty)
	gen := numberset.NewGenerator(deps.Source, policy.DecoyCount, policy.FreeJitter)
	set, err := gen.Generate(cfg.Layout)
	if err != nil {
		return nil, fmt.Errorf("generate opening set: %w", err)
	}

	r := &Round{
		id:         deps.ID,
		cfg:        cfg,
		policy:     policy,
		gen:        gen,
		set:        set,
		found:      numberset.NewFoundSet(),
		goal:       set.Mains(),
		state:      newState(cfg),
		done:       make(chan struct{}),
		clock:      deps.Clock,
		audio:      deps.Audio,
		translator: deps.Translator,
		recorder:   deps.Recorder,
		listener:   deps.Listener,
		logger:     deps.Logger,
		debounce:   deps.Debounce,
		seed:       deps.Seed,
	}
	if r.clock == nil {
		r.clock = RealClock()
	}
	if r.audio == nil {
		r.audio = nopAudio{}
	}
	if r.translator == nil {
		r.translator = keyTranslator{}
	}
	if r.recorder == nil {
		r.recorder = nopRecorder{}
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.debounce <= 0 {
		r.debounce = DefaultDebounce
	}
	return r, nil
}

// ID returns the identifier given in Deps.
func (r *Round) ID() string { return r.id }

// Config returns the effective configuration.
func (r *Round) Config() Config { return r.cfg }

// Policy returns the difficulty policy in force.
func (r *Round) Policy() difficulty.Policy { return r.policy }

// Seed returns the seed identity of the opening set.
func (r *Round) Seed() SeedRef { return r.seed }

// Start arms the countdown. Calling it twice is a no-op.
func (r *Round) Start() {
	r.mu.Lock()
	if r.started || r.closed || r.state.Status.Terminal() {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.armTickLocked()
	snap := r.snapshotLocked()
	r.mu.Unlock()

	r.logger.Debug("round started",
		zap.String("round_id", r.id),
		zap.String("mode", string(r.cfg.Mode)),
		zap.Stringer("difficulty", r.cfg.Difficulty),
		zap.Int("cells", len(snap.Cells)),
	)
	r.dispatch(outbox{snapshot: &snap})
}

// Pause stops the countdown and any pending board effect. It reports whether
// the round was paused by this call.
func (r *Round) Pause() bool {
	r.mu.Lock()
	if !r.started || r.paused || r.closed || r.state.Status.Terminal() {
		r.mu.Unlock()
		return false
	}
	r.paused = true
	r.stopTickLocked()
	r.suspendEffectLocked()
	snap := r.snapshotLocked()
	r.mu.Unlock()

	r.dispatch(outbox{snapshot: &snap})
	return true
}

// Resume restarts the countdown and reschedules a suspended board effect with
// the delay it had left.
func (r *Round) Resume() bool {
	r.mu.Lock()
	if !r.paused || r.closed || r.state.Status.Terminal() {
		r.mu.Unlock()
		return false
	}
	r.paused = false
	r.armTickLocked()
	if r.effect != nil {
		r.armEffectLocked(r.effect)
	}
	snap := r.snapshotLocked()
	r.mu.Unlock()

	r.dispatch(outbox{snapshot: &snap})
	return true
}

// Close tears the round down. Every timer is stopped and any pending effect
// becomes a no-op. A round closed before a terminal transition records nothing.
func (r *Round) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.stopTickLocked()
	r.cancelEffectLocked()
	r.generation++
	r.closeDoneLocked()
}

// Snapshot returns the current view.
func (r *Round) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// State returns the current round state.
func (r *Round) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Result returns the summary once the round has ended.
func (r *Round) Result() (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.result == nil {
		return Result{}, false
	}
	return *r.result, true
}

// Done is closed on the terminal transition or on Close.
func (r *Round) Done() <-chan struct{} { return r.done }

func (r *Round) closeDoneLocked() {
	if !r.doneSet {
		r.doneSet = true
		close(r.done)
	}
}

func (r *Round) armTickLocked() {
	seq := r.tickSeq
	r.tick = r.clock.AfterFunc(TickInterval, func() { r.onTick(seq) })
}

func (r *Round) stopTickLocked() {
	r.tickSeq++
	if r.tick != nil {
		r.tick.Stop()
		r.tick = nil
	}
}

func (r *Round) onTick(seq uint64) {
	r.mu.Lock()
	if seq != r.tickSeq || r.paused || r.closed || r.state.Status.Terminal() {
		r.mu.Unlock()
		return
	}

	var o outbox
	r.state = reduceTick(r.state, r.cfg.Mode)
	if !r.cfg.Mode.IsZen() && r.state.TimeLeft > 0 && r.state.TimeLeft <= warningSeconds {
		o.sounds = append(o.sounds, SoundWarning)
	}
	if r.state.Status == StatusTimeout {
		r.finishLocked(StatusTimeout, &o)
	} else {
		r.armTickLocked()
	}
	snap := r.snapshotLocked()
	o.snapshot = &snap
	r.mu.Unlock()

	r.dispatch(o)
}

// replaceSetLocked installs a new board and invalidates every index-based
// reference to the old one.
func (r *Round) replaceSetLocked(set numberset.Set) {
	r.set = set
	r.found.Reset()
	r.generation++
}

// reshuffleLocked moves the cells to new positions. Values survive a
// reshuffle, so cells already found are marked again at their new indices
// and the target keeps advancing.
func (r *Round) reshuffleLocked() {
	foundValues := make(map[int]struct{}, r.found.Len())
	for _, i := range r.found.Indices() {
		foundValues[r.set.Cells[i].Value] = struct{}{}
	}
	r.replaceSetLocked(r.gen.Reshuffle(r.set))
	for i, c := range r.set.Cells {
		if _, ok := foundValues[c.Value]; ok {
			r.found.Add(i)
		}
	}
}

// finishLocked performs the terminal transition.
func (r *Round) finishLocked(status Status, o *outbox) {
	r.state.Status = status
	r.stopTickLocked()
	r.cancelEffectLocked()
	r.generation++

	res := Result{
		Score:        r.state.Score,
		Outcome:      status,
		NumbersFound: r.state.NumbersFound,
		Completed:    status == StatusComplete,
		Title:        r.translator.Get("result." + string(status)),
	}
	if r.cfg.Mode.IsZen() {
		res.UsedTime = r.state.Elapsed
	} else {
		res.UsedTime = r.cfg.TotalTime - r.state.TimeLeft
		res.TimeRemaining = r.state.TimeLeft
	}
	res.Stars = Stars(RatingInput{
		Mode:         r.cfg.Mode,
		Outcome:      status,
		Policy:       r.policy,
		NumbersFound: r.state.NumbersFound,
		Goal:         r.goal,
		TimeLeft:     r.state.TimeLeft,
		TotalTime:    r.cfg.TotalTime,
	})
	r.result = &res
	r.closeDoneLocked()

	switch status {
	case StatusComplete:
		o.sounds = append(o.sounds, SoundComplete)
	case StatusTimeout:
		o.sounds = append(o.sounds, SoundTimeout)
	case StatusLifeOut:
		o.sounds = append(o.sounds, SoundLifeOut)
	}

	if !r.recorded {
		r.recorded = true
		o.record = &Record{
			RoundID:    r.id,
			Mode:       r.cfg.Mode,
			Difficulty: r.cfg.Difficulty,
			Level:      r.cfg.Level,
			Seed:       r.seed,
			Result:     res,
		}
	}

	r.logger.Info("round finished",
		zap.String("round_id", r.id),
		zap.String("outcome", string(status)),
		zap.Int("score", res.Score),
		zap.Int("stars", res.Stars),
		zap.Int("numbers_found", res.NumbersFound),
	)
}

func (r *Round) dispatch(o outbox) {
	for _, s := range o.sounds {
		r.audio.Play(s)
	}
	if o.record != nil {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		if err := r.recorder.Record(ctx, *o.record); err != nil {
			r.logger.Warn("failed to record round", zap.String("round_id", r.id), zap.Error(err))
		}
		cancel()
	}
	if o.snapshot != nil && r.listener != nil {
		r.listener(*o.snapshot)
	}
}
