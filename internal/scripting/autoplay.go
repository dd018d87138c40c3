package scripting

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/round"
	"go.uber.org/zap"
)

// GreedyScript clicks the smallest unfound value it can see.
//
//go:embed greedy.js
var GreedyScript string

const (
	// DefaultMaxClicks bounds the picks of a run whose script never stops.
	DefaultMaxClicks = 10_000
	// pollInterval is how long the runner waits while a board effect is pending.
	pollInterval = 50 * time.Millisecond
)

// Player is the part of a round the runner drives.
type Player interface {
	Snapshot() round.Snapshot
	Click(index, value int) round.ClickResult
}

// WaitFunc blocks for d of round time.
type WaitFunc func(ctx context.Context, d time.Duration) error

// SleepWait waits on the wall clock.
func SleepWait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Options configure a Runner.
type Options struct {
	// Think is the pause after every click. It must cover the round's
	// debounce window or clicks are ignored.
	Think       time.Duration
	MaxClicks   int
	InitTimeout time.Duration
	CallTimeout time.Duration
	Wait        WaitFunc
	Logger      *zap.Logger
}

// Summary is the outcome of a run.
type Summary struct {
	Clicks  int           `json:"clicks"`
	Correct int           `json:"correct"`
	Wrong   int           `json:"wrong"`
	Ignored int           `json:"ignored"`
	Passes  int           `json:"passes"`
	Stopped bool          `json:"stopped"`
	Result  *round.Result `json:"result,omitempty"`
	Logs    []LogEntry    `json:"logs,omitempty"`
}

// Runner drives one round with a script.
type Runner struct {
	vm     *VM
	opts   Options
	logger *zap.Logger
}

// NewRunner executes source and checks that it defines pick().
func NewRunner(source string, opts Options) (*Runner, error) {
	if opts.Think <= 0 {
		opts.Think = round.DefaultDebounce
	}
	if opts.MaxClicks <= 0 {
		opts.MaxClicks = DefaultMaxClicks
	}
	if opts.Wait == nil {
		opts.Wait = SleepWait
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	vm := NewVM(opts.InitTimeout, opts.CallTimeout)
	if err := vm.Execute(source); err != nil {
		return nil, err
	}
	if !vm.HasPick() {
		return nil, ErrNoPick
	}
	return &Runner{vm: vm, opts: opts, logger: logger.Named("autoplay")}, nil
}

// Run plays until the round ends, the script stops, the click budget runs
// out or ctx is done. A script error ends the run and is returned with the
// summary so far.
func (r *Runner) Run(ctx context.Context, p Player) (sum Summary, err error) {
	defer func() { sum.Logs = r.vm.Logs() }()

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return sum, ctxErr
		}

		snap := p.Snapshot()
		if snap.Result != nil {
			res := *snap.Result
			sum.Result = &res
			return sum, nil
		}
		if snap.Paused || snap.Pending || !snap.Started {
			if err := r.opts.Wait(ctx, pollInterval); err != nil {
				return sum, err
			}
			continue
		}
		if sum.Clicks+sum.Passes >= r.opts.MaxClicks {
			sum.Stopped = true
			return sum, nil
		}

		index, ok, pickErr := r.vm.CallPick(StateFrom(snap, sum.Clicks))
		if pickErr != nil {
			return sum, pickErr
		}
		if r.vm.StopRequested() {
			sum.Stopped = true
			return sum, nil
		}
		if !ok || index >= len(snap.Cells) {
			sum.Passes++
			if err := r.opts.Wait(ctx, r.opts.Think); err != nil {
				return sum, err
			}
			continue
		}

		res := p.Click(index, snap.Cells[index].Value)
		sum.Clicks++
		switch res.Outcome {
		case round.OutcomeCorrect:
			sum.Correct++
		case round.OutcomeWrong:
			sum.Wrong++
		default:
			sum.Ignored++
		}
		r.logger.Debug("bot click",
			zap.Int("index", index),
			zap.Int("value", snap.Cells[index].Value),
			zap.String("outcome", string(res.Outcome)),
		)

		if err := r.opts.Wait(ctx, r.opts.Think); err != nil {
			return sum, err
		}
	}
}

// Play creates a runner for source and runs it against p.
func Play(ctx context.Context, source string, p Player, opts Options) (Summary, error) {
	runner, err := NewRunner(source, opts)
	if err != nil {
		return Summary{}, fmt.Errorf("load script: %w", err)
	}
	sum, err := runner.Run(ctx, p)
	if err != nil && !errors.Is(err, context.Canceled) {
		return sum, fmt.Errorf("autoplay: %w", err)
	}
	return sum, err
}
