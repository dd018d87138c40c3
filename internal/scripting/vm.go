// Package scripting runs JavaScript bots against a round. A bot script
// defines pick(state) and returns the index of the cell to click.
package scripting

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dop251/goja"
)

const (
	DefaultInitTimeout = 2 * time.Second
	DefaultCallTimeout = time.Second

	maxLogs = 500
)

// ErrNoPick is returned when a script does not define pick().
var ErrNoPick = errors.New("script must define a pick(state) function")

// LogEntry is one line written by the script through log or console.log.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// VM wraps one goja runtime. Calls are serialised; goja runtimes are not
// safe for concurrent use.
type VM struct {
	mu sync.Mutex
	rt *goja.Runtime

	initTimeout time.Duration
	callTimeout time.Duration

	logMu sync.Mutex
	logs  []LogEntry

	stopped atomic.Bool
}

// NewVM creates a runtime with log, console.log and stop installed and the
// module and eval entry points removed. Zero timeouts select the defaults.
func NewVM(initTimeout, callTimeout time.Duration) *VM {
	vm := &VM{
		rt:          goja.New(),
		initTimeout: orDefault(initTimeout, DefaultInitTimeout),
		callTimeout: orDefault(callTimeout, DefaultCallTimeout),
	}

	logFn := vm.rt.ToValue(func(call goja.FunctionCall) goja.Value {
		words := make([]string, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			words = append(words, arg.String())
		}
		vm.record(strings.Join(words, " "))
		return goja.Undefined()
	})
	console := vm.rt.NewObject()
	_ = console.Set("log", logFn)

	globals := map[string]interface{}{
		"log":     logFn,
		"console": console,
		// ends the autoplay loop after the current pick
		"stop": func() { vm.stopped.Store(true) },
	}
	for name, v := range globals {
		_ = vm.rt.Set(name, v)
	}
	for _, name := range []string{"require", "fetch", "eval", "Function"} {
		_ = vm.rt.Set(name, goja.Undefined())
	}
	return vm
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

func (vm *VM) record(msg string) {
	vm.logMu.Lock()
	defer vm.logMu.Unlock()
	if len(vm.logs) == maxLogs {
		copy(vm.logs, vm.logs[1:])
		vm.logs = vm.logs[:maxLogs-1]
	}
	vm.logs = append(vm.logs, LogEntry{Time: time.Now(), Message: msg})
}

// Execute runs the script source once so it can define pick().
func (vm *VM) Execute(source string) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	return vm.guarded(vm.initTimeout, func() error {
		if _, err := vm.rt.RunString(source); err != nil {
			return fmt.Errorf("script execution error: %w", err)
		}
		return nil
	})
}

// HasPick reports whether the script defined a pick function.
func (vm *VM) HasPick() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	_, ok := goja.AssertFunction(vm.rt.Get("pick"))
	return ok
}

// CallPick calls pick(state). A missing, null or negative result means the
// bot passes; ok is false then.
func (vm *VM) CallPick(state State) (index int, ok bool, err error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	pick, isFn := goja.AssertFunction(vm.rt.Get("pick"))
	if !isFn {
		return 0, false, ErrNoPick
	}

	var result goja.Value
	err = vm.guarded(vm.callTimeout, func() error {
		v, callErr := pick(goja.Undefined(), vm.rt.ToValue(state.object()))
		if callErr != nil {
			return fmt.Errorf("pick() error: %w", callErr)
		}
		result = v
		return nil
	})
	if err != nil || result == nil || goja.IsUndefined(result) || goja.IsNull(result) {
		return 0, false, err
	}
	if n := result.ToInteger(); n >= 0 {
		return int(n), true, nil
	}
	return 0, false, nil
}

// StopRequested reports whether the script called stop().
func (vm *VM) StopRequested() bool {
	return vm.stopped.Load()
}

// Logs returns a copy of the log buffer.
func (vm *VM) Logs() []LogEntry {
	vm.logMu.Lock()
	defer vm.logMu.Unlock()
	return append([]LogEntry(nil), vm.logs...)
}

// guarded runs fn on the caller's goroutine and interrupts the runtime once
// timeout passes. Callers hold vm.mu.
func (vm *VM) guarded(timeout time.Duration, fn func() error) error {
	fired := make(chan struct{})
	timer := time.AfterFunc(timeout, func() {
		vm.rt.Interrupt("timeout")
		close(fired)
	})
	err := fn()
	if !timer.Stop() {
		// the interrupt may land after fn returned; clear it only once it has
		<-fired
		vm.rt.ClearInterrupt()
	}

	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return fmt.Errorf("script timed out after %s", timeout)
	}
	return err
}
