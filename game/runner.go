package game

import (
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrStopped is reported for runs cancelled by Stop.
	ErrStopped = errors.New("run stopped")
	// ErrRunnerClosed is reported for commands submitted after Close.
	ErrRunnerClosed = errors.New("runner closed")
)

type commandKind uint8

const (
	cmdRun commandKind = iota
	cmdReset
	cmdInspect
)

type command struct {
	kind    commandKind
	steps   int
	epoch   int64
	inspect func(*Simulator)
	result  chan Result
}

// Result reports the outcome of a command.
type Result struct {
	Ran    int  // steps simulated by this command
	Step   int  // simulator step after the command
	Viable bool // view viability after the command
	Err    error
}

// Runner owns a simulator and applies commands to it one at a time on a
// single goroutine. Runs are cancelled cooperatively by Stop, which is
// checked between steps.
type Runner struct {
	sim       *Simulator
	longSteps int

	cmds  chan command
	epoch atomic.Int64
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewRunner starts the command loop for sim. queueSize bounds the number
// of commands waiting to be applied.
func NewRunner(sim *Simulator, queueSize int) *Runner {
	if queueSize < 1 {
		queueSize = 1
	}
	r := &Runner{
		sim:       sim,
		longSteps: sim.Config().Runner.LongRunSteps,
		cmds:      make(chan command, queueSize),
		done:      make(chan struct{}),
	}
	go r.loop()
	return r
}

// Step queues a single step.
func (r *Runner) Step() <-chan Result {
	return r.Run(1)
}

// Run queues a run of up to n steps.
func (r *Runner) Run(n int) <-chan Result {
	return r.submit(command{kind: cmdRun, steps: n})
}

// RunLong queues the configured long run.
func (r *Runner) RunLong() <-chan Result {
	return r.Run(r.longSteps)
}

// Reset queues a reset. Resets are not cancelled by Stop.
func (r *Runner) Reset() <-chan Result {
	return r.submit(command{kind: cmdReset})
}

// Inspect queues fn to be called with the simulator between commands.
func (r *Runner) Inspect(fn func(*Simulator)) <-chan Result {
	return r.submit(command{kind: cmdInspect, inspect: fn})
}

// Stop cancels the run in progress and every run queued before the call.
func (r *Runner) Stop() {
	r.epoch.Add(1)
}

// Close stops accepting commands, cancels pending runs and waits for the
// loop to exit.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.closed = true
	r.Stop()
	close(r.cmds)
	r.mu.Unlock()
	<-r.done
}

func (r *Runner) submit(cmd command) <-chan Result {
	cmd.result = make(chan Result, 1)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		cmd.result <- Result{Err: ErrRunnerClosed}
		close(cmd.result)
		return cmd.result
	}
	cmd.epoch = r.epoch.Load()
	r.cmds <- cmd
	return cmd.result
}

func (r *Runner) loop() {
	defer close(r.done)
	for cmd := range r.cmds {
		cmd.result <- r.apply(cmd)
		close(cmd.result)
	}
}

func (r *Runner) apply(cmd command) Result {
	var res Result
	switch cmd.kind {
	case cmdRun:
		stopped := func() bool { return r.epoch.Load() != cmd.epoch }
		if stopped() {
			res.Err = ErrStopped
			break
		}
		res.Ran = r.sim.simulate(cmd.steps, stopped)
		if res.Ran < cmd.steps && stopped() {
			res.Err = ErrStopped
		}
	case cmdReset:
		r.sim.Reset()
	case cmdInspect:
		cmd.inspect(r.sim)
	}
	res.Step = r.sim.Step()
	res.Viable = r.sim.IsViable()
	return res
}
