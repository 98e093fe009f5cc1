package bt

import (
	"time"
)

// Task is the capability behind an Action leaf.
type Task interface {
	Step(ctx *Context) Status
}

type TaskFunc func(ctx *Context) Status

func (f TaskFunc) Step(ctx *Context) Status { return f(ctx) }

// Action reports whatever its task returns.
type Action struct {
	Base
	task Task
}

func NewAction(name string, task Task) *Action {
	return &Action{Base: NewBase(name), task: task}
}

func (a *Action) Step(ctx *Context) Status {
	return a.task.Step(ctx)
}

// Predicate is the capability behind a Condition leaf.
type Predicate interface {
	Check(ctx *Context) bool
}

type PredicateFunc func(ctx *Context) bool

func (f PredicateFunc) Check(ctx *Context) bool { return f(ctx) }

// Condition succeeds when its predicate holds and fails otherwise. It is
// never Running.
type Condition struct {
	Base
	pred Predicate
}

func NewCondition(name string, pred Predicate) *Condition {
	return &Condition{Base: NewBase(name), pred: pred}
}

func (c *Condition) Step(ctx *Context) Status {
	if c.pred.Check(ctx) {
		return Success
	}
	return Fail
}

// Wait is Running from its first tick until now passes a wake time drawn
// uniformly from [Duration-Variation, Duration+Variation] after that tick.
type Wait struct {
	Base
	Duration  time.Duration
	Variation time.Duration

	wake time.Duration
}

func NewWait(name string, d, variation time.Duration) *Wait {
	return &Wait{Base: NewBase(name), Duration: d, Variation: variation}
}

func (w *Wait) Step(ctx *Context) Status {
	if w.status != Running {
		delay := w.Duration
		if w.Variation > 0 {
			delay += time.Duration((2*ctx.Float64() - 1) * float64(w.Variation))
		}
		w.wake = ctx.Now + max(0, delay)
	}
	if ctx.Now > w.wake {
		return Success
	}
	return Running
}

// Wake returns the time at which a running wait completes.
func (w *Wait) Wake() time.Duration {
	return w.wake
}
