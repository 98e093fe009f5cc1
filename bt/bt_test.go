package bt

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// leaf returns a fixed status and counts its ticks.
type leaf struct {
	Base
	result Status
	ticks  int
}

func newLeaf(name string, result Status) *leaf {
	return &leaf{Base: NewBase(name), result: result}
}

func (l *leaf) Step(*Context) Status {
	l.ticks++
	return l.result
}

func testContext(now time.Duration) *Context {
	return &Context{Dt: 0.016, Now: now, Rand: rand.New(rand.NewPCG(1, 2))}
}

func TestSequence_StopsAtFailure(t *testing.T) {
	a, b, c := newLeaf("a", Success), newLeaf("b", Success), newLeaf("c", Fail)
	seq := NewSequence("seq", a, b, c)

	assert.Equal(t, Fail, Tick(seq, testContext(0)))
	assert.Equal(t, 2, seq.cursor, "the cursor stays on the failing child")

	Tick(seq, testContext(0))
	assert.Equal(t, 1, a.ticks, "finished children are not re-run before a reset")
	assert.Equal(t, 2, c.ticks)

	seq.Reset()
	assert.Equal(t, 0, seq.cursor)
	assert.Equal(t, Initial, c.Status())
}

func TestSequence_AllSucceedInOneTick(t *testing.T) {
	seq := NewSequence("seq", newLeaf("a", Success), newLeaf("b", Success), newLeaf("c", Success))
	assert.Equal(t, Success, Tick(seq, testContext(0)))
	assert.Equal(t, Success, seq.Status())
}

func TestSequence_RunningChildHoldsCursor(t *testing.T) {
	a, b := newLeaf("a", Success), newLeaf("b", Running)
	seq := NewSequence("seq", a, b)

	assert.Equal(t, Running, Tick(seq, testContext(0)))
	b.result = Success
	assert.Equal(t, Success, Tick(seq, testContext(0)))
	assert.Equal(t, 1, a.ticks)
	assert.Equal(t, 2, b.ticks)
}

func TestSelector_SkipsFailures(t *testing.T) {
	a, b, c := newLeaf("a", Fail), newLeaf("b", Success), newLeaf("c", Success)
	sel := NewSelector("sel", a, b, c)

	assert.Equal(t, Success, Tick(sel, testContext(0)))
	assert.Equal(t, Fail, a.Status())
	assert.Equal(t, 0, c.ticks)
}

func TestSelector_FailsWhenAllFail(t *testing.T) {
	sel := NewSelector("sel", newLeaf("a", Fail), newLeaf("b", Fail))
	assert.Equal(t, Fail, Tick(sel, testContext(0)))
}

func TestEmptyComposites(t *testing.T) {
	assert.Equal(t, Success, Tick(NewSequence("seq"), testContext(0)))
	assert.Equal(t, Fail, Tick(NewSelector("sel"), testContext(0)))
	assert.Equal(t, Success, Tick(NewParallel("par"), testContext(0)))
}

func TestParallel(t *testing.T) {
	t.Run("running until all succeed", func(t *testing.T) {
		a, b := newLeaf("a", Success), newLeaf("b", Running)
		par := NewParallel("par", a, b)

		assert.Equal(t, Running, Tick(par, testContext(0)))
		assert.Equal(t, Running, Tick(par, testContext(0)))
		assert.Equal(t, 1, a.ticks, "succeeded children are not ticked again")

		b.result = Success
		assert.Equal(t, Success, Tick(par, testContext(0)))
	})

	t.Run("fail short-circuits", func(t *testing.T) {
		a, b, c := newLeaf("a", Running), newLeaf("b", Fail), newLeaf("c", Running)
		par := NewParallel("par", a, b, c)

		assert.Equal(t, Fail, Tick(par, testContext(0)))
		assert.Equal(t, 0, c.ticks)
	})
}

func TestNot(t *testing.T) {
	tests := []struct {
		child Status
		want  Status
	}{
		{Success, Fail},
		{Fail, Success},
		{Running, Running},
	}
	for _, tt := range tests {
		t.Run(tt.child.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Tick(NewNot("not", newLeaf("x", tt.child)), testContext(0)))
		})
	}
}

func TestCondition(t *testing.T) {
	flag := false
	cond := NewCondition("flag", PredicateFunc(func(*Context) bool { return flag }))
	assert.Equal(t, Fail, Tick(cond, testContext(0)))
	flag = true
	assert.Equal(t, Success, Tick(cond, testContext(0)))
}

func TestAction(t *testing.T) {
	var seen *Context
	act := NewAction("act", TaskFunc(func(ctx *Context) Status {
		seen = ctx
		return Running
	}))
	ctx := testContext(time.Second)
	assert.Equal(t, Running, Tick(act, ctx))
	assert.Same(t, ctx, seen)
}

func TestWait(t *testing.T) {
	w := NewWait("wait", time.Second, 0)

	assert.Equal(t, Running, Tick(w, testContext(10*time.Second)))
	assert.Equal(t, 11*time.Second, w.Wake())
	assert.Equal(t, Running, Tick(w, testContext(11*time.Second)), "wake time must be exceeded, not reached")
	assert.Equal(t, Success, Tick(w, testContext(11*time.Second+time.Millisecond)))
}

func TestWait_Variation(t *testing.T) {
	ctx := testContext(0)
	for range 50 {
		w := NewWait("wait", time.Second, 500*time.Millisecond)
		Tick(w, ctx)
		assert.GreaterOrEqual(t, w.Wake(), 500*time.Millisecond)
		assert.LessOrEqual(t, w.Wake(), 1500*time.Millisecond)
	}

	w := NewWait("wait", 100*time.Millisecond, time.Second)
	for range 50 {
		w.Reset()
		Tick(w, ctx)
		assert.GreaterOrEqual(t, w.Wake(), time.Duration(0), "wait times never go negative")
	}
}

func TestMaintain_ResetsFinishedTree(t *testing.T) {
	failed := newLeaf("failed", Fail)
	untouched := newLeaf("untouched", Success)
	inner := NewSelector("inner", failed, newLeaf("ok", Success))
	root := NewSequence("root", inner, NewSequence("empty"), untouched)

	require.Equal(t, Success, Tick(root, testContext(0)))
	require.Equal(t, Fail, failed.Status())

	Maintain(root)

	var walk func(n Node)
	walk = func(n Node) {
		assert.Equal(t, Initial, n.Status(), n.Name())
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
	assert.Equal(t, 0, root.cursor)
	assert.Equal(t, 0, inner.cursor)
}

func TestMaintain_KeepsRunningBranch(t *testing.T) {
	done := newLeaf("done", Success)
	running := newLeaf("running", Running)
	finished := NewSequence("finished", newLeaf("x", Success))
	par := NewParallel("par", finished, running)
	root := NewSequence("root", done, par)

	require.Equal(t, Running, Tick(root, testContext(0)))
	Maintain(root)

	assert.Equal(t, Running, root.Status())
	assert.Equal(t, Initial, done.Status(), "finished siblings of the running branch are pruned")
	assert.Equal(t, Running, par.Status())
	assert.Equal(t, Initial, finished.Status(), "finished branches below a running node are pruned")
	assert.Equal(t, Running, running.Status())
	assert.Equal(t, 1, root.cursor)
}

func TestReset_TwiceIsNoop(t *testing.T) {
	root := NewSequence("root", newLeaf("a", Success), NewNot("not", newLeaf("b", Fail)))
	root.Reset()
	root.Reset()
	assert.Equal(t, Initial, root.Status())
	assert.Equal(t, 0, root.cursor)
}
