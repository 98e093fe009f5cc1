// Package bt is a status-driven behavior tree engine that runs inside the ecs
// world as a component.
package bt

import (
	"math/rand/v2"
	"time"

	"github.com/gekko3d/blockade/ecs"
)

type Status uint8

const (
	Initial Status = iota
	Running
	Success
	Fail
)

func (s Status) String() string {
	switch s {
	case Initial:
		return "Initial"
	case Running:
		return "Running"
	case Success:
		return "Success"
	case Fail:
		return "Fail"
	}
	return "Status(?)"
}

// Done reports whether the status is terminal.
func (s Status) Done() bool {
	return s == Success || s == Fail
}

// Context is handed to every node step of one frame.
type Context struct {
	Dt     float32
	Now    time.Duration
	Rand   *rand.Rand
	Entity *ecs.Entity
	World  *ecs.World
}

// Float64 draws from the context's source, falling back to the global one.
func (c *Context) Float64() float64 {
	if c.Rand != nil {
		return c.Rand.Float64()
	}
	return rand.Float64()
}

// Node is implemented by embedding Base and providing Step. Step returns the
// node's new status; Tick records it.
type Node interface {
	Name() string
	Status() Status
	Children() []Node
	Step(ctx *Context) Status
	Reset()

	base() *Base
}

// Base holds the name, status and children shared by every node.
type Base struct {
	name     string
	status   Status
	children []Node
}

func NewBase(name string, children ...Node) Base {
	return Base{name: name, children: children}
}

func (b *Base) Name() string     { return b.name }
func (b *Base) Status() Status   { return b.status }
func (b *Base) Children() []Node { return b.children }
func (b *Base) base() *Base      { return b }

// Reset returns the node and its descendants to Initial. Nodes that are
// already Initial are left alone, so resetting twice is a no-op.
func (b *Base) Reset() {
	if b.status == Initial {
		return
	}
	b.status = Initial
	for _, c := range b.children {
		c.Reset()
	}
}

// Tick steps n and stores the resulting status on it.
func Tick(n Node, ctx *Context) Status {
	s := n.Step(ctx)
	n.base().status = s
	return s
}

// Maintain prunes finished branches after a frame's tick. A node that is not
// Running is reset with its whole subtree; a Running node keeps its status and
// its children are maintained instead.
func Maintain(n Node) {
	if n.Status() != Running {
		n.Reset()
		return
	}
	for _, c := range n.Children() {
		Maintain(c)
	}
}
