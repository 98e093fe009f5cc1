package blockade

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/looplab/fsm"

	"github.com/gekko3d/blockade/bt"
	"github.com/gekko3d/blockade/ecs"
)

type StateTag string

const TagJumping StateTag = "jumping"

// EventHandler reacts to an event and returns the state to move to, or "" to
// stay.
type EventHandler func(ctx *bt.Context) string

// StateDesc describes one named state. OnEnter and OnExit are optional.
type StateDesc struct {
	Name     string
	Tags     []StateTag
	Handlers map[string]EventHandler
	OnEnter  func(ctx *bt.Context)
	OnExit   func(ctx *bt.Context)
}

// StateGraph is a named-state machine driven by buffered events. Events are
// handled by the current state first, then by the graph-wide handlers. The
// first state is the initial one.
type StateGraph struct {
	ecs.Base

	states   map[string]StateDesc
	handlers map[string]EventHandler
	machine  *fsm.FSM
	buffered []string
	// params is the context of the event being handled, for the fsm callbacks.
	params *bt.Context
}

// NewStateGraph panics when no state is given or a name repeats; both are
// setup bugs.
func NewStateGraph(states []StateDesc, handlers map[string]EventHandler) *StateGraph {
	if len(states) == 0 {
		panic("cannot create a StateGraph without at least one state")
	}
	g := &StateGraph{
		states:   make(map[string]StateDesc, len(states)),
		handlers: handlers,
	}

	names := make([]string, 0, len(states))
	for _, s := range states {
		if _, ok := g.states[s.Name]; ok {
			panic(fmt.Sprintf("state %q declared twice", s.Name))
		}
		g.states[s.Name] = s
		names = append(names, s.Name)
	}

	events := make(fsm.Events, 0, len(states))
	for _, name := range names {
		events = append(events, fsm.EventDesc{Name: transitionEvent(name), Src: names, Dst: name})
	}
	g.machine = fsm.NewFSM(names[0], events, fsm.Callbacks{
		"leave_state": func(_ context.Context, e *fsm.Event) {
			g.exit(e.Src)
		},
		"enter_state": func(_ context.Context, e *fsm.Event) {
			g.enter(e.Dst)
		},
	})
	return g
}

func transitionEvent(state string) string {
	return "to_" + state
}

// Current returns the name of the current state.
func (g *StateGraph) Current() string {
	return g.machine.Current()
}

func (g *StateGraph) HasTag(tag StateTag) bool {
	return slices.Contains(g.states[g.Current()].Tags, tag)
}

// Trigger buffers an event until the graph's next post-update.
func (g *StateGraph) Trigger(event string) {
	g.buffered = append(g.buffered, event)
}

func (g *StateGraph) PostUpdate(ctx *ecs.UpdateContext) {
	if len(g.buffered) == 0 {
		return
	}
	events := g.buffered
	g.buffered = nil

	params := &bt.Context{
		Dt:     ctx.Dt,
		Now:    ctx.Now,
		Rand:   ctx.Rand,
		Entity: g.Entity(),
		World:  ctx.World,
	}
	log := LoggerOf(ctx.World)
	for _, event := range events {
		handler, ok := g.states[g.Current()].Handlers[event]
		if !ok {
			handler, ok = g.handlers[event]
		}
		if !ok {
			log.Warnf("no handler on %s for event %q", g.name(), event)
			continue
		}
		if next := handler(params); next != "" {
			if err := g.transition(next, params); err != nil {
				log.Warnf("%s: %v", g.name(), err)
			}
		}
	}
}

func (g *StateGraph) transition(next string, params *bt.Context) error {
	if _, ok := g.states[next]; !ok {
		return fmt.Errorf("no state %q", next)
	}
	g.params = params
	defer func() { g.params = nil }()

	if next == g.Current() {
		g.exit(next)
		g.enter(next)
		return nil
	}
	err := g.machine.Event(context.Background(), transitionEvent(next))
	var noTransition fsm.NoTransitionError
	if err != nil && !errors.As(err, &noTransition) {
		return fmt.Errorf("transition to %q: %w", next, err)
	}
	return nil
}

func (g *StateGraph) exit(state string) {
	if s := g.states[state]; s.OnExit != nil {
		s.OnExit(g.params)
	}
}

func (g *StateGraph) enter(state string) {
	if s := g.states[state]; s.OnEnter != nil {
		s.OnEnter(g.params)
	}
}

func (g *StateGraph) name() string {
	if e := g.Entity(); e != nil {
		return e.Name()
	}
	return "detached state graph"
}
