package ecs

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
)

// ErrDuplicateEntity is returned by World.Update when a queued entity reuses a
// live or queued name. It signals a setup bug; the frame must not continue.
var ErrDuplicateEntity = errors.New("duplicate entity name")

// World owns the live entities, the queue of entities waiting to join and the
// resources. It is not safe for concurrent use.
type World struct {
	registry *Registry

	pending  []*Entity
	entities map[string]*Entity
	order    []*Entity

	resources     map[reflect.Type]Resource
	resourceOrder []reflect.Type
}

func NewWorld(reg *Registry) *World {
	return &World{
		registry:  reg,
		entities:  make(map[string]*Entity),
		resources: make(map[reflect.Type]Resource),
	}
}

func (w *World) Registry() *Registry {
	return w.registry
}

// NewEntity creates a detached entity using the world's registry.
func (w *World) NewEntity(name string) *Entity {
	return NewEntity(w.registry, name)
}

// AddEntities queues entities. They become queryable, and their components are
// initialized, at the start of the next Update.
func (w *World) AddEntities(entities ...*Entity) {
	for _, e := range entities {
		e.world = w
	}
	w.pending = append(w.pending, entities...)
}

// Pending returns the number of entities waiting for the next Update.
func (w *World) Pending() int {
	return len(w.pending)
}

// RemoveEntity runs cleanup on every component of the named entity and drops
// it. It reports whether an entity was removed.
func (w *World) RemoveEntity(name string) bool {
	e, ok := w.entities[name]
	if !ok || !e.live {
		return false
	}
	// Guards against cleanup hooks removing their own entity again.
	e.live = false

	components := e.Components()
	for _, c := range components {
		if cl, ok := c.(Cleaner); ok {
			cl.Cleanup(&CleanupContext{World: w})
		}
	}

	delete(w.entities, name)
	w.order = slices.DeleteFunc(w.order, func(other *Entity) bool { return other == e })
	for _, c := range components {
		c.attach(nil)
	}
	return true
}

// GetByName returns the live entity with the given name.
func (w *World) GetByName(name string) (*Entity, bool) {
	e, ok := w.entities[name]
	return e, ok
}

// Entities returns a snapshot of the live entities in insertion order.
func (w *World) Entities() []*Entity {
	return slices.Clone(w.order)
}

func (w *World) Len() int {
	return len(w.order)
}

// AddResource stores r, replacing any resource of the same concrete type.
func (w *World) AddResource(r Resource) {
	t := reflect.TypeOf(r)
	if old, ok := w.resources[t]; ok {
		if d, ok := old.(Destroyer); ok && old != r {
			d.Destroy()
		}
	} else {
		w.resourceOrder = append(w.resourceOrder, t)
	}
	w.resources[t] = r
}

func (w *World) WithResource(r Resource) *World {
	w.AddResource(r)
	return w
}

// GetResource returns the resource whose concrete type is T.
func GetResource[T any](w *World) (T, bool) {
	var zero T
	r, ok := w.resources[reflect.TypeFor[T]()]
	if !ok {
		return zero, false
	}
	return r.(T), true
}

// Resources returns the resources in insertion order.
func (w *World) Resources() []Resource {
	res := make([]Resource, 0, len(w.resourceOrder))
	for _, t := range w.resourceOrder {
		res = append(res, w.resources[t])
	}
	return res
}

// Update runs one frame: pending entities join and are initialized, resources
// pre-update, components update, resources post-update, components
// post-update. A duplicate entity name aborts the frame before any pending
// entity joins.
func (w *World) Update(ctx *UpdateContext) error {
	if ctx.World == nil {
		ctx.World = w
	}

	if err := w.flush(); err != nil {
		return err
	}

	resources := w.Resources()
	for _, r := range resources {
		if p, ok := r.(PreUpdater); ok {
			p.PreUpdate(ctx)
		}
	}

	w.eachComponent(func(c Component) {
		if u, ok := c.(Updater); ok {
			u.Update(ctx)
		}
	})

	for _, r := range resources {
		if p, ok := r.(PostUpdater); ok {
			p.PostUpdate(ctx)
		}
	}

	w.eachComponent(func(c Component) {
		if p, ok := c.(PostUpdater); ok {
			p.PostUpdate(ctx)
		}
	})

	return nil
}

// Render hands the render pass to every component that draws.
func (w *World) Render(ctx *RenderContext) {
	if ctx.World == nil {
		ctx.World = w
	}
	w.eachComponent(func(c Component) {
		if r, ok := c.(Renderer); ok {
			r.Render(ctx)
		}
	})
}

// Destroy removes every entity and releases every resource.
func (w *World) Destroy() {
	for _, e := range w.Entities() {
		w.RemoveEntity(e.name)
	}
	w.pending = nil

	for _, r := range w.Resources() {
		if d, ok := r.(Destroyer); ok {
			d.Destroy()
		}
	}
	clear(w.resources)
	w.resourceOrder = nil
}

func (w *World) flush() error {
	if len(w.pending) == 0 {
		return nil
	}

	queued := make(map[string]struct{}, len(w.pending))
	for _, e := range w.pending {
		if _, ok := w.entities[e.name]; ok {
			return fmt.Errorf("%w: %q is already in the world", ErrDuplicateEntity, e.name)
		}
		if _, ok := queued[e.name]; ok {
			return fmt.Errorf("%w: %q was queued twice", ErrDuplicateEntity, e.name)
		}
		queued[e.name] = struct{}{}
	}

	batch := w.pending
	w.pending = nil
	for _, e := range batch {
		e.live = true
		w.entities[e.name] = e
		w.order = append(w.order, e)
	}

	initCtx := &InitContext{World: w}
	for _, e := range batch {
		for _, c := range e.Components() {
			if !e.live {
				break
			}
			if init, ok := c.(Initializer); ok {
				init.Init(initCtx)
			}
		}
	}
	return nil
}

// eachComponent visits a snapshot of live entities, skipping entities and
// components removed while the pass is running.
func (w *World) eachComponent(fn func(c Component)) {
	for _, e := range w.Entities() {
		for _, c := range e.Components() {
			if !e.live {
				break
			}
			if c.Entity() != e {
				continue
			}
			fn(c)
		}
	}
}
