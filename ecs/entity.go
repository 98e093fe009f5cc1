package ecs

import (
	"reflect"
	"slices"
)

// Entity is a uniquely named bag of components, at most one per type.
type Entity struct {
	name       string
	registry   *Registry
	world      *World
	live       bool
	components map[TypeID]Component
	order      []TypeID
}

// NewEntity creates a detached entity. It joins a world through
// World.AddEntities.
func NewEntity(reg *Registry, name string) *Entity {
	return &Entity{
		name:       name,
		registry:   reg,
		components: make(map[TypeID]Component),
	}
}

func (e *Entity) Name() string {
	return e.name
}

// World returns the world the entity was added to, or nil while detached.
func (e *Entity) World() *World {
	return e.world
}

// Live reports whether the entity is currently queryable in its world.
func (e *Entity) Live() bool {
	return e != nil && e.live
}

// With attaches components, replacing any existing component of the same type
// in place. Components attached to a live entity are initialized immediately.
func (e *Entity) With(components ...Component) *Entity {
	for _, c := range components {
		id := e.registry.mustLookup(reflect.TypeOf(c))
		if old, ok := e.components[id]; ok {
			if cl, ok := old.(Cleaner); ok && e.live {
				cl.Cleanup(&CleanupContext{World: e.world})
			}
			e.detach(old)
		} else {
			e.order = append(e.order, id)
		}
		c.attach(e)
		e.components[id] = c

		if e.live {
			if init, ok := c.(Initializer); ok {
				init.Init(&InitContext{World: e.world})
			}
		}
	}
	return e
}

// Components returns the components in the order their types were first added.
func (e *Entity) Components() []Component {
	res := make([]Component, 0, len(e.order))
	for _, id := range e.order {
		res = append(res, e.components[id])
	}
	return res
}

func (e *Entity) component(t reflect.Type) (Component, bool) {
	if e == nil {
		return nil, false
	}
	id, ok := e.registry.lookup(t)
	if !ok {
		return nil, false
	}
	c, ok := e.components[id]
	return c, ok
}

// Get returns the entity's component of type T. A nil entity has no components.
func Get[T Component](e *Entity) (T, bool) {
	var zero T
	c, ok := e.component(reflect.TypeFor[T]())
	if !ok {
		return zero, false
	}
	return c.(T), true
}

func Has[T Component](e *Entity) bool {
	_, ok := e.component(reflect.TypeFor[T]())
	return ok
}

// RemoveComponent drops the component of type T, running its cleanup hook when
// the entity is live.
func RemoveComponent[T Component](e *Entity) bool {
	if e == nil {
		return false
	}
	id, ok := e.registry.lookup(reflect.TypeFor[T]())
	if !ok {
		return false
	}
	c, ok := e.components[id]
	if !ok {
		return false
	}
	if e.live {
		if cl, ok := c.(Cleaner); ok {
			cl.Cleanup(&CleanupContext{World: e.world})
		}
	}
	e.detach(c)
	delete(e.components, id)
	e.order = slices.DeleteFunc(e.order, func(other TypeID) bool { return other == id })
	return true
}

func (e *Entity) detach(c Component) {
	c.attach(nil)
}
