package ecs

import (
	"fmt"
	"reflect"
	"sync"
)

// TypeID identifies a component type within one Registry. Ids depend on
// registration order and must never be persisted or sent over the wire.
type TypeID uint32

// Registry assigns component type ids. All component types are registered
// once at startup, before any entity is built.
type Registry struct {
	mu    sync.RWMutex
	ids   map[reflect.Type]TypeID
	types []reflect.Type
}

func NewRegistry() *Registry {
	return &Registry{
		ids: make(map[reflect.Type]TypeID),
	}
}

// Register records T and returns its id. Registering a type twice returns the
// id it already has.
func Register[T Component](r *Registry) TypeID {
	return r.register(reflect.TypeFor[T]())
}

func (r *Registry) register(t reflect.Type) TypeID {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.ids[t]; ok {
		return id
	}
	id := TypeID(len(r.types))
	r.ids[t] = id
	r.types = append(r.types, t)
	return id
}

func (r *Registry) lookup(t reflect.Type) (TypeID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.ids[t]
	return id, ok
}

// mustLookup panics for unregistered types; building an entity out of an
// unregistered component is a setup bug.
func (r *Registry) mustLookup(t reflect.Type) TypeID {
	id, ok := r.lookup(t)
	if !ok {
		panic(fmt.Sprintf("component type %s is not registered", t))
	}
	return id
}

// TypeOf returns the id registered for T.
func TypeOf[T Component](r *Registry) (TypeID, bool) {
	return r.lookup(reflect.TypeFor[T]())
}

// Name returns the Go type name behind id, for diagnostics.
func (r *Registry) Name(id TypeID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= len(r.types) {
		return fmt.Sprintf("TypeID(%d)", id)
	}
	return r.types[id].String()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}
