package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct {
	Base
	X, Y float32
}

type velocity struct {
	Base
	X, Y float32
}

type unregistered struct {
	Base
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()
	p := Register[*position](reg)
	v := Register[*velocity](reg)

	assert.NotEqual(t, p, v)
	assert.Equal(t, p, Register[*position](reg), "registering twice keeps the id")
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, "*ecs.position", reg.Name(p))

	_, ok := TypeOf[*unregistered](reg)
	assert.False(t, ok)
}

func TestEntity_WithAndGet(t *testing.T) {
	reg := NewRegistry()
	Register[*position](reg)
	Register[*velocity](reg)

	e := NewEntity(reg, "mover").With(&position{X: 1}, &velocity{Y: 2})

	p, ok := Get[*position](e)
	require.True(t, ok)
	assert.Equal(t, float32(1), p.X)
	assert.Same(t, e, p.Entity())

	assert.True(t, Has[*velocity](e))
	assert.False(t, Has[*unregistered](e), "unregistered lookups are absent, not fatal")

	replacement := &position{X: 5}
	e.With(replacement)
	got, _ := Get[*position](e)
	assert.Same(t, replacement, got)
	assert.Len(t, e.Components(), 2)
	_, isPosition := e.Components()[0].(*position)
	assert.True(t, isPosition, "replacing a component keeps its slot")

	assert.True(t, RemoveComponent[*position](e))
	assert.False(t, RemoveComponent[*position](e))
	assert.Nil(t, replacement.Entity())
	assert.Len(t, e.Components(), 1)
}

func TestEntity_WithUnregisteredPanics(t *testing.T) {
	reg := NewRegistry()
	assert.PanicsWithValue(t, "component type *ecs.unregistered is not registered", func() {
		NewEntity(reg, "bad").With(&unregistered{})
	})
}

func TestEntity_NilEntityHasNothing(t *testing.T) {
	var e *Entity
	_, ok := Get[*position](e)
	assert.False(t, ok)
	assert.False(t, e.Live())
}
