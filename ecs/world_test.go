package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type journal struct {
	entries []string
}

func (j *journal) add(s string) { j.entries = append(j.entries, s) }

type recorder struct {
	Base
	tag string
	log *journal
}

func (r *recorder) Init(*InitContext) { r.log.add(r.tag + ".init") }

func (r *recorder) Update(*UpdateContext) { r.log.add(r.tag + ".update") }

func (r *recorder) PostUpdate(*UpdateContext) { r.log.add(r.tag + ".post") }

func (r *recorder) Cleanup(*CleanupContext) { r.log.add(r.tag + ".cleanup") }

func (r *recorder) Render(*RenderContext) { r.log.add(r.tag + ".render") }

type otherRecorder struct {
	recorder
}

type hookResource struct {
	log *journal
}

func (h *hookResource) PreUpdate(*UpdateContext)  { h.log.add("res.pre") }
func (h *hookResource) PostUpdate(*UpdateContext) { h.log.add("res.post") }

type closer struct {
	destroyed int
}

func (c *closer) Destroy() { c.destroyed++ }

// remover deletes a named entity from the world during its update.
type remover struct {
	Base
	victim string
}

func (r *remover) Update(ctx *UpdateContext) { ctx.World.RemoveEntity(r.victim) }

func newTestWorld() *World {
	reg := NewRegistry()
	Register[*recorder](reg)
	Register[*otherRecorder](reg)
	Register[*remover](reg)
	return NewWorld(reg)
}

func TestWorld_UpdateOrdering(t *testing.T) {
	w := newTestWorld()
	log := &journal{}
	w.AddResource(&hookResource{log: log})

	w.AddEntities(
		w.NewEntity("a").With(&recorder{tag: "a1", log: log}, &otherRecorder{recorder{tag: "a2", log: log}}),
		w.NewEntity("b").With(&recorder{tag: "b", log: log}),
	)

	_, found := w.GetByName("a")
	assert.False(t, found, "queued entities are not queryable before the next update")

	require.NoError(t, w.Update(&UpdateContext{Dt: 0.016}))

	assert.Equal(t, []string{
		"a1.init", "a2.init", "b.init",
		"res.pre",
		"a1.update", "a2.update", "b.update",
		"res.post",
		"a1.post", "a2.post", "b.post",
	}, log.entries)

	log.entries = nil
	w.Render(&RenderContext{})
	assert.Equal(t, []string{"a1.render", "a2.render", "b.render"}, log.entries)
}

func TestWorld_DuplicateNameInSameBatch(t *testing.T) {
	w := newTestWorld()
	log := &journal{}
	w.AddEntities(
		w.NewEntity("x").With(&recorder{tag: "x1", log: log}),
		w.NewEntity("x").With(&recorder{tag: "x2", log: log}),
	)

	err := w.Update(&UpdateContext{})
	require.ErrorIs(t, err, ErrDuplicateEntity)

	_, found := w.GetByName("x")
	assert.False(t, found)
	assert.Empty(t, log.entries, "nothing may run once the frame is aborted")
}

func TestWorld_DuplicateNameAcrossBatches(t *testing.T) {
	w := newTestWorld()
	log := &journal{}
	first := w.NewEntity("x").With(&recorder{tag: "first", log: log})
	w.AddEntities(first)
	require.NoError(t, w.Update(&UpdateContext{}))

	w.AddEntities(w.NewEntity("x").With(&recorder{tag: "second", log: log}))
	require.ErrorIs(t, w.Update(&UpdateContext{}), ErrDuplicateEntity)

	got, found := w.GetByName("x")
	require.True(t, found)
	assert.Same(t, first, got)
}

func TestWorld_RemoveEntity(t *testing.T) {
	w := newTestWorld()
	log := &journal{}
	rec := &recorder{tag: "a", log: log}
	w.AddEntities(w.NewEntity("a").With(rec))
	require.NoError(t, w.Update(&UpdateContext{}))
	log.entries = nil

	assert.True(t, w.RemoveEntity("a"))
	assert.Equal(t, []string{"a.cleanup"}, log.entries)
	assert.Nil(t, rec.Entity(), "the back-reference must not outlive the entity")

	_, found := w.GetByName("a")
	assert.False(t, found)

	assert.False(t, w.RemoveEntity("a"))
	assert.False(t, w.RemoveEntity("never-existed"))
	assert.Equal(t, []string{"a.cleanup"}, log.entries)
}

func TestWorld_RemovalDuringUpdateIsImmediate(t *testing.T) {
	w := newTestWorld()
	log := &journal{}
	w.AddEntities(
		w.NewEntity("killer").With(&remover{victim: "victim"}),
		w.NewEntity("victim").With(&recorder{tag: "victim", log: log}),
	)
	require.NoError(t, w.Update(&UpdateContext{}))

	assert.Equal(t, []string{"victim.init", "victim.cleanup"}, log.entries)
	assert.Equal(t, 1, w.Len())
}

func TestWorld_Resources(t *testing.T) {
	w := newTestWorld()

	_, ok := GetResource[*closer](w)
	assert.False(t, ok)

	first := &closer{}
	second := &closer{}
	w.WithResource(first).WithResource(second)

	got, ok := GetResource[*closer](w)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, first.destroyed, "a replaced resource is released")
	assert.Len(t, w.Resources(), 1)

	w.Destroy()
	assert.Equal(t, 1, second.destroyed)
	_, ok = GetResource[*closer](w)
	assert.False(t, ok)
}

func TestWorld_AddedDuringFrameJoinsNextFrame(t *testing.T) {
	w := newTestWorld()
	log := &journal{}
	require.NoError(t, w.Update(&UpdateContext{}))

	w.AddEntities(w.NewEntity("late").With(&recorder{tag: "late", log: log}))
	assert.Equal(t, 1, w.Pending())

	require.NoError(t, w.Update(&UpdateContext{}))
	assert.Equal(t, 0, w.Pending())
	assert.Equal(t, []string{"late.init", "late.update", "late.post"}, log.entries)
}
