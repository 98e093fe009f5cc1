package bt

import (
	"github.com/gekko3d/blockade/ecs"
)

// Tree roots a behavior tree on an entity. The root is ticked during the
// update pass and maintained during the post-update pass of every frame.
type Tree struct {
	ecs.Base
	root Node
}

func NewTree(root Node) *Tree {
	return &Tree{root: root}
}

func (t *Tree) Root() Node {
	return t.root
}

func (t *Tree) Update(ctx *ecs.UpdateContext) {
	Tick(t.root, &Context{
		Dt:     ctx.Dt,
		Now:    ctx.Now,
		Rand:   ctx.Rand,
		Entity: t.Entity(),
		World:  ctx.World,
	})
}

func (t *Tree) PostUpdate(*ecs.UpdateContext) {
	Maintain(t.root)
}

// Dot renders the root's current state. Finished branches are only visible
// before maintenance, so resource post-update hooks see the full picture.
func (t *Tree) Dot() string {
	return Dot(t.root)
}
