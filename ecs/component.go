package ecs

// Component is implemented by embedding Base. Lifecycle hooks are optional and
// discovered through the interfaces below.
type Component interface {
	Entity() *Entity
	attach(e *Entity)
}

// Base carries the back-reference to the owning entity. It does not keep the
// entity alive: the reference is cleared when the entity leaves the world.
type Base struct {
	entity *Entity
}

// Entity returns the owner, or nil once the entity has been removed.
func (b *Base) Entity() *Entity {
	return b.entity
}

func (b *Base) attach(e *Entity) {
	b.entity = e
}

// Initializer runs once when the owning entity joins the world.
type Initializer interface {
	Init(ctx *InitContext)
}

// Updater runs every frame.
type Updater interface {
	Update(ctx *UpdateContext)
}

// PostUpdater runs every frame after all updates and resource post-updates.
type PostUpdater interface {
	PostUpdate(ctx *UpdateContext)
}

// Renderer is called after the frame's update pass.
type Renderer interface {
	Render(ctx *RenderContext)
}

// Cleaner runs once when the component or its entity is removed.
type Cleaner interface {
	Cleanup(ctx *CleanupContext)
}

// Resource is any pointer value stored once per concrete type in a World.
type Resource any

// PreUpdater resources run before component updates.
type PreUpdater interface {
	PreUpdate(ctx *UpdateContext)
}

// Destroyer resources are released when the world is destroyed or the
// resource is replaced.
type Destroyer interface {
	Destroy()
}
