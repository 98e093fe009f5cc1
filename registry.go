package blockade

import (
	"github.com/gekko3d/blockade/bt"
	"github.com/gekko3d/blockade/ecs"
)

// RegisterComponents registers every component type the game builds entities
// from.
func RegisterComponents(reg *ecs.Registry) {
	ecs.Register[*Transform](reg)
	ecs.Register[*Body](reg)
	ecs.Register[*Locomotor](reg)
	ecs.Register[*bt.Tree](reg)
	ecs.Register[*Turret](reg)
	ecs.Register[*Bullet](reg)
	ecs.Register[*Decay](reg)
	ecs.Register[*Spawner](reg)
	ecs.Register[*PlayerController](reg)
	ecs.Register[*StateGraph](reg)
	ecs.Register[*Follow](reg)
	ecs.Register[*Camera](reg)
	ecs.Register[*Terrain](reg)
}

// NewRegistry returns a registry with the game's components.
func NewRegistry() *ecs.Registry {
	reg := ecs.NewRegistry()
	RegisterComponents(reg)
	return reg
}
