package blockade

import (
	"fmt"
	"math/rand/v2"

	"github.com/gekko3d/blockade/bt"
	"github.com/gekko3d/blockade/ecs"
	"github.com/gekko3d/blockade/vmath"
)

const (
	EnemySpeed       = 2.5
	EnemyFirePeriod  = 1
	PlayerFirePeriod = 0.5
)

var cameraOffset = vmath.Vec3{-14, 20, -14}

func NewTerrainEntity(w *ecs.World, terrain *Terrain) *ecs.Entity {
	return w.NewEntity(TerrainName).With(NewTransform(vmath.Vec3{}), terrain)
}

// NewPlayer builds the player at pos. Its state graph tracks whether it is
// airborne.
func NewPlayer(w *ecs.World, pos vmath.Vec3) *ecs.Entity {
	return w.NewEntity(PlayerName).With(
		NewTransform(pos),
		NewBody(vmath.Vec3{}),
		playerStates(),
		NewPlayerController(),
		NewTurret(PlayerBullet, PlayerFirePeriod),
	)
}

func playerStates() *StateGraph {
	return NewStateGraph([]StateDesc{
		{
			Name: "idle",
			Handlers: map[string]EventHandler{
				EventJump: func(*bt.Context) string { return "jumping" },
			},
		},
		{
			Name: "jumping",
			Tags: []StateTag{TagJumping},
			Handlers: map[string]EventHandler{
				EventLand: func(*bt.Context) string { return "idle" },
			},
			OnEnter: func(ctx *bt.Context) {
				LoggerOf(ctx.World).Debugf("%s jumped", ctx.Entity.Name())
			},
		},
	}, nil)
}

// NewEnemy builds an enemy driven by a tree from the world's Brains resource,
// or the built-in tree when none is installed.
func NewEnemy(w *ecs.World, pos vmath.Vec3) (*ecs.Entity, error) {
	brains, ok := ecs.GetResource[*Brains](w)
	if !ok {
		var err error
		if brains, err = LoadBrains(""); err != nil {
			return nil, err
		}
		w.AddResource(brains)
	}
	root, err := brains.Build()
	if err != nil {
		return nil, fmt.Errorf("enemy brain: %w", err)
	}
	return w.NewEntity(NextName(w, EnemyPrefix)).With(
		NewTransform(pos),
		NewBody(vmath.Vec3{}),
		NewLocomotor(EnemySpeed),
		bt.NewTree(root),
		NewTurret(EnemyBullet, EnemyFirePeriod),
	), nil
}

// NewBullet fires from pos towards a ground target at BulletSpeed.
func NewBullet(w *ecs.World, kind BulletKind, pos vmath.Vec3, target vmath.Vec2) *ecs.Entity {
	direction := vmath.Normal3(vmath.Vec3{target.X() - pos.X(), 0, target.Y() - pos.Z()})
	return w.NewEntity(NextName(w, "bullet")).With(
		NewTransform(pos),
		NewBody(direction.Mul(BulletSpeed)),
		NewBulletComponent(kind),
		NewDecay(BulletLifetime),
	)
}

func NewSpawnerEntity(w *ecs.World, period float32, maxEnemies int) *ecs.Entity {
	s := NewSpawner(period)
	s.MaxEnemies = maxEnemies
	return w.NewEntity("spawner").With(s)
}

func NewCameraEntity(w *ecs.World) *ecs.Entity {
	return w.NewEntity(CameraName).With(
		NewTransform(vmath.Vec3{}),
		NewFollow(PlayerName, cameraOffset),
		NewIsometricCamera(),
	)
}

// NewScene returns the starting entities: camera, terrain, player and spawner.
func NewScene(w *ecs.World, cfg Config, rng *rand.Rand) []*ecs.Entity {
	terrain := GenerateTerrain(cfg.Terrain.X, cfg.Terrain.Y, cfg.Terrain.Z, rng)
	start := vmath.Vec3{float32(cfg.Terrain.X) / 2, 1, float32(cfg.Terrain.Z) / 2}
	start[1] = float32(terrain.Surface(int(start.X()), int(start.Z()))) + 1

	return []*ecs.Entity{
		NewCameraEntity(w),
		NewTerrainEntity(w, terrain),
		NewPlayer(w, start),
		NewSpawnerEntity(w, cfg.Spawn.Period, cfg.Spawn.MaxEnemies),
	}
}
