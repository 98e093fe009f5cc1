package blockade

import (
	"strings"

	"github.com/gekko3d/blockade/ecs"
	"github.com/gekko3d/blockade/vmath"
)

type BulletKind uint8

const (
	PlayerBullet BulletKind = iota
	EnemyBullet
)

const (
	BulletSpeed    = 7
	BulletLifetime = 5

	PlayerName  = "player"
	EnemyPrefix = "enemy"

	bulletHitDistanceSq = 0.25
)

// TargetPrefix is the name prefix of the entities the bullet can hit.
func (k BulletKind) TargetPrefix() string {
	if k == PlayerBullet {
		return EnemyPrefix
	}
	return PlayerName
}

// Bullet destroys the first target it comes close to, together with itself.
// A bullet that has been slowed down, by terrain or by falling, is spent.
type Bullet struct {
	ecs.Base
	Kind BulletKind
}

func NewBulletComponent(kind BulletKind) *Bullet {
	return &Bullet{Kind: kind}
}

func (b *Bullet) Update(ctx *ecs.UpdateContext) {
	if ctx.Dt <= 0 {
		return
	}
	e := b.Entity()
	tr, ok := ecs.Get[*Transform](e)
	if !ok {
		return
	}
	body, ok := ecs.Get[*Body](e)
	if !ok {
		return
	}

	w := ctx.World
	if vmath.LengthSquared3(body.ObservedVelocity())+BulletSpeed*0.5 < BulletSpeed*BulletSpeed {
		w.RemoveEntity(e.Name())
		return
	}

	for _, target := range b.candidates(w, tr.Position) {
		if !strings.HasPrefix(target.Name(), b.Kind.TargetPrefix()) {
			continue
		}
		ttr, ok := ecs.Get[*Transform](target)
		if !ok {
			continue
		}
		if vmath.LengthSquared3(ttr.Position.Sub(tr.Position)) < bulletHitDistanceSq {
			LoggerOf(w).Debugf("%s hit %s", e.Name(), target.Name())
			w.RemoveEntity(target.Name())
			w.RemoveEntity(e.Name())
			return
		}
	}
}

// candidates narrows the search through the spatial grid when one is
// installed.
func (b *Bullet) candidates(w *ecs.World, pos vmath.Vec3) []*ecs.Entity {
	grid, ok := ecs.GetResource[*SpatialHashGrid](w)
	if !ok {
		return w.Entities()
	}
	// Positions have moved since the grid was built; widen the query by a cell.
	names := grid.QueryRadius(pos, grid.cellSize)
	res := make([]*ecs.Entity, 0, len(names))
	for _, name := range names {
		if e, ok := w.GetByName(name); ok {
			res = append(res, e)
		}
	}
	return res
}
