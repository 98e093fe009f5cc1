package blockade

import (
	"strings"

	"github.com/gekko3d/blockade/ecs"
	"github.com/gekko3d/blockade/vmath"
)

const (
	DefaultSpawnPeriod = 2
	spawnHeight        = 20
	spawnAttempts      = 10
	// spawnClearanceSq keeps new enemies at least 4 units from the player.
	spawnClearanceSq = 16
)

// Spawner drops a new enemy from the sky every Period seconds while the
// player is alive.
type Spawner struct {
	ecs.Base
	Period float32
	// MaxEnemies caps the living enemies; zero means no cap.
	MaxEnemies int

	nextSpawn float32
}

func NewSpawner(period float32) *Spawner {
	return &Spawner{Period: period, nextSpawn: period}
}

func (s *Spawner) Update(ctx *ecs.UpdateContext) {
	w := ctx.World
	playerPos, ok := PositionOf(w, PlayerName)
	if !ok {
		return
	}
	s.nextSpawn -= ctx.Dt
	if s.nextSpawn > 0 {
		return
	}
	s.nextSpawn = s.Period

	if s.MaxEnemies > 0 && countPrefix(w, EnemyPrefix) >= s.MaxEnemies {
		return
	}

	sizeX, sizeZ := float32(DefaultTerrainX), float32(DefaultTerrainZ)
	if t, ok := TerrainOf(w, TerrainName); ok {
		x, _, z := t.Size()
		sizeX, sizeZ = float32(x), float32(z)
	}

	pos := vmath.Vec3{0, spawnHeight, 0}
	for range spawnAttempts {
		pos[0] = ctx.Float32() * sizeX
		pos[2] = ctx.Float32() * sizeZ
		if vmath.LengthSquared3(playerPos.Sub(pos)) > spawnClearanceSq {
			break
		}
	}

	enemy, err := NewEnemy(w, pos)
	if err != nil {
		LoggerOf(w).Errorf("spawner: %v", err)
		return
	}
	LoggerOf(w).Debugf("spawning %s at (%.1f, %.1f)", enemy.Name(), pos.X(), pos.Z())
	w.AddEntities(enemy)
}

func countPrefix(w *ecs.World, prefix string) int {
	n := 0
	for _, e := range w.Entities() {
		if strings.HasPrefix(e.Name(), prefix) {
			n++
		}
	}
	return n
}
