package blockade

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/gekko3d/blockade/ecs"
	"github.com/gekko3d/blockade/vmath"
)

type BlockKind uint8

const (
	Air BlockKind = iota
	Dirt
	Grass
	Stone
)

func (k BlockKind) String() string {
	switch k {
	case Air:
		return "air"
	case Dirt:
		return "dirt"
	case Grass:
		return "grass"
	case Stone:
		return "stone"
	}
	return fmt.Sprintf("BlockKind(%d)", uint8(k))
}

func (k BlockKind) Solid() bool {
	return k != Air
}

// TopTile returns the tileset index drawn on the block's top face. Air has no
// faces.
func (k BlockKind) TopTile() int {
	switch k {
	case Dirt:
		return 0
	case Grass:
		return 2
	case Stone:
		return 4
	}
	panic(fmt.Sprintf("no top tile for %s block", k))
}

// SideTile returns the tileset index drawn on the block's side faces.
func (k BlockKind) SideTile() int {
	switch k {
	case Dirt:
		return 1
	case Grass:
		return 3
	case Stone:
		return 5
	}
	panic(fmt.Sprintf("no side tile for %s block", k))
}

// BlockSource answers block queries for a bounded grid. Coordinates outside
// the grid report absence.
type BlockSource interface {
	Block(x, y, z int) (BlockKind, bool)
	BlockAabb(x, y, z int) (Aabb, bool)
}

const (
	DefaultTerrainX = 80
	DefaultTerrainY = 8
	DefaultTerrainZ = 80

	stoneChance = 0.025
)

// Terrain is a dense voxel grid stored x-major, then y, then z.
type Terrain struct {
	ecs.Base
	sizeX, sizeY, sizeZ int
	blocks              []BlockKind
}

// NewTerrain returns an empty grid.
func NewTerrain(sizeX, sizeY, sizeZ int) *Terrain {
	return &Terrain{
		sizeX:  sizeX,
		sizeY:  sizeY,
		sizeZ:  sizeZ,
		blocks: make([]BlockKind, sizeX*sizeY*sizeZ),
	}
}

// GenerateTerrain fills a grid with rolling dirt hills, grass on exposed tops
// and the occasional stone resting on the surface.
func GenerateTerrain(sizeX, sizeY, sizeZ int, rng *rand.Rand) *Terrain {
	roll := rand.Float64
	if rng != nil {
		roll = rng.Float64
	}

	t := NewTerrain(sizeX, sizeY, sizeZ)
	for i := range t.blocks {
		x, y, z := t.Coordinates(i)
		fx, fz := float64(x), float64(z)
		height := 1 + math.Cos(fz*0.2-0.3+fx*0.15) + math.Sin(fz*0.25+0.5)
		if y == 0 || float64(y) <= height {
			t.blocks[i] = Dirt
		}
	}

	// Decoration reads the undecorated grid.
	next := make([]BlockKind, len(t.blocks))
	for i, b := range t.blocks {
		x, y, z := t.Coordinates(i)
		switch {
		case b == Air:
			if roll() < stoneChance && t.HasNeighbor(x, y, z, 0, -1, 0) {
				b = Stone
			}
		case !t.HasNeighbor(x, y, z, 0, 1, 0):
			b = Grass
		}
		next[i] = b
	}
	t.blocks = next
	return t
}

func (t *Terrain) Size() (x, y, z int) {
	return t.sizeX, t.sizeY, t.sizeZ
}

// Index maps a coordinate to its slot in the grid.
func (t *Terrain) Index(x, y, z int) (int, bool) {
	if x < 0 || y < 0 || z < 0 || x >= t.sizeX || y >= t.sizeY || z >= t.sizeZ {
		return 0, false
	}
	return x + t.sizeX*(y+t.sizeY*z), true
}

func (t *Terrain) Coordinates(index int) (x, y, z int) {
	return index % t.sizeX, (index / t.sizeX) % t.sizeY, index / t.sizeX / t.sizeY
}

// SetBlock reports whether the coordinate was inside the grid.
func (t *Terrain) SetBlock(x, y, z int, kind BlockKind) bool {
	i, ok := t.Index(x, y, z)
	if ok {
		t.blocks[i] = kind
	}
	return ok
}

func (t *Terrain) Block(x, y, z int) (BlockKind, bool) {
	i, ok := t.Index(x, y, z)
	if !ok {
		return Air, false
	}
	return t.blocks[i], true
}

// BlockAt looks up the cell containing a world position.
func (t *Terrain) BlockAt(pos vmath.Vec3) (BlockKind, bool) {
	c := vmath.Floor3(pos)
	return t.Block(c[0], c[1], c[2])
}

// BlockAabb returns the unit box of a solid cell.
func (t *Terrain) BlockAabb(x, y, z int) (Aabb, bool) {
	b, ok := t.Block(x, y, z)
	if !ok || !b.Solid() {
		return Aabb{}, false
	}
	return Aabb{
		Center:      vmath.Vec3{float32(x) + 0.5, float32(y) + 0.5, float32(z) + 0.5},
		HalfExtents: vmath.Fill(0.5),
	}, true
}

func (t *Terrain) HasNeighbor(x, y, z, dx, dy, dz int) bool {
	b, ok := t.Block(x+dx, y+dy, z+dz)
	return ok && b.Solid()
}

// Surface returns the height just above the highest solid block in a column,
// or 0 for an empty or out of range column.
func (t *Terrain) Surface(x, z int) int {
	for y := t.sizeY - 1; y >= 0; y-- {
		if b, ok := t.Block(x, y, z); ok && b.Solid() {
			return y + 1
		}
	}
	return 0
}

// Count returns how many cells hold the given kind.
func (t *Terrain) Count(kind BlockKind) int {
	n := 0
	for _, b := range t.blocks {
		if b == kind {
			n++
		}
	}
	return n
}

// TerrainOf resolves the terrain entity by name. A missing entity or component
// is a normal outcome.
func TerrainOf(w *ecs.World, name string) (*Terrain, bool) {
	e, ok := w.GetByName(name)
	if !ok {
		return nil, false
	}
	return ecs.Get[*Terrain](e)
}
