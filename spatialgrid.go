package blockade

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/gekko3d/blockade/ecs"
	"github.com/gekko3d/blockade/vmath"
)

const DefaultCellSize = 2.0

// SpatialHashGrid buckets entity names by the grid cells their boxes touch.
// It only answers broadphase questions; callers check exact distances.
type SpatialHashGrid struct {
	cellSize float32
	cells    map[uint64][]string
	// key is scratch space for hashing cell coordinates.
	key [24]byte
}

func NewSpatialHashGrid(cellSize float32) *SpatialHashGrid {
	return &SpatialHashGrid{
		cellSize: cellSize,
		cells:    make(map[uint64][]string),
	}
}

func (grid *SpatialHashGrid) Clear() {
	clear(grid.cells)
}

func (grid *SpatialHashGrid) Insert(name string, box Aabb) {
	lo, hi := grid.cellRange(box.Min(), box.Max())
	for x := lo[0]; x <= hi[0]; x++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				key := grid.hashKey(x, y, z)
				grid.cells[key] = append(grid.cells[key], name)
			}
		}
	}
}

// QueryAabb returns every name sharing a cell with box, each once.
func (grid *SpatialHashGrid) QueryAabb(box Aabb) []string {
	lo, hi := grid.cellRange(box.Min(), box.Max())

	unique := make(map[string]struct{})
	var results []string
	for x := lo[0]; x <= hi[0]; x++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				for _, name := range grid.cells[grid.hashKey(x, y, z)] {
					if _, ok := unique[name]; !ok {
						unique[name] = struct{}{}
						results = append(results, name)
					}
				}
			}
		}
	}
	return results
}

// QueryRadius returns the broadphase candidates of the sphere's bounding box.
func (grid *SpatialHashGrid) QueryRadius(center vmath.Vec3, radius float32) []string {
	return grid.QueryAabb(Aabb{Center: center, HalfExtents: vmath.Fill(radius)})
}

func (grid *SpatialHashGrid) cellRange(from, to vmath.Vec3) (lo, hi [3]int) {
	for i := range 3 {
		lo[i] = grid.getCellIndex(from[i])
		hi[i] = grid.getCellIndex(to[i])
	}
	return lo, hi
}

func (grid *SpatialHashGrid) getCellIndex(pos float32) int {
	return int(math.Floor(float64(pos / grid.cellSize)))
}

func (grid *SpatialHashGrid) hashKey(x, y, z int) uint64 {
	binary.LittleEndian.PutUint64(grid.key[0:], uint64(x))
	binary.LittleEndian.PutUint64(grid.key[8:], uint64(y))
	binary.LittleEndian.PutUint64(grid.key[16:], uint64(z))
	return xxhash.Sum64(grid.key[:])
}

// PreUpdate rebuilds the grid from every entity with a transform. Bodies
// contribute their collision box, anything else a point.
func (grid *SpatialHashGrid) PreUpdate(ctx *ecs.UpdateContext) {
	grid.Clear()
	for _, e := range ctx.World.Entities() {
		tr, ok := ecs.Get[*Transform](e)
		if !ok {
			continue
		}
		box := Aabb{Center: tr.Position}
		if body, ok := ecs.Get[*Body](e); ok {
			box = body.Bounds(tr.Position)
		}
		grid.Insert(e.Name(), box)
	}
}
