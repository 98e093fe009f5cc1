package blockade

import (
	"container/heap"
	"math"
	"time"

	"github.com/gekko3d/blockade/bt"
	"github.com/gekko3d/blockade/ecs"
	"github.com/gekko3d/blockade/vmath"
)

const (
	// DefaultMaxStep is the tallest ledge a locomotor can hop onto.
	DefaultMaxStep = 1

	maxPathIterations  = 10000
	waypointReachedSq  = 0.25
	defaultReplanDelay = 500 * time.Millisecond
)

// NavNode is one terrain column seen from above.
type NavNode struct {
	Height   int
	Walkable bool
}

// NavGrid is a 2.5D walkability map baked from a terrain, one cell per
// column.
type NavGrid struct {
	MaxStep int

	sizeX, sizeZ int
	nodes        []NavNode
}

// BakeNavGrid reads column heights from t. Columns without ground or without
// headroom are not walkable.
func BakeNavGrid(t *Terrain) *NavGrid {
	sizeX, sizeY, sizeZ := t.Size()
	g := &NavGrid{
		MaxStep: DefaultMaxStep,
		sizeX:   sizeX,
		sizeZ:   sizeZ,
		nodes:   make([]NavNode, sizeX*sizeZ),
	}
	for z := range sizeZ {
		for x := range sizeX {
			h := t.Surface(x, z)
			g.nodes[z*sizeX+x] = NavNode{Height: h, Walkable: h > 0 && h < sizeY}
		}
	}
	return g
}

func (g *NavGrid) Node(x, z int) *NavNode {
	if x < 0 || x >= g.sizeX || z < 0 || z >= g.sizeZ {
		return nil
	}
	return &g.nodes[z*g.sizeX+x]
}

// Cell maps a world position to its column.
func (g *NavGrid) Cell(pos vmath.Vec3) (x, z int) {
	return int(math.Floor(float64(pos.X()))), int(math.Floor(float64(pos.Z())))
}

// CellCenter returns the ground-plane center of a column.
func (g *NavGrid) CellCenter(x, z int) vmath.Vec2 {
	return vmath.Vec2{float32(x) + 0.5, float32(z) + 0.5}
}

// passable reports whether a walker can move from one column to an adjacent
// one. Diagonal moves may not clip a corner.
func (g *NavGrid) passable(from *NavNode, x, z, dx, dz int) bool {
	to := g.Node(x+dx, z+dz)
	if to == nil || !to.Walkable || to.Height-from.Height > g.MaxStep {
		return false
	}
	if dx != 0 && dz != 0 {
		a, b := g.Node(x+dx, z), g.Node(x, z+dz)
		if a == nil || !a.Walkable || b == nil || !b.Walkable {
			return false
		}
		if a.Height-from.Height > g.MaxStep || b.Height-from.Height > g.MaxStep {
			return false
		}
	}
	return true
}

type pathNode struct {
	x, z    int
	g, f    float32
	parent  *pathNode
	index   int
	settled bool
}

type pathQueue []*pathNode

func (q pathQueue) Len() int           { return len(q) }
func (q pathQueue) Less(i, j int) bool { return q[i].f < q[j].f }
func (q pathQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *pathQueue) Push(x any) {
	n := x.(*pathNode)
	n.index = len(*q)
	*q = append(*q, n)
}

func (q *pathQueue) Pop() any {
	old := *q
	n := old[len(old)-1]
	n.index = -1
	*q = old[:len(old)-1]
	return n
}

func heuristic(x1, z1, x2, z2 int) float32 {
	dx, dz := float64(x1-x2), float64(z1-z2)
	return float32(math.Sqrt(dx*dx + dz*dz))
}

// FindPath plans a walk between two positions with A* over the columns. The
// waypoints are column centers after the starting column, ending on to
// itself. It returns nil when either end is off the grid or unreachable.
func (g *NavGrid) FindPath(from, to vmath.Vec3) []vmath.Vec2 {
	sx, sz := g.Cell(from)
	ex, ez := g.Cell(to)
	start, end := g.Node(sx, sz), g.Node(ex, ez)
	if start == nil || end == nil || !end.Walkable {
		return nil
	}
	goal := vmath.Horizontal(to)
	if sx == ex && sz == ez {
		return []vmath.Vec2{goal}
	}

	open := &pathQueue{}
	first := &pathNode{x: sx, z: sz, f: heuristic(sx, sz, ex, ez)}
	heap.Push(open, first)
	visited := map[[2]int]*pathNode{{sx, sz}: first}

	for iterations := 0; open.Len() > 0 && iterations < maxPathIterations; iterations++ {
		current := heap.Pop(open).(*pathNode)
		current.settled = true
		if current.x == ex && current.z == ez {
			var path []vmath.Vec2
			for n := current.parent; n != nil && n.parent != nil; n = n.parent {
				path = append(path, g.CellCenter(n.x, n.z))
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return append(path, goal)
		}

		node := g.Node(current.x, current.z)
		for dz := -1; dz <= 1; dz++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dz == 0 {
					continue
				}
				if !g.passable(node, current.x, current.z, dx, dz) {
					continue
				}
				cost := float32(1)
				if dx != 0 && dz != 0 {
					cost = math.Sqrt2
				}
				nx, nz := current.x+dx, current.z+dz
				cost += current.g
				next, seen := visited[[2]int{nx, nz}]
				switch {
				case !seen:
					next = &pathNode{x: nx, z: nz}
					visited[[2]int{nx, nz}] = next
				case next.settled || cost >= next.g:
					continue
				}
				next.g = cost
				next.f = cost + heuristic(nx, nz, ex, ez)
				next.parent = current
				if seen {
					heap.Fix(open, next.index)
				} else {
					heap.Push(open, next)
				}
			}
		}
	}
	return nil
}

// Nav is a resource holding the walkability map of the named terrain. The map
// is baked on first use and again whenever the terrain entity is replaced.
type Nav struct {
	terrain *Terrain
	grid    *NavGrid
}

func NewNav() *Nav {
	return &Nav{}
}

func (n *Nav) Grid(w *ecs.World) (*NavGrid, bool) {
	t, ok := TerrainOf(w, TerrainName)
	if !ok {
		return nil, false
	}
	if t != n.terrain {
		n.terrain, n.grid = t, BakeNavGrid(t)
	}
	return n.grid, true
}

// Navigate walks a planned route towards a named entity, replanning every
// Replan interval or once the target leaves its column. Past the last
// waypoint it steers straight at the target. It runs until the target is gone
// or no route exists.
type Navigate struct {
	bt.Base
	Target string
	Replan time.Duration

	path     []vmath.Vec2
	goal     [2]int
	nextPlan time.Duration
}

func NewNavigate(name, target string) *Navigate {
	return &Navigate{Base: bt.NewBase(name), Target: target, Replan: defaultReplanDelay}
}

// Path returns the waypoints still ahead.
func (n *Navigate) Path() []vmath.Vec2 {
	return n.path
}

func (n *Navigate) Step(ctx *bt.Context) bt.Status {
	tr, ok := ecs.Get[*Transform](ctx.Entity)
	if !ok {
		return bt.Fail
	}
	loco, ok := ecs.Get[*Locomotor](ctx.Entity)
	if !ok {
		return bt.Fail
	}
	nav, ok := ecs.GetResource[*Nav](ctx.World)
	if !ok {
		return bt.Fail
	}
	grid, ok := nav.Grid(ctx.World)
	if !ok {
		return bt.Fail
	}
	pos, ok := PositionOf(ctx.World, n.Target)
	if !ok {
		n.path = nil
		loco.ClearTarget()
		return bt.Fail
	}

	gx, gz := grid.Cell(pos)
	if n.Status() != bt.Running || ctx.Now >= n.nextPlan || n.goal != [2]int{gx, gz} {
		n.path = grid.FindPath(tr.Position, pos)
		if n.path == nil {
			loco.ClearTarget()
			return bt.Fail
		}
		n.goal = [2]int{gx, gz}
		n.nextPlan = ctx.Now + n.Replan
	}

	here := vmath.Horizontal(tr.Position)
	for len(n.path) > 1 && vmath.LengthSquared2(n.path[0].Sub(here)) < waypointReachedSq {
		n.path = n.path[1:]
	}
	if len(n.path) <= 1 {
		loco.SetTarget(vmath.Horizontal(pos))
	} else {
		loco.SetTarget(n.path[0])
	}
	return bt.Running
}
