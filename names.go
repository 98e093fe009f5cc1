package blockade

import (
	"strconv"

	"github.com/gekko3d/blockade/ecs"
)

// Names hands out unique entity names per prefix ("enemy1", "enemy2", ...).
// It lives in a World so counters never leak between worlds.
type Names struct {
	counters map[string]int
}

func NewNames() *Names {
	return &Names{counters: make(map[string]int)}
}

func (n *Names) Next(prefix string) string {
	n.counters[prefix]++
	return prefix + strconv.Itoa(n.counters[prefix])
}

// NextName draws from the world's Names resource, installing one on first use.
func NextName(w *ecs.World, prefix string) string {
	names, ok := ecs.GetResource[*Names](w)
	if !ok {
		names = NewNames()
		w.AddResource(names)
	}
	return names.Next(prefix)
}
