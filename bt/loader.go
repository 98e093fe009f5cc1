package bt

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownNode = errors.New("unknown node")
	ErrUnknownType = errors.New("unknown node type")
	ErrCycle       = errors.New("node cycle")
)

// Config describes a tree by naming its nodes; Root names the entry node.
type Config struct {
	Root  string                `yaml:"root"`
	Nodes map[string]ConfigNode `yaml:"nodes"`
}

type ConfigNode struct {
	Type     string   `yaml:"type"`
	Label    string   `yaml:"label,omitempty"`
	Children []string `yaml:"children,omitempty"`
	Child    string   `yaml:"child,omitempty"`
	Params   Params   `yaml:"params,omitempty"`
}

// Params are the free-form parameters of a config node.
type Params map[string]any

func (p Params) String(key, def string) string {
	if s, ok := p[key].(string); ok {
		return s
	}
	return def
}

func (p Params) Float(key string, def float32) float32 {
	switch v := p[key].(type) {
	case int:
		return float32(v)
	case float64:
		return float32(v)
	}
	return def
}

// Duration accepts either a Go duration string or a number of seconds.
func (p Params) Duration(key string, def time.Duration) (time.Duration, error) {
	switch v := p[key].(type) {
	case nil:
		return def, nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("param %s: %w", key, err)
		}
		return d, nil
	case int:
		return time.Duration(v) * time.Second, nil
	case float64:
		return time.Duration(v * float64(time.Second)), nil
	}
	return 0, fmt.Errorf("param %s: unsupported value %v", key, p[key])
}

// LeafFactory builds a leaf node from its config params.
type LeafFactory func(name string, params Params) (Node, error)

// Registry maps leaf type names to factories. Composite types and wait are
// built in.
type Registry struct {
	leaves map[string]LeafFactory
}

func NewRegistry() *Registry {
	return &Registry{leaves: make(map[string]LeafFactory)}
}

func (r *Registry) Register(typ string, f LeafFactory) {
	r.leaves[typ] = f
}

// Types lists the registered leaf types.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.leaves))
	for t := range r.leaves {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func LoadYAML(r io.Reader) (*Config, error) {
	var c Config
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode behavior tree: %w", err)
	}
	return &c, nil
}

// Build instantiates a fresh tree. Nodes referenced from several places are
// built once per reference, since every node has exactly one parent.
func (c *Config) Build(reg *Registry) (Node, error) {
	b := &builder{cfg: c, reg: reg, visiting: make(map[string]bool)}
	return b.build(c.Root)
}

type builder struct {
	cfg      *Config
	reg      *Registry
	visiting map[string]bool
}

func (b *builder) build(key string) (Node, error) {
	nc, ok := b.cfg.Nodes[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, key)
	}
	if b.visiting[key] {
		return nil, fmt.Errorf("%w through %q", ErrCycle, key)
	}
	b.visiting[key] = true
	defer delete(b.visiting, key)

	name := nc.Label
	if name == "" {
		name = key
	}

	switch nc.Type {
	case "sequence", "selector", "parallel":
		children := make([]Node, 0, len(nc.Children))
		for _, ck := range nc.Children {
			child, err := b.build(ck)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		switch nc.Type {
		case "sequence":
			return NewSequence(name, children...), nil
		case "selector":
			return NewSelector(name, children...), nil
		default:
			return NewParallel(name, children...), nil
		}
	case "not":
		if nc.Child == "" {
			return nil, fmt.Errorf("node %q: not requires a child", key)
		}
		child, err := b.build(nc.Child)
		if err != nil {
			return nil, err
		}
		return NewNot(name, child), nil
	case "wait":
		d, err := nc.Params.Duration("duration", time.Second)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", key, err)
		}
		v, err := nc.Params.Duration("variation", 0)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", key, err)
		}
		return NewWait(name, d, v), nil
	}

	f, ok := b.reg.leaves[nc.Type]
	if !ok {
		return nil, fmt.Errorf("node %q: %w %q", key, ErrUnknownType, nc.Type)
	}
	n, err := f(name, nc.Params)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", key, err)
	}
	return n, nil
}
