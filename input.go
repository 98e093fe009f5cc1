package blockade

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gekko3d/blockade/ecs"
	"github.com/gekko3d/blockade/vmath"
)

type Key int

const (
	KeyA Key = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyShift
	MouseButtonLeft
	MouseButtonRight

	keyCount
)

var keyNames = map[string]Key{
	"space":  KeySpace,
	" ":      KeySpace,
	"enter":  KeyEnter,
	"escape": KeyEscape,
	"tab":    KeyTab,
	"shift":  KeyShift,
	"mouse1": MouseButtonLeft,
	"mouse2": MouseButtonRight,
}

// ParseKey maps a key name ("w", "space", "mouse1") to its Key.
func ParseKey(name string) (Key, bool) {
	name = strings.ToLower(name)
	if len(name) == 1 && name[0] >= 'a' && name[0] <= 'z' {
		return KeyA + Key(name[0]-'a'), true
	}
	k, ok := keyNames[name]
	return k, ok
}

// Input is the keyboard and mouse state fed by the host. Release edges stay
// visible for exactly one frame.
type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	// MousePosition is normalized to [-1, 1] on both axes.
	MousePosition vmath.Vec2
	// MousePicked is where the cursor meets the terrain, as computed by the
	// render side.
	MousePicked vmath.Vec3
}

func NewInput() *Input {
	return &Input{}
}

func (in *Input) Press(k Key) {
	if !in.Pressed[k] {
		in.JustPressed[k] = true
	}
	in.Pressed[k] = true
}

func (in *Input) Release(k Key) {
	if in.Pressed[k] {
		in.JustReleased[k] = true
	}
	in.Pressed[k] = false
}

func (in *Input) KeyDown(k Key) bool {
	return in.Pressed[k]
}

func (in *Input) KeyPressed(k Key) bool {
	return in.JustPressed[k]
}

func (in *Input) KeyReleased(k Key) bool {
	return in.JustReleased[k]
}

func (in *Input) MouseDown() bool {
	return in.Pressed[MouseButtonLeft]
}

func (in *Input) PostUpdate(*ecs.UpdateContext) {
	in.JustPressed = [keyCount]bool{}
	in.JustReleased = [keyCount]bool{}
}

// InputEvent is one scripted key transition.
type InputEvent struct {
	At      time.Duration `yaml:"at"`
	Key     string        `yaml:"key"`
	Release bool          `yaml:"release,omitempty"`
	// Aim sets the picked mouse position before the key is applied.
	Aim *[3]float32 `yaml:"aim,omitempty"`
}

// InputScript replays timed input events, standing in for a window when the
// simulation runs headless.
type InputScript struct {
	events []scriptedKey
	next   int
}

type scriptedKey struct {
	InputEvent
	key Key
}

// NewInputScript validates the key names and orders the events by time.
func NewInputScript(events []InputEvent) (*InputScript, error) {
	s := &InputScript{events: make([]scriptedKey, 0, len(events))}
	for i, ev := range events {
		k, ok := ParseKey(ev.Key)
		if !ok {
			return nil, fmt.Errorf("input event %d: unknown key %q", i, ev.Key)
		}
		s.events = append(s.events, scriptedKey{InputEvent: ev, key: k})
	}
	slices.SortStableFunc(s.events, func(a, b scriptedKey) int {
		return cmp.Compare(a.At, b.At)
	})
	return s, nil
}

// Done reports whether every event has been replayed.
func (s *InputScript) Done() bool {
	return s.next >= len(s.events)
}

// Apply feeds every event due at now into in.
func (s *InputScript) Apply(in *Input, now time.Duration) {
	for s.next < len(s.events) && s.events[s.next].At <= now {
		ev := s.events[s.next]
		s.next++
		if ev.Aim != nil {
			in.MousePicked = vmath.Vec3(*ev.Aim)
		}
		if ev.Release {
			in.Release(ev.key)
		} else {
			in.Press(ev.key)
		}
	}
}
