package blockade

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/blockade/vmath"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		name string
		want Key
		ok   bool
	}{
		{"a", KeyA, true},
		{"W", KeyW, true},
		{"space", KeySpace, true},
		{"mouse1", MouseButtonLeft, true},
		{"ctrl", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, ok := ParseKey(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, k)
			}
		})
	}
}

func TestInput_EdgesLastOneFrame(t *testing.T) {
	in := NewInput()

	in.Press(KeyP)
	assert.True(t, in.KeyDown(KeyP))
	assert.True(t, in.KeyPressed(KeyP))
	in.PostUpdate(nil)
	assert.True(t, in.KeyDown(KeyP))
	assert.False(t, in.KeyPressed(KeyP))

	in.Release(KeyP)
	assert.False(t, in.KeyDown(KeyP))
	assert.True(t, in.KeyReleased(KeyP))
	in.PostUpdate(nil)
	assert.False(t, in.KeyReleased(KeyP))

	in.Release(KeyP)
	assert.False(t, in.KeyReleased(KeyP), "releasing an unpressed key is not an edge")
}

func TestInputScript_ReplaysInOrder(t *testing.T) {
	aim := [3]float32{4, 1, 5}
	script, err := NewInputScript([]InputEvent{
		{At: 200 * time.Millisecond, Key: "w", Release: true},
		{At: 100 * time.Millisecond, Key: "w"},
		{At: 100 * time.Millisecond, Key: "mouse1", Aim: &aim},
	})
	require.NoError(t, err)
	in := NewInput()

	script.Apply(in, 50*time.Millisecond)
	assert.False(t, in.KeyDown(KeyW))

	script.Apply(in, 150*time.Millisecond)
	assert.True(t, in.KeyDown(KeyW))
	assert.True(t, in.MouseDown())
	assert.Equal(t, vmath.Vec3{4, 1, 5}, in.MousePicked)
	assert.False(t, script.Done())

	script.Apply(in, time.Second)
	assert.False(t, in.KeyDown(KeyW))
	assert.True(t, script.Done())
}

func TestInputScript_UnknownKey(t *testing.T) {
	_, err := NewInputScript([]InputEvent{{Key: "hyper"}})
	assert.ErrorContains(t, err, `unknown key "hyper"`)
}
