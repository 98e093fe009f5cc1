package ecs

import (
	"math/rand/v2"
	"time"
)

// UpdateContext is supplied by the host loop once per frame.
type UpdateContext struct {
	// Dt is the frame length in seconds; zero while paused.
	Dt float32
	// Now is a monotonic timestamp.
	Now   time.Duration
	Rand  *rand.Rand
	World *World
}

// Float32 draws from ctx.Rand, falling back to the global source.
func (ctx *UpdateContext) Float32() float32 {
	if ctx.Rand != nil {
		return ctx.Rand.Float32()
	}
	return rand.Float32()
}

type InitContext struct {
	World *World
}

type CleanupContext struct {
	World *World
}

type RenderContext struct {
	UpdateContext
	// Pass is the renderer's draw handle. The simulation never inspects it.
	Pass any
}
