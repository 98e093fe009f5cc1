package blockade

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gekko3d/blockade/ecs"
)

const testDt = float32(1.0 / 60)

func newTestWorld() *ecs.World {
	return ecs.NewWorld(NewRegistry())
}

// observedLogger installs a logger whose entries can be inspected.
func observedLogger(w *ecs.World) *observer.ObservedLogs {
	core, logs := observer.New(zapcore.DebugLevel)
	w.AddResource(NewZapLoggerFrom(zap.New(core), zap.NewAtomicLevelAt(zapcore.DebugLevel)))
	return logs
}

// stepper drives a world with its own clock and seeded rand.
type stepper struct {
	t   *testing.T
	w   *ecs.World
	now time.Duration
	rng *rand.Rand
}

func newStepper(t *testing.T, w *ecs.World) *stepper {
	return &stepper{t: t, w: w, rng: rand.New(rand.NewPCG(1, 2))}
}

func (s *stepper) step(dt float32) {
	s.t.Helper()
	s.now += time.Duration(float64(dt) * float64(time.Second))
	require.NoError(s.t, s.w.Update(&ecs.UpdateContext{Dt: dt, Now: s.now, Rand: s.rng, World: s.w}))
}

func (s *stepper) frames(n int, dt float32) {
	s.t.Helper()
	for range n {
		s.step(dt)
	}
}
