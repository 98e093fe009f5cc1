package main

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gekko3d/blockade"
	"github.com/gekko3d/blockade/internal/relay"
)

func testConfig() blockade.Config {
	cfg := blockade.DefaultConfig()
	cfg.Seed = 5
	cfg.TickRate = 1000
	cfg.Terrain = blockade.TerrainConfig{X: 16, Y: 4, Z: 16}
	return cfg
}

func nopLogger() *blockade.ZapLogger {
	return blockade.NewZapLoggerFrom(zap.NewNop(), zap.NewAtomicLevel())
}

func TestServe_RunsFrames(t *testing.T) {
	cfg := testConfig()
	cfg.Frames = 3

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, serve(ctx, cfg, nopLogger(), "127.0.0.1:0"))
}

func TestServe_BuildFailureReleasesSinkAndRelay(t *testing.T) {
	viewer := relay.NewHub(nil)
	srv := httptest.NewServer(viewer)
	t.Cleanup(func() {
		viewer.Close()
		srv.Close()
	})

	cfg := testConfig()
	cfg.EnemyBrain = filepath.Join(t.TempDir(), "missing.yaml")
	cfg.Debug.URL = "ws" + strings.TrimPrefix(srv.URL, "http")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg, nopLogger(), "127.0.0.1:0") }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, os.ErrNotExist)
	case <-time.After(2 * time.Second):
		t.Fatal("serve kept running after the app failed to build")
	}
	require.Eventually(t, func() bool { return viewer.Len() == 0 }, time.Second, 5*time.Millisecond,
		"the debug sink is closed")
}
