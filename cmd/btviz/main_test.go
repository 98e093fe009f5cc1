package main

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gekko3d/blockade"
	"github.com/gekko3d/blockade/internal/relay"
)

func TestDumpName(t *testing.T) {
	tests := []struct {
		entity string
		want   string
	}{
		{"enemy1", "enemy1"},
		{"../escaped", "escaped"},
		{"/etc/passwd", "passwd"},
		{`..\..\win`, "win"},
		{"a b.c", "abc"},
		{"..", "tree"},
		{"", "tree"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dumpName(tt.entity), tt.entity)
	}
}

func TestDumpTrees_StaysInDir(t *testing.T) {
	hub := relay.NewHub(nil)
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	root := t.TempDir()
	dir := filepath.Join(root, "dumps")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- dumpTrees(ctx, url, dir, zap.NewNop()) }()
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 5*time.Millisecond)

	sender, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer sender.Close()
	require.Eventually(t, func() bool { return hub.Len() == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, sender.WriteJSON(blockade.DotMessage{Type: "dot", Dot: "digraph behavior_tree {\n}", Entity: "../escaped"}))

	inside := filepath.Join(dir, "escaped-00000.dot")
	require.Eventually(t, func() bool {
		_, err := os.Stat(inside)
		return err == nil
	}, time.Second, 5*time.Millisecond)
	_, err = os.Stat(filepath.Join(root, "escaped-00000.dot"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("dumpTrees did not stop")
	}
}
