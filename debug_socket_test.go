package blockade

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/blockade/bt"
	"github.com/gekko3d/blockade/ecs"
	"github.com/gekko3d/blockade/internal/relay"
	"github.com/gekko3d/blockade/vmath"
)

type recordingSink struct {
	sent   []DotMessage
	closed bool
}

func (s *recordingSink) Send(msg DotMessage) error {
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSink) Close() error {
	s.closed = true
	return nil
}

func debugConfig() DebugConfig {
	return DebugConfig{BakeTime: DefaultBakeTime, QueueSize: defaultDotQueue}
}

func TestDebugSession_BakesDistinctStates(t *testing.T) {
	w := newTestWorld()
	sink := &recordingSink{}
	session := NewDebugSession(sink, debugConfig())
	w.AddResource(session)

	alert := true
	tree := bt.NewTree(bt.NewCondition("alert", bt.PredicateFunc(func(*bt.Context) bool { return alert })))
	w.AddEntities(
		w.NewEntity(PlayerName).With(NewTransform(vmath.Vec3{10, 1.6, 10})),
		w.NewEntity("enemy1").With(NewTransform(vmath.Vec3{12, 1.6, 10}), tree),
	)

	s := newStepper(t, w)
	s.step(0.1)
	assert.Equal(t, "enemy1", session.Tracked())
	assert.Empty(t, sink.sent, "the first state is queued")

	alert = false
	s.step(0.1)
	s.step(0.1)
	require.Len(t, sink.sent, 1)
	assert.Contains(t, sink.sent[0].Dot, "lightgreen")

	s.step(0.1)
	s.step(0.1)
	assert.Len(t, sink.sent, 1, "nothing is sent within the bake time")

	s.step(0.1)
	require.Len(t, sink.sent, 2)
	assert.Contains(t, sink.sent[1].Dot, "indianred1")
	assert.Equal(t, 2, session.Seen())

	for _, msg := range sink.sent {
		assert.Equal(t, "dot", msg.Type)
		assert.Equal(t, "enemy1", msg.Entity)
		assert.Equal(t, session.ID().String(), msg.Session)
		assert.True(t, strings.HasPrefix(msg.Dot, "digraph behavior_tree {"))
	}

	w.Destroy()
	assert.True(t, sink.closed)
	assert.Zero(t, session.Seen())
}

func TestDebugSession_TracksNearestEnemy(t *testing.T) {
	w := newTestWorld()
	session := NewDebugSession(&recordingSink{}, debugConfig())
	w.AddResource(session)
	w.AddEntities(w.NewEntity(PlayerName).With(NewTransform(vmath.Vec3{10, 1.6, 10})))

	far, err := NewEnemy(w, vmath.Vec3{30, 1.6, 30})
	require.NoError(t, err)
	near, err := NewEnemy(w, vmath.Vec3{13, 1.6, 10})
	require.NoError(t, err)
	w.AddEntities(far, near)

	s := newStepper(t, w)
	s.step(testDt)
	assert.Equal(t, near.Name(), session.Tracked())

	w.RemoveEntity(PlayerName)
	s.step(testDt)
	assert.Equal(t, near.Name(), session.Tracked(), "keeps the last enemy once the player is gone")
}

func TestDebugSession_NothingToTrack(t *testing.T) {
	w := newTestWorld()
	sink := &recordingSink{}
	session := NewDebugSession(sink, debugConfig())
	w.AddResource(session)

	newStepper(t, w).frames(10, 0.1)
	assert.Empty(t, session.Tracked())
	assert.Empty(t, sink.sent)
}

func TestWebsocketSink_DeliversThroughRelay(t *testing.T) {
	hub := relay.NewHub(nil)
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	viewer, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer viewer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	sink, err := DialWebsocketSink(ctx, url)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Len() == 2 }, time.Second, 5*time.Millisecond)

	want := DotMessage{Type: "dot", Dot: "digraph behavior_tree {\n}\n", Session: "s1", Entity: "enemy1"}
	require.NoError(t, sink.Send(want))

	require.NoError(t, viewer.SetReadDeadline(time.Now().Add(time.Second)))
	var got DotMessage
	require.NoError(t, viewer.ReadJSON(&got))
	assert.Equal(t, want, got)

	require.NoError(t, sink.Close())
	assert.ErrorIs(t, sink.Close(), ErrSinkClosed)
	assert.ErrorIs(t, sink.Send(want), ErrSinkClosed)
}

func TestDialWebsocketSink_Unreachable(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	srv.Close()

	_, err := DialWebsocketSink(context.Background(), url)
	assert.Error(t, err)
}

var _ ecs.Destroyer = (*DebugSession)(nil)
