package blockade

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gekko3d/blockade/bt"
	"github.com/gekko3d/blockade/ecs"
	"github.com/gekko3d/blockade/vmath"
)

const (
	DefaultBakeTime = 300 * time.Millisecond

	defaultDotQueue = 64
	sinkBuffer      = 16
	sinkWriteWait   = time.Second
)

var (
	ErrSinkFull   = errors.New("debug sink is full")
	ErrSinkClosed = errors.New("debug sink is closed")
)

// DotMessage is the wire format of a behavior tree dump.
type DotMessage struct {
	Type    string `json:"type"`
	Dot     string `json:"dot"`
	Session string `json:"session,omitempty"`
	Entity  string `json:"entity,omitempty"`
}

// DotSink delivers dumps to an external viewer. Send must not block the
// frame.
type DotSink interface {
	Send(msg DotMessage) error
	Close() error
}

// DebugSession streams the behavior tree of the enemy nearest to the player.
// Distinct consecutive states are queued and released one per bake interval,
// so quick transitions stay readable on the viewer. The session owns the set
// of states already seen; it is dropped with the session.
type DebugSession struct {
	id       uuid.UUID
	sink     DotSink
	bakeTime time.Duration
	maxQueue int

	// enemy is the name of the tracked enemy. It keeps pointing at the last
	// one after the player dies.
	enemy    string
	queue    []string
	seen     map[uint64]struct{}
	nextSend time.Duration
}

func NewDebugSession(sink DotSink, cfg DebugConfig) *DebugSession {
	return &DebugSession{
		id:       uuid.New(),
		sink:     sink,
		bakeTime: cfg.BakeTime,
		maxQueue: max(cfg.QueueSize, 1),
		seen:     make(map[uint64]struct{}),
	}
}

func (s *DebugSession) ID() uuid.UUID {
	return s.id
}

// Tracked returns the name of the enemy being streamed.
func (s *DebugSession) Tracked() string {
	return s.enemy
}

// Seen returns the number of distinct tree states observed.
func (s *DebugSession) Seen() int {
	return len(s.seen)
}

// PostUpdate runs after the trees stepped and before they are maintained, so
// finished branches still show their outcome.
func (s *DebugSession) PostUpdate(ctx *ecs.UpdateContext) {
	w := ctx.World
	s.track(w)
	if s.enemy == "" {
		return
	}
	e, ok := w.GetByName(s.enemy)
	if !ok {
		return
	}
	tree, ok := ecs.Get[*bt.Tree](e)
	if !ok {
		return
	}

	dot := tree.Dot()
	if digest := xxhash.Sum64String(dot); !s.known(digest) {
		s.seen[digest] = struct{}{}
		LoggerOf(w).Debugf("new tree state for %s:\n%s", s.enemy, dot)
	}

	if len(s.queue) == 0 || s.queue[len(s.queue)-1] != dot {
		s.queue = append(s.queue, dot)
		if len(s.queue) > s.maxQueue {
			s.queue = s.queue[1:]
		}
		return
	}
	if ctx.Now < s.nextSend {
		return
	}

	next := s.queue[0]
	s.queue = s.queue[1:]
	err := s.sink.Send(DotMessage{Type: "dot", Dot: next, Session: s.id.String(), Entity: s.enemy})
	if err != nil {
		LoggerOf(w).Warnf("debug session %s: %v", s.id, err)
	}
	s.nextSend = ctx.Now + s.bakeTime
}

func (s *DebugSession) known(digest uint64) bool {
	_, ok := s.seen[digest]
	return ok
}

func (s *DebugSession) track(w *ecs.World) {
	player, ok := PositionOf(w, PlayerName)
	if !ok {
		return
	}
	best := float32(math.MaxFloat32)
	for _, e := range w.Entities() {
		if !strings.HasPrefix(e.Name(), EnemyPrefix) {
			continue
		}
		tr, ok := ecs.Get[*Transform](e)
		if !ok {
			continue
		}
		if d := vmath.LengthSquared3(player.Sub(tr.Position)); d < best {
			best = d
			s.enemy = e.Name()
		}
	}
}

// Destroy closes the sink and forgets every state seen.
func (s *DebugSession) Destroy() {
	_ = s.sink.Close()
	clear(s.seen)
	s.queue = nil
}

// WebsocketSink writes dumps to a websocket from its own goroutine, dropping
// messages rather than stalling the frame when the connection lags.
type WebsocketSink struct {
	conn *websocket.Conn
	out  chan DotMessage
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once

	mu  sync.Mutex
	err error
}

func DialWebsocketSink(ctx context.Context, url string) (*WebsocketSink, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial debug relay %s: %w", url, err)
	}
	s := &WebsocketSink{
		conn: conn,
		out:  make(chan DotMessage, sinkBuffer),
		done: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.writeLoop()
	return s, nil
}

func (s *WebsocketSink) Send(msg DotMessage) error {
	if err := s.Err(); err != nil {
		return err
	}
	select {
	case <-s.done:
		return ErrSinkClosed
	default:
	}
	select {
	case s.out <- msg:
		return nil
	default:
		return ErrSinkFull
	}
}

// Err returns the write error that stopped the sink, if any.
func (s *WebsocketSink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *WebsocketSink) writeLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case msg := <-s.out:
			_ = s.conn.SetWriteDeadline(time.Now().Add(sinkWriteWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				s.mu.Lock()
				s.err = fmt.Errorf("write debug message: %w", err)
				s.mu.Unlock()
				return
			}
		}
	}
}

func (s *WebsocketSink) Close() error {
	closed := false
	s.once.Do(func() {
		closed = true
		close(s.done)
	})
	if !closed {
		return ErrSinkClosed
	}
	s.wg.Wait()
	deadline := time.Now().Add(sinkWriteWait)
	_ = s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	return s.conn.Close()
}
