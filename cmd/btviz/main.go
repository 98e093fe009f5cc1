// Command btviz serves the behavior tree relay. With -dump it also listens on
// the relay itself and writes every received tree to a numbered .dot file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gekko3d/blockade"
	"github.com/gekko3d/blockade/internal/relay"
)

func main() {
	addr := flag.String("addr", ":8090", "relay listen address")
	dump := flag.String("dump", "", "directory received trees are written to")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "btviz:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(*addr, *dump, log); err != nil {
		log.Fatal("btviz stopped", zap.Error(err))
	}
}

func run(addr, dump string, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	hub := relay.NewHub(log.Named("relay"))
	srv := &http.Server{Handler: hub, ReadHeaderTimeout: 5 * time.Second}
	log.Info("relay listening", zap.Stringer("addr", ln.Addr()))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		hub.Close()
		shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	})
	if dump != "" {
		url := "ws://" + ln.Addr().String()
		g.Go(func() error {
			return dumpTrees(ctx, url, dump, log)
		})
	}
	return g.Wait()
}

func dumpTrees(ctx context.Context, url, dir string, log *zap.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial relay: %w", err)
	}
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for n := 0; ; n++ {
		var msg blockade.DotMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read tree: %w", err)
		}
		path := filepath.Join(dir, fmt.Sprintf("%s-%05d.dot", dumpName(msg.Entity), n))
		if err := os.WriteFile(path, []byte(msg.Dot), 0o644); err != nil {
			return err
		}
		log.Debug("tree written", zap.String("path", path), zap.String("session", msg.Session))
	}
}

// dumpName reduces an entity name from the wire to a bare file name stem.
func dumpName(entity string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return -1
	}, filepath.Base(entity))
	if name == "" {
		return "tree"
	}
	return name
}
