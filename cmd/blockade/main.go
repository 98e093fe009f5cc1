// Command blockade runs the simulation headless, optionally streaming the
// nearest enemy's behavior tree to a relay.
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
	"syscall"
	"time"

	"github.com/pkg/profile"
	"golang.org/x/sync/errgroup"

	"github.com/gekko3d/blockade"
	"github.com/gekko3d/blockade/internal/relay"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "blockade:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "YAML config file")
	frames := flag.Int("frames", -1, "stop after this many frames (0 runs until interrupted)")
	profileMode := flag.String("profile", "", "write a cpu or mem profile to the working directory")
	relayAddr := flag.String("relay", "", "also serve the debug relay on this address, e.g. :8090")
	debugURL := flag.String("debug-url", "", "websocket URL behavior tree dumps are sent to")
	flag.Parse()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", *profileMode)
	}

	cfg := blockade.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = blockade.LoadConfigFile(*configPath); err != nil {
			return err
		}
	}
	if *frames >= 0 {
		cfg.Frames = *frames
	}
	if *debugURL != "" {
		cfg.Debug.URL = *debugURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := blockade.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger, err := blockade.NewZapLogger("blockade", level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cfg, logger, *relayAddr)
}

// serve runs the simulation, and the relay when relayAddr is set, until ctx
// is done or the configured frames have run.
func serve(ctx context.Context, cfg blockade.Config, logger *blockade.ZapLogger, relayAddr string) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if relayAddr != "" {
		ln, err := net.Listen("tcp", relayAddr)
		if err != nil {
			return fmt.Errorf("relay listen: %w", err)
		}
		hub := relay.NewHub(logger.Zap().Named("relay"))
		srv := &http.Server{Handler: hub, ReadHeaderTimeout: 5 * time.Second}
		logger.Infof("relay listening on %s", ln.Addr())
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
	}

	var sink blockade.DotSink
	if cfg.Debug.URL != "" {
		ws, err := blockade.DialWebsocketSink(ctx, cfg.Debug.URL)
		if err != nil {
			logger.Warnf("debug session disabled: %v", err)
		} else {
			sink = ws
		}
	}

	app, err := blockade.NewApp(cfg, logger, sink)
	if err != nil {
		if sink != nil {
			_ = sink.Close()
		}
		stop()
		return errors.Join(err, g.Wait())
	}
	g.Go(func() error {
		defer stop()
		defer app.Close()
		return app.Run(ctx)
	})
	return g.Wait()
}
