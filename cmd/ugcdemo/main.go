// Command ugcdemo drives a collector through a canned object graph so the
// incremental state machine can be watched step by step. Grounded on
// cmd/nova/main.go's plain flag-package CLI shape.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"

	"github.com/tangzhangming/ugc/gc"
	"github.com/tangzhangming/ugc/guard"
	"github.com/tangzhangming/ugc/ugcconfig"
	"github.com/tangzhangming/ugc/ugclog"
	"github.com/tangzhangming/ugc/ugcrpc"
)

var (
	scenario   = flag.String("scenario", "chain", "object graph to build: chain, cycle, fan")
	steps      = flag.Int("steps", 0, "run exactly N Step() calls instead of Collect()")
	showStats  = flag.Bool("stats", true, "print Stats() after running")
	configPath = flag.String("config", "", "path to a ugc.toml file (default: search upward from .)")
	serve      = flag.Bool("serve", false, "start the JSON-RPC2 introspection endpoint (overrides config)")
)

func main() {
	flag.Parse()

	cfg := loadConfig()

	logger := ugclog.New(cfg.Collector.LogLevel == "debug")
	defer logger.Sync()

	gc.EnableAssertions(cfg.Collector.DebugAssertions)

	demo := buildScenario(*scenario)
	if demo == nil {
		fmt.Fprintf(os.Stderr, "ugcdemo: unknown scenario %q (want chain, cycle, or fan)\n", *scenario)
		os.Exit(1)
	}

	collector := gc.NewCollector(demo.scan, demo.release, gc.WithLogger(logger))
	for _, o := range demo.objects {
		collector.Register(o.h)
	}
	guarded := guard.New(collector)

	if *serve || cfg.Introspection.Enabled {
		runIntrospection(guarded, cfg.Introspection.Listen, logger)
	}

	if *steps > 0 {
		for i := 0; i < *steps; i++ {
			guarded.Step()
		}
	} else {
		guarded.Collect()
	}

	fmt.Printf("released: %v\n", demo.releasedNames())

	if *showStats {
		s := guarded.Stats()
		fmt.Printf("state=%s white=%d from=%d to=%d cycles=%d released=%d registered=%d\n",
			s.State, s.White, s.FromCount, s.ToCount, s.Cycles, s.Released, s.Registered)
	}
}

func loadConfig() *ugcconfig.Config {
	path := *configPath
	if path == "" {
		path = ugcconfig.FindConfigFile(".")
	}
	if path == "" {
		return ugcconfig.Default()
	}
	cfg, err := ugcconfig.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ugcdemo: %v (using defaults)\n", err)
		return ugcconfig.Default()
	}
	return cfg
}

func runIntrospection(guarded *guard.Guarded, addr string, logger *ugclog.Logger) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ugcdemo: introspection listen: %v\n", err)
		return
	}
	srv := ugcrpc.NewServer(ln, guarded, logger)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	go func() {
		if err := srv.Run(ctx); err != nil {
			logger.Warnf("ugcrpc server stopped: %v", err)
		}
		cancel()
	}()
	fmt.Printf("introspection: listening on %s (method %q)\n", ln.Addr(), ugcrpc.StatsMethod)
}
