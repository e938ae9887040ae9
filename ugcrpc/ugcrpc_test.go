package ugcrpc_test

import (
	"context"
	"net"
	"testing"
	"time"

	"go.lsp.dev/jsonrpc2"

	"github.com/tangzhangming/ugc/gc"
	"github.com/tangzhangming/ugc/guard"
	"github.com/tangzhangming/ugc/ugcrpc"
)

func noopHandler(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	return reply(ctx, nil, nil)
}

func TestStatsMethodReturnsCollectorStats(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	c := gc.NewCollector(
		func(gcc *gc.Collector, hdr *gc.Header) {},
		func(gcc *gc.Collector, hdr *gc.Header) {},
	)
	g := guard.New(c)
	a := gc.NewHeader(struct{}{})
	g.Register(a)

	srv := ugcrpc.NewServer(ln, g, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go srv.Run(ctx)

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	client := jsonrpc2.NewConn(jsonrpc2.NewStream(conn))
	go client.Go(ctx, noopHandler)

	var stats gc.Stats
	if _, err := client.Call(ctx, ugcrpc.StatsMethod, nil, &stats); err != nil {
		t.Fatalf("Call(%s): %v", ugcrpc.StatsMethod, err)
	}
	if stats.Registered != 1 {
		t.Errorf("expected Registered=1, got %d", stats.Registered)
	}
}
