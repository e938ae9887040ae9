// Package ugcrpc exposes collector statistics over JSON-RPC2, grounded on
// internal/lsp2/server.go's "one small server, one mutex, one Run(ctx)
// loop" shape. It trades that file's hand-rolled Content-Length framing
// for go.lsp.dev/jsonrpc2's Conn/Stream, and encoding/json for
// github.com/segmentio/encoding/json, since polling a stats endpoint is
// exactly the hot, repetitive marshal path that swap is for.
package ugcrpc

import (
	"context"
	"fmt"
	"net"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"

	"github.com/tangzhangming/ugc/guard"
)

// StatsMethod is the single JSON-RPC2 method this server handles: it
// takes no params and returns the collector's current gc.Stats.
const StatsMethod = "gc.stats"

// Server accepts connections on a listener and answers StatsMethod calls
// against a guarded collector. It has no notion of documents, positions,
// or any other LSP-domain concept — see DESIGN.md for why
// go.lsp.dev/protocol and go.lsp.dev/uri have no role here.
type Server struct {
	listener  net.Listener
	collector *guard.Guarded
	logger    Logger
}

// Logger receives connection lifecycle messages. gc.Logger satisfies it.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

// NewServer wraps an already-bound listener. Use net.Listen("tcp", addr)
// per ugcconfig.IntrospectionConfig.Listen.
func NewServer(listener net.Listener, collector *guard.Guarded, logger Logger) *Server {
	return &Server{listener: listener, collector: collector, logger: logger}
}

// Run accepts connections until ctx is canceled or the listener errors.
// Each connection is served on its own goroutine; Run returns once the
// listener is closed.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return err
			}
		}
		go s.serve(ctx, conn)
	}
}

func (s *Server) serve(ctx context.Context, nc net.Conn) {
	stream := jsonrpc2.NewStream(nc)
	conn := jsonrpc2.NewConn(stream)
	conn.Go(ctx, s.handle)
	<-conn.Done()
	if s.logger != nil {
		s.logger.Debugf("ugcrpc: connection from %s closed", nc.RemoteAddr())
	}
}

func (s *Server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	if req.Method() != StatsMethod {
		return reply(ctx, nil, fmt.Errorf("ugcrpc: unknown method %q", req.Method()))
	}

	stats := s.collector.Stats()
	payload, err := json.Marshal(stats)
	if err != nil {
		return reply(ctx, nil, err)
	}

	var raw json.RawMessage = payload
	return reply(ctx, raw, nil)
}
