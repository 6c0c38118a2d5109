package reldbwire

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"reldb/internal/sql/executor"
)

// Server serves the frame protocol over TCP. All connections share one
// database; the engine core is single-threaded, so statement execution
// is serialized behind a mutex.
type Server struct {
	addr string
	ex   *executor.Engine
	log  *zap.SugaredLogger

	mu sync.Mutex
}

func NewServer(addr string, ex *executor.Engine, log *zap.SugaredLogger) *Server {
	return &Server{addr: addr, ex: ex, log: log}
}

// Run accepts connections until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer func() { _ = ln.Close() }()

	s.log.Infow("listening", "addr", ln.Addr().String())

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			s.log.Warnw("accept failed", "error", err)
			continue
		}
		go s.handleConn(ctx, conn)
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer func() { _ = conn.Close() }()
	_ = conn.SetDeadline(time.Time{})

	s.log.Debugw("client connected", "remote", conn.RemoteAddr().String())

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var req ExecuteRequest
		if err := ReadFrame(conn, &req); err != nil {
			// Client closed or sent a bad frame.
			return
		}

		if strings.TrimSpace(req.SQL) == "" {
			_ = WriteFrame(conn, ExecuteResponse{ID: req.ID, Error: "empty statement"})
			continue
		}

		s.mu.Lock()
		res := s.ex.Execute(req.SQL)
		s.mu.Unlock()

		if err := WriteFrame(conn, ExecuteResponse{ID: req.ID, Result: res}); err != nil {
			s.log.Warnw("write response failed", "error", err)
			return
		}
	}
}
