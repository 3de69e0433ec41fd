package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"

	"statusapi/internal/config"
)

// Gate must succeed before the server accepts any connection.
type Gate interface {
	Wait(ctx context.Context) error
}

type Server struct {
	cfg     config.Config
	handler http.Handler
	gate    Gate
	log     *zap.Logger
}

func New(cfg config.Config, handler http.Handler, gate Gate, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{cfg: cfg, handler: handler, gate: gate, log: log}
}

// Run waits for the gate, binds cfg.Addr() and serves until ctx is done.
// A gate failure is returned before any port is bound.
func (s *Server) Run(ctx context.Context) error {
	if err := s.gate.Wait(ctx); err != nil {
		return err
	}
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr(), err)
	}
	return s.serve(ctx, ln)
}

// Serve is Run on a caller-provided listener. ln is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if err := s.gate.Wait(ctx); err != nil {
		ln.Close()
		return err
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("API running", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("graceful shutdown error", zap.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("API stopped")
	return nil
}
