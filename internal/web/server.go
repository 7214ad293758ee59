// Package web serves the network animation over HTTP: catalogue and state
// as JSON, the rendered sources as GeoJSON, and Prometheus metrics.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/paulmach/orb"

	"sagamino/internal/geodesy"
	"sagamino/internal/network"
)

// Server exposes a running network.Loop. The loop must not be started
// elsewhere; ListenAndServe runs it.
type Server struct {
	Loop    *network.Loop
	Geodesy geodesy.Adapter
	Initial orb.Bound
	Metrics *Metrics
	Logger  *slog.Logger
	Addr    string
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}

// initial falls back to the padded catalogue extent when Initial is unset.
func (s *Server) initial() orb.Bound {
	if s.Initial.IsZero() {
		return s.Loop.Graph().Registry().Bound().Pad(0.02)
	}
	return s.Initial
}

func (s *Server) viewport(snap network.Snapshot) orb.Bound {
	return network.Viewport(snap.Stage, s.initial(), s.Loop.WideBounds())
}

// Handler builds the routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/points", s.handlePoints)
	mux.HandleFunc("GET /api/points/{name}", s.handlePoint)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/network", s.handleNetwork)
	mux.HandleFunc("POST /api/start", s.handleStart)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("POST /api/speed", s.handleSpeed)
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics.Handler())
	}
	return s.Metrics.instrument(mux)
}

// ListenAndServe runs the loop and the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopErr := make(chan error, 1)
	go func() { loopErr <- s.Loop.Run(ctx) }()

	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.ListenAndServe() }()
	s.logger().Info("serving", "addr", fmt.Sprintf("http://%s", s.Addr))

	select {
	case err := <-serveErr:
		cancel()
		<-loopErr
		return err
	case err := <-loopErr:
		_ = srv.Close()
		<-serveErr
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	err := srv.Shutdown(shutdownCtx)
	<-loopErr
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
