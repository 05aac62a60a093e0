// Package server exposes the topic operations over HTTP.
//
// Routes:
//
//	GET  /models              installed models with VRAM fit
//	POST /random              one random topic
//	POST /expand              children of a topic, with model fallback
//	POST /analyze             streamed analysis as text/plain
//	POST /analyze/structured  analysis decoded to JSON
//	GET  /healthz             backend liveness
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/omniweb/omniweb/core/fallback"
	"github.com/omniweb/omniweb/internal/catalog"
	"github.com/omniweb/omniweb/internal/topics"
	"github.com/omniweb/omniweb/providers/ai"
	"github.com/omniweb/omniweb/providers/observability"
)

const defaultShutdownTimeout = 10 * time.Second

// TopicService is implemented by *topics.Service.
type TopicService interface {
	Expand(ctx context.Context, req topics.ExpandRequest) fallback.Outcome
	RandomTopic(ctx context.Context, req topics.RandomTopicRequest) string
	Analyze(ctx context.Context, req topics.AnalysisRequest) (*ai.GenerateStream, error)
	AnalyzeStructured(ctx context.Context, req topics.AnalysisRequest) (*topics.StructuredAnalysis, error)
}

// ModelCatalog is implemented by *catalog.Catalog.
type ModelCatalog interface {
	Listing(ctx context.Context) catalog.Listing
}

// Pinger reports backend liveness. *client.Client satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config configures a Server.
type Config struct {
	Addr            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	// Observer, when set, is attached to every request context.
	Observer observability.Provider
}

// Server serves the HTTP API.
type Server struct {
	cfg     Config
	topics  TopicService
	catalog ModelCatalog
	health  Pinger
	handler http.Handler
}

// New builds a Server. health may be nil, in which case /healthz always
// reports ok.
func New(cfg Config, topicService TopicService, modelCatalog ModelCatalog, health Pinger) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	s := &Server{
		cfg:     cfg,
		topics:  topicService,
		catalog: modelCatalog,
		health:  health,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /models", s.handleModels)
	mux.HandleFunc("POST /random", s.handleRandom)
	mux.HandleFunc("POST /expand", s.handleExpand)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /analyze/structured", s.handleAnalyzeStructured)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	var h http.Handler = mux
	h = withObservability(s.cfg.Observer, h)
	h = withRequestID(h)
	h = withCORS(s.cfg.AllowedOrigins, h)
	return h
}

// Run serves HTTP/1.1 and cleartext HTTP/2 on cfg.Addr until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           h2c.NewHandler(s.handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if observer := s.cfg.Observer; observer != nil {
		observer.Info(ctx, "http server listening", observability.String("http.addr", listener.Addr().String()))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
