// Package stubserver is an in-memory development backend that speaks the
// same HTTP contract as the document-processing service. It extracts text,
// finds case numbers and dates, and answers questions by quoting the most
// relevant passages of the latest upload. Document-free chat requests get a
// reply that restates the question.
package stubserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options configures a Server.
type Options struct {
	// Address is the listen address used by Serve.
	Address     string
	// StreamDelay is the pause between reply words.
	StreamDelay time.Duration
	// DocumentTTL expires uploads; zero keeps them for the process lifetime.
	DocumentTTL time.Duration
}

// Server hosts the stub API under /api.
type Server struct {
	opts    Options
	index   *Index
	log     *zap.Logger
	handler http.Handler
	once    sync.Once
}

// New creates a Server.
func New(opts Options, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		opts:  opts,
		index: NewIndex(opts.DocumentTTL),
		log:   log.With(zap.String("component", "stubserver")),
	}
}

// Handler returns the routed handler, for httptest or embedding.
func (s *Server) Handler() http.Handler {
	s.once.Do(func() {
		s.handler = corsMiddleware(s.loggingMiddleware(s.routes()))
	})
	return s.handler
}

// Serve listens on Options.Address until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("stub backend listening", zap.String("address", ln.Addr().String()))
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/document-status", s.handleStatus)
	mux.HandleFunc("POST /api/upload-document", s.handleUpload)
	mux.HandleFunc("POST /api/rag-chat", s.handleChat)
	mux.HandleFunc("POST /api/chat", s.handleDirectChat)
	return mux
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if id := r.Header.Get("X-Request-ID"); id != "" {
			w.Header().Set("X-Request-ID", id)
		}
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", r.Header.Get("X-Request-ID")),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
