package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/neox5/signalbox/internal/golden"
)

// Server is the demo application server: a single instrumented route on its
// own port, separate from the metrics exposition endpoint.
type Server struct {
	addr   string
	server *http.Server
}

// New creates the application server with its handler wrapped in the
// golden-signal middleware.
func New(port int, signals *golden.Signals) *Server {
	mux := http.NewServeMux()
	mux.Handle("/", signals.Middleware(http.HandlerFunc(handleRoot)))

	addr := fmt.Sprintf(":%d", port)

	return &Server{
		addr: addr,
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "hello from signalbox")
}

// Start begins serving HTTP requests. Blocks until the context is cancelled
// or the server fails.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		slog.Info("starting app server", "addr", s.addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return s.shutdown()
	}
}

// shutdown gracefully stops the server.
func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	slog.Info("shutting down app server")
	return s.server.Shutdown(ctx)
}
