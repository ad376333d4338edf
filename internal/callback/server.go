package callback

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"finlink/pkg/logging"
)

const (
	// DefaultHost is the default bind host for the local callback server.
	DefaultHost = "localhost"

	// DefaultPort is the default bind port for the local callback server.
	DefaultPort = 8000

	// CallbackPath is the single path the server recognizes. The hosted link
	// flow redirects here once the user completes authorization.
	CallbackPath = "/oauth-callback"
)

//go:embed templates/authorization_complete.html
var authorizationCompleteHTML string

// BindError indicates the callback server could not bind its address,
// typically because another flow (or a leaked prior listener) holds the port.
type BindError struct {
	Addr string
	Err  error
}

// Error implements the error interface.
func (e *BindError) Error() string {
	return fmt.Sprintf("failed to bind callback server on %s: %v", e.Addr, e.Err)
}

// Unwrap returns the underlying bind error.
func (e *BindError) Unwrap() error {
	return e.Err
}

// Server is a temporary local HTTP server for receiving the hosted link
// redirect. It owns its bound socket exclusively: Start binds and serves on a
// background goroutine, Stop releases the port and joins that goroutine.
// Both are idempotent.
type Server struct {
	addr  string
	latch *Latch

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	done     chan struct{}
}

// NewServer creates a callback server bound to host:port that signals latch
// when the redirect arrives. Empty host and zero port fall back to the
// defaults.
func NewServer(host string, port int, latch *Latch) *Server {
	if host == "" {
		host = DefaultHost
	}
	if port == 0 {
		port = DefaultPort
	}
	return &Server{
		addr:  fmt.Sprintf("%s:%d", host, port),
		latch: latch,
	}
}

// Addr returns the configured bind address.
func (s *Server) Addr() string {
	return s.addr
}

// RedirectURI returns the URI the hosted link flow should redirect to.
func (s *Server) RedirectURI() string {
	return "http://" + s.addr + CallbackPath
}

// Running reports whether the server currently holds its socket.
func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.server != nil
}

// Start binds the listening socket and begins accepting connections on a
// background goroutine. It returns immediately. Calling Start while the
// server is already running is a no-op. A bind failure is returned as
// *BindError.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return nil
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return &BindError{Addr: s.addr, Err: err}
	}

	mux := http.NewServeMux()
	mux.HandleFunc(CallbackPath, s.handleCallback)
	mux.HandleFunc("/", s.handleNotFound)

	s.listener = listener
	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		// Malformed requests are protocol noise, not a reason to stop serving.
		ErrorLog: log.New(io.Discard, "", 0),
	}
	s.done = make(chan struct{})

	go func(srv *http.Server, ln net.Listener, done chan struct{}) {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Callback", err, "callback server terminated unexpectedly")
		}
	}(s.server, listener, s.done)

	logging.Debug("Callback", "listening on %s", s.addr)
	return nil
}

// Stop gracefully shuts down the accept loop, releases the socket, and waits
// for the serve goroutine to exit so the port is immediately reusable.
// Calling Stop when the server is not running is a no-op.
func (s *Server) Stop() {
	s.mu.Lock()
	server := s.server
	done := s.done
	s.server = nil
	s.listener = nil
	s.done = nil
	s.mu.Unlock()

	if server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctx)

	<-done
	logging.Debug("Callback", "stopped listening on %s", s.addr)
}

// handleCallback records completion and renders the confirmation page. Query
// parameters belong to the hosted link protocol and are ignored here.
// Duplicate or retried requests re-render the page; the latch only moves one
// way.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	s.latch.Signal()

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, authorizationCompleteHTML)
}

// handleNotFound answers every unrecognized path with an empty 404.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
}
