// Package server provides the preview server behind `stache serve`: it
// renders templates over HTTP and pushes live-reload events to connected
// browsers over a WebSocket when sources change.
//
// The engine cache has no invalidation path, so a source change swaps in a
// whole new engine instance and broadcasts a reload; stale engines are
// simply dropped.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/conneroisu/stache/internal/config"
	"github.com/conneroisu/stache/internal/engine"
	"github.com/conneroisu/stache/internal/logging"
	"github.com/conneroisu/stache/internal/value"
)

// PreviewServer serves rendered templates and live-reload notifications.
type PreviewServer struct {
	cfg *config.Config
	log logging.Logger

	mu      sync.RWMutex
	engine  *engine.Engine
	data    value.Value
	clients map[*websocket.Conn]struct{}
}

// New creates a preview server rendering through eng with data as the
// binding context.
func New(cfg *config.Config, log logging.Logger, eng *engine.Engine, data value.Value) *PreviewServer {
	return &PreviewServer{
		cfg:     cfg,
		log:     log.WithComponent("server"),
		engine:  eng,
		data:    data,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// SwapEngine replaces the rendering engine and tells connected browsers to
// reload.
func (s *PreviewServer) SwapEngine(eng *engine.Engine) {
	s.mu.Lock()
	s.engine = eng
	s.mu.Unlock()

	s.broadcast("reload")
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *PreviewServer) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/view/", s.handleView)
	mux.HandleFunc("/raw/", s.handleRaw)

	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.Info("preview server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *PreviewServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warn(err, "websocket accept failed")

		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	s.log.Debug("websocket client connected")

	// Write-only connection: CloseRead pumps incoming frames until the
	// client goes away.
	ctx := conn.CloseRead(r.Context())
	<-ctx.Done()

	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()

	_ = conn.Close(websocket.StatusNormalClosure, "")
}

func (s *PreviewServer) handleRaw(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/raw/")
	if name == "" {
		http.Error(w, "missing template name", http.StatusBadRequest)

		return
	}

	s.mu.RLock()
	eng := s.engine
	data := s.data
	s.mu.RUnlock()

	if err := eng.Render(name, data, w); err != nil {
		s.log.Warn(err, "render failed", "template", name)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	}
}

func (s *PreviewServer) handleView(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/view/")
	if name == "" {
		http.Error(w, "missing template name", http.StatusBadRequest)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, viewShell, name, name)
}

func (s *PreviewServer) broadcast(msg string) {
	s.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.mu.RUnlock()

	for _, conn := range conns {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		if err := conn.Write(ctx, websocket.MessageText, []byte(msg)); err != nil {
			s.log.Debug("dropping unreachable websocket client")
		}
		cancel()
	}
}

// viewShell wraps the raw render in a page that reconnects to /ws and
// reloads the frame on change.
const viewShell = `<!DOCTYPE html>
<html>
<head><title>stache preview: %s</title></head>
<body style="margin:0">
<iframe id="preview" src="/raw/%s" style="border:0;width:100vw;height:100vh"></iframe>
<script>
(function connect() {
  const ws = new WebSocket("ws://" + location.host + "/ws");
  ws.onmessage = function() {
    document.getElementById("preview").contentWindow.location.reload();
  };
  ws.onclose = function() { setTimeout(connect, 1000); };
})();
</script>
</body>
</html>
`
