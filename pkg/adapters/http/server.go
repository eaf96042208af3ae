package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/aretw0/tweak"
	"github.com/aretw0/tweak/internal/logging"
	"github.com/aretw0/tweak/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Host defines the debug-UI host the panel drives.
// memory.Context implements it.
type Host interface {
	Frame() domain.Frame
	Drag(title, label string, value float64) error
	Listen(fn func(*domain.FrameDiff)) func()
}

// Server exposes a Host over HTTP: window snapshots, queued drags, and a
// Server-Sent Events stream of frame diffs.
type Server struct {
	Host    Host
	Streams *StreamManager

	variables func() []domain.Variable
	gatherer  prometheus.Gatherer
	logger    *slog.Logger
	stop      func()
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a logger for request handling.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGatherer serves the metrics of g on /metrics instead of the default
// Prometheus registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithVariables serves fn's result on /variables, typically Panel.Snapshot.
func WithVariables(fn func() []domain.Variable) Option {
	return func(s *Server) {
		s.variables = fn
	}
}

// NewServer creates a Server and subscribes it to the host's frame diffs.
// Call Close to unsubscribe.
func NewServer(host Host, opts ...Option) *Server {
	s := &Server{
		Host:     host,
		Streams:  NewStreamManager(),
		gatherer: prometheus.DefaultGatherer,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger

	s.stop = host.Listen(func(diff *domain.FrameDiff) {
		bytes, err := json.Marshal(diff)
		if err != nil {
			s.logger.Error("Frame diff encode failed", "err", err)
			return
		}
		s.Streams.Broadcast(string(bytes))
	})
	return s
}

// NewHandler creates the HTTP handler of a new Server for host.
func NewHandler(host Host, opts ...Option) http.Handler {
	return NewServer(host, opts...).Handler()
}

// Close stops forwarding frame diffs to subscribers.
func (s *Server) Close() {
	if s.stop != nil {
		s.stop()
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/windows", s.ListWindows)
	r.Get("/windows/{title}", s.GetWindow)
	r.Post("/windows/{title}/drag", s.Drag)
	r.Get("/variables", s.ListVariables)
	r.Get("/events", s.SubscribeEvents)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// DragRequest is the body of POST /windows/{title}/drag.
type DragRequest struct {
	Label string   `json:"label"`
	Value *float64 `json:"value"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "tweak-http",
		"version": strings.TrimSpace(tweak.Version),
	})
}

// ListWindows handles the GET /windows request.
func (s *Server) ListWindows(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Host.Frame())
}

// GetWindow handles the GET /windows/{title} request.
func (s *Server) GetWindow(w http.ResponseWriter, r *http.Request) {
	title := titleParam(r)
	frame := s.Host.Frame()
	win, ok := frame.Window(title)
	if !ok {
		http.Error(w, fmt.Sprintf("window %q not found", title), http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, win)
}

// Drag handles the POST /windows/{title}/drag request. The value is applied
// the next time the window renders.
func (s *Server) Drag(w http.ResponseWriter, r *http.Request) {
	title := titleParam(r)

	var body DragRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Drag: Invalid request body", "err", err)
		return
	}
	if body.Label == "" || body.Value == nil {
		http.Error(w, "label and value are required", http.StatusBadRequest)
		s.logger.Warn("Drag: Missing fields", "window", title)
		return
	}

	if err := s.Host.Drag(title, body.Label, *body.Value); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrWindowNotFound) || errors.Is(err, domain.ErrLabelNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		s.logger.Warn("Drag rejected", "window", title, "label", body.Label, "err", err)
		return
	}

	s.logger.Debug("Drag queued", "window", title, "label", body.Label, "value", *body.Value)
	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// ListVariables handles the GET /variables request.
func (s *Server) ListVariables(w http.ResponseWriter, r *http.Request) {
	if s.variables == nil {
		http.Error(w, "variables not available", http.StatusNotFound)
		return
	}
	vars := s.variables()
	if vars == nil {
		vars = []domain.Variable{}
	}
	s.writeJSON(w, http.StatusOK, vars)
}

// SubscribeEvents handles the GET /events request (SSE).
// The optional window query parameter (comma separated titles) filters the
// value changes sent to this client.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var watch map[string]bool
	if q := r.URL.Query().Get("window"); q != "" {
		watch = make(map[string]bool)
		for _, title := range strings.Split(q, ",") {
			watch[strings.TrimSpace(title)] = true
		}
	}

	ch, cancel := s.Streams.Subscribe()
	defer cancel()
	s.logger.Info("SSE: Client subscribed", "windows", len(watch))

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if watch != nil {
				filtered, keep := filterDiff(msg, watch)
				if !keep {
					continue
				}
				msg = filtered
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// filterDiff keeps the parts of an encoded diff that concern watched windows.
func filterDiff(msg string, watch map[string]bool) (string, bool) {
	var diff domain.FrameDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return msg, true
	}

	out := domain.FrameDiff{Seq: diff.Seq}
	for _, c := range diff.Changes {
		if watch[c.Window] {
			out.Changes = append(out.Changes, c)
		}
	}
	for _, title := range diff.Opened {
		if watch[title] {
			out.Opened = append(out.Opened, title)
		}
	}
	for _, title := range diff.Closed {
		if watch[title] {
			out.Closed = append(out.Closed, title)
		}
	}
	if len(out.Changes) == 0 && len(out.Opened) == 0 && len(out.Closed) == 0 {
		return "", false
	}
	bytes, err := json.Marshal(out)
	if err != nil {
		return msg, true
	}
	return string(bytes), true
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- string]struct{}
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- string]struct{}),
		logger:      logging.NewNop(),
	}
}

// Subscribe registers a buffered channel for broadcasts. The returned func
// unregisters and closes it.
func (sm *StreamManager) Subscribe() (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sm.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
		})
	}
}

// Len returns the number of subscribers.
func (sm *StreamManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast sends msg to every subscriber. Slow clients drop messages.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.logger.Debug("StreamManager: Broadcasting", "subscribers", len(sm.subscribers), "payload_size", len(msg))
	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: Client buffer full, dropping message")
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

func titleParam(r *http.Request) string {
	title := chi.URLParam(r, "title")
	if unescaped, err := url.PathUnescape(title); err == nil {
		return unescaped
	}
	return title
}
