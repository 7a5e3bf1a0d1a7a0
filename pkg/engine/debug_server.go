package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-drift/fibre/pkg/core"
	"github.com/go-drift/fibre/pkg/graphics"
)

// debugServer manages the HTTP server for tree and frame inspection.
type debugServer struct {
	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// StatsResponse is the /stats response shape.
type StatsResponse struct {
	Frames     uint64          `json:"frames"`
	Last       core.FrameStats `json:"last"`
	Lifetime   core.Totals     `json:"lifetime"`
	Components int             `json:"components"`
	Nodes      int             `json:"nodes"`
	Pending    int             `json:"pending"`
	Size       graphics.Size   `json:"size"`
}

// StartDebugServer serves diagnostics on addr (for example "127.0.0.1:0")
// and returns the bound port. Calling it again while running returns the
// current port.
func (r *Runner) StartDebugServer(addr string) (int, error) {
	r.debug.mu.Lock()
	defer r.debug.mu.Unlock()

	if r.debug.server != nil {
		return r.debug.listener.Addr().(*net.TCPAddr).Port, nil
	}

	// Bind first to fail fast on port conflicts.
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("debug server listen: %w", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/frames", r.handleFrameTimeline)
	mux.HandleFunc("/tree", r.handleTree)
	mux.HandleFunc("/stats", r.handleStats)
	mux.HandleFunc("/runtime", r.handleRuntime)

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	r.debug.server = server
	r.debug.listener = listener

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			r.debug.mu.Lock()
			r.debug.server = nil
			r.debug.listener = nil
			r.debug.mu.Unlock()
			r.log.Error("debug server failed", "err", err)
		}
	}()

	r.log.Info("debug server listening", "port", port)
	return port, nil
}

// StopDebugServer shuts the debug server down. It is a no-op when the
// server is not running.
func (r *Runner) StopDebugServer() {
	r.debug.mu.Lock()
	server := r.debug.server
	r.debug.server = nil
	r.debug.listener = nil
	r.debug.mu.Unlock()

	if server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		r.log.Warn("debug server shutdown", "err", err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (r *Runner) handleTree(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var (
		tree     core.NodeInfo
		panicked any
	)
	func() {
		r.frameLock.Lock()
		defer r.frameLock.Unlock()
		defer func() { panicked = recover() }()
		tree = r.fibre.Snapshot()
	}()
	if panicked != nil {
		http.Error(w, fmt.Sprintf("snapshot failed: %v", panicked), http.StatusInternalServerError)
		return
	}
	writeJSON(w, tree)
}

func (r *Runner) handleStats(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.frameLock.Lock()
	resp := StatsResponse{
		Frames:     r.frames.Load(),
		Last:       r.fibre.Stats(),
		Lifetime:   r.fibre.Lifetime(),
		Components: r.fibre.Registry().Len(),
		Nodes:      r.fibre.Tree().Len(),
		Pending:    r.fibre.Queue().Len(),
		Size:       r.fibre.Size(),
	}
	r.frameLock.Unlock()

	writeJSON(w, resp)
}

func (r *Runner) handleFrameTimeline(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp := r.trace.Snapshot()
	applyFrameFilters(req, &resp)
	writeJSON(w, resp)
}

func (r *Runner) handleRuntime(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.runtime == nil {
		http.Error(w, "runtime sampling disabled", http.StatusNotFound)
		return
	}
	samples := r.runtime.Snapshot()
	if limit := parseIntQuery(req, "limit"); limit > 0 && len(samples) > limit {
		samples = samples[len(samples)-limit:]
	}
	writeJSON(w, map[string]any{
		"intervalMs": durationToMillis(r.runtime.Interval()),
		"samples":    samples,
	})
}

// applyFrameFilters narrows a timeline by the limit, min_ms, command_ms,
// render_ms, and failed query parameters.
func applyFrameFilters(r *http.Request, resp *FrameTimeline) {
	var filters []func(FrameSample) bool

	if v := parseFloatQuery(r, "min_ms"); v > 0 {
		filters = append(filters, func(s FrameSample) bool { return s.FrameMs >= v })
	}
	if v := parseFloatQuery(r, "command_ms"); v > 0 {
		filters = append(filters, func(s FrameSample) bool { return s.Phases.CommandMs >= v })
	}
	if v := parseFloatQuery(r, "render_ms"); v > 0 {
		filters = append(filters, func(s FrameSample) bool { return s.Phases.RenderMs >= v })
	}
	if value := r.URL.Query().Get("failed"); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil && parsed {
			filters = append(filters, func(s FrameSample) bool { return s.Failed })
		}
	}

	if len(filters) > 0 {
		filtered := make([]FrameSample, 0, len(resp.Samples))
	outer:
		for _, sample := range resp.Samples {
			for _, f := range filters {
				if !f(sample) {
					continue outer
				}
			}
			filtered = append(filtered, sample)
		}
		resp.Samples = filtered
	}

	if limit := parseIntQuery(r, "limit"); limit > 0 && len(resp.Samples) > limit {
		resp.Samples = resp.Samples[len(resp.Samples)-limit:]
	}
}

func parseFloatQuery(r *http.Request, key string) float64 {
	value := r.URL.Query().Get(key)
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func parseIntQuery(r *http.Request, key string) int {
	parsed, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return parsed
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("encode failed: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
