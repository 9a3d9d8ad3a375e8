// Package monitoring exposes a running set of prefetch controllers over
// HTTP: per-controller stats, progress and process resource usage as
// JSON, plus the usual Go profiling endpoints. Q-tables are not dumped
// over HTTP; /api/qtable/{name} only points at the persisted file.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"time"

	// Registers /debug/pprof/* on the default mux.
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"

	"github.com/sarchlab/banditprefetch/prefetch"
)

// Server exposes registered controllers over HTTP.
type Server struct {
	portNumber int

	controllers  map[string]*prefetch.Controller
	progressBars map[string]*ProgressBar
}

// NewServer creates an unstarted Server.
func NewServer() *Server {
	return &Server{
		controllers:  make(map[string]*prefetch.Controller),
		progressBars: make(map[string]*ProgressBar),
	}
}

// WithPortNumber sets the port the server listens on. Values below 1000
// are rejected in favor of an OS-assigned ephemeral port, matching the
// teacher's refusal to bind to privileged ports.
func (s *Server) WithPortNumber(portNumber int) *Server {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"monitoring: port %d is not allowed, using a random port instead\n", portNumber)
		portNumber = 0
	}

	s.portNumber = portNumber

	return s
}

// RegisterController makes ctrl visible under name at /api/stats/{name}
// and /api/qtable/{name}. If totalEpochs is nonzero a progress bar tracking that
// controller's epoch count against it is also created.
func (s *Server) RegisterController(name string, ctrl *prefetch.Controller, totalEpochs uint64) {
	s.controllers[name] = ctrl

	if totalEpochs > 0 {
		s.progressBars[name] = &ProgressBar{
			Name:      name,
			StartTime: time.Now(),
			Total:     totalEpochs,
		}
	}
}

// StartServer starts the HTTP server in a background goroutine and
// returns the address it bound to.
func (s *Server) StartServer() (string, error) {
	r := mux.NewRouter()

	r.HandleFunc("/api/controllers", s.listControllers)
	r.HandleFunc("/api/stats/{name}", s.controllerStats)
	r.HandleFunc("/api/qtable/{name}", s.controllerQTable)
	r.HandleFunc("/api/progress", s.listProgress)
	r.HandleFunc("/api/resource", s.listResources)
	r.HandleFunc("/api/profile", s.collectProfile)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	actualPort := ":0"
	if s.portNumber >= 1000 {
		actualPort = fmt.Sprintf(":%d", s.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", fmt.Errorf("monitoring: could not listen: %w", err)
	}

	addr := listener.Addr().String()

	go func() {
		if err := http.Serve(listener, r); err != nil {
			fmt.Fprintf(os.Stderr, "monitoring: server stopped: %v\n", err)
		}
	}()

	return addr, nil
}

func (s *Server) listControllers(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(s.controllers))
	for name := range s.controllers {
		names = append(names, name)
	}

	writeJSON(w, names)
}

type statsResponse struct {
	CurrentAction int                    `json:"current_action"`
	Latest        prefetch.EpochSnapshot `json:"latest"`
	ActionUse     []uint64               `json:"action_use"`
	Children      []prefetch.ChildStats  `json:"children"`
}

func (s *Server) controllerStats(w http.ResponseWriter, r *http.Request) {
	ctrl := s.findControllerOr404(w, mux.Vars(r)["name"])
	if ctrl == nil {
		return
	}

	stats := ctrl.Stats()

	writeJSON(w, statsResponse{
		CurrentAction: ctrl.CurrentAction().Semantic(),
		Latest:        ctrl.Latest(),
		ActionUse:     stats.ActionUse,
		Children:      stats.Children,
	})
}

func (s *Server) controllerQTable(w http.ResponseWriter, r *http.Request) {
	ctrl := s.findControllerOr404(w, mux.Vars(r)["name"])
	if ctrl == nil {
		return
	}

	// The Controller does not expose its QTable directly (it is
	// internal, mutated only by the epoch loop); stats/latest state is
	// the supported read surface. This endpoint reports only the
	// controller name and where the persisted table lives on disk.
	writeJSON(w, map[string]any{
		"controller": mux.Vars(r)["name"],
		"note":       "raw Q-table dumps are available on disk via the persisted qtable_*.bin file",
	})
}

func (s *Server) listProgress(w http.ResponseWriter, _ *http.Request) {
	for name, bar := range s.progressBars {
		if ctrl, ok := s.controllers[name]; ok {
			bar.SetFinished(ctrl.Stats().EpochsElapsed())
		}
	}

	writeJSON(w, s.progressBars)
}

type resourceResponse struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (s *Server) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		writeError(w, err)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		writeError(w, err)
		return
	}

	mem, err := proc.MemoryInfo()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, resourceResponse{CPUPercent: cpuPercent, MemorySize: mem.RSS})
}

func (s *Server) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		writeError(w, err)
		return
	}

	time.Sleep(100 * time.Millisecond)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, prof)
}

func (s *Server) findControllerOr404(w http.ResponseWriter, name string) *prefetch.Controller {
	ctrl, ok := s.controllers[name]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "controller %q not found", name)

		return nil
	}

	return ctrl
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "monitoring: could not encode response: %v\n", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprintf(w, "error: %v", err)
}
