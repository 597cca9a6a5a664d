package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"contagion/internal/service"
	"contagion/internal/sim"
)

// SimulationHandler handles simulation API requests
type SimulationHandler struct {
	svc      *service.SimulationService
	defaults sim.Parameters
}

// NewSimulationHandler creates a new simulation handler. The defaults fill
// any parameter a start request omits.
func NewSimulationHandler(svc *service.SimulationService, defaults sim.Parameters) *SimulationHandler {
	return &SimulationHandler{svc: svc, defaults: defaults}
}

// Register wires all simulation routes onto the mux
func (h *SimulationHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/network", h.GetNetwork)
	mux.HandleFunc("POST /api/network", h.LoadNetwork)
	mux.HandleFunc("GET /api/analysis", h.Analysis)
	mux.HandleFunc("POST /api/simulation/start", h.Start)
	mux.HandleFunc("GET /api/simulation/step", h.Step)
	mux.HandleFunc("POST /api/simulation/stop", h.Stop)
	mux.HandleFunc("POST /api/simulation/reset", h.Reset)
	mux.HandleFunc("GET /api/status", h.Status)
	mux.HandleFunc("POST /api/intervention", h.Intervention)
}

// startRequest carries the front end's simulation parameters. Pointer
// fields distinguish "omitted" from zero so partial requests inherit the
// configured defaults.
type startRequest struct {
	InitialInfected *int     `json:"initialInfected"`
	InfectionRate   *float64 `json:"infectionRate"`
	RecoveryRate    *float64 `json:"recoveryRate"`
	DeathRate       *float64 `json:"deathRate"`
	QuarantineRate  *float64 `json:"quarantineRate"`
	IsolationLimit  *int     `json:"isolationLimit"`
	Dataset         string   `json:"dataset"`
}

type loadNetworkRequest struct {
	Dataset string `json:"dataset"`
	Fresh   bool   `json:"fresh"`
}

type interventionRequest struct {
	Type     string   `json:"type"`
	Strength *float64 `json:"strength"`
}

// GetNetwork returns the network for visualization, building the default
// one on first access.
func (h *SimulationHandler) GetNetwork(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Network()
	if errors.Is(err, sim.ErrNoNetwork) {
		view, err = h.svc.LoadNetwork(r.Context(), "", false)
	}
	if err != nil {
		log.Printf("Failed to get network: %v", err)
		http.Error(w, "Failed to get network", http.StatusInternalServerError)
		return
	}

	writeJSON(w, view)
}

// LoadNetwork builds or reloads the network for a dataset source
func (h *SimulationHandler) LoadNetwork(w http.ResponseWriter, r *http.Request) {
	var req loadNetworkRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	view, err := h.svc.LoadNetwork(r.Context(), req.Dataset, req.Fresh)
	if err != nil {
		log.Printf("Failed to load network: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, view)
}

// Start begins a simulation run, loading the default network first when
// none is loaded yet.
func (h *SimulationHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Dataset != "" {
		if _, err := h.svc.LoadNetwork(r.Context(), req.Dataset, false); err != nil {
			log.Printf("Failed to load network: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	status, err := h.svc.Start(h.params(req))
	if errors.Is(err, sim.ErrNoNetwork) {
		if _, err = h.svc.LoadNetwork(r.Context(), "", false); err == nil {
			status, err = h.svc.Start(h.params(req))
		}
	}
	if err != nil {
		log.Printf("Failed to start simulation: %v", err)
		http.Error(w, "Failed to start simulation", http.StatusInternalServerError)
		return
	}

	writeJSON(w, status)
}

// Step advances the simulation one tick
func (h *SimulationHandler) Step(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Step()
	if err != nil {
		if errors.Is(err, sim.ErrNoNetwork) {
			http.Error(w, "No network loaded", http.StatusConflict)
			return
		}
		log.Printf("Failed to step simulation: %v", err)
		http.Error(w, "Failed to step simulation", http.StatusInternalServerError)
		return
	}

	writeJSON(w, view)
}

// Stop halts the simulation
func (h *SimulationHandler) Stop(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Stop())
}

// Reset returns the population to its initial state
func (h *SimulationHandler) Reset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Reset())
}

// Status reports the current simulation state
func (h *SimulationHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Status())
}

// Intervention applies a named intervention
func (h *SimulationHandler) Intervention(w http.ResponseWriter, r *http.Request) {
	var req interventionRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	strength := 0.5
	if req.Strength != nil {
		strength = *req.Strength
	}

	status, err := h.svc.ApplyIntervention(req.Type, strength)
	if err != nil {
		switch {
		case errors.Is(err, sim.ErrUnknownIntervention):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, sim.ErrNoNetwork):
			http.Error(w, "No network loaded", http.StatusConflict)
		default:
			log.Printf("Failed to apply intervention: %v", err)
			http.Error(w, "Failed to apply intervention", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, status)
}

// Analysis returns structural network measures
func (h *SimulationHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.svc.Analysis()
	if err != nil {
		if errors.Is(err, sim.ErrNoNetwork) {
			http.Error(w, "No network loaded", http.StatusConflict)
			return
		}
		log.Printf("Failed to analyze network: %v", err)
		http.Error(w, "Failed to analyze network", http.StatusInternalServerError)
		return
	}

	writeJSON(w, analysis)
}

// params merges a start request over the configured defaults
func (h *SimulationHandler) params(req startRequest) sim.Parameters {
	p := h.defaults
	if req.InitialInfected != nil {
		p.InitialInfected = *req.InitialInfected
	}
	if req.InfectionRate != nil {
		p.InfectionRate = *req.InfectionRate
	}
	if req.RecoveryRate != nil {
		p.RecoveryRate = *req.RecoveryRate
	}
	if req.DeathRate != nil {
		p.DeathRate = *req.DeathRate
	}
	if req.QuarantineRate != nil {
		p.QuarantineRate = *req.QuarantineRate
	}
	if req.IsolationLimit != nil {
		p.IsolationLimit = *req.IsolationLimit
	}
	return p
}

// decodeBody parses an optional JSON body; an empty body yields the zero
// request.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
