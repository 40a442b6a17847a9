// Package api serves read-only settlement observation over HTTP.
// All endpoints are GET; mutation happens only through the day loop.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/talven/hearthold/internal/engine"
	"github.com/talven/hearthold/internal/jobs"
	"github.com/talven/hearthold/internal/village"
)

// Server exposes simulation state. Mu must be the same mutex the day
// loop holds while advancing, so observers never see a half-applied
// day.
type Server struct {
	Sim     *engine.Simulation
	Mu      *sync.Mutex
	Addr    string
	PerSec  float64
	limiter *rate.Limiter
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	if s.PerSec <= 0 {
		s.PerSec = 10
	}
	s.limiter = rate.NewLimiter(rate.Limit(s.PerSec), int(s.PerSec)*2)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.limited(s.handleStatus))
	mux.HandleFunc("/api/v1/workers", s.limited(s.handleWorkers))
	mux.HandleFunc("/api/v1/worker/", s.limited(s.handleWorkerDetail))
	mux.HandleFunc("/api/v1/sites", s.limited(s.handleSites))
	mux.HandleFunc("/api/v1/buildings", s.limited(s.handleBuildings))
	mux.HandleFunc("/api/v1/events", s.limited(s.handleEvents))

	slog.Info("HTTP API starting", "addr", s.Addr)
	go func() {
		if err := http.ListenAndServe(s.Addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "read-only API", http.StatusMethodNotAllowed)
			return
		}
		if !s.limiter.Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		s.Mu.Lock()
		defer s.Mu.Unlock()
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	alive := 0
	for _, wk := range s.Sim.Pool.Workers {
		if wk.Alive() {
			alive++
		}
	}
	stores := make(map[string]float64, village.NumResources)
	for res := village.Resource(0); res < village.NumResources; res++ {
		stores[res.Name()] = s.Sim.Village.Stores[res]
	}
	writeJSON(w, map[string]any{
		"name":       s.Sim.Village.Name,
		"day":        s.Sim.Day,
		"season":     s.Sim.Season().Name(),
		"year":       s.Sim.Day / engine.DaysPerYear,
		"population": alive,
		"housing":    s.Sim.Village.HousingCapacity(),
		"tech_level": s.Sim.TechLevel,
		"wall_level": s.Sim.Village.WallLevel,
		"ruler":      s.Sim.House.RulerTitle(),
		"stores":     stores,
		"buildings":  len(s.Sim.Village.Buildings),
		"sites":      len(s.Sim.Construction.Sites()),
	})
}

func (s *Server) handleWorkers(w http.ResponseWriter, r *http.Request) {
	type workerSummary struct {
		ID         string         `json:"id"`
		Name       string         `json:"name"`
		Age        int            `json:"age"`
		Health     float64        `json:"health"`
		Happiness  float64        `json:"happiness"`
		Status     string         `json:"status"`
		Job        string         `json:"job,omitempty"`
		Skills     map[string]int `json:"skills"`
	}

	result := make([]workerSummary, 0, len(s.Sim.Pool.Workers))
	for _, wk := range s.Sim.Pool.Workers {
		skills := make(map[string]int, len(wk.Skills))
		for name, xp := range wk.Skills {
			skills[string(name)] = xp
		}
		ws := workerSummary{
			ID:        wk.ID,
			Name:      wk.Name,
			Age:       wk.AgeYears(),
			Health:    wk.Health,
			Happiness: wk.Happiness,
			Status:    wk.Status.Name(),
			Skills:    skills,
		}
		if wk.Assignment != nil {
			ws.Job = wk.Assignment.Job.Name()
		}
		result = append(result, ws)
	}
	writeJSON(w, result)
}

func (s *Server) handleWorkerDetail(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 5 || parts[4] == "" {
		http.Error(w, "missing worker id", http.StatusBadRequest)
		return
	}
	wk, ok := s.Sim.Pool.Get(parts[4])
	if !ok {
		http.Error(w, "worker not found", http.StatusNotFound)
		return
	}
	writeJSON(w, wk)
}

func (s *Server) handleSites(w http.ResponseWriter, r *http.Request) {
	type siteSummary struct {
		BuildingID       village.BuildingID `json:"building_id"`
		BuildingType     string             `json:"building_type"`
		Level            int                `json:"level"`
		PointsRequired   float64            `json:"points_required"`
		PointsCompleted  float64            `json:"points_completed"`
		PointsRemaining  float64            `json:"points_remaining"`
		AssignedBuilders []jobs.SiteBuilder `json:"assigned_builders"`
		DailyProgress    float64            `json:"daily_progress"`
		StartDay         int                `json:"start_day"`
	}

	sites := s.Sim.Construction.Sites()
	result := make([]siteSummary, 0, len(sites))
	for _, site := range sites {
		result = append(result, siteSummary{
			BuildingID:       site.BuildingID,
			BuildingType:     site.BuildingType.Name(),
			Level:            site.Level,
			PointsRequired:   site.TotalPoints,
			PointsCompleted:  site.CurrentPoints,
			PointsRemaining:  site.PointsRemaining(),
			AssignedBuilders: site.AssignedBuilders,
			DailyProgress:    site.DailyProgress,
			StartDay:         site.StartDay,
		})
	}
	writeJSON(w, result)
}

func (s *Server) handleBuildings(w http.ResponseWriter, r *http.Request) {
	type buildingSummary struct {
		ID    village.BuildingID `json:"id"`
		Type  string             `json:"type"`
		Level int                `json:"level"`
		Built bool               `json:"built"`
		X     int                `json:"x"`
		Y     int                `json:"y"`
	}

	result := make([]buildingSummary, 0, len(s.Sim.Village.Buildings))
	for _, b := range s.Sim.Village.Buildings {
		result = append(result, buildingSummary{
			ID:    b.ID,
			Type:  b.Type.Name(),
			Level: b.Level,
			Built: b.Built,
			X:     b.Position.X,
			Y:     b.Position.Y,
		})
	}
	writeJSON(w, result)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	writeJSON(w, s.Sim.RecentEvents(limit))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
