package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"sagamino/internal/network"
	"sagamino/internal/render"
	"sagamino/internal/survey"
)

type pointJSON struct {
	Name      string  `json:"name"`
	Lon       float64 `json:"lon"`
	Lat       float64 `json:"lat"`
	Elevation float64 `json:"elevation"`
	Stage     int     `json:"stage"`
	Label     string  `json:"label,omitempty"`
}

type connectionJSON struct {
	Name       string   `json:"name"`
	DistanceKm float64  `json:"distance_km"`
	BearingDeg *float64 `json:"bearing_deg"`
}

type detailJSON struct {
	pointJSON
	Connections []connectionJSON `json:"connections"`
	Text        string           `json:"text"`
}

type stateJSON struct {
	Stage       int          `json:"stage"`
	Progress    float64      `json:"progress"`
	Running     bool         `json:"running"`
	Speed       float64      `json:"speed"`
	Phase       string       `json:"phase"`
	BaselineKm  float64      `json:"baseline_km"`
	BearingDeg  *float64     `json:"bearing_deg"`
	Edges       int          `json:"edges"`
	Description string       `json:"description"`
	StartLabel  string       `json:"start_label"`
	Bounds      geojson.BBox `json:"bounds"`
}

func toPointJSON(p survey.Point) pointJSON {
	return pointJSON{
		Name:      p.Name,
		Lon:       p.Coordinates.Lon(),
		Lat:       p.Coordinates.Lat(),
		Elevation: p.Elevation,
		Stage:     p.Stage,
		Label:     p.Label,
	}
}

func toStateJSON(s network.Snapshot, view orb.Bound) stateJSON {
	out := stateJSON{
		Stage:       s.Stage,
		Progress:    s.Progress,
		Running:     s.Running,
		Speed:       s.Speed,
		Phase:       s.Phase.String(),
		BaselineKm:  s.Measurement.DistanceKm,
		Edges:       len(s.Edges),
		Description: survey.Description(s.Stage),
		StartLabel:  survey.StartLabel(s.Stage),
		Bounds:      geojson.NewBBox(view),
	}
	if !s.Measurement.Degenerate {
		b := s.Measurement.BearingDeg
		out.BearingDeg = &b
	}
	return out
}

func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	reg := s.Loop.Graph().Registry()
	pts := reg.AllPoints()

	if stageStr := r.URL.Query().Get("stage"); stageStr != "" {
		stage, err := strconv.Atoi(stageStr)
		if err != nil || stage < 0 || stage >= survey.StageCount {
			http.Error(w, "invalid 'stage' parameter", http.StatusBadRequest)
			return
		}
		pts = reg.PointsForStage(stage)
	}

	out := make([]pointJSON, 0, len(pts))
	for _, p := range pts {
		out = append(out, toPointJSON(p))
	}
	writeJSON(w, out)
}

func (s *Server) handlePoint(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	var (
		d   network.Detail
		err error
	)
	if doErr := s.Loop.Do(r.Context(), func(c *network.Controller) { d, err = c.Detail(name) }); doErr != nil {
		http.Error(w, doErr.Error(), http.StatusServiceUnavailable)
		return
	}
	if errors.Is(err, survey.ErrNotFound) {
		http.Error(w, render.NoDetail(name), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := detailJSON{
		pointJSON:   toPointJSON(d.Point),
		Connections: make([]connectionJSON, 0, len(d.Connections)),
		Text:        render.PopupText(d),
	}
	for _, c := range d.Connections {
		cj := connectionJSON{Name: c.Name, DistanceKm: c.DistanceKm}
		if !c.Degenerate {
			b := c.BearingDeg
			cj.BearingDeg = &b
		}
		out.Connections = append(out.Connections, cj)
	}
	writeJSON(w, out)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap := s.Loop.Snapshot()
	writeJSON(w, toStateJSON(snap, s.viewport(snap)))
}

// handleNetwork renders the current snapshot into a fresh set of sources.
func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	snap := s.Loop.Snapshot()
	src := render.NewSources().AddAll()
	pub := render.NewPublisher(src, s.Loop.Graph(), s.Geodesy, s.initial(), s.logger())
	src.FitBounds(s.viewport(snap))
	pub.Publish(snap)

	b, err := src.Collection().MarshalJSON()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(b)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var started bool
	s.command(w, r, func(c *network.Controller) { started = c.Start() }, func() int {
		if started {
			return http.StatusOK
		}
		return http.StatusConflict
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.command(w, r, func(c *network.Controller) { c.Reset() }, nil)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	v, err := strconv.ParseFloat(r.URL.Query().Get("value"), 64)
	if err != nil {
		http.Error(w, "invalid 'value' parameter", http.StatusBadRequest)
		return
	}
	s.command(w, r, func(c *network.Controller) {
		applied := c.SetSpeed(v)
		if s.Metrics != nil {
			s.Metrics.Speed.Set(applied)
		}
	}, nil)
}

// command runs fn on the loop and replies with the resulting state.
func (s *Server) command(w http.ResponseWriter, r *http.Request, fn func(*network.Controller), status func() int) {
	if err := s.Loop.Do(r.Context(), fn); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	code := http.StatusOK
	if status != nil {
		code = status()
	}
	snap := s.Loop.Snapshot()
	writeJSONStatus(w, code, toStateJSON(snap, s.viewport(snap)))
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
